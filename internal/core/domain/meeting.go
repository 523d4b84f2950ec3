package domain

import "time"

// Meeting is a negotiated real-world date and location for exchanging items.
// Every proposal is appended to the history slices, so the latest entry is the
// current proposal and an editor's occurrence count is their edit count.
type Meeting struct {
	MeetingID     int          `json:"meetingID"`
	Times         []time.Time  `json:"times"`
	Locations     []string     `json:"locations"`
	EditorIDs     []int        `json:"editorIDs"`
	Agreed        bool         `json:"agreed"`
	ConfirmedBy   map[int]bool `json:"confirmedBy"`
	SecondMeeting bool         `json:"secondMeeting"`
}

// NewMeeting opens a negotiation with the proposer's initial date and location.
func NewMeeting(t time.Time, location string, editorID int) *Meeting {
	return &Meeting{
		Times:       []time.Time{t},
		Locations:   []string{location},
		EditorIDs:   []int{editorID},
		ConfirmedBy: map[int]bool{},
	}
}

// Time returns the currently proposed date.
func (m *Meeting) Time() time.Time {
	return m.Times[len(m.Times)-1]
}

// Location returns the currently proposed location.
func (m *Meeting) Location() string {
	return m.Locations[len(m.Locations)-1]
}

// EditTime appends a new proposed date.
func (m *Meeting) EditTime(t time.Time) {
	m.Times = append(m.Times, t)
}

// EditLocation appends a new proposed location.
func (m *Meeting) EditLocation(location string) {
	m.Locations = append(m.Locations, location)
}

// LastEditor returns the user who made the current proposal.
func (m *Meeting) LastEditor() int {
	return m.EditorIDs[len(m.EditorIDs)-1]
}

// SetLastEditor records the user behind the current proposal.
func (m *Meeting) SetLastEditor(userID int) {
	m.EditorIDs = append(m.EditorIDs, userID)
}

// IsLastEditor reports whether the user made the current proposal.
func (m *Meeting) IsLastEditor(userID int) bool {
	return m.LastEditor() == userID
}

// EditCount returns how often the user appears in the editor history.
func (m *Meeting) EditCount(userID int) int {
	n := 0
	for _, id := range m.EditorIDs {
		if id == userID {
			n++
		}
	}
	return n
}

// MarkAgreed freezes the current proposal; idempotent.
func (m *Meeting) MarkAgreed() {
	m.Agreed = true
}

// RegisterAttendees lists the users whose confirmation the meeting needs
// before it counts as complete.
func (m *Meeting) RegisterAttendees(userIDs ...int) {
	if m.ConfirmedBy == nil {
		m.ConfirmedBy = map[int]bool{}
	}
	for _, id := range userIDs {
		if !m.ConfirmedBy[id] {
			m.ConfirmedBy[id] = false
		}
	}
}

// MarkConfirmed records that the user attested the meeting took place.
func (m *Meeting) MarkConfirmed(userID int) {
	if m.ConfirmedBy == nil {
		m.ConfirmedBy = map[int]bool{}
	}
	m.ConfirmedBy[userID] = true
}

// ConfirmedByUser reports whether the user has confirmed attendance.
func (m *Meeting) ConfirmedByUser(userID int) bool {
	return m.ConfirmedBy[userID]
}

// IsComplete reports whether every registered attendee has confirmed the
// meeting took place. A meeting with no registered attendees is never
// complete.
func (m *Meeting) IsComplete() bool {
	if len(m.ConfirmedBy) == 0 {
		return false
	}
	for _, confirmed := range m.ConfirmedBy {
		if !confirmed {
			return false
		}
	}
	return true
}

// HasPassed reports whether the proposed date lies strictly before today.
func (m *Meeting) HasPassed() bool {
	return dateOf(time.Now()).After(dateOf(m.Time()))
}

func dateOf(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

func (m *Meeting) Key() int      { return m.MeetingID }
func (m *Meeting) SetKey(id int) { m.MeetingID = id }
func (m *Meeting) Kind() Kind    { return KindMeeting }

// Relations is empty: the transaction side owns the forward id list, meetings
// are found from a transaction, and transactions from a meeting via the
// reverse scan.
func (m *Meeting) Relations() map[string][]int { return nil }

func (m *Meeting) Clone() Entity {
	c := *m
	c.Times = append([]time.Time(nil), m.Times...)
	c.Locations = append([]string(nil), m.Locations...)
	c.EditorIDs = cloneInts(m.EditorIDs)
	c.ConfirmedBy = make(map[int]bool, len(m.ConfirmedBy))
	for id, ok := range m.ConfirmedBy {
		c.ConfirmedBy[id] = ok
	}
	return &c
}
