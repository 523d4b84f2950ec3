package services

import (
	"context"
	"time"

	"github.com/SwapHands/item_trading_app/internal/core/domain"
	portsrepo "github.com/SwapHands/item_trading_app/internal/core/ports/repositories"
)

// defaultReturnOffsetMonths is how far after the exchange the return meeting
// of a temporary trade is scheduled when the request gives no duration.
const defaultReturnOffsetMonths = 1

// MeetingBuilder assembles the meetings of a single transaction: one meeting
// for a permanent exchange, an exchange plus a derived return meeting for a
// temporary one. Like TradeBuilder it lives for one request.
type MeetingBuilder struct {
	proposerID int
	otherID    int

	t         time.Time
	hasTime   bool
	locations []string

	permanent      bool
	durationMonths int
}

// NewMeetingBuilder starts a builder for a meeting proposed by proposerID to
// otherID. Builders default to a permanent, single-meeting exchange.
func NewMeetingBuilder(proposerID, otherID int) *MeetingBuilder {
	return &MeetingBuilder{
		proposerID: proposerID,
		otherID:    otherID,
		permanent:  true,
	}
}

// FillTime sets the first meeting's date. Only one date is accepted: the
// return meeting's date is derived from the duration, never user supplied.
func (b *MeetingBuilder) FillTime(t time.Time) error {
	if b.hasTime {
		return ErrTooManyTimes
	}
	b.t = t
	b.hasTime = true
	return nil
}

// FillLocation adds a meeting location. A permanent exchange takes one; a
// temporary exchange may take a second for the return meeting, which
// otherwise reuses the first.
func (b *MeetingBuilder) FillLocation(location string) error {
	max := 1
	if !b.permanent {
		max = 2
	}
	if len(b.locations) >= max {
		return ErrTooManyLocations
	}
	b.locations = append(b.locations, location)
	return nil
}

func (b *MeetingBuilder) Permanent() *MeetingBuilder {
	b.permanent = true
	return b
}

// Temporary schedules a return meeting months after the exchange.
func (b *MeetingBuilder) Temporary(months int) *MeetingBuilder {
	b.permanent = false
	if months <= 0 {
		months = defaultReturnOffsetMonths
	}
	b.durationMonths = months
	return b
}

// Build persists the meetings and returns them with keys assigned. The first
// meeting carries the proposer's opening proposal. The return meeting of a
// temporary exchange has a derived, fixed date, but its location is negotiated
// like any other, so it starts un-agreed.
func (b *MeetingBuilder) Build(ctx context.Context, store portsrepo.Store) ([]*domain.Meeting, error) {
	first := domain.NewMeeting(b.t, b.locations[0], b.proposerID)
	first.RegisterAttendees(b.proposerID, b.otherID)
	meetings := []*domain.Meeting{first}

	if !b.permanent {
		location := b.locations[0]
		if len(b.locations) > 1 {
			location = b.locations[1]
		}
		second := domain.NewMeeting(b.t.AddDate(0, b.durationMonths, 0), location, b.proposerID)
		second.RegisterAttendees(b.proposerID, b.otherID)
		second.SecondMeeting = true
		meetings = append(meetings, second)
	}

	return portsrepo.CreateAll(ctx, store, meetings)
}
