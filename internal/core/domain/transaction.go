package domain

// Transaction aggregates the trades and meetings of one negotiated exchange.
// One trade means a one-way exchange, two trades a two-way swap; one meeting
// means a permanent transfer, two a loan with a return meeting.
type Transaction struct {
	TransactionID int   `json:"transactionID"`
	TradeIDs      []int `json:"tradeIDs"`
	MeetingIDs    []int `json:"meetingIDs"`
}

// NewTransaction groups freshly persisted trades and meetings.
func NewTransaction(tradeIDs, meetingIDs []int) *Transaction {
	return &Transaction{TradeIDs: tradeIDs, MeetingIDs: meetingIDs}
}

// OneWay reports whether only a single trade is involved.
func (t *Transaction) OneWay() bool {
	return len(t.TradeIDs) == 1
}

// Permanent reports whether this transaction transfers title. The original
// system distinguishes a permanent transfer from a loan purely by the meeting
// count, so a one-meeting transaction is always treated as permanent.
func (t *Transaction) Permanent() bool {
	return len(t.MeetingIDs) < 2
}

func (t *Transaction) Key() int      { return t.TransactionID }
func (t *Transaction) SetKey(id int) { t.TransactionID = id }
func (t *Transaction) Kind() Kind    { return KindTransaction }

func (t *Transaction) Relations() map[string][]int {
	return map[string][]int{
		"trades":   t.TradeIDs,
		"meetings": t.MeetingIDs,
	}
}

func (t *Transaction) Clone() Entity {
	c := *t
	c.TradeIDs = cloneInts(t.TradeIDs)
	c.MeetingIDs = cloneInts(t.MeetingIDs)
	return &c
}
