package domain

// Trade records one side of an exchange: the lender hands the listed items to
// the borrower. A two-way transaction holds two trades with the roles swapped.
type Trade struct {
	TradeID    int   `json:"tradeID"`
	LenderID   int   `json:"lenderID"`
	BorrowerID int   `json:"borrowerID"`
	ItemIDs    []int `json:"itemIDs"`
	Complete   bool  `json:"complete"`
	Sell       bool  `json:"sell"`
}

// NewTrade builds an incomplete trade over the given items.
func NewTrade(lenderID, borrowerID int, itemIDs []int) *Trade {
	return &Trade{
		LenderID:   lenderID,
		BorrowerID: borrowerID,
		ItemIDs:    itemIDs,
	}
}

// Involves reports whether the user takes part in this trade on either side.
func (t *Trade) Involves(userID int) bool {
	return t.LenderID == userID || t.BorrowerID == userID
}

func (t *Trade) Key() int      { return t.TradeID }
func (t *Trade) SetKey(id int) { t.TradeID = id }
func (t *Trade) Kind() Kind    { return KindTrade }

func (t *Trade) Relations() map[string][]int {
	return map[string][]int{"items": t.ItemIDs}
}

func (t *Trade) Clone() Entity {
	c := *t
	c.ItemIDs = cloneInts(t.ItemIDs)
	return &c
}
