package dto

import (
	"strconv"
	"strings"
	"time"
)

// Trade type values accepted by InitiateTradeRequest.
const (
	TradeTypeOneWay = "oneWay"
	TradeTypeTwoWay = "twoWay"
	TradeTypeSell   = "sell"
)

// Trade duration values accepted by InitiateTradeRequest.
const (
	TradeDurationPermanent = "permanent"
	TradeDurationTemporary = "temporary"
)

// InitiateTradeRequest carries everything needed to set up a transaction:
// the trade itself plus its first meeting proposal.
type InitiateTradeRequest struct {
	LenderID   int `json:"lenderID" binding:"required"`
	BorrowerID int `json:"borrowerID" binding:"required"`

	// Items the borrower receives from the lender.
	BorrowedItemIDs []int `json:"borrowedItemIDs" binding:"required"`
	// Items the lender receives back in a two-way trade. Empty for
	// one-way trades and sales.
	LentItemIDs []int `json:"lentItemIDs"`

	TradeType     string `json:"tradeType" binding:"required"`
	TradeDuration string `json:"tradeDuration" binding:"required"`
	// DurationMonths is how long a temporary trade lasts before the
	// return meeting. Ignored for permanent trades.
	DurationMonths int `json:"durationMonths"`

	MeetingTime     time.Time `json:"meetingTime" binding:"required"`
	MeetingLocation string    `json:"meetingLocation" binding:"required"`
}

// ToArgs flattens the request into the string arguments an auditable action
// takes.
func (r InitiateTradeRequest) ToArgs() map[string]string {
	return map[string]string{
		"lenderID":        strconv.Itoa(r.LenderID),
		"borrowerID":      strconv.Itoa(r.BorrowerID),
		"borrowedItemIDs": joinIDs(r.BorrowedItemIDs),
		"lentItemIDs":     joinIDs(r.LentItemIDs),
		"tradeType":       r.TradeType,
		"tradeDuration":   r.TradeDuration,
		"durationMonths":  strconv.Itoa(r.DurationMonths),
		"meetingTime":     r.MeetingTime.Format(time.RFC3339),
		"meetingLocation": r.MeetingLocation,
	}
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

type EditMeetingRequest struct {
	Time     time.Time `json:"time" binding:"required"`
	Location string    `json:"location" binding:"required"`
}

type TransactionResponse struct {
	TransactionID int   `json:"transactionID"`
	TradeIDs      []int `json:"tradeIDs"`
	MeetingIDs    []int `json:"meetingIDs"`
	Permanent     bool  `json:"permanent"`
	OneWay        bool  `json:"oneWay"`
}

type MeetingResponse struct {
	MeetingID     int       `json:"meetingID"`
	Time          time.Time `json:"time"`
	Location      string    `json:"location"`
	Agreed        bool      `json:"agreed"`
	Complete      bool      `json:"complete"`
	SecondMeeting bool      `json:"secondMeeting"`
	LastEditorID  int       `json:"lastEditorID"`
}

// FrequencyListResponse pairs entity ids with how often they appear,
// ordered most frequent first.
type FrequencyListResponse struct {
	IDs         []int `json:"ids"`
	Frequencies []int `json:"frequencies"`
}
