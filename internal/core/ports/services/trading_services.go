package services

import (
	"context"
	"time"

	"github.com/SwapHands/item_trading_app/internal/core/domain"
	"github.com/SwapHands/item_trading_app/internal/dto"
)

// TransactionSvc drives a transaction from initiation through its meetings to
// completion or cancellation.
type TransactionSvc interface {
	// BuildTransaction assembles the trades, the meetings and the
	// transaction for a request and reserves the traded items.
	BuildTransaction(ctx context.Context, req dto.InitiateTradeRequest) (*domain.Transaction, error)
	// PerformMeeting records that a meeting took place and advances the
	// transaction: a permanent exchange completes it, a temporary one
	// either swaps the items out on the first meeting or returns them and
	// completes on the second.
	PerformMeeting(ctx context.Context, transactionID, meetingID int) error
	// DeleteTransaction cancels a transaction, removing its trades and
	// meetings and releasing the reserved items.
	DeleteTransaction(ctx context.Context, transactionID int) error
	// CheckAgree reports whether every meeting of the transaction has been
	// agreed to.
	CheckAgree(ctx context.Context, transactionID int) (bool, error)

	// FrequentPartners returns the ids of the users this user has traded
	// with most, and how many shared transactions each has, most frequent
	// first. At most n entries.
	FrequentPartners(ctx context.Context, userID, n int) ([]int, []int, error)
	// MostTradedItems is the same ranking over every item referenced by
	// any trade, across all users.
	MostTradedItems(ctx context.Context, n int) ([]int, []int, error)
}

// MeetingSvc handles the negotiation of a single meeting.
type MeetingSvc interface {
	// EditMeeting proposes a new time and place. It reports whether the
	// edited meeting is the first of its transaction; a return meeting's
	// date is system-fixed, so only its location proposal is taken.
	EditMeeting(ctx context.Context, meetingID, editorID int, t time.Time, location string) (bool, error)
	// AgreeToMeeting locks the current proposal. Agreeing twice is a no-op.
	AgreeToMeeting(ctx context.Context, meetingID, userID int) error
	// MarkConducted records that the user showed up to an agreed meeting.
	MarkConducted(ctx context.Context, meetingID, userID int) error

	// UsersEditTurn lists the meetings where it is this user's turn to
	// respond to the other party's proposal.
	UsersEditTurn(ctx context.Context, userID int) ([]int, error)
	// EditPermissions reports whether the user may currently edit the
	// meeting.
	EditPermissions(ctx context.Context, meetingID, userID int) (bool, error)
	// EditsExhausted reports whether any editor has run out of edits.
	EditsExhausted(ctx context.Context, meetingID int) (bool, error)
	// ConfirmPermissions maps each agreed, passed and still unconfirmed
	// meeting to the users who still owe a confirmation.
	ConfirmPermissions(ctx context.Context) (map[int][]int, error)
}

// RuleSvc evaluates the trading policy rules against a user's activity.
type RuleSvc interface {
	// Violate reports whether the named rule is currently violated by the
	// user, given the restriction configured for it.
	Violate(ctx context.Context, ruleName string, userID int) (bool, error)
	Rules() []domain.SystemRule
}
