package services

import (
	"context"

	"github.com/SwapHands/item_trading_app/internal/core/domain"
)

// CommandSvc runs named actions through a history log so admins can review
// and selectively undo them.
type CommandSvc interface {
	// Do executes the named action and returns its history record, which
	// carries the ids the action produced.
	Do(ctx context.Context, actionName string, args map[string]string) (*domain.History, error)
	AllHistory(ctx context.Context) ([]*domain.History, error)
	// UndoPermissions lists the history records that can still be undone.
	UndoPermissions(ctx context.Context) ([]*domain.History, error)
	Undo(ctx context.Context, historyID int) error
}

// AlertSvc surfaces the situations that need an admin's attention.
type AlertSvc interface {
	// FreezeSuggestions lists not-yet-frozen users who violate any
	// trading rule.
	FreezeSuggestions(ctx context.Context) ([]int, error)
	// UnfreezeRequests lists frozen users who asked to be unfrozen.
	UnfreezeRequests(ctx context.Context) ([]int, error)
	// AddItemRequests lists items awaiting approval.
	AddItemRequests(ctx context.Context) ([]*domain.Item, error)
}
