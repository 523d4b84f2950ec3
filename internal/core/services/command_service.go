package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SwapHands/item_trading_app/internal/apperrors"
	"github.com/SwapHands/item_trading_app/internal/core/domain"
	portsrepo "github.com/SwapHands/item_trading_app/internal/core/ports/repositories"
	portssvc "github.com/SwapHands/item_trading_app/internal/core/ports/services"
	"github.com/SwapHands/item_trading_app/internal/middleware"
)

// Action is a named, auditable operation. Execute returns the history record
// to persist; Undo reverses a previously executed record. CanUndo inspects the
// current entity state and reports whether undoing the record now would leave
// the system consistent; Undo is never run when it reports false.
type Action interface {
	Name() string
	CanUndo(ctx context.Context, record *domain.History) (bool, error)
	Execute(ctx context.Context, args map[string]string) (*domain.History, error)
	Undo(ctx context.Context, record *domain.History) error
}

// commandService routes named actions through the history log.
type commandService struct {
	store   portsrepo.Store
	actions map[string]Action
}

func NewCommandService(store portsrepo.Store, actions ...Action) portssvc.CommandSvc {
	byName := make(map[string]Action, len(actions))
	for _, a := range actions {
		byName[a.Name()] = a
	}
	return &commandService{store: store, actions: byName}
}

var _ portssvc.CommandSvc = (*commandService)(nil)

func (s *commandService) Do(ctx context.Context, actionName string, args map[string]string) (*domain.History, error) {
	action, ok := s.actions[actionName]
	if !ok {
		return nil, fmt.Errorf("%w: unknown action %q", apperrors.ErrNotFound, actionName)
	}

	record, err := action.Execute(ctx, args)
	if err != nil {
		return nil, err
	}

	record, err = portsrepo.CreateOne(ctx, s.store, record)
	if err != nil {
		return nil, err
	}
	middleware.GetLoggerFromCtx(ctx).Info("Action executed",
		slog.String("action", actionName),
		slog.Int("history_id", record.HistoryID),
	)
	return record, nil
}

func (s *commandService) AllHistory(ctx context.Context) ([]*domain.History, error) {
	return portsrepo.AllAs[*domain.History](ctx, s.store)
}

func (s *commandService) UndoPermissions(ctx context.Context) ([]*domain.History, error) {
	records, err := portsrepo.AllAs[*domain.History](ctx, s.store)
	if err != nil {
		return nil, err
	}
	var undoable []*domain.History
	for _, h := range records {
		if h.Undone {
			continue
		}
		action, ok := s.actions[h.ActionName]
		if !ok {
			continue
		}
		can, err := action.CanUndo(ctx, h)
		if err != nil {
			return nil, err
		}
		if can {
			undoable = append(undoable, h)
		}
	}
	return undoable, nil
}

func (s *commandService) Undo(ctx context.Context, historyID int) error {
	record, err := portsrepo.GetAs[*domain.History](ctx, s.store, historyID)
	if err != nil {
		return err
	}
	if record.Undone {
		return fmt.Errorf("%w: action %d was already undone", apperrors.ErrValidation, historyID)
	}

	action, ok := s.actions[record.ActionName]
	if !ok {
		return fmt.Errorf("%w: action %q cannot be undone", apperrors.ErrValidation, record.ActionName)
	}
	can, err := action.CanUndo(ctx, record)
	if err != nil {
		return err
	}
	if !can {
		return fmt.Errorf("%w: action %q cannot be undone in its current state", apperrors.ErrValidation, record.ActionName)
	}

	if err := action.Undo(ctx, record); err != nil {
		return &CommandExecutionError{Action: record.ActionName, Cause: err}
	}

	record.Undone = true
	record.DisplayString += " (undone)"
	if err := portsrepo.UpdateOne(ctx, s.store, record); err != nil {
		return err
	}
	middleware.GetLoggerFromCtx(ctx).Info("Action undone",
		slog.String("action", record.ActionName),
		slog.Int("history_id", historyID),
	)
	return nil
}
