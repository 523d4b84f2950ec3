package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/SwapHands/item_trading_app/internal/apperrors"
	"github.com/SwapHands/item_trading_app/internal/core/domain"
	portsrepo "github.com/SwapHands/item_trading_app/internal/core/ports/repositories"
	portssvc "github.com/SwapHands/item_trading_app/internal/core/ports/services"
)

// approveItemAction makes an item visible in the catalogue; undoing hides it
// again without soft deleting it, so it goes back to the approval queue.
type approveItemAction struct {
	store   portsrepo.Store
	itemSvc portssvc.ItemSvc
}

func NewApproveItemAction(store portsrepo.Store, itemSvc portssvc.ItemSvc) Action {
	return &approveItemAction{store: store, itemSvc: itemSvc}
}

func (a *approveItemAction) Name() string { return domain.ActionApproveItem }

// CanUndo requires the item to still be approved, home with an unfrozen owner
// and outside any live transaction. Pulling an item out of the catalogue while
// it is reserved or on loan would strand the trade built on it.
func (a *approveItemAction) CanUndo(ctx context.Context, record *domain.History) (bool, error) {
	itemID, err := record.Int("itemID")
	if err != nil {
		return false, err
	}
	item, err := portsrepo.GetAs[*domain.Item](ctx, a.store, itemID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if !item.Visible || item.SoftDeleted || item.Reserved || item.HolderID != item.OwnerID {
		return false, nil
	}
	owner, err := portsrepo.GetAs[*domain.User](ctx, a.store, item.OwnerID)
	if err != nil {
		return false, err
	}
	return owner.Status != domain.StatusFrozen && owner.Status != domain.StatusRequestUnfreeze, nil
}

func (a *approveItemAction) Execute(ctx context.Context, args map[string]string) (*domain.History, error) {
	itemID, err := argInt(args, "itemID")
	if err != nil {
		return nil, err
	}

	if err := a.itemSvc.ApproveItem(ctx, itemID); err != nil {
		return nil, err
	}

	h := domain.NewHistory(domain.ActionApproveItem)
	h.SetInt("itemID", itemID)
	h.DisplayString = fmt.Sprintf("item %d approved for the catalogue", itemID)
	return h, nil
}

func (a *approveItemAction) Undo(ctx context.Context, record *domain.History) error {
	itemID, err := record.Int("itemID")
	if err != nil {
		return err
	}
	item, err := portsrepo.GetAs[*domain.Item](ctx, a.store, itemID)
	if err != nil {
		return err
	}
	item.Visible = false
	return portsrepo.UpdateOne(ctx, a.store, item)
}
