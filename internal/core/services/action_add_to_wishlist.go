package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/SwapHands/item_trading_app/internal/apperrors"
	"github.com/SwapHands/item_trading_app/internal/core/domain"
	portsrepo "github.com/SwapHands/item_trading_app/internal/core/ports/repositories"
	portssvc "github.com/SwapHands/item_trading_app/internal/core/ports/services"
)

// argInt reads a required integer argument.
func argInt(args map[string]string, key string) (int, error) {
	v, err := strconv.Atoi(args[key])
	if err != nil {
		return 0, fmt.Errorf("%w: argument %q must be an integer", apperrors.ErrValidation, key)
	}
	return v, nil
}

// addToWishlistAction puts an item on a user's wishlist; undoing takes it off
// again.
type addToWishlistAction struct {
	store   portsrepo.Store
	itemSvc portssvc.ItemSvc
}

func NewAddToWishlistAction(store portsrepo.Store, itemSvc portssvc.ItemSvc) Action {
	return &addToWishlistAction{store: store, itemSvc: itemSvc}
}

func (a *addToWishlistAction) Name() string { return domain.ActionAddToWishlist }

// CanUndo requires the item to still be on the user's wishlist; removing it
// again after the user already took it off would undo someone else's change.
func (a *addToWishlistAction) CanUndo(ctx context.Context, record *domain.History) (bool, error) {
	userID, err := record.Int("userID")
	if err != nil {
		return false, err
	}
	itemID, err := record.Int("itemID")
	if err != nil {
		return false, err
	}
	lists, err := portsrepo.AllAs[*domain.Wishlist](ctx, a.store)
	if err != nil {
		return false, err
	}
	for _, w := range lists {
		if w.OwnerID == userID {
			return w.Contains(itemID), nil
		}
	}
	return false, nil
}

func (a *addToWishlistAction) Execute(ctx context.Context, args map[string]string) (*domain.History, error) {
	userID, err := argInt(args, "userID")
	if err != nil {
		return nil, err
	}
	itemID, err := argInt(args, "itemID")
	if err != nil {
		return nil, err
	}

	if err := a.itemSvc.AddToWishlist(ctx, userID, itemID); err != nil {
		return nil, err
	}

	h := domain.NewHistory(domain.ActionAddToWishlist)
	h.SetInt("userID", userID)
	h.SetInt("itemID", itemID)
	h.DisplayString = fmt.Sprintf("user %d added item %d to their wishlist", userID, itemID)
	return h, nil
}

func (a *addToWishlistAction) Undo(ctx context.Context, record *domain.History) error {
	userID, err := record.Int("userID")
	if err != nil {
		return err
	}
	itemID, err := record.Int("itemID")
	if err != nil {
		return err
	}
	return a.itemSvc.RemoveFromWishlist(ctx, userID, itemID)
}
