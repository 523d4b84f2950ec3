package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SwapHands/item_trading_app/internal/apperrors"
	"github.com/SwapHands/item_trading_app/internal/core/domain"
	portsrepo "github.com/SwapHands/item_trading_app/internal/core/ports/repositories"
	portssvc "github.com/SwapHands/item_trading_app/internal/core/ports/services"
	"github.com/SwapHands/item_trading_app/internal/dto"
	"github.com/SwapHands/item_trading_app/internal/middleware"
)

// itemService manages the catalogue, the approval workflow and wishlists.
type itemService struct {
	store portsrepo.Store
}

func NewItemService(store portsrepo.Store) portssvc.ItemSvc {
	return &itemService{store: store}
}

var _ portssvc.ItemSvc = (*itemService)(nil)

func (s *itemService) AddItem(ctx context.Context, ownerID int, req dto.AddItemRequest) (*domain.Item, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := portsrepo.GetAs[*domain.User](ctx, s.store, ownerID); err != nil {
		return nil, err
	}

	item, err := portsrepo.CreateOne(ctx, s.store, domain.NewItem(req.Name, req.Description, ownerID, req.Price, req.ForSale))
	if err != nil {
		return nil, err
	}

	if err := s.tagItem(ctx, item.ItemID, req.TagNames); err != nil {
		return nil, err
	}

	logger.Info("Item submitted for approval", slog.Int("item_id", item.ItemID), slog.Int("owner_id", ownerID))
	return item, nil
}

// tagItem attaches the item to each named tag, creating tags on first use.
func (s *itemService) tagItem(ctx context.Context, itemID int, tagNames []string) error {
	if len(tagNames) == 0 {
		return nil
	}

	tags, err := portsrepo.AllAs[*domain.Tag](ctx, s.store)
	if err != nil {
		return err
	}
	byName := make(map[string]*domain.Tag, len(tags))
	for _, tag := range tags {
		byName[tag.Name] = tag
	}

	for _, name := range tagNames {
		if tag, ok := byName[name]; ok {
			tag.ItemIDs = append(tag.ItemIDs, itemID)
			if err := portsrepo.UpdateOne(ctx, s.store, tag); err != nil {
				return err
			}
			continue
		}
		tag, err := portsrepo.CreateOne(ctx, s.store, domain.NewTag(name, []int{itemID}))
		if err != nil {
			return err
		}
		byName[name] = tag
	}
	return nil
}

func (s *itemService) ApproveItem(ctx context.Context, itemID int) error {
	item, err := portsrepo.GetAs[*domain.Item](ctx, s.store, itemID)
	if err != nil {
		return err
	}
	item.Visible = true
	item.SoftDeleted = false
	if err := portsrepo.UpdateOne(ctx, s.store, item); err != nil {
		return err
	}
	middleware.GetLoggerFromCtx(ctx).Info("Item approved", slog.Int("item_id", itemID))
	return nil
}

func (s *itemService) DisapproveItem(ctx context.Context, itemID int) error {
	item, err := portsrepo.GetAs[*domain.Item](ctx, s.store, itemID)
	if err != nil {
		return err
	}
	item.SoftDeleted = true
	if err := portsrepo.UpdateOne(ctx, s.store, item); err != nil {
		return err
	}
	middleware.GetLoggerFromCtx(ctx).Info("Item removed from catalogue", slog.Int("item_id", itemID))
	return nil
}

func (s *itemService) InitWishlist(ctx context.Context, ownerID int) (*domain.Wishlist, error) {
	lists, err := portsrepo.AllAs[*domain.Wishlist](ctx, s.store)
	if err != nil {
		return nil, err
	}
	for _, w := range lists {
		if w.OwnerID == ownerID {
			return w, nil
		}
	}
	return portsrepo.CreateOne(ctx, s.store, domain.NewWishlist(ownerID))
}

func (s *itemService) AddToWishlist(ctx context.Context, userID, itemID int) error {
	if _, err := portsrepo.GetAs[*domain.Item](ctx, s.store, itemID); err != nil {
		return err
	}
	w, err := s.InitWishlist(ctx, userID)
	if err != nil {
		return err
	}
	if !w.Add(itemID) {
		return fmt.Errorf("%w: item %d already wishlisted", apperrors.ErrDuplicate, itemID)
	}
	return portsrepo.UpdateOne(ctx, s.store, w)
}

func (s *itemService) RemoveFromWishlist(ctx context.Context, userID, itemID int) error {
	w, err := s.InitWishlist(ctx, userID)
	if err != nil {
		return err
	}
	if !w.Contains(itemID) {
		return fmt.Errorf("%w: item %d is not on the wishlist", apperrors.ErrNotFound, itemID)
	}
	w.Remove(itemID)
	return portsrepo.UpdateOne(ctx, s.store, w)
}

func (s *itemService) Browsable(ctx context.Context, userID int) ([]*domain.Item, error) {
	return NewItemQuery(s.store).
		OnlyApproved().
		NotDeleted().
		Unreserved().
		HeldByOwner().
		OwnedByUnfrozenUser().
		OwnedByUnVacationUser().
		ExceptOwnedBy(userID).
		Items(ctx)
}

func (s *itemService) Recommended(ctx context.Context, userID int) ([]*domain.Item, error) {
	return NewItemQuery(s.store).
		OnlyApproved().
		NotDeleted().
		Unreserved().
		HeldByOwner().
		OwnedByUnfrozenUser().
		OwnedByUnVacationUser().
		ExceptOwnedBy(userID).
		InWishlistOf(userID).
		Items(ctx)
}

func (s *itemService) Wishlist(ctx context.Context, userID int) ([]*domain.Item, error) {
	return NewItemQuery(s.store).
		NotDeleted().
		InWishlistOf(userID).
		Items(ctx)
}

func (s *itemService) MyItems(ctx context.Context, userID int) ([]*domain.Item, error) {
	return NewItemQuery(s.store).
		NotDeleted().
		OnlyOwnedBy(userID).
		Items(ctx)
}

func (s *itemService) PendingApproval(ctx context.Context) ([]*domain.Item, error) {
	items, err := portsrepo.AllAs[*domain.Item](ctx, s.store)
	if err != nil {
		return nil, err
	}
	var out []*domain.Item
	for _, item := range items {
		if !item.Visible && !item.SoftDeleted {
			out = append(out, item)
		}
	}
	return out, nil
}
