package services

import (
	"context"

	"github.com/SwapHands/item_trading_app/internal/core/domain"
	"github.com/SwapHands/item_trading_app/internal/dto"
)

// ItemSvc manages the item catalogue and per-user wishlists.
type ItemSvc interface {
	// AddItem creates an item for the owner. The item stays invisible
	// until an admin approves it.
	AddItem(ctx context.Context, ownerID int, req dto.AddItemRequest) (*domain.Item, error)
	ApproveItem(ctx context.Context, itemID int) error
	// DisapproveItem soft deletes an item so it drops out of every listing.
	DisapproveItem(ctx context.Context, itemID int) error

	InitWishlist(ctx context.Context, ownerID int) (*domain.Wishlist, error)
	AddToWishlist(ctx context.Context, userID, itemID int) error
	RemoveFromWishlist(ctx context.Context, userID, itemID int) error

	// Browsable lists approved, unreserved items owned by active users,
	// excluding the viewer's own.
	Browsable(ctx context.Context, userID int) ([]*domain.Item, error)
	// Recommended narrows Browsable to items on the viewer's wishlist.
	Recommended(ctx context.Context, userID int) ([]*domain.Item, error)
	Wishlist(ctx context.Context, userID int) ([]*domain.Item, error)
	MyItems(ctx context.Context, userID int) ([]*domain.Item, error)
	// PendingApproval lists items still waiting for an admin decision.
	PendingApproval(ctx context.Context) ([]*domain.Item, error)
}
