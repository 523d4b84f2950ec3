package services

import (
	"context"

	"github.com/SwapHands/item_trading_app/internal/core/domain"
	portsrepo "github.com/SwapHands/item_trading_app/internal/core/ports/repositories"
)

// ItemQuery is a chainable filter over the item catalogue, built per call
// site like TransactionQuery. Predicates that depend on other kinds (users,
// wishlists, tags) load what they need lazily and cache it for the rest of
// the query run.
type ItemQuery struct {
	store portsrepo.Store
	preds []func(ctx context.Context, item *domain.Item) (bool, error)

	users     map[int]*domain.User
	wishlists map[int]*domain.Wishlist
}

func NewItemQuery(store portsrepo.Store) *ItemQuery {
	return &ItemQuery{store: store}
}

func (q *ItemQuery) where(p func(ctx context.Context, item *domain.Item) (bool, error)) *ItemQuery {
	q.preds = append(q.preds, p)
	return q
}

func (q *ItemQuery) owner(ctx context.Context, ownerID int) (*domain.User, error) {
	if q.users == nil {
		q.users = make(map[int]*domain.User)
	}
	if u, ok := q.users[ownerID]; ok {
		return u, nil
	}
	u, err := portsrepo.GetAs[*domain.User](ctx, q.store, ownerID)
	if err != nil {
		return nil, err
	}
	q.users[ownerID] = u
	return u, nil
}

func (q *ItemQuery) wishlistOf(ctx context.Context, userID int) (*domain.Wishlist, error) {
	if q.wishlists == nil {
		q.wishlists = make(map[int]*domain.Wishlist)
	}
	if w, ok := q.wishlists[userID]; ok {
		return w, nil
	}
	lists, err := portsrepo.AllAs[*domain.Wishlist](ctx, q.store)
	if err != nil {
		return nil, err
	}
	for _, w := range lists {
		q.wishlists[w.OwnerID] = w
	}
	if w, ok := q.wishlists[userID]; ok {
		return w, nil
	}
	// No wishlist yet behaves like an empty one.
	w := domain.NewWishlist(userID)
	q.wishlists[userID] = w
	return w, nil
}

// OnlyApproved keeps items an admin has made visible.
func (q *ItemQuery) OnlyApproved() *ItemQuery {
	return q.where(func(_ context.Context, item *domain.Item) (bool, error) {
		return item.Visible, nil
	})
}

func (q *ItemQuery) NotDeleted() *ItemQuery {
	return q.where(func(_ context.Context, item *domain.Item) (bool, error) {
		return !item.SoftDeleted, nil
	})
}

func (q *ItemQuery) OnlyDeleted() *ItemQuery {
	return q.where(func(_ context.Context, item *domain.Item) (bool, error) {
		return item.SoftDeleted, nil
	})
}

// HeldByOwner keeps items that are currently home, not out on loan.
func (q *ItemQuery) HeldByOwner() *ItemQuery {
	return q.where(func(_ context.Context, item *domain.Item) (bool, error) {
		return item.HolderID == item.OwnerID, nil
	})
}

func (q *ItemQuery) OwnedByUnfrozenUser() *ItemQuery {
	return q.where(func(ctx context.Context, item *domain.Item) (bool, error) {
		owner, err := q.owner(ctx, item.OwnerID)
		if err != nil {
			return false, err
		}
		return owner.Status != domain.StatusFrozen && owner.Status != domain.StatusRequestUnfreeze, nil
	})
}

func (q *ItemQuery) OwnedByUnVacationUser() *ItemQuery {
	return q.where(func(ctx context.Context, item *domain.Item) (bool, error) {
		owner, err := q.owner(ctx, item.OwnerID)
		if err != nil {
			return false, err
		}
		return owner.Status != domain.StatusVacation, nil
	})
}

func (q *ItemQuery) Unreserved() *ItemQuery {
	return q.where(func(_ context.Context, item *domain.Item) (bool, error) {
		return !item.Reserved, nil
	})
}

func (q *ItemQuery) ForSale() *ItemQuery {
	return q.where(func(_ context.Context, item *domain.Item) (bool, error) {
		return item.ForSale, nil
	})
}

func (q *ItemQuery) InWishlistOf(userID int) *ItemQuery {
	return q.where(func(ctx context.Context, item *domain.Item) (bool, error) {
		w, err := q.wishlistOf(ctx, userID)
		if err != nil {
			return false, err
		}
		return w.Contains(item.ItemID), nil
	})
}

func (q *ItemQuery) NotInWishlistOf(userID int) *ItemQuery {
	return q.where(func(ctx context.Context, item *domain.Item) (bool, error) {
		w, err := q.wishlistOf(ctx, userID)
		if err != nil {
			return false, err
		}
		return !w.Contains(item.ItemID), nil
	})
}

func (q *ItemQuery) OnlyOwnedBy(userID int) *ItemQuery {
	return q.where(func(_ context.Context, item *domain.Item) (bool, error) {
		return item.OwnerID == userID, nil
	})
}

func (q *ItemQuery) ExceptOwnedBy(userID int) *ItemQuery {
	return q.where(func(_ context.Context, item *domain.Item) (bool, error) {
		return item.OwnerID != userID, nil
	})
}

// TaggedWith keeps items attached to the named tag.
func (q *ItemQuery) TaggedWith(tagName string) *ItemQuery {
	var tagged map[int]bool
	return q.where(func(ctx context.Context, item *domain.Item) (bool, error) {
		if tagged == nil {
			tags, err := portsrepo.AllAs[*domain.Tag](ctx, q.store)
			if err != nil {
				return false, err
			}
			tagged = make(map[int]bool)
			for _, tag := range tags {
				if tag.Name != tagName {
					continue
				}
				for _, id := range tag.ItemIDs {
					tagged[id] = true
				}
			}
		}
		return tagged[item.ItemID], nil
	})
}

// Items runs the query against the full catalogue.
func (q *ItemQuery) Items(ctx context.Context) ([]*domain.Item, error) {
	items, err := portsrepo.AllAs[*domain.Item](ctx, q.store)
	if err != nil {
		return nil, err
	}

	var out []*domain.Item
	for _, item := range items {
		keep := true
		for _, p := range q.preds {
			ok, err := p(ctx, item)
			if err != nil {
				return nil, err
			}
			if !ok {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, item)
		}
	}
	return out, nil
}

// IDs runs the query and returns only the matching item ids.
func (q *ItemQuery) IDs(ctx context.Context) ([]int, error) {
	items, err := q.Items(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]int, len(items))
	for i, item := range items {
		ids[i] = item.ItemID
	}
	return ids, nil
}
