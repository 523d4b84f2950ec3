package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SwapHands/item_trading_app/internal/core/domain"
	portsrepo "github.com/SwapHands/item_trading_app/internal/core/ports/repositories"
	"github.com/SwapHands/item_trading_app/internal/core/services"
	"github.com/SwapHands/item_trading_app/internal/repositories/database/memory"
)

func TestItemQuery_SaleAndDeletion(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	owner := seedUser(t, ctx, store, "astrid", domain.StatusNormal)

	kettle := seedApprovedItem(t, ctx, store, owner.UserID, 30)

	sold := domain.NewItem("lamp", "", owner.UserID, decimal.NewFromInt(15), true)
	sold.Visible = true
	sold, err := portsrepo.CreateOne(ctx, store, sold)
	require.NoError(t, err)

	gone := domain.NewItem("radio", "", owner.UserID, decimal.NewFromInt(10), false)
	gone.SoftDeleted = true
	gone, err = portsrepo.CreateOne(ctx, store, gone)
	require.NoError(t, err)

	forSale, err := services.NewItemQuery(store).ForSale().Items(ctx)
	require.NoError(t, err)
	require.Len(t, forSale, 1)
	assert.Equal(t, sold.ItemID, forSale[0].ItemID)

	deleted, err := services.NewItemQuery(store).OnlyDeleted().IDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{gone.ItemID}, deleted)

	kept, err := services.NewItemQuery(store).NotDeleted().IDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{kettle.ItemID, sold.ItemID}, kept)
}

func TestItemQuery_Tags(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	owner := seedUser(t, ctx, store, "astrid", domain.StatusNormal)

	drill := seedApprovedItem(t, ctx, store, owner.UserID, 80)
	book := seedApprovedItem(t, ctx, store, owner.UserID, 12)

	_, err := portsrepo.CreateOne(ctx, store, domain.NewTag("tools", []int{drill.ItemID}))
	require.NoError(t, err)

	tools, err := services.NewItemQuery(store).TaggedWith("tools").IDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{drill.ItemID}, tools)
	assert.NotContains(t, tools, book.ItemID)

	fiction, err := services.NewItemQuery(store).TaggedWith("fiction").Items(ctx)
	require.NoError(t, err)
	assert.Empty(t, fiction)
}

func TestItemQuery_Wishlist(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	owner := seedUser(t, ctx, store, "astrid", domain.StatusNormal)
	fan := seedUser(t, ctx, store, "bjorn", domain.StatusNormal)

	wanted := seedApprovedItem(t, ctx, store, owner.UserID, 20)
	ignored := seedApprovedItem(t, ctx, store, owner.UserID, 20)

	w := domain.NewWishlist(fan.UserID)
	w.Add(wanted.ItemID)
	_, err := portsrepo.CreateOne(ctx, store, w)
	require.NoError(t, err)

	listed, err := services.NewItemQuery(store).InWishlistOf(fan.UserID).IDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{wanted.ItemID}, listed)

	rest, err := services.NewItemQuery(store).NotInWishlistOf(fan.UserID).IDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{ignored.ItemID}, rest)

	// A user without a persisted wishlist wants nothing yet.
	all, err := services.NewItemQuery(store).NotInWishlistOf(owner.UserID).Items(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
