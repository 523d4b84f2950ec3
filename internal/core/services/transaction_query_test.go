package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SwapHands/item_trading_app/internal/core/domain"
	portsrepo "github.com/SwapHands/item_trading_app/internal/core/ports/repositories"
	"github.com/SwapHands/item_trading_app/internal/core/services"
	"github.com/SwapHands/item_trading_app/internal/repositories/database/memory"
)

func TestTransactionQuery_Predicates(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	open := seedBorrow(t, ctx, store, 1, 2, time.Now().AddDate(0, 0, 7), true)
	overdue := seedBorrow(t, ctx, store, 3, 2, time.Now().AddDate(0, 0, -7), false)

	withItem := seedTxn(t, ctx, store,
		[]*domain.Trade{domain.NewTrade(1, 4, []int{42})}, nil)

	found, err := services.NewTransactionQuery(store).FindByID(open.TransactionID).Transactions(ctx)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, open.TransactionID, found[0].TransactionID)

	found, err = services.NewTransactionQuery(store).InvolvesItem(42).Transactions(ctx)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, withItem.TransactionID, found[0].TransactionID)

	count, err := services.NewTransactionQuery(store).InvolvesUser(2).OnGoing().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	found, err = services.NewTransactionQuery(store).InvolvesUser(2).NotOnGoing().Transactions(ctx)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, overdue.TransactionID, found[0].TransactionID)

	// Agreed, ahead, and not completed: the parties are expected to show up.
	found, err = services.NewTransactionQuery(store).IsExpected().Transactions(ctx)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, open.TransactionID, found[0].TransactionID)
}

func TestTransactionQuery_CompletionChaining(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	m := domain.NewMeeting(time.Now().AddDate(0, 0, -7), "Union Station", 2)
	m.RegisterAttendees(1, 2)
	m.MarkAgreed()
	m.MarkConfirmed(1)
	m.MarkConfirmed(2)
	trade := domain.NewTrade(1, 2, nil)
	trade.Complete = true
	done := seedTxn(t, ctx, store, []*domain.Trade{trade}, []*domain.Meeting{m})

	seedBorrow(t, ctx, store, 1, 2, time.Now().AddDate(0, 0, -7), true)

	found, err := services.NewTransactionQuery(store).IsComplete().Transactions(ctx)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, done.TransactionID, found[0].TransactionID)

	count, err := services.NewTransactionQuery(store).IsIncomplete().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestTransactionQuery_Projections(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	item, err := portsrepo.CreateOne(ctx, store, domain.NewItem("drill", "", 1, decimal.NewFromInt(40), false))
	require.NoError(t, err)

	m := domain.NewMeeting(time.Now().AddDate(0, 0, 7), "Union Station", 2)
	m.RegisterAttendees(1, 2)
	seedTxn(t, ctx, store,
		[]*domain.Trade{domain.NewTrade(1, 2, []int{item.ItemID})},
		[]*domain.Meeting{m})

	borrowers, err := services.NewTransactionQuery(store).InvolvesUser(1).BorrowerIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, borrowers)

	lenders, err := services.NewTransactionQuery(store).InvolvesUser(2).LenderIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, lenders)

	meetings, err := services.NewTransactionQuery(store).InvolvesUser(1).Meetings(ctx)
	require.NoError(t, err)
	require.Len(t, meetings, 1)
	assert.Equal(t, "Union Station", meetings[0].Location())

	items, err := services.NewTransactionQuery(store).InvolvesItem(item.ItemID).Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "drill", items[0].Name)
}
