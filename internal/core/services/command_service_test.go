package services_test

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SwapHands/item_trading_app/internal/apperrors"
	"github.com/SwapHands/item_trading_app/internal/core/domain"
	portsrepo "github.com/SwapHands/item_trading_app/internal/core/ports/repositories"
	"github.com/SwapHands/item_trading_app/internal/core/services"
	"github.com/SwapHands/item_trading_app/internal/repositories/database/memory"
	"github.com/SwapHands/item_trading_app/internal/repositories/relations"
)

// stubAction lets tests stand in for a registered action without a real
// service behind it.
type stubAction struct {
	name    string
	canUndo bool
	undoErr error
}

func (a *stubAction) Name() string { return a.name }

func (a *stubAction) CanUndo(ctx context.Context, record *domain.History) (bool, error) {
	return a.canUndo, nil
}

func (a *stubAction) Execute(ctx context.Context, args map[string]string) (*domain.History, error) {
	return domain.NewHistory(a.name), nil
}

func (a *stubAction) Undo(ctx context.Context, record *domain.History) error {
	return a.undoErr
}

func TestCommandDo_UnknownAction(t *testing.T) {
	ctx := context.Background()
	svc := services.NewCommandService(memory.NewStore())

	_, err := svc.Do(ctx, "teleportItem", nil)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCommand_WishlistRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	itemSvc := services.NewItemService(store)
	svc := services.NewCommandService(store, services.NewAddToWishlistAction(store, itemSvc))

	user := seedUser(t, ctx, store, "alice", domain.StatusNormal)
	item := seedApprovedItem(t, ctx, store, user.UserID, 10)

	record, err := svc.Do(ctx, domain.ActionAddToWishlist, map[string]string{
		"userID": strconv.Itoa(user.UserID),
		"itemID": strconv.Itoa(item.ItemID),
	})
	require.NoError(t, err)
	require.NotZero(t, record.HistoryID)

	wishlisted, err := itemSvc.Wishlist(ctx, user.UserID)
	require.NoError(t, err)
	require.Len(t, wishlisted, 1)

	undoable, err := svc.UndoPermissions(ctx)
	require.NoError(t, err)
	require.Len(t, undoable, 1)

	require.NoError(t, svc.Undo(ctx, record.HistoryID))

	wishlisted, err = itemSvc.Wishlist(ctx, user.UserID)
	require.NoError(t, err)
	assert.Empty(t, wishlisted)

	// The record survives as an audit row, marked undone and no longer
	// undoable.
	got, err := portsrepo.GetAs[*domain.History](ctx, store, record.HistoryID)
	require.NoError(t, err)
	assert.True(t, got.Undone)
	assert.Contains(t, got.DisplayString, "(undone)")

	undoable, err = svc.UndoPermissions(ctx)
	require.NoError(t, err)
	assert.Empty(t, undoable)

	assert.ErrorIs(t, svc.Undo(ctx, record.HistoryID), apperrors.ErrValidation)
}

func TestCommand_ApproveItemRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	itemSvc := services.NewItemService(store)
	svc := services.NewCommandService(store, services.NewApproveItemAction(store, itemSvc))

	user := seedUser(t, ctx, store, "alice", domain.StatusNormal)
	item, err := itemSvc.AddItem(ctx, user.UserID, addItemReq("bike"))
	require.NoError(t, err)

	record, err := svc.Do(ctx, domain.ActionApproveItem, map[string]string{"itemID": strconv.Itoa(item.ItemID)})
	require.NoError(t, err)

	got, err := portsrepo.GetAs[*domain.Item](ctx, store, item.ItemID)
	require.NoError(t, err)
	assert.True(t, got.Visible)

	// Undoing pushes the item back into the approval queue.
	require.NoError(t, svc.Undo(ctx, record.HistoryID))
	pending, err := itemSvc.PendingApproval(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, item.ItemID, pending[0].ItemID)
}

func TestCommand_UndoTransactionCancelsIt(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	txnSvc := services.NewTransactionService(store, services.NewCreditService(store), relations.NewResolver(store))
	svc := services.NewCommandService(store, services.NewInitiateTransactionAction(store, txnSvc))

	lender := seedUser(t, ctx, store, "lender", domain.StatusNormal)
	borrower := seedUser(t, ctx, store, "borrower", domain.StatusNormal)
	item := seedApprovedItem(t, ctx, store, lender.UserID, 10)

	req := oneWayPermanentReq(lender.UserID, borrower.UserID, []int{item.ItemID})
	record, err := svc.Do(ctx, domain.ActionInitiateTransaction, req.ToArgs())
	require.NoError(t, err)

	txnID, err := record.Int("transactionID")
	require.NoError(t, err)
	_, err = portsrepo.GetAs[*domain.Transaction](ctx, store, txnID)
	require.NoError(t, err)

	require.NoError(t, svc.Undo(ctx, record.HistoryID))

	_, err = portsrepo.GetAs[*domain.Transaction](ctx, store, txnID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	got, err := portsrepo.GetAs[*domain.Item](ctx, store, item.ItemID)
	require.NoError(t, err)
	assert.False(t, got.Reserved)
}

func TestCommandUndo_AgreedMeetingProtectsTransaction(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	txnSvc := services.NewTransactionService(store, services.NewCreditService(store), relations.NewResolver(store))
	svc := services.NewCommandService(store, services.NewInitiateTransactionAction(store, txnSvc))

	lender := seedUser(t, ctx, store, "lender", domain.StatusNormal)
	borrower := seedUser(t, ctx, store, "borrower", domain.StatusNormal)
	item := seedApprovedItem(t, ctx, store, lender.UserID, 10)

	req := oneWayPermanentReq(lender.UserID, borrower.UserID, []int{item.ItemID})
	record, err := svc.Do(ctx, domain.ActionInitiateTransaction, req.ToArgs())
	require.NoError(t, err)

	txnID, err := record.Int("transactionID")
	require.NoError(t, err)
	txn, err := portsrepo.GetAs[*domain.Transaction](ctx, store, txnID)
	require.NoError(t, err)

	m, err := portsrepo.GetAs[*domain.Meeting](ctx, store, txn.MeetingIDs[0])
	require.NoError(t, err)
	m.MarkAgreed()
	require.NoError(t, portsrepo.UpdateOne(ctx, store, m))

	// Once a meeting is locked in, the initiating command is no longer
	// reversible.
	assert.ErrorIs(t, svc.Undo(ctx, record.HistoryID), apperrors.ErrValidation)

	_, err = portsrepo.GetAs[*domain.Transaction](ctx, store, txnID)
	require.NoError(t, err)

	undoable, err := svc.UndoPermissions(ctx)
	require.NoError(t, err)
	assert.Empty(t, undoable)
}

func TestCommandUndo_ReservedItemBlocksApprovalUndo(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	itemSvc := services.NewItemService(store)
	svc := services.NewCommandService(store, services.NewApproveItemAction(store, itemSvc))

	user := seedUser(t, ctx, store, "alice", domain.StatusNormal)
	item, err := itemSvc.AddItem(ctx, user.UserID, addItemReq("bike"))
	require.NoError(t, err)

	record, err := svc.Do(ctx, domain.ActionApproveItem, map[string]string{"itemID": strconv.Itoa(item.ItemID)})
	require.NoError(t, err)

	got, err := portsrepo.GetAs[*domain.Item](ctx, store, item.ItemID)
	require.NoError(t, err)
	got.Reserved = true
	require.NoError(t, portsrepo.UpdateOne(ctx, store, got))

	assert.ErrorIs(t, svc.Undo(ctx, record.HistoryID), apperrors.ErrValidation)

	got, err = portsrepo.GetAs[*domain.Item](ctx, store, item.ItemID)
	require.NoError(t, err)
	assert.True(t, got.Visible)
}

func TestCommandUndo_IrreversibleAction(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := services.NewCommandService(store, &stubAction{name: "shredItem"})

	record, err := svc.Do(ctx, "shredItem", nil)
	require.NoError(t, err)

	err = svc.Undo(ctx, record.HistoryID)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	undoable, err := svc.UndoPermissions(ctx)
	require.NoError(t, err)
	assert.Empty(t, undoable)
}

func TestCommandUndo_FailureIsWrapped(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	cause := errors.New("item already shipped")
	svc := services.NewCommandService(store, &stubAction{name: "shipItem", canUndo: true, undoErr: cause})

	record, err := svc.Do(ctx, "shipItem", nil)
	require.NoError(t, err)

	err = svc.Undo(ctx, record.HistoryID)
	var cmdErr *services.CommandExecutionError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, "shipItem", cmdErr.Action)
	assert.ErrorIs(t, err, cause)

	// A failed undo leaves the record live so it can be retried.
	got, err := portsrepo.GetAs[*domain.History](ctx, store, record.HistoryID)
	require.NoError(t, err)
	assert.False(t, got.Undone)
}
