package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SwapHands/item_trading_app/internal/apperrors"
	"github.com/SwapHands/item_trading_app/internal/core/domain"
	portsrepo "github.com/SwapHands/item_trading_app/internal/core/ports/repositories"
	portssvc "github.com/SwapHands/item_trading_app/internal/core/ports/services"
	"github.com/SwapHands/item_trading_app/internal/dto"
)

// initiateTransactionAction builds a transaction from flattened request
// arguments; undoing cancels the transaction outright.
type initiateTransactionAction struct {
	store  portsrepo.Store
	txnSvc portssvc.TransactionSvc
}

func NewInitiateTransactionAction(store portsrepo.Store, txnSvc portssvc.TransactionSvc) Action {
	return &initiateTransactionAction{store: store, txnSvc: txnSvc}
}

func (a *initiateTransactionAction) Name() string { return domain.ActionInitiateTransaction }

// CanUndo requires the transaction to still exist with no meeting agreed to.
// Once the parties have committed to a meeting, the negotiation is no longer a
// mere proposal and cannot be silently deleted.
func (a *initiateTransactionAction) CanUndo(ctx context.Context, record *domain.History) (bool, error) {
	txnID, err := record.Int("transactionID")
	if err != nil {
		return false, err
	}
	txn, err := portsrepo.GetAs[*domain.Transaction](ctx, a.store, txnID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	meetings, err := portsrepo.GetManyAs[*domain.Meeting](ctx, a.store, txn.MeetingIDs)
	if err != nil {
		return false, err
	}
	for _, m := range meetings {
		if m.Agreed {
			return false, nil
		}
	}
	return true, nil
}

func (a *initiateTransactionAction) Execute(ctx context.Context, args map[string]string) (*domain.History, error) {
	req, err := decodeTradeArgs(args)
	if err != nil {
		return nil, err
	}

	txn, err := a.txnSvc.BuildTransaction(ctx, req)
	if err != nil {
		return nil, err
	}

	h := domain.NewHistory(domain.ActionInitiateTransaction)
	h.SetInt("transactionID", txn.TransactionID)
	h.SetInt("lenderID", req.LenderID)
	h.SetInt("borrowerID", req.BorrowerID)
	h.DisplayString = fmt.Sprintf("user %d initiated transaction %d with user %d",
		req.BorrowerID, txn.TransactionID, req.LenderID)
	return h, nil
}

func (a *initiateTransactionAction) Undo(ctx context.Context, record *domain.History) error {
	txnID, err := record.Int("transactionID")
	if err != nil {
		return err
	}
	return a.txnSvc.DeleteTransaction(ctx, txnID)
}

// decodeTradeArgs is the inverse of dto.InitiateTradeRequest.ToArgs.
func decodeTradeArgs(args map[string]string) (dto.InitiateTradeRequest, error) {
	var req dto.InitiateTradeRequest
	var err error

	if req.LenderID, err = argInt(args, "lenderID"); err != nil {
		return req, err
	}
	if req.BorrowerID, err = argInt(args, "borrowerID"); err != nil {
		return req, err
	}
	if req.BorrowedItemIDs, err = splitInts(args["borrowedItemIDs"]); err != nil {
		return req, err
	}
	if req.LentItemIDs, err = splitInts(args["lentItemIDs"]); err != nil {
		return req, err
	}
	req.TradeType = args["tradeType"]
	req.TradeDuration = args["tradeDuration"]
	if months := args["durationMonths"]; months != "" {
		if req.DurationMonths, err = argInt(args, "durationMonths"); err != nil {
			return req, err
		}
	}
	if req.MeetingTime, err = time.Parse(time.RFC3339, args["meetingTime"]); err != nil {
		return req, fmt.Errorf("%w: argument \"meetingTime\" must be RFC 3339", apperrors.ErrValidation)
	}
	req.MeetingLocation = args["meetingLocation"]
	return req, nil
}

func splitInts(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int, len(parts))
	for i, p := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an item id", apperrors.ErrValidation, p)
		}
		ids[i] = id
	}
	return ids, nil
}
