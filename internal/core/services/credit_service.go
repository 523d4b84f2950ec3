package services

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/SwapHands/item_trading_app/internal/core/domain"
	portsrepo "github.com/SwapHands/item_trading_app/internal/core/ports/repositories"
	portssvc "github.com/SwapHands/item_trading_app/internal/core/ports/services"
	"github.com/SwapHands/item_trading_app/internal/middleware"
)

// cancelPenaltyFactor scales the debit for a cancelled transaction: backing
// out of a committed trade costs five times what completing it would have
// earned.
var cancelPenaltyFactor = decimal.NewFromInt(5)

var two = decimal.NewFromInt(2)

// creditService adjusts user credit as transactions complete or fall through.
// A sale is worth the items' full price, a loan half of it.
type creditService struct {
	store portsrepo.Store
}

func NewCreditService(store portsrepo.Store) portssvc.CreditSvc {
	return &creditService{store: store}
}

var _ portssvc.CreditSvc = (*creditService)(nil)

func (s *creditService) AwardCompleted(ctx context.Context, transactionID int) error {
	return s.adjust(ctx, transactionID, decimal.NewFromInt(1), "Credit awarded")
}

func (s *creditService) PenalizeCancelled(ctx context.Context, transactionID int) error {
	return s.adjust(ctx, transactionID, cancelPenaltyFactor.Neg(), "Credit penalty applied")
}

func (s *creditService) adjust(ctx context.Context, transactionID int, factor decimal.Decimal, msg string) error {
	txn, err := portsrepo.GetAs[*domain.Transaction](ctx, s.store, transactionID)
	if err != nil {
		return err
	}
	trades, err := portsrepo.GetManyAs[*domain.Trade](ctx, s.store, txn.TradeIDs)
	if err != nil {
		return err
	}
	if len(trades) == 0 {
		return nil
	}

	value := decimal.Zero
	for _, tr := range trades {
		v, err := s.tradeValue(ctx, tr)
		if err != nil {
			return err
		}
		value = value.Add(v)
	}
	delta := value.Mul(factor)

	users, err := portsrepo.GetManyAs[*domain.User](ctx, s.store, []int{trades[0].LenderID, trades[0].BorrowerID})
	if err != nil {
		return err
	}
	for _, u := range users {
		u.Credit = u.Credit.Add(delta)
	}
	if err := portsrepo.UpdateAll(ctx, s.store, users); err != nil {
		return err
	}

	middleware.GetLoggerFromCtx(ctx).Info(msg,
		slog.Int("transaction_id", transactionID),
		slog.String("delta", delta.String()),
	)
	return nil
}

// tradeValue is the credit a completed trade is worth: the full item price
// for a sale, half for a loan.
func (s *creditService) tradeValue(ctx context.Context, tr *domain.Trade) (decimal.Decimal, error) {
	items, err := portsrepo.GetManyAs[*domain.Item](ctx, s.store, tr.ItemIDs)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price)
	}
	if !tr.Sell {
		total = total.Div(two)
	}
	return total, nil
}
