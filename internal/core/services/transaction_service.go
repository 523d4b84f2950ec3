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

// transactionService ties trades and meetings together into transactions and
// moves items between users as meetings are carried out.
type transactionService struct {
	store     portsrepo.Store
	creditSvc portssvc.CreditSvc
	relations portsrepo.RelationResolver
}

func NewTransactionService(store portsrepo.Store, creditSvc portssvc.CreditSvc, relations portsrepo.RelationResolver) portssvc.TransactionSvc {
	return &transactionService{store: store, creditSvc: creditSvc, relations: relations}
}

var _ portssvc.TransactionSvc = (*transactionService)(nil)

func (s *transactionService) BuildTransaction(ctx context.Context, req dto.InitiateTradeRequest) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.LenderID == req.BorrowerID {
		return nil, fmt.Errorf("%w: cannot trade with yourself", apperrors.ErrValidation)
	}
	if len(req.BorrowedItemIDs) == 0 {
		return nil, fmt.Errorf("%w: no items to trade", apperrors.ErrValidation)
	}

	twoWay := req.TradeType != dto.TradeTypeOneWay && req.TradeType != dto.TradeTypeSell
	sell := req.TradeType == dto.TradeTypeSell
	permanent := req.TradeDuration == dto.TradeDurationPermanent

	if twoWay && len(req.LentItemIDs) == 0 {
		return nil, fmt.Errorf("%w: two-way trade needs items from both sides", apperrors.ErrValidation)
	}
	if sell && !permanent {
		return nil, fmt.Errorf("%w: a sale cannot be temporary", apperrors.ErrValidation)
	}

	if err := s.reserveItems(ctx, req); err != nil {
		return nil, err
	}

	tb := NewTradeBuilder().FillLenderID(req.LenderID).FillBorrowerID(req.BorrowerID)
	if twoWay {
		tb.TwoWay()
	} else {
		tb.OneWay()
	}
	if sell {
		tb.Sell()
	}
	if err := tb.FillItems(req.BorrowedItemIDs); err != nil {
		return nil, err
	}
	if twoWay {
		if err := tb.FillItems(req.LentItemIDs); err != nil {
			return nil, err
		}
	}
	trades, err := tb.Build(ctx, s.store)
	if err != nil {
		return nil, err
	}

	mb := NewMeetingBuilder(req.BorrowerID, req.LenderID)
	if permanent {
		mb.Permanent()
	} else {
		mb.Temporary(req.DurationMonths)
	}
	if err := mb.FillTime(req.MeetingTime); err != nil {
		return nil, err
	}
	if err := mb.FillLocation(req.MeetingLocation); err != nil {
		return nil, err
	}
	meetings, err := mb.Build(ctx, s.store)
	if err != nil {
		return nil, err
	}

	tradeIDs := make([]int, len(trades))
	for i, tr := range trades {
		tradeIDs[i] = tr.TradeID
	}
	meetingIDs := make([]int, len(meetings))
	for i, m := range meetings {
		meetingIDs[i] = m.MeetingID
	}

	txn, err := portsrepo.CreateOne(ctx, s.store, domain.NewTransaction(tradeIDs, meetingIDs))
	if err != nil {
		return nil, err
	}

	logger.Info("Transaction initiated",
		slog.Int("transaction_id", txn.TransactionID),
		slog.Int("lender_id", req.LenderID),
		slog.Int("borrower_id", req.BorrowerID),
		slog.Bool("permanent", txn.Permanent()),
	)
	return txn, nil
}

// reserveItems checks availability of every traded item and marks them
// reserved. The check and the write are separate store calls, so two
// simultaneous requests over the same item can both pass the check; the
// store's update semantics keep the data well formed either way.
func (s *transactionService) reserveItems(ctx context.Context, req dto.InitiateTradeRequest) error {
	ids := append(append([]int{}, req.BorrowedItemIDs...), req.LentItemIDs...)
	items, err := portsrepo.GetManyAs[*domain.Item](ctx, s.store, ids)
	if err != nil {
		return err
	}

	lentFrom := len(req.BorrowedItemIDs)
	for i, item := range items {
		owner := req.LenderID
		if i >= lentFrom {
			owner = req.BorrowerID
		}
		if item.OwnerID != owner {
			return fmt.Errorf("%w: item %d is not owned by user %d", apperrors.ErrValidation, item.ItemID, owner)
		}
		if item.SoftDeleted || !item.Visible {
			return fmt.Errorf("%w: item %d is not available", apperrors.ErrValidation, item.ItemID)
		}
		if item.Reserved {
			return fmt.Errorf("%w: item %d is already reserved", apperrors.ErrValidation, item.ItemID)
		}
	}

	for _, item := range items {
		item.Reserved = true
	}
	return portsrepo.UpdateAll(ctx, s.store, items)
}

func (s *transactionService) PerformMeeting(ctx context.Context, transactionID, meetingID int) error {
	txn, err := portsrepo.GetAs[*domain.Transaction](ctx, s.store, transactionID)
	if err != nil {
		return err
	}

	// Membership is resolved through the meeting's reverse relation rather
	// than the forward id list, so a stale or cross-wired transaction row is
	// caught here.
	meeting, err := portsrepo.GetAs[*domain.Meeting](ctx, s.store, meetingID)
	if err != nil {
		return err
	}
	owners, err := s.relations.Related(ctx, "transactions", meeting, domain.KindTransaction)
	if err != nil {
		return err
	}
	belongs := false
	for _, owner := range owners {
		if owner.Key() == txn.TransactionID {
			belongs = true
		}
	}
	if !belongs {
		return fmt.Errorf("%w: meeting %d is not part of transaction %d", apperrors.ErrValidation, meetingID, transactionID)
	}

	trades, err := portsrepo.GetManyAs[*domain.Trade](ctx, s.store, txn.TradeIDs)
	if err != nil {
		return err
	}
	for _, tr := range trades {
		if tr.Complete {
			return fmt.Errorf("%w: transaction %d is already completed", apperrors.ErrValidation, transactionID)
		}
	}

	meetings, err := portsrepo.GetManyAs[*domain.Meeting](ctx, s.store, txn.MeetingIDs)
	if err != nil {
		return err
	}

	if txn.Permanent() {
		if !meetings[0].IsComplete() {
			return fmt.Errorf("%w: meeting %d has not been confirmed by both parties", apperrors.ErrValidation, meetingID)
		}
		return s.finishTransaction(ctx, txn, trades)
	}

	first, second := meetings[0], meetings[1]
	switch {
	case first.IsComplete() && second.IsComplete():
		return s.finishTransaction(ctx, txn, trades)
	case meetingID == first.MeetingID && first.IsComplete():
		return s.startTempTransaction(ctx, txn, trades)
	case meetingID == second.MeetingID && !first.IsComplete():
		return fmt.Errorf("%w: the exchange meeting has not been conducted yet", apperrors.ErrValidation)
	default:
		return fmt.Errorf("%w: meeting %d has not been confirmed by both parties", apperrors.ErrValidation, meetingID)
	}
}

// startTempTransaction hands the items over for the loan period. Holders
// swap, owners do not, and the items stay reserved until they come back.
func (s *transactionService) startTempTransaction(ctx context.Context, txn *domain.Transaction, trades []*domain.Trade) error {
	for _, tr := range trades {
		items, err := portsrepo.GetManyAs[*domain.Item](ctx, s.store, tr.ItemIDs)
		if err != nil {
			return err
		}
		for _, item := range items {
			item.SwapHolder(tr.LenderID, tr.BorrowerID)
		}
		if err := portsrepo.UpdateAll(ctx, s.store, items); err != nil {
			return err
		}
	}
	middleware.GetLoggerFromCtx(ctx).Info("Temporary exchange started", slog.Int("transaction_id", txn.TransactionID))
	return nil
}

// finishTransaction closes the transaction: holders swap back (or, for a
// permanent exchange, over), sold and given items change owner and leave the
// catalogue, the trades complete and the items become available again.
func (s *transactionService) finishTransaction(ctx context.Context, txn *domain.Transaction, trades []*domain.Trade) error {
	permanent := txn.Permanent()

	for _, tr := range trades {
		items, err := portsrepo.GetManyAs[*domain.Item](ctx, s.store, tr.ItemIDs)
		if err != nil {
			return err
		}
		for _, item := range items {
			item.SwapHolder(tr.LenderID, tr.BorrowerID)
			if permanent {
				item.SwapOwner(tr.LenderID, tr.BorrowerID)
				item.SoftDeleted = true
			}
			item.Reserved = false
		}
		if err := portsrepo.UpdateAll(ctx, s.store, items); err != nil {
			return err
		}
		tr.Complete = true
	}
	if err := portsrepo.UpdateAll(ctx, s.store, trades); err != nil {
		return err
	}

	if err := s.creditSvc.AwardCompleted(ctx, txn.TransactionID); err != nil {
		return err
	}
	middleware.GetLoggerFromCtx(ctx).Info("Transaction completed", slog.Int("transaction_id", txn.TransactionID), slog.Bool("permanent", permanent))
	return nil
}

func (s *transactionService) DeleteTransaction(ctx context.Context, transactionID int) error {
	txn, err := portsrepo.GetAs[*domain.Transaction](ctx, s.store, transactionID)
	if err != nil {
		return err
	}

	if err := s.creditSvc.PenalizeCancelled(ctx, transactionID); err != nil {
		return err
	}

	// Only the first trade's items are released. The mirror items of a
	// two-way exchange stay reserved until their owner re-approves them.
	trades, err := portsrepo.GetManyAs[*domain.Trade](ctx, s.store, txn.TradeIDs)
	if err != nil {
		return err
	}
	var itemIDs []int
	if len(trades) > 0 {
		itemIDs = trades[0].ItemIDs
	}
	items, err := portsrepo.GetManyAs[*domain.Item](ctx, s.store, itemIDs)
	if err != nil {
		return err
	}
	for _, item := range items {
		item.Reserved = false
	}
	if err := portsrepo.UpdateAll(ctx, s.store, items); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, domain.KindMeeting, txn.MeetingIDs); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, domain.KindTrade, txn.TradeIDs); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, domain.KindTransaction, []int{transactionID}); err != nil {
		return err
	}
	middleware.GetLoggerFromCtx(ctx).Info("Transaction cancelled", slog.Int("transaction_id", transactionID))
	return nil
}

func (s *transactionService) CheckAgree(ctx context.Context, transactionID int) (bool, error) {
	txn, err := portsrepo.GetAs[*domain.Transaction](ctx, s.store, transactionID)
	if err != nil {
		return false, err
	}
	meetings, err := portsrepo.GetManyAs[*domain.Meeting](ctx, s.store, txn.MeetingIDs)
	if err != nil {
		return false, err
	}
	for _, m := range meetings {
		if !m.Agreed {
			return false, nil
		}
	}
	return true, nil
}

func (s *transactionService) FrequentPartners(ctx context.Context, userID, n int) ([]int, []int, error) {
	trades, err := NewTransactionQuery(s.store).InvolvesUser(userID).Trades(ctx)
	if err != nil {
		return nil, nil, err
	}

	var partners []int
	for _, tr := range trades {
		switch userID {
		case tr.LenderID:
			partners = append(partners, tr.BorrowerID)
		case tr.BorrowerID:
			partners = append(partners, tr.LenderID)
		}
	}
	ids, freqs := rankByFrequency(partners, n)
	return ids, freqs, nil
}

func (s *transactionService) MostTradedItems(ctx context.Context, n int) ([]int, []int, error) {
	trades, err := NewTransactionQuery(s.store).Trades(ctx)
	if err != nil {
		return nil, nil, err
	}

	var itemIDs []int
	for _, tr := range trades {
		itemIDs = append(itemIDs, tr.ItemIDs...)
	}
	ids, freqs := rankByFrequency(itemIDs, n)
	return ids, freqs, nil
}

// rankByFrequency counts occurrences of each id and returns the ids with
// their counts, most frequent first, limited to n entries. Ties keep
// first-seen order; the descending order is kept by inserting each id at its
// slot rather than sorting afterwards.
func rankByFrequency(ids []int, n int) ([]int, []int) {
	counts := make(map[int]int)
	var order []int
	for _, id := range ids {
		if counts[id] == 0 {
			order = append(order, id)
		}
		counts[id]++
	}

	ranked := make([]int, 0, len(order))
	freqs := make([]int, 0, len(order))
	for _, id := range order {
		f := counts[id]
		pos := len(ranked)
		for pos > 0 && freqs[pos-1] < f {
			pos--
		}
		ranked = append(ranked, 0)
		freqs = append(freqs, 0)
		copy(ranked[pos+1:], ranked[pos:])
		copy(freqs[pos+1:], freqs[pos:])
		ranked[pos] = id
		freqs[pos] = f
	}

	if n >= 0 && n < len(ranked) {
		ranked = ranked[:n]
		freqs = freqs[:n]
	}
	return ranked, freqs
}
