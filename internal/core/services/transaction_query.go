package services

import (
	"context"
	"time"

	"github.com/SwapHands/item_trading_app/internal/core/domain"
	portsrepo "github.com/SwapHands/item_trading_app/internal/core/ports/repositories"
)

// txnPredicate decides whether a transaction belongs in a query's result.
// Predicates receive the transaction's trades and meetings already loaded so
// each chained filter does not refetch them.
type txnPredicate func(txn *domain.Transaction, trades []*domain.Trade, meetings []*domain.Meeting) bool

// TransactionQuery is a chainable filter over the transaction store. Filters
// accumulate as closures and run once, when a projection method is called.
// Queries are built per call site and thrown away.
type TransactionQuery struct {
	store portsrepo.Store
	preds []txnPredicate
}

func NewTransactionQuery(store portsrepo.Store) *TransactionQuery {
	return &TransactionQuery{store: store}
}

func (q *TransactionQuery) where(p txnPredicate) *TransactionQuery {
	q.preds = append(q.preds, p)
	return q
}

func (q *TransactionQuery) FindByID(transactionID int) *TransactionQuery {
	return q.where(func(txn *domain.Transaction, _ []*domain.Trade, _ []*domain.Meeting) bool {
		return txn.TransactionID == transactionID
	})
}

func (q *TransactionQuery) InvolvesUser(userID int) *TransactionQuery {
	return q.where(func(_ *domain.Transaction, trades []*domain.Trade, _ []*domain.Meeting) bool {
		for _, tr := range trades {
			if tr.Involves(userID) {
				return true
			}
		}
		return false
	})
}

// InvolvesUserAsBorrower matches transactions this user initiated as the
// receiving side. Only the first trade carries the initiating direction; the
// second trade of a two-way exchange is its mirror.
func (q *TransactionQuery) InvolvesUserAsBorrower(userID int) *TransactionQuery {
	return q.where(func(_ *domain.Transaction, trades []*domain.Trade, _ []*domain.Meeting) bool {
		return len(trades) > 0 && trades[0].BorrowerID == userID
	})
}

func (q *TransactionQuery) InvolvesUserAsLender(userID int) *TransactionQuery {
	return q.where(func(_ *domain.Transaction, trades []*domain.Trade, _ []*domain.Meeting) bool {
		return len(trades) > 0 && trades[0].LenderID == userID
	})
}

func (q *TransactionQuery) InvolvesItem(itemID int) *TransactionQuery {
	return q.where(func(_ *domain.Transaction, trades []*domain.Trade, _ []*domain.Meeting) bool {
		for _, tr := range trades {
			for _, id := range tr.ItemIDs {
				if id == itemID {
					return true
				}
			}
		}
		return false
	})
}

// OnGoing matches transactions whose final meeting has not yet passed, so the
// parties still have time to see it through.
func (q *TransactionQuery) OnGoing() *TransactionQuery {
	return q.where(func(_ *domain.Transaction, _ []*domain.Trade, meetings []*domain.Meeting) bool {
		if len(meetings) == 0 {
			return false
		}
		return !meetings[len(meetings)-1].HasPassed()
	})
}

// NotOnGoing matches transactions whose final meeting date has already
// passed.
func (q *TransactionQuery) NotOnGoing() *TransactionQuery {
	return q.where(func(_ *domain.Transaction, _ []*domain.Trade, meetings []*domain.Meeting) bool {
		if len(meetings) == 0 {
			return true
		}
		return meetings[len(meetings)-1].HasPassed()
	})
}

// IsComplete matches transactions where every trade and every meeting has
// been completed.
func (q *TransactionQuery) IsComplete() *TransactionQuery {
	return q.where(func(txn *domain.Transaction, trades []*domain.Trade, meetings []*domain.Meeting) bool {
		return transactionComplete(trades, meetings)
	})
}

// IsIncomplete matches the complement of IsComplete.
func (q *TransactionQuery) IsIncomplete() *TransactionQuery {
	return q.where(func(txn *domain.Transaction, trades []*domain.Trade, meetings []*domain.Meeting) bool {
		return !transactionComplete(trades, meetings)
	})
}

// HasAgreedMeeting matches transactions where at least one meeting has been
// agreed to, meaning the parties actually committed to trading.
func (q *TransactionQuery) HasAgreedMeeting() *TransactionQuery {
	return q.where(func(_ *domain.Transaction, _ []*domain.Trade, meetings []*domain.Meeting) bool {
		for _, m := range meetings {
			if m.Agreed {
				return true
			}
		}
		return false
	})
}

// IsExpected matches transactions fully agreed but not yet carried out.
func (q *TransactionQuery) IsExpected() *TransactionQuery {
	return q.where(func(_ *domain.Transaction, trades []*domain.Trade, meetings []*domain.Meeting) bool {
		if len(meetings) == 0 {
			return false
		}
		for _, m := range meetings {
			if !m.Agreed {
				return false
			}
		}
		return !transactionComplete(trades, meetings)
	})
}

// After matches transactions whose first meeting is scheduled on or after the
// given date.
func (q *TransactionQuery) After(date time.Time) *TransactionQuery {
	return q.where(func(_ *domain.Transaction, _ []*domain.Trade, meetings []*domain.Meeting) bool {
		return len(meetings) > 0 && !meetings[0].Time().Before(date)
	})
}

func transactionComplete(trades []*domain.Trade, meetings []*domain.Meeting) bool {
	for _, tr := range trades {
		if !tr.Complete {
			return false
		}
	}
	for _, m := range meetings {
		if !m.IsComplete() {
			return false
		}
	}
	return true
}

// match loads every transaction with its trades and meetings and keeps the
// ones that satisfy all accumulated predicates.
func (q *TransactionQuery) match(ctx context.Context) ([]*domain.Transaction, [][]*domain.Trade, [][]*domain.Meeting, error) {
	txns, err := portsrepo.AllAs[*domain.Transaction](ctx, q.store)
	if err != nil {
		return nil, nil, nil, err
	}

	var (
		outTxns     []*domain.Transaction
		outTrades   [][]*domain.Trade
		outMeetings [][]*domain.Meeting
	)
	for _, txn := range txns {
		trades, err := portsrepo.GetManyAs[*domain.Trade](ctx, q.store, txn.TradeIDs)
		if err != nil {
			return nil, nil, nil, err
		}
		meetings, err := portsrepo.GetManyAs[*domain.Meeting](ctx, q.store, txn.MeetingIDs)
		if err != nil {
			return nil, nil, nil, err
		}

		keep := true
		for _, p := range q.preds {
			if !p(txn, trades, meetings) {
				keep = false
				break
			}
		}
		if keep {
			outTxns = append(outTxns, txn)
			outTrades = append(outTrades, trades)
			outMeetings = append(outMeetings, meetings)
		}
	}
	return outTxns, outTrades, outMeetings, nil
}

// Transactions runs the query and returns the matching transactions.
func (q *TransactionQuery) Transactions(ctx context.Context) ([]*domain.Transaction, error) {
	txns, _, _, err := q.match(ctx)
	return txns, err
}

// Count runs the query and returns how many transactions match.
func (q *TransactionQuery) Count(ctx context.Context) (int, error) {
	txns, _, _, err := q.match(ctx)
	return len(txns), err
}

// Trades returns the trades of every matching transaction, in transaction
// order.
func (q *TransactionQuery) Trades(ctx context.Context) ([]*domain.Trade, error) {
	_, trades, _, err := q.match(ctx)
	if err != nil {
		return nil, err
	}
	var out []*domain.Trade
	for _, ts := range trades {
		out = append(out, ts...)
	}
	return out, nil
}

// Meetings returns the meetings of every matching transaction, in transaction
// order.
func (q *TransactionQuery) Meetings(ctx context.Context) ([]*domain.Meeting, error) {
	_, _, meetings, err := q.match(ctx)
	if err != nil {
		return nil, err
	}
	var out []*domain.Meeting
	for _, ms := range meetings {
		out = append(out, ms...)
	}
	return out, nil
}

// BorrowerIDs returns the initiating borrower of each matching transaction.
func (q *TransactionQuery) BorrowerIDs(ctx context.Context) ([]int, error) {
	_, trades, _, err := q.match(ctx)
	if err != nil {
		return nil, err
	}
	var out []int
	for _, ts := range trades {
		if len(ts) > 0 {
			out = append(out, ts[0].BorrowerID)
		}
	}
	return out, nil
}

// LenderIDs returns the initiating lender of each matching transaction.
func (q *TransactionQuery) LenderIDs(ctx context.Context) ([]int, error) {
	_, trades, _, err := q.match(ctx)
	if err != nil {
		return nil, err
	}
	var out []int
	for _, ts := range trades {
		if len(ts) > 0 {
			out = append(out, ts[0].LenderID)
		}
	}
	return out, nil
}

// Items returns the items traded across the matching transactions, duplicates
// included so callers can count frequencies.
func (q *TransactionQuery) Items(ctx context.Context) ([]*domain.Item, error) {
	_, trades, _, err := q.match(ctx)
	if err != nil {
		return nil, err
	}
	var ids []int
	for _, ts := range trades {
		for _, tr := range ts {
			ids = append(ids, tr.ItemIDs...)
		}
	}
	items := make([]*domain.Item, 0, len(ids))
	for _, id := range ids {
		item, err := portsrepo.GetAs[*domain.Item](ctx, q.store, id)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
