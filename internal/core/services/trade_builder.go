package services

import (
	"context"

	"github.com/SwapHands/item_trading_app/internal/core/domain"
	portsrepo "github.com/SwapHands/item_trading_app/internal/core/ports/repositories"
)

// TradeBuilder assembles the trade records of a single transaction. A builder
// is created per request, filled, built and discarded; it holds no state
// beyond the call that uses it.
type TradeBuilder struct {
	lenderID   int
	borrowerID int
	twoWay     bool
	sell       bool
	itemLists  [][]int
}

func NewTradeBuilder() *TradeBuilder {
	return &TradeBuilder{}
}

func (b *TradeBuilder) FillLenderID(id int) *TradeBuilder {
	b.lenderID = id
	return b
}

func (b *TradeBuilder) FillBorrowerID(id int) *TradeBuilder {
	b.borrowerID = id
	return b
}

func (b *TradeBuilder) OneWay() *TradeBuilder {
	b.twoWay = false
	return b
}

func (b *TradeBuilder) TwoWay() *TradeBuilder {
	b.twoWay = true
	return b
}

// Sell marks the exchange as a sale, which transfers ownership and never
// expects the items back.
func (b *TradeBuilder) Sell() *TradeBuilder {
	b.sell = true
	return b
}

// FillItems adds one side's item list. A one-way trade takes a single list,
// a two-way trade takes two: first the items the borrower receives, then the
// items the lender receives.
func (b *TradeBuilder) FillItems(itemIDs []int) error {
	max := 1
	if b.twoWay {
		max = 2
	}
	if len(b.itemLists) >= max {
		return ErrTooManyItemLists
	}
	b.itemLists = append(b.itemLists, itemIDs)
	return nil
}

// Build persists the accumulated trades and returns them with keys assigned.
// A two-way build yields two trades with the roles reversed.
func (b *TradeBuilder) Build(ctx context.Context, store portsrepo.Store) ([]*domain.Trade, error) {
	trades := make([]*domain.Trade, 0, 2)

	first := domain.NewTrade(b.lenderID, b.borrowerID, b.itemLists[0])
	first.Sell = b.sell
	trades = append(trades, first)

	if b.twoWay {
		second := domain.NewTrade(b.borrowerID, b.lenderID, b.itemLists[1])
		second.Sell = b.sell
		trades = append(trades, second)
	}

	return portsrepo.CreateAll(ctx, store, trades)
}
