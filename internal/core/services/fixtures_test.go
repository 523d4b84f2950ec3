package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/SwapHands/item_trading_app/internal/core/domain"
	portsrepo "github.com/SwapHands/item_trading_app/internal/core/ports/repositories"
	portssvc "github.com/SwapHands/item_trading_app/internal/core/ports/services"
	"github.com/SwapHands/item_trading_app/internal/core/services"
	"github.com/SwapHands/item_trading_app/internal/dto"
)

// newConfigSvc builds a config service over the store with the stock policy
// defaults.
func newConfigSvc(t *testing.T, ctx context.Context, store portsrepo.Store) portssvc.ConfigSvc {
	t.Helper()
	cfg, err := services.NewConfigService(ctx, store, map[string]string{
		services.ConfigMaxMeetingEdits:           "3",
		services.ConfigMaxIncompleteTransactions: "3",
		services.ConfigMaxTransactionsPerWeek:    "7",
		services.ConfigLendBorrowDifference:      "1",
	})
	require.NoError(t, err)
	return cfg
}

func seedUser(t *testing.T, ctx context.Context, store portsrepo.Store, name string, status domain.UserStatus) *domain.User {
	t.Helper()
	u, err := portsrepo.CreateOne(ctx, store, domain.NewUser(name, "irrelevant", "Toronto", status))
	require.NoError(t, err)
	return u
}

func seedApprovedItem(t *testing.T, ctx context.Context, store portsrepo.Store, ownerID int, price int64) *domain.Item {
	t.Helper()
	item := domain.NewItem("thing", "", ownerID, decimal.NewFromInt(price), false)
	item.Visible = true
	item, err := portsrepo.CreateOne(ctx, store, item)
	require.NoError(t, err)
	return item
}

// seedTxn persists the trades and meetings and groups them into a transaction.
func seedTxn(t *testing.T, ctx context.Context, store portsrepo.Store, trades []*domain.Trade, meetings []*domain.Meeting) *domain.Transaction {
	t.Helper()
	trades, err := portsrepo.CreateAll(ctx, store, trades)
	require.NoError(t, err)
	tradeIDs := make([]int, len(trades))
	for i, tr := range trades {
		tradeIDs[i] = tr.TradeID
	}

	var meetingIDs []int
	if len(meetings) > 0 {
		meetings, err = portsrepo.CreateAll(ctx, store, meetings)
		require.NoError(t, err)
		meetingIDs = make([]int, len(meetings))
		for i, m := range meetings {
			meetingIDs[i] = m.MeetingID
		}
	}

	txn, err := portsrepo.CreateOne(ctx, store, domain.NewTransaction(tradeIDs, meetingIDs))
	require.NoError(t, err)
	return txn
}

// seedNegotiation persists a fresh meeting proposed by proposerID to otherID.
func seedNegotiation(t *testing.T, ctx context.Context, store portsrepo.Store, proposerID, otherID int, at time.Time) *domain.Meeting {
	t.Helper()
	m := domain.NewMeeting(at, "Robarts Library", proposerID)
	m.RegisterAttendees(proposerID, otherID)
	m, err := portsrepo.CreateOne(ctx, store, m)
	require.NoError(t, err)
	return m
}

func addItemReq(name string) dto.AddItemRequest {
	return dto.AddItemRequest{
		Name:  name,
		Price: decimal.NewFromInt(25),
	}
}

func oneWayPermanentReq(lenderID, borrowerID int, itemIDs []int) dto.InitiateTradeRequest {
	return dto.InitiateTradeRequest{
		LenderID:        lenderID,
		BorrowerID:      borrowerID,
		BorrowedItemIDs: itemIDs,
		TradeType:       dto.TradeTypeOneWay,
		TradeDuration:   dto.TradeDurationPermanent,
		MeetingTime:     time.Now().AddDate(0, 0, -1),
		MeetingLocation: "Robarts Library",
	}
}
