package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/SwapHands/item_trading_app/internal/apperrors"
	"github.com/SwapHands/item_trading_app/internal/core/domain"
	portsrepo "github.com/SwapHands/item_trading_app/internal/core/ports/repositories"
	portssvc "github.com/SwapHands/item_trading_app/internal/core/ports/services"
	"github.com/SwapHands/item_trading_app/internal/core/services"
	"github.com/SwapHands/item_trading_app/internal/dto"
	"github.com/SwapHands/item_trading_app/internal/repositories/database/memory"
	"github.com/SwapHands/item_trading_app/internal/repositories/relations"
)

type TransactionServiceTestSuite struct {
	suite.Suite
	ctx   context.Context
	store portsrepo.Store
	svc   portssvc.TransactionSvc

	lender   *domain.User
	borrower *domain.User
}

func (s *TransactionServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.svc = services.NewTransactionService(s.store, services.NewCreditService(s.store), relations.NewResolver(s.store))

	s.lender = seedUser(s.T(), s.ctx, s.store, "lender", domain.StatusNormal)
	s.borrower = seedUser(s.T(), s.ctx, s.store, "borrower", domain.StatusNormal)
}

func (s *TransactionServiceTestSuite) seedItem(ownerID int, price int64) *domain.Item {
	return seedApprovedItem(s.T(), s.ctx, s.store, ownerID, price)
}

func (s *TransactionServiceTestSuite) item(id int) *domain.Item {
	item, err := portsrepo.GetAs[*domain.Item](s.ctx, s.store, id)
	s.Require().NoError(err)
	return item
}

func (s *TransactionServiceTestSuite) user(id int) *domain.User {
	u, err := portsrepo.GetAs[*domain.User](s.ctx, s.store, id)
	s.Require().NoError(err)
	return u
}

// confirmMeeting records both parties' attestation directly in the store.
func (s *TransactionServiceTestSuite) confirmMeeting(meetingID int, userIDs ...int) {
	m, err := portsrepo.GetAs[*domain.Meeting](s.ctx, s.store, meetingID)
	s.Require().NoError(err)
	for _, id := range userIDs {
		m.MarkConfirmed(id)
	}
	s.Require().NoError(portsrepo.UpdateOne(s.ctx, s.store, m))
}

func (s *TransactionServiceTestSuite) TestBuildTransaction_Validation() {
	item := s.seedItem(s.lender.UserID, 10)

	req := oneWayPermanentReq(s.lender.UserID, s.lender.UserID, []int{item.ItemID})
	_, err := s.svc.BuildTransaction(s.ctx, req)
	s.ErrorIs(err, apperrors.ErrValidation)

	req = oneWayPermanentReq(s.lender.UserID, s.borrower.UserID, nil)
	_, err = s.svc.BuildTransaction(s.ctx, req)
	s.ErrorIs(err, apperrors.ErrValidation)

	req = oneWayPermanentReq(s.lender.UserID, s.borrower.UserID, []int{item.ItemID})
	req.TradeType = dto.TradeTypeSell
	req.TradeDuration = dto.TradeDurationTemporary
	_, err = s.svc.BuildTransaction(s.ctx, req)
	s.ErrorIs(err, apperrors.ErrValidation)

	req = oneWayPermanentReq(s.lender.UserID, s.borrower.UserID, []int{item.ItemID})
	req.TradeType = dto.TradeTypeTwoWay
	_, err = s.svc.BuildTransaction(s.ctx, req)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *TransactionServiceTestSuite) TestBuildTransaction_ItemAvailability() {
	// Owned by the wrong side.
	item := s.seedItem(s.borrower.UserID, 10)
	req := oneWayPermanentReq(s.lender.UserID, s.borrower.UserID, []int{item.ItemID})
	_, err := s.svc.BuildTransaction(s.ctx, req)
	s.ErrorIs(err, apperrors.ErrValidation)

	// Not approved yet.
	hidden := s.seedItem(s.lender.UserID, 10)
	hidden.Visible = false
	s.Require().NoError(portsrepo.UpdateOne(s.ctx, s.store, hidden))
	req = oneWayPermanentReq(s.lender.UserID, s.borrower.UserID, []int{hidden.ItemID})
	_, err = s.svc.BuildTransaction(s.ctx, req)
	s.ErrorIs(err, apperrors.ErrValidation)

	// Already locked into another transaction.
	reserved := s.seedItem(s.lender.UserID, 10)
	reserved.Reserved = true
	s.Require().NoError(portsrepo.UpdateOne(s.ctx, s.store, reserved))
	req = oneWayPermanentReq(s.lender.UserID, s.borrower.UserID, []int{reserved.ItemID})
	_, err = s.svc.BuildTransaction(s.ctx, req)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *TransactionServiceTestSuite) TestBuildTransaction_ReservesItems() {
	item := s.seedItem(s.lender.UserID, 10)

	txn, err := s.svc.BuildTransaction(s.ctx, oneWayPermanentReq(s.lender.UserID, s.borrower.UserID, []int{item.ItemID}))
	s.Require().NoError(err)

	s.Len(txn.TradeIDs, 1)
	s.Len(txn.MeetingIDs, 1)
	s.True(txn.Permanent())
	s.True(s.item(item.ItemID).Reserved)

	// The same item cannot enter a second transaction.
	_, err = s.svc.BuildTransaction(s.ctx, oneWayPermanentReq(s.lender.UserID, s.borrower.UserID, []int{item.ItemID}))
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *TransactionServiceTestSuite) TestBuildTransaction_TwoWayTemporary() {
	mine := s.seedItem(s.lender.UserID, 10)
	theirs := s.seedItem(s.borrower.UserID, 20)

	req := oneWayPermanentReq(s.lender.UserID, s.borrower.UserID, []int{mine.ItemID})
	req.LentItemIDs = []int{theirs.ItemID}
	req.TradeType = dto.TradeTypeTwoWay
	req.TradeDuration = dto.TradeDurationTemporary
	req.DurationMonths = 2

	txn, err := s.svc.BuildTransaction(s.ctx, req)
	s.Require().NoError(err)

	s.Len(txn.TradeIDs, 2)
	s.Len(txn.MeetingIDs, 2)
	s.False(txn.Permanent())
	s.True(s.item(mine.ItemID).Reserved)
	s.True(s.item(theirs.ItemID).Reserved)
}

func (s *TransactionServiceTestSuite) TestPerformMeeting_PermanentTransfersOwnership() {
	item := s.seedItem(s.lender.UserID, 100)
	txn, err := s.svc.BuildTransaction(s.ctx, oneWayPermanentReq(s.lender.UserID, s.borrower.UserID, []int{item.ItemID}))
	s.Require().NoError(err)
	meetingID := txn.MeetingIDs[0]

	// Nothing happens until both parties confirm the meeting.
	err = s.svc.PerformMeeting(s.ctx, txn.TransactionID, meetingID)
	s.ErrorIs(err, apperrors.ErrValidation)

	s.confirmMeeting(meetingID, s.lender.UserID, s.borrower.UserID)
	s.Require().NoError(s.svc.PerformMeeting(s.ctx, txn.TransactionID, meetingID))

	got := s.item(item.ItemID)
	s.Equal(s.borrower.UserID, got.OwnerID)
	s.Equal(s.borrower.UserID, got.HolderID)
	s.True(got.SoftDeleted)
	s.False(got.Reserved)

	// A loan worth half the item price credits both parties.
	s.True(s.user(s.lender.UserID).Credit.Equal(decimal.NewFromInt(50)))
	s.True(s.user(s.borrower.UserID).Credit.Equal(decimal.NewFromInt(50)))

	// The transaction cannot run twice.
	err = s.svc.PerformMeeting(s.ctx, txn.TransactionID, meetingID)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *TransactionServiceTestSuite) TestPerformMeeting_SaleAwardsFullPrice() {
	item := s.seedItem(s.lender.UserID, 100)
	req := oneWayPermanentReq(s.lender.UserID, s.borrower.UserID, []int{item.ItemID})
	req.TradeType = dto.TradeTypeSell
	txn, err := s.svc.BuildTransaction(s.ctx, req)
	s.Require().NoError(err)

	s.confirmMeeting(txn.MeetingIDs[0], s.lender.UserID, s.borrower.UserID)
	s.Require().NoError(s.svc.PerformMeeting(s.ctx, txn.TransactionID, txn.MeetingIDs[0]))

	s.True(s.user(s.lender.UserID).Credit.Equal(decimal.NewFromInt(100)))
}

func (s *TransactionServiceTestSuite) TestPerformMeeting_TemporaryRoundTrip() {
	item := s.seedItem(s.lender.UserID, 40)
	req := oneWayPermanentReq(s.lender.UserID, s.borrower.UserID, []int{item.ItemID})
	req.TradeDuration = dto.TradeDurationTemporary
	req.DurationMonths = 1
	txn, err := s.svc.BuildTransaction(s.ctx, req)
	s.Require().NoError(err)
	first, second := txn.MeetingIDs[0], txn.MeetingIDs[1]

	// The return meeting cannot run before the exchange has happened.
	err = s.svc.PerformMeeting(s.ctx, txn.TransactionID, second)
	s.ErrorIs(err, apperrors.ErrValidation)

	s.confirmMeeting(first, s.lender.UserID, s.borrower.UserID)
	s.Require().NoError(s.svc.PerformMeeting(s.ctx, txn.TransactionID, first))

	// Mid-loan: the borrower holds the item, the lender still owns it and
	// it stays off the market.
	got := s.item(item.ItemID)
	s.Equal(s.borrower.UserID, got.HolderID)
	s.Equal(s.lender.UserID, got.OwnerID)
	s.True(got.Reserved)

	s.confirmMeeting(second, s.lender.UserID, s.borrower.UserID)
	s.Require().NoError(s.svc.PerformMeeting(s.ctx, txn.TransactionID, second))

	got = s.item(item.ItemID)
	s.Equal(s.lender.UserID, got.HolderID)
	s.Equal(s.lender.UserID, got.OwnerID)
	s.False(got.Reserved)
	s.False(got.SoftDeleted)

	trade, err := portsrepo.GetAs[*domain.Trade](s.ctx, s.store, txn.TradeIDs[0])
	s.Require().NoError(err)
	s.True(trade.Complete)
	s.True(s.user(s.lender.UserID).Credit.Equal(decimal.NewFromInt(20)))
}

func (s *TransactionServiceTestSuite) TestPerformMeeting_RejectsForeignMeeting() {
	item := s.seedItem(s.lender.UserID, 10)
	txn, err := s.svc.BuildTransaction(s.ctx, oneWayPermanentReq(s.lender.UserID, s.borrower.UserID, []int{item.ItemID}))
	s.Require().NoError(err)

	err = s.svc.PerformMeeting(s.ctx, txn.TransactionID, txn.MeetingIDs[0]+999)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *TransactionServiceTestSuite) TestDeleteTransaction() {
	mine := s.seedItem(s.lender.UserID, 40)
	theirs := s.seedItem(s.borrower.UserID, 60)

	req := oneWayPermanentReq(s.lender.UserID, s.borrower.UserID, []int{mine.ItemID})
	req.LentItemIDs = []int{theirs.ItemID}
	req.TradeType = dto.TradeTypeTwoWay
	txn, err := s.svc.BuildTransaction(s.ctx, req)
	s.Require().NoError(err)

	s.Require().NoError(s.svc.DeleteTransaction(s.ctx, txn.TransactionID))

	// Backing out costs five times the loan value of everything involved.
	s.True(s.user(s.lender.UserID).Credit.Equal(decimal.NewFromInt(-250)))
	s.True(s.user(s.borrower.UserID).Credit.Equal(decimal.NewFromInt(-250)))

	// Only the first trade's items come back on the market; the mirror
	// items wait for their owner to relist them.
	s.False(s.item(mine.ItemID).Reserved)
	s.True(s.item(theirs.ItemID).Reserved)

	_, err = portsrepo.GetAs[*domain.Transaction](s.ctx, s.store, txn.TransactionID)
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.ErrorIs(s.svc.DeleteTransaction(s.ctx, txn.TransactionID), apperrors.ErrNotFound)
}

func (s *TransactionServiceTestSuite) TestCheckAgree() {
	item := s.seedItem(s.lender.UserID, 10)
	req := oneWayPermanentReq(s.lender.UserID, s.borrower.UserID, []int{item.ItemID})
	req.TradeDuration = dto.TradeDurationTemporary
	txn, err := s.svc.BuildTransaction(s.ctx, req)
	s.Require().NoError(err)

	agreed, err := s.svc.CheckAgree(s.ctx, txn.TransactionID)
	s.Require().NoError(err)
	s.False(agreed)

	// Agreeing to the exchange meeting alone is not enough: the return
	// meeting's location is still open for negotiation.
	m, err := portsrepo.GetAs[*domain.Meeting](s.ctx, s.store, txn.MeetingIDs[0])
	s.Require().NoError(err)
	m.MarkAgreed()
	s.Require().NoError(portsrepo.UpdateOne(s.ctx, s.store, m))

	agreed, err = s.svc.CheckAgree(s.ctx, txn.TransactionID)
	s.Require().NoError(err)
	s.False(agreed)

	m, err = portsrepo.GetAs[*domain.Meeting](s.ctx, s.store, txn.MeetingIDs[1])
	s.Require().NoError(err)
	m.MarkAgreed()
	s.Require().NoError(portsrepo.UpdateOne(s.ctx, s.store, m))

	agreed, err = s.svc.CheckAgree(s.ctx, txn.TransactionID)
	s.Require().NoError(err)
	s.True(agreed)
}

func (s *TransactionServiceTestSuite) TestFrequentPartners() {
	for _, partner := range []int{7, 8, 7} {
		seedTxn(s.T(), s.ctx, s.store,
			[]*domain.Trade{domain.NewTrade(partner, s.borrower.UserID, nil)}, nil)
	}

	ids, freqs, err := s.svc.FrequentPartners(s.ctx, s.borrower.UserID, 3)
	s.Require().NoError(err)
	s.Equal([]int{7, 8}, ids)
	s.Equal([]int{2, 1}, freqs)
}

func (s *TransactionServiceTestSuite) TestMostTradedItems() {
	// The ranking covers every trade in the system, whoever made it.
	seedTxn(s.T(), s.ctx, s.store,
		[]*domain.Trade{domain.NewTrade(s.lender.UserID, s.borrower.UserID, []int{5, 7})}, nil)
	seedTxn(s.T(), s.ctx, s.store,
		[]*domain.Trade{domain.NewTrade(s.borrower.UserID, s.lender.UserID, []int{5})}, nil)

	ids, freqs, err := s.svc.MostTradedItems(s.ctx, 3)
	s.Require().NoError(err)
	s.Equal([]int{5, 7}, ids)
	s.Equal([]int{2, 1}, freqs)

	// The limit truncates after ranking.
	ids, _, err = s.svc.MostTradedItems(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal([]int{5}, ids)
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
