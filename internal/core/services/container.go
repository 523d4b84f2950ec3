package services

import (
	"context"
	"strconv"

	portsrepo "github.com/SwapHands/item_trading_app/internal/core/ports/repositories"
	portssvc "github.com/SwapHands/item_trading_app/internal/core/ports/services"
	"github.com/SwapHands/item_trading_app/pkg/config"
)

// Container holds all the services and manages their dependencies.
type Container struct {
	Config      portssvc.ConfigSvc
	Rule        portssvc.RuleSvc
	User        portssvc.UserSvc
	Item        portssvc.ItemSvc
	Credit      portssvc.CreditSvc
	Meeting     portssvc.MeetingSvc
	Transaction portssvc.TransactionSvc
	Command     portssvc.CommandSvc
	Alert       portssvc.AlertSvc
}

// NewContainer wires the services over the given store and relation resolver.
// The config service comes first: the meeting service and the rule validator
// subscribe to it for their policy values.
func NewContainer(ctx context.Context, cfg *config.Config, store portsrepo.Store, relations portsrepo.RelationResolver) (*Container, error) {
	configSvc, err := NewConfigService(ctx, store, map[string]string{
		ConfigMaxMeetingEdits:           strconv.Itoa(cfg.MaxMeetingEdits),
		ConfigMaxIncompleteTransactions: strconv.Itoa(cfg.MaxIncompleteTransactions),
		ConfigMaxTransactionsPerWeek:    strconv.Itoa(cfg.MaxTransactionsPerWeek),
		ConfigLendBorrowDifference:      strconv.Itoa(cfg.LendBorrowDifference),
	})
	if err != nil {
		return nil, err
	}

	container := &Container{Config: configSvc}

	container.Rule = NewRuleValidator(store, configSvc)
	container.User = NewUserService(store, container.Rule, cfg.JWTSecret, cfg.JWTExpiryDuration, cfg.JWTIssuer)
	container.Item = NewItemService(store)
	container.Credit = NewCreditService(store)
	container.Meeting = NewMeetingService(store, configSvc)
	container.Transaction = NewTransactionService(store, container.Credit, relations)
	container.Alert = NewAlertService(store, container.Rule, container.Item)

	container.Command = NewCommandService(store,
		NewAddToWishlistAction(store, container.Item),
		NewApproveItemAction(store, container.Item),
		NewInitiateTransactionAction(store, container.Transaction),
	)

	return container, nil
}
