package services

import (
	"context"

	"github.com/SwapHands/item_trading_app/internal/core/domain"
	portsrepo "github.com/SwapHands/item_trading_app/internal/core/ports/repositories"
	portssvc "github.com/SwapHands/item_trading_app/internal/core/ports/services"
)

// alertService gathers the admin work queue: rule breakers to freeze,
// frozen users asking back in, and items awaiting approval.
type alertService struct {
	store   portsrepo.Store
	ruleSvc portssvc.RuleSvc
	itemSvc portssvc.ItemSvc
}

func NewAlertService(store portsrepo.Store, ruleSvc portssvc.RuleSvc, itemSvc portssvc.ItemSvc) portssvc.AlertSvc {
	return &alertService{store: store, ruleSvc: ruleSvc, itemSvc: itemSvc}
}

var _ portssvc.AlertSvc = (*alertService)(nil)

func (s *alertService) FreezeSuggestions(ctx context.Context) ([]int, error) {
	users, err := portsrepo.AllAs[*domain.User](ctx, s.store)
	if err != nil {
		return nil, err
	}

	var suggested []int
	for _, u := range users {
		if u.Status == domain.StatusFrozen || u.Status == domain.StatusRequestUnfreeze || u.IsAdmin() {
			continue
		}
		for _, rule := range s.ruleSvc.Rules() {
			// The vacation rule guards a status change, not good standing.
			if rule.Name == domain.RuleVacation {
				continue
			}
			violated, err := s.ruleSvc.Violate(ctx, rule.Name, u.UserID)
			if err != nil {
				return nil, err
			}
			if violated {
				suggested = append(suggested, u.UserID)
				break
			}
		}
	}
	return suggested, nil
}

func (s *alertService) UnfreezeRequests(ctx context.Context) ([]int, error) {
	users, err := portsrepo.AllAs[*domain.User](ctx, s.store)
	if err != nil {
		return nil, err
	}
	var ids []int
	for _, u := range users {
		if u.Status == domain.StatusRequestUnfreeze {
			ids = append(ids, u.UserID)
		}
	}
	return ids, nil
}

func (s *alertService) AddItemRequests(ctx context.Context) ([]*domain.Item, error) {
	return s.itemSvc.PendingApproval(ctx)
}
