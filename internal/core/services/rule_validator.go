package services

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/SwapHands/item_trading_app/internal/core/domain"
	portsrepo "github.com/SwapHands/item_trading_app/internal/core/ports/repositories"
	portssvc "github.com/SwapHands/item_trading_app/internal/core/ports/services"
)

// Defaults used until the policy settings have been loaded.
const (
	defaultLendBorrowDifference      = 0
	defaultMaxIncompleteTransactions = 3
	defaultMaxTransactionsPerWeek    = 7
)

// ruleValidator evaluates the trading rules a user can break. Each rule
// compares some measure of the user's activity against a restriction kept in
// sync with the live policy settings.
type ruleValidator struct {
	store portsrepo.Store

	mu           sync.RWMutex
	restrictions map[string]int
}

func NewRuleValidator(store portsrepo.Store, cfg portssvc.ConfigSvc) portssvc.RuleSvc {
	v := &ruleValidator{
		store: store,
		restrictions: map[string]int{
			domain.RuleNoMoreBorrowThanLend:     defaultLendBorrowDifference,
			domain.RuleMaxIncompleteTransaction: defaultMaxIncompleteTransactions,
			domain.RuleMaxTransactionPerWeek:    defaultMaxTransactionsPerWeek,
			domain.RuleVacation:                 0,
		},
	}
	cfg.Subscribe(v.onConfigChanged)
	return v
}

var _ portssvc.RuleSvc = (*ruleValidator)(nil)

func (v *ruleValidator) onConfigChanged(values map[string]string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for key, rule := range map[string]string{
		ConfigLendBorrowDifference:      domain.RuleNoMoreBorrowThanLend,
		ConfigMaxIncompleteTransactions: domain.RuleMaxIncompleteTransaction,
		ConfigMaxTransactionsPerWeek:    domain.RuleMaxTransactionPerWeek,
	} {
		if n, err := strconv.Atoi(values[key]); err == nil && n >= 0 {
			v.restrictions[rule] = n
		}
	}
}

func (v *ruleValidator) restriction(rule string) int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.restrictions[rule]
}

// Rules returns the rules with their current restrictions, in a fixed order.
func (v *ruleValidator) Rules() []domain.SystemRule {
	names := []string{
		domain.RuleNoMoreBorrowThanLend,
		domain.RuleMaxIncompleteTransaction,
		domain.RuleMaxTransactionPerWeek,
		domain.RuleVacation,
	}
	rules := make([]domain.SystemRule, len(names))
	for i, name := range names {
		rules[i] = domain.SystemRule{Name: name, Restriction: v.restriction(name)}
	}
	return rules
}

func (v *ruleValidator) Violate(ctx context.Context, ruleName string, userID int) (bool, error) {
	switch ruleName {
	case domain.RuleNoMoreBorrowThanLend:
		return v.violatesBorrowBalance(ctx, userID)
	case domain.RuleMaxIncompleteTransaction:
		return v.violatesIncompleteLimit(ctx, userID)
	case domain.RuleMaxTransactionPerWeek:
		return v.violatesWeeklyLimit(ctx, userID)
	case domain.RuleVacation:
		return v.violatesVacation(ctx, userID)
	default:
		return false, ErrRuleDoesNotExist
	}
}

// violatesBorrowBalance fires when the user has initiated more borrows than
// lends by more than the allowed difference.
func (v *ruleValidator) violatesBorrowBalance(ctx context.Context, userID int) (bool, error) {
	borrows, err := NewTransactionQuery(v.store).InvolvesUserAsBorrower(userID).Count(ctx)
	if err != nil {
		return false, err
	}
	lends, err := NewTransactionQuery(v.store).InvolvesUserAsLender(userID).Count(ctx)
	if err != nil {
		return false, err
	}
	return borrows-lends > v.restriction(domain.RuleNoMoreBorrowThanLend), nil
}

// violatesIncompleteLimit fires when too many of the user's transactions are
// past their final meeting date without being completed.
func (v *ruleValidator) violatesIncompleteLimit(ctx context.Context, userID int) (bool, error) {
	count, err := NewTransactionQuery(v.store).
		InvolvesUser(userID).
		IsIncomplete().
		NotOnGoing().
		Count(ctx)
	if err != nil {
		return false, err
	}
	return count > v.restriction(domain.RuleMaxIncompleteTransaction), nil
}

// violatesWeeklyLimit fires when the user has committed to more transactions
// this calendar week than allowed. Only transactions with at least one agreed
// meeting count.
func (v *ruleValidator) violatesWeeklyLimit(ctx context.Context, userID int) (bool, error) {
	count, err := NewTransactionQuery(v.store).
		InvolvesUser(userID).
		After(mondayOfWeek(time.Now())).
		HasAgreedMeeting().
		Count(ctx)
	if err != nil {
		return false, err
	}
	return count > v.restriction(domain.RuleMaxTransactionPerWeek), nil
}

// violatesVacation fires when the user has any transaction still open, which
// bars switching to vacation status.
func (v *ruleValidator) violatesVacation(ctx context.Context, userID int) (bool, error) {
	open, err := NewTransactionQuery(v.store).InvolvesUser(userID).OnGoing().Count(ctx)
	if err != nil {
		return false, err
	}
	return open != v.restriction(domain.RuleVacation), nil
}

// mondayOfWeek returns UTC midnight of the Monday starting the week that
// contains t.
func mondayOfWeek(t time.Time) time.Time {
	t = t.UTC()
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	y, m, d := t.AddDate(0, 0, -daysSinceMonday).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
