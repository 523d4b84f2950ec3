package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/SwapHands/item_trading_app/internal/core/domain"
	portsrepo "github.com/SwapHands/item_trading_app/internal/core/ports/repositories"
	portssvc "github.com/SwapHands/item_trading_app/internal/core/ports/services"
)

// Keys of the runtime-editable trading policy settings.
const (
	ConfigMaxMeetingEdits           = "maxMeetingEdits"
	ConfigMaxIncompleteTransactions = "maxIncompleteTransactions"
	ConfigMaxTransactionsPerWeek    = "maxTransactionsPerWeek"
	ConfigLendBorrowDifference      = "lendBorrowDifference"
)

// configService holds the live policy map. Admin edits are persisted as
// Config entities and pushed to every subscriber, so consumers never poll.
type configService struct {
	store portsrepo.Store

	mu     sync.RWMutex
	values map[string]string
	subs   []func(map[string]string)
}

var _ portssvc.ConfigSvc = (*configService)(nil)

// NewConfigService seeds the live map with defaults, then overrides them with
// any persisted settings.
func NewConfigService(ctx context.Context, store portsrepo.Store, defaults map[string]string) (portssvc.ConfigSvc, error) {
	s := &configService{store: store, values: make(map[string]string, len(defaults))}
	for k, v := range defaults {
		s.values[k] = v
	}
	saved, err := portsrepo.AllAs[*domain.Config](ctx, store)
	if err != nil {
		return nil, fmt.Errorf("load persisted config: %w", err)
	}
	for _, c := range saved {
		s.values[c.Name] = c.Value
	}
	return s, nil
}

func (s *configService) Get(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key]
}

func (s *configService) All() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Edit updates one setting, persists the full map, and notifies subscribers.
func (s *configService) Edit(ctx context.Context, key string, value int) error {
	s.mu.Lock()
	s.values[key] = strconv.Itoa(value)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.persist(ctx, snapshot); err != nil {
		return err
	}
	s.notify(snapshot)
	return nil
}

// Subscribe registers a listener and immediately delivers the current map so
// consumers initialize their thresholds without a separate read.
func (s *configService) Subscribe(fn func(map[string]string)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	fn(snapshot)
}

func (s *configService) snapshotLocked() map[string]string {
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

func (s *configService) notify(snapshot map[string]string) {
	s.mu.RLock()
	subs := make([]func(map[string]string), len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()
	for _, fn := range subs {
		fn(snapshot)
	}
}

func (s *configService) persist(ctx context.Context, snapshot map[string]string) error {
	if err := s.store.Remove(ctx, domain.KindConfig); err != nil {
		return fmt.Errorf("clear persisted config: %w", err)
	}
	rows := make([]*domain.Config, 0, len(snapshot))
	for k, v := range snapshot {
		rows = append(rows, &domain.Config{Name: k, Value: v})
	}
	if _, err := portsrepo.CreateAll(ctx, s.store, rows); err != nil {
		return fmt.Errorf("persist config: %w", err)
	}
	return nil
}
