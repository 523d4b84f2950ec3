package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/SwapHands/item_trading_app/internal/apperrors"
	"github.com/SwapHands/item_trading_app/internal/core/domain"
	portsrepo "github.com/SwapHands/item_trading_app/internal/core/ports/repositories"
)

// Store is an in-memory implementation of the store port. It deep-copies
// entities on the way in and out, so callers never alias stored state and a
// read-modify-write cycle only lands via Update.
type Store struct {
	mu    sync.RWMutex
	kinds map[domain.Kind]map[int]domain.Entity
}

var _ portsrepo.Store = (*Store)(nil)

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{kinds: make(map[domain.Kind]map[int]domain.Entity)}
}

func (s *Store) Get(ctx context.Context, kind domain.Kind, id int) (domain.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.kinds[kind][id]
	if !ok {
		return nil, fmt.Errorf("%s id %d: %w", kind, id, apperrors.ErrNotFound)
	}
	return e.Clone(), nil
}

func (s *Store) GetMany(ctx context.Context, kind domain.Kind, ids []int) ([]domain.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Entity, 0, len(ids))
	for _, id := range ids {
		e, ok := s.kinds[kind][id]
		if !ok {
			return nil, fmt.Errorf("%s id %d: %w", kind, id, apperrors.ErrNotFound)
		}
		out = append(out, e.Clone())
	}
	return out, nil
}

func (s *Store) All(ctx context.Context, kind domain.Kind) ([]domain.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	coll := s.kinds[kind]
	ids := make([]int, 0, len(coll))
	for id := range coll {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]domain.Entity, 0, len(ids))
	for _, id := range ids {
		out = append(out, coll[id].Clone())
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, kind domain.Kind, entities []domain.Entity) ([]domain.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll := s.kinds[kind]
	if coll == nil {
		coll = make(map[int]domain.Entity)
		s.kinds[kind] = coll
	}

	// All checks run before the first write so a rejected batch leaves the
	// collection untouched.
	next := 1
	for id := range coll {
		if id >= next {
			next = id + 1
		}
	}
	seen := make(map[int]bool, len(entities))
	assigned := make([]int, len(entities))
	for i, e := range entities {
		if e.Kind() != kind {
			return nil, fmt.Errorf("create %s: got %s: %w", kind, e.Kind(), apperrors.ErrNonUniformBatch)
		}
		id := e.Key()
		if id == 0 {
			id = next
			next++
		}
		if _, exists := coll[id]; exists || seen[id] {
			return nil, fmt.Errorf("%s id %d: %w", kind, id, apperrors.ErrDuplicate)
		}
		seen[id] = true
		assigned[i] = id
	}

	out := make([]domain.Entity, len(entities))
	for i, e := range entities {
		stored := e.Clone()
		stored.SetKey(assigned[i])
		coll[assigned[i]] = stored
		out[i] = stored.Clone()
	}
	return out, nil
}

func (s *Store) Update(ctx context.Context, kind domain.Kind, entities []domain.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll := s.kinds[kind]
	seen := make(map[int]bool, len(entities))
	for _, e := range entities {
		if e.Kind() != kind {
			return fmt.Errorf("update %s: got %s: %w", kind, e.Kind(), apperrors.ErrNonUniformBatch)
		}
		if _, ok := coll[e.Key()]; !ok {
			return fmt.Errorf("%s id %d: %w", kind, e.Key(), apperrors.ErrNotFound)
		}
		if seen[e.Key()] {
			return fmt.Errorf("%s id %d repeated in batch: %w", kind, e.Key(), apperrors.ErrDuplicate)
		}
		seen[e.Key()] = true
	}

	for _, e := range entities {
		coll[e.Key()] = e.Clone()
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, kind domain.Kind, ids []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll := s.kinds[kind]
	for _, id := range ids {
		if _, ok := coll[id]; !ok {
			return fmt.Errorf("%s id %d: %w", kind, id, apperrors.ErrNotFound)
		}
	}
	for _, id := range ids {
		delete(coll, id)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, kind domain.Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.kinds, kind)
	return nil
}
