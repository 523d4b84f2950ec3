package repositories

import (
	"context"

	"github.com/SwapHands/item_trading_app/internal/core/domain"
)

// Store is durable keyed storage of entities by kind. Batch writes are
// all-or-nothing within one call: uniformity, duplicate-key, and unknown-key
// checks run before anything is written. Nothing is atomic across calls.
type Store interface {
	// Get returns the entity with the given id, or apperrors.ErrNotFound.
	Get(ctx context.Context, kind domain.Kind, id int) (domain.Entity, error)
	// GetMany returns the entities for the given ids, in id order of the input.
	GetMany(ctx context.Context, kind domain.Kind, ids []int) ([]domain.Entity, error)
	// All returns every entity of the kind in ascending key order.
	All(ctx context.Context, kind domain.Kind) ([]domain.Entity, error)
	// Create persists the batch, assigning max(existing)+1 onward to entities
	// with a zero key. Non-zero keys that already exist are rejected with
	// apperrors.ErrDuplicate; mixed-kind batches with ErrNonUniformBatch.
	Create(ctx context.Context, kind domain.Kind, entities []domain.Entity) ([]domain.Entity, error)
	// Update replaces the stored entities. Unknown keys are rejected with
	// apperrors.ErrNotFound, duplicate keys within the batch with ErrDuplicate.
	Update(ctx context.Context, kind domain.Kind, entities []domain.Entity) error
	// Delete removes the entities with the given ids; unknown ids are rejected.
	Delete(ctx context.Context, kind domain.Kind, ids []int) error
	// Remove drops the entire collection for the kind.
	Remove(ctx context.Context, kind domain.Kind) error
}

// GetAs fetches one entity and returns it as its concrete type. The kind is
// derived from the type parameter, which must be a pointer entity type whose
// Kind method is callable on a nil receiver.
func GetAs[T domain.Entity](ctx context.Context, s Store, id int) (T, error) {
	var zero T
	e, err := s.Get(ctx, zero.Kind(), id)
	if err != nil {
		return zero, err
	}
	return e.(T), nil
}

// GetManyAs fetches a batch of entities as their concrete type.
func GetManyAs[T domain.Entity](ctx context.Context, s Store, ids []int) ([]T, error) {
	var zero T
	es, err := s.GetMany(ctx, zero.Kind(), ids)
	if err != nil {
		return nil, err
	}
	return castAll[T](es), nil
}

// AllAs returns every entity of the type parameter's kind.
func AllAs[T domain.Entity](ctx context.Context, s Store) ([]T, error) {
	var zero T
	es, err := s.All(ctx, zero.Kind())
	if err != nil {
		return nil, err
	}
	return castAll[T](es), nil
}

// CreateAll persists a typed batch and returns it with assigned keys.
func CreateAll[T domain.Entity](ctx context.Context, s Store, entities []T) ([]T, error) {
	var zero T
	created, err := s.Create(ctx, zero.Kind(), upcast(entities))
	if err != nil {
		return nil, err
	}
	return castAll[T](created), nil
}

// CreateOne persists a single entity and returns it with its assigned key.
func CreateOne[T domain.Entity](ctx context.Context, s Store, entity T) (T, error) {
	created, err := CreateAll(ctx, s, []T{entity})
	if err != nil {
		var zero T
		return zero, err
	}
	return created[0], nil
}

// UpdateAll replaces a typed batch of stored entities.
func UpdateAll[T domain.Entity](ctx context.Context, s Store, entities []T) error {
	var zero T
	return s.Update(ctx, zero.Kind(), upcast(entities))
}

// UpdateOne replaces a single stored entity.
func UpdateOne[T domain.Entity](ctx context.Context, s Store, entity T) error {
	return UpdateAll(ctx, s, []T{entity})
}

func upcast[T domain.Entity](in []T) []domain.Entity {
	out := make([]domain.Entity, len(in))
	for i, e := range in {
		out[i] = e
	}
	return out
}

func castAll[T domain.Entity](in []domain.Entity) []T {
	out := make([]T, len(in))
	for i, e := range in {
		out[i] = e.(T)
	}
	return out
}
