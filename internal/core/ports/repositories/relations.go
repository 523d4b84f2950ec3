package repositories

import (
	"context"

	"github.com/SwapHands/item_trading_app/internal/core/domain"
)

// RelationResolver returns the entities related to a requesting entity under a
// named relation. Entities declaring a forward id list resolve directly; the
// other side of a registered pair resolves by scanning the subject kind for
// back-references.
type RelationResolver interface {
	Related(ctx context.Context, relationName string, requester domain.Entity, subjectKind domain.Kind) ([]domain.Entity, error)
}

// RelatedAs resolves a relation and returns the entities as their concrete type.
func RelatedAs[T domain.Entity](ctx context.Context, r RelationResolver, relationName string, requester domain.Entity) ([]T, error) {
	var zero T
	es, err := r.Related(ctx, relationName, requester, zero.Kind())
	if err != nil {
		return nil, err
	}
	return castAll[T](es), nil
}
