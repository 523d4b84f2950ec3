package relations

import (
	"context"
	"fmt"

	"github.com/SwapHands/item_trading_app/internal/core/domain"
	portsrepo "github.com/SwapHands/item_trading_app/internal/core/ports/repositories"
)

type relationKey struct {
	requester domain.Kind
	name      string
}

// Resolver resolves named relations between entity kinds. A registered pair
// gives both sides a relation name: the side declaring a forward id list is
// resolved by a keyed lookup, the other side by scanning every subject entity
// for a back-reference. The reverse path stays O(n) on purpose; it doubles as
// a consistency check over the whole collection.
type Resolver struct {
	store portsrepo.Store
	// reverse maps (requester kind, relation name) to the relation name the
	// subject declares back at the requester.
	reverse map[relationKey]string
}

var _ portsrepo.RelationResolver = (*Resolver)(nil)

// NewResolver builds a resolver with the system's registered relation pairs:
// Item-Tag ("tags"/"items") and Meeting-Transaction ("transactions"/"meetings").
func NewResolver(store portsrepo.Store) *Resolver {
	r := &Resolver{store: store, reverse: make(map[relationKey]string)}
	r.Register(domain.KindItem, "tags", domain.KindTag, "items")
	r.Register(domain.KindMeeting, "transactions", domain.KindTransaction, "meetings")
	return r
}

// Register declares a reciprocal relation pair between two kinds.
func (r *Resolver) Register(first domain.Kind, firstName string, second domain.Kind, secondName string) {
	r.reverse[relationKey{first, firstName}] = secondName
	r.reverse[relationKey{second, secondName}] = firstName
}

// Related returns the subject entities related to the requester under the
// given relation name.
func (r *Resolver) Related(ctx context.Context, relationName string, requester domain.Entity, subjectKind domain.Kind) ([]domain.Entity, error) {
	if ids, ok := requester.Relations()[relationName]; ok {
		return r.store.GetMany(ctx, subjectKind, ids)
	}
	return r.reverseScan(ctx, relationName, requester, subjectKind)
}

func (r *Resolver) reverseScan(ctx context.Context, relationName string, requester domain.Entity, subjectKind domain.Kind) ([]domain.Entity, error) {
	backName, ok := r.reverse[relationKey{requester.Kind(), relationName}]
	if !ok {
		return nil, fmt.Errorf("no relation %q registered for %s", relationName, requester.Kind())
	}

	candidates, err := r.store.All(ctx, subjectKind)
	if err != nil {
		return nil, err
	}
	var related []domain.Entity
	for _, candidate := range candidates {
		for _, id := range candidate.Relations()[backName] {
			if id == requester.Key() {
				related = append(related, candidate)
				break
			}
		}
	}
	return related, nil
}
