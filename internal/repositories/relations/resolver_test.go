package relations_test

import (
	"context"
	"testing"
	"time"

	"github.com/SwapHands/item_trading_app/internal/core/domain"
	portsrepo "github.com/SwapHands/item_trading_app/internal/core/ports/repositories"
	"github.com/SwapHands/item_trading_app/internal/repositories/database/memory"
	"github.com/SwapHands/item_trading_app/internal/repositories/relations"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForwardRelation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	resolver := relations.NewResolver(store)

	m1, err := portsrepo.CreateOne(ctx, store, domain.NewMeeting(time.Now(), "park", 1))
	require.NoError(t, err)
	m2, err := portsrepo.CreateOne(ctx, store, domain.NewMeeting(time.Now(), "cafe", 1))
	require.NoError(t, err)
	txn, err := portsrepo.CreateOne(ctx, store, domain.NewTransaction(nil, []int{m1.Key(), m2.Key()}))
	require.NoError(t, err)

	meetings, err := portsrepo.RelatedAs[*domain.Meeting](ctx, resolver, "meetings", txn)
	require.NoError(t, err)
	require.Len(t, meetings, 2)
	assert.Equal(t, "park", meetings[0].Location())
	assert.Equal(t, "cafe", meetings[1].Location())
}

func TestReverseRelationScansSubjects(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	resolver := relations.NewResolver(store)

	m, err := portsrepo.CreateOne(ctx, store, domain.NewMeeting(time.Now(), "park", 1))
	require.NoError(t, err)
	other, err := portsrepo.CreateOne(ctx, store, domain.NewMeeting(time.Now(), "cafe", 1))
	require.NoError(t, err)

	txn, err := portsrepo.CreateOne(ctx, store, domain.NewTransaction(nil, []int{m.Key()}))
	require.NoError(t, err)
	_, err = portsrepo.CreateOne(ctx, store, domain.NewTransaction(nil, []int{other.Key()}))
	require.NoError(t, err)

	// The meeting declares no forward list, so it resolves by reverse scan.
	txns, err := portsrepo.RelatedAs[*domain.Transaction](ctx, resolver, "transactions", m)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, txn.Key(), txns[0].Key())
}

func TestItemTagPair(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	resolver := relations.NewResolver(store)

	item, err := portsrepo.CreateOne(ctx, store, domain.NewItem("bike", "", 1, decimal.Zero, false))
	require.NoError(t, err)
	tag, err := portsrepo.CreateOne(ctx, store, domain.NewTag("outdoors", []int{item.Key()}))
	require.NoError(t, err)

	items, err := portsrepo.RelatedAs[*domain.Item](ctx, resolver, "items", tag)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "bike", items[0].Name)

	tags, err := portsrepo.RelatedAs[*domain.Tag](ctx, resolver, "tags", item)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "outdoors", tags[0].Name)
}

func TestUnknownRelation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	resolver := relations.NewResolver(store)

	m, err := portsrepo.CreateOne(ctx, store, domain.NewMeeting(time.Now(), "park", 1))
	require.NoError(t, err)

	_, err = resolver.Related(ctx, "owners", m, domain.KindUser)
	assert.Error(t, err)
}
