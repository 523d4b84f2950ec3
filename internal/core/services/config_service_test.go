package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SwapHands/item_trading_app/internal/core/domain"
	portsrepo "github.com/SwapHands/item_trading_app/internal/core/ports/repositories"
	"github.com/SwapHands/item_trading_app/internal/core/services"
	"github.com/SwapHands/item_trading_app/internal/repositories/database/memory"
)

func TestConfigService_DefaultsAndOverrides(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	// A previously saved setting wins over the startup default.
	_, err := portsrepo.CreateOne(ctx, store, &domain.Config{Name: services.ConfigMaxMeetingEdits, Value: "5"})
	require.NoError(t, err)

	cfg := newConfigSvc(t, ctx, store)
	assert.Equal(t, "5", cfg.Get(services.ConfigMaxMeetingEdits))
	assert.Equal(t, "7", cfg.Get(services.ConfigMaxTransactionsPerWeek))

	all := cfg.All()
	assert.Equal(t, "5", all[services.ConfigMaxMeetingEdits])
	assert.Len(t, all, 4)
}

func TestConfigService_EditPersists(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	cfg := newConfigSvc(t, ctx, store)
	require.NoError(t, cfg.Edit(ctx, services.ConfigMaxIncompleteTransactions, 9))
	assert.Equal(t, "9", cfg.Get(services.ConfigMaxIncompleteTransactions))

	// A fresh service over the same store sees the edited value.
	reloaded := newConfigSvc(t, ctx, store)
	assert.Equal(t, "9", reloaded.Get(services.ConfigMaxIncompleteTransactions))
}

func TestConfigService_SubscribeDeliversImmediatelyAndOnEdit(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	cfg := newConfigSvc(t, ctx, store)

	var seen []map[string]string
	cfg.Subscribe(func(values map[string]string) {
		seen = append(seen, values)
	})
	require.Len(t, seen, 1)
	assert.Equal(t, "3", seen[0][services.ConfigMaxMeetingEdits])

	require.NoError(t, cfg.Edit(ctx, services.ConfigMaxMeetingEdits, 2))
	require.Len(t, seen, 2)
	assert.Equal(t, "2", seen[1][services.ConfigMaxMeetingEdits])
}
