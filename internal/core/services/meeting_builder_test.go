package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SwapHands/item_trading_app/internal/core/services"
	"github.com/SwapHands/item_trading_app/internal/repositories/database/memory"
)

func TestMeetingBuilder_RejectsSecondTime(t *testing.T) {
	b := services.NewMeetingBuilder(1, 2)
	require.NoError(t, b.FillTime(time.Now()))
	assert.ErrorIs(t, b.FillTime(time.Now()), services.ErrTooManyTimes)
}

func TestMeetingBuilder_LocationLimits(t *testing.T) {
	b := services.NewMeetingBuilder(1, 2).Permanent()
	require.NoError(t, b.FillLocation("Union Station"))
	assert.ErrorIs(t, b.FillLocation("Kensington Market"), services.ErrTooManyLocations)

	b = services.NewMeetingBuilder(1, 2).Temporary(2)
	require.NoError(t, b.FillLocation("Union Station"))
	require.NoError(t, b.FillLocation("Kensington Market"))
	assert.ErrorIs(t, b.FillLocation("High Park"), services.ErrTooManyLocations)
}

func TestMeetingBuilder_PermanentBuildsSingleMeeting(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	when := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

	b := services.NewMeetingBuilder(1, 2)
	require.NoError(t, b.FillTime(when))
	require.NoError(t, b.FillLocation("Union Station"))

	meetings, err := b.Build(ctx, store)
	require.NoError(t, err)
	require.Len(t, meetings, 1)

	m := meetings[0]
	assert.Equal(t, when, m.Time())
	assert.Equal(t, "Union Station", m.Location())
	assert.Equal(t, 1, m.LastEditor())
	assert.False(t, m.Agreed)
	assert.False(t, m.SecondMeeting)
	// Both parties must confirm before the meeting counts as complete.
	assert.Contains(t, m.ConfirmedBy, 1)
	assert.Contains(t, m.ConfirmedBy, 2)
	assert.False(t, m.IsComplete())
}

func TestMeetingBuilder_TemporaryDerivesReturnMeeting(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	when := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

	b := services.NewMeetingBuilder(1, 2).Temporary(2)
	require.NoError(t, b.FillTime(when))
	require.NoError(t, b.FillLocation("Union Station"))

	meetings, err := b.Build(ctx, store)
	require.NoError(t, err)
	require.Len(t, meetings, 2)

	ret := meetings[1]
	assert.True(t, ret.SecondMeeting)
	assert.Equal(t, when.AddDate(0, 2, 0), ret.Time())
	// No second location given, so the return meeting reuses the first.
	assert.Equal(t, "Union Station", ret.Location())
	// The date is derived, but the location is still up for negotiation.
	assert.False(t, ret.Agreed)
}

func TestMeetingBuilder_TemporarySecondLocation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	b := services.NewMeetingBuilder(1, 2).Temporary(0)
	require.NoError(t, b.FillTime(time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)))
	require.NoError(t, b.FillLocation("Union Station"))
	require.NoError(t, b.FillLocation("Kensington Market"))

	meetings, err := b.Build(ctx, store)
	require.NoError(t, err)
	require.Len(t, meetings, 2)
	assert.Equal(t, "Kensington Market", meetings[1].Location())
	// Zero duration falls back to the default one month loan period.
	assert.Equal(t, meetings[0].Time().AddDate(0, 1, 0), meetings[1].Time())
}
