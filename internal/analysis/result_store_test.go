package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/tandem-analyzer/internal/kv"
)

func TestResultStore(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemoryBackend()
	store := NewResultStore(backend)

	_, found := store.Latest(ctx)
	assert.False(t, found)

	assert.Error(t, store.Save(ctx, nil))

	result := fixedResult()
	require.NoError(t, store.Save(ctx, result))

	// Mutating the caller's value does not reach the store.
	result.Insights[0] = "changed"

	latest, found := store.Latest(ctx)
	require.True(t, found)
	assert.Equal(t, "insight one", latest.Insights[0])
	assert.True(t, fixedResult().GeneratedAt.Equal(latest.GeneratedAt))

	t.Run("read back by a new store", func(t *testing.T) {
		fresh := NewResultStore(backend)
		latest, found := fresh.Latest(ctx)
		require.True(t, found)
		assert.Equal(t, fixedResult().SummaryStats, latest.SummaryStats)
	})

	t.Run("clear", func(t *testing.T) {
		store.Clear(ctx)
		_, found := store.Latest(ctx)
		assert.False(t, found)

		_, found = NewResultStore(backend).Latest(ctx)
		assert.False(t, found)
	})
}

func TestResultStore_CorruptedData(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemoryBackend()
	require.NoError(t, backend.Set(ctx, ResultKey, "{broken"))

	_, found := NewResultStore(backend).Latest(ctx)
	assert.False(t, found)
}

func TestResultStore_QuotaExceededKeepsMemory(t *testing.T) {
	ctx := context.Background()
	store := NewResultStore(kv.NewMemoryBackend(kv.WithQuota(10)))

	require.NoError(t, store.Save(ctx, fixedResult()))

	latest, found := store.Latest(ctx)
	require.True(t, found)
	assert.Equal(t, "142 mg/dL", latest.SummaryStats.AvgGlucose)
}
