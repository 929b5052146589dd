package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/tandem-analyzer/internal/common"
	"github.com/Veraticus/tandem-analyzer/internal/kv"
	"github.com/Veraticus/tandem-analyzer/internal/model"
)

// failingBackend fails every operation.
type failingBackend struct{}

func (failingBackend) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("storage unavailable")
}

func (failingBackend) Set(context.Context, string, string) error {
	return errors.New("storage unavailable")
}

func (failingBackend) Delete(context.Context, string) error { return nil }

func (failingBackend) Close() error { return nil }

func TestStore_LoadDefaults(t *testing.T) {
	store := NewStore(kv.NewMemoryBackend())
	store.Load(context.Background())

	assert.Equal(t, model.DefaultSettings(), store.Get())
	assert.Equal(t, model.StorageTypePersistent, store.StorageType())
}

func TestStore_WriteThrough(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemoryBackend()

	store := NewStore(backend)
	require.NoError(t, store.SetAPIToken(ctx, "  secret-token  "))
	require.NoError(t, store.SetStorageType(ctx, model.StorageTypeSession))
	store.SetNotifications(ctx, true)
	store.SetAutoAnalysis(ctx, true)

	raw, found, err := backend.Get(ctx, Key)
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{
		"apiToken": "secret-token",
		"storageType": "session",
		"enableNotifications": true,
		"autoAnalysis": true
	}`, raw)

	reloaded := NewStore(backend)
	reloaded.Load(ctx)
	assert.Equal(t, store.Get(), reloaded.Get())
	assert.True(t, reloaded.Get().HasAPIToken())
}

func TestStore_LoadMergesOverDefaults(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemoryBackend()
	require.NoError(t, backend.Set(ctx, Key, `{"autoAnalysis":true}`))

	store := NewStore(backend)
	store.Load(ctx)

	got := store.Get()
	assert.True(t, got.AutoAnalysis)
	assert.Equal(t, model.StorageTypePersistent, got.StorageType)
}

func TestStore_LoadFailsSoft(t *testing.T) {
	ctx := context.Background()

	t.Run("malformed json", func(t *testing.T) {
		backend := kv.NewMemoryBackend()
		require.NoError(t, backend.Set(ctx, Key, `{not json`))

		store := NewStore(backend)
		store.Load(ctx)
		assert.Equal(t, model.DefaultSettings(), store.Get())
	})

	t.Run("unknown storage type", func(t *testing.T) {
		backend := kv.NewMemoryBackend()
		require.NoError(t, backend.Set(ctx, Key, `{"storageType":"cloud","enableNotifications":true}`))

		store := NewStore(backend)
		store.Load(ctx)
		assert.Equal(t, model.StorageTypePersistent, store.StorageType())
		assert.True(t, store.Get().EnableNotifications)
	})

	t.Run("backend unavailable", func(t *testing.T) {
		store := NewStore(failingBackend{})
		store.Load(ctx)
		assert.Equal(t, model.DefaultSettings(), store.Get())

		// Writes still update memory even when the backend refuses them.
		store.SetAutoAnalysis(ctx, true)
		assert.True(t, store.Get().AutoAnalysis)
	})
}

func TestStore_Validation(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemoryBackend()
	store := NewStore(backend)

	err := store.SetAPIToken(ctx, "   ")
	assert.ErrorIs(t, err, common.ErrEmptyToken)
	assert.Equal(t, "Please enter a valid API token.", common.UserMessage(err))

	err = store.SetStorageType(ctx, "cloud")
	assert.ErrorIs(t, err, common.ErrInvalidStorageType)

	// Rejected input leaves no trace in memory or storage.
	assert.Equal(t, model.DefaultSettings(), store.Get())
	_, found, err := backend.Get(ctx, Key)
	require.NoError(t, err)
	assert.False(t, found)
}
