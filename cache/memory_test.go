package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Expiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStoreWithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "preview_abc", "uuid-1", time.Hour))

	val, err := store.Get(ctx, "preview_abc")
	require.NoError(t, err)
	assert.Equal(t, "uuid-1", val)

	now = now.Add(59 * time.Minute)
	_, err = store.Get(ctx, "preview_abc")
	assert.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = store.Get(ctx, "preview_abc")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryStore_MissingAndDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, store.Set(ctx, "k", "v", 0))
	require.NoError(t, store.Delete(ctx, "k"))
	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
