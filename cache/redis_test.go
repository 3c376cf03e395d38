package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-cms/config"
)

// Runs only when TEST_REDIS_ADDR points at a disposable instance.
func TestRedisStore_RoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	store, err := NewRedisStore(config.RedisConfig{Addr: addr})
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "preview_test", "uuid-1", time.Minute))
	t.Cleanup(func() { store.Delete(ctx, "preview_test") })

	val, err := store.Get(ctx, "preview_test")
	require.NoError(t, err)
	assert.Equal(t, "uuid-1", val)

	_, err = store.Get(ctx, "preview_missing")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
