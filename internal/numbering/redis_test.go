package numbering

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client)
}

func TestRedisStoreGetCreatesDefaults(t *testing.T) {
	store := newRedisStore(t)

	cfg, err := store.Get(context.Background(), "acme", TypeInvoice)
	require.NoError(t, err)
	require.Equal(t, DefaultFormatConfig(), cfg)
}

func TestRedisStoreIncrementAndGet(t *testing.T) {
	store := newRedisStore(t)

	issued, cfg, err := store.IncrementAndGet(context.Background(), "acme", TypeInvoice)
	require.NoError(t, err)
	require.Equal(t, int64(1), issued)
	require.Equal(t, int64(2), cfg.Counter)

	issued, _, err = store.IncrementAndGet(context.Background(), "acme", TypeInvoice)
	require.NoError(t, err)
	require.Equal(t, int64(2), issued)
}

func TestRedisStoreConcurrentIncrements(t *testing.T) {
	store := newRedisStore(t)

	const workers = 32
	results := make(chan int64, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			issued, _, err := store.IncrementAndGet(context.Background(), "acme", TypeReceipt)
			require.NoError(t, err)
			results <- issued
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int64]bool, workers)
	for issued := range results {
		require.False(t, seen[issued])
		seen[issued] = true
	}
	require.Len(t, seen, workers)
}

func TestRedisStoreUpdateFormatPreservesCounter(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _, err := store.IncrementAndGet(ctx, "acme", TypeInvoice)
		require.NoError(t, err)
	}

	prefix, padding := "INV", 4
	cfg, err := store.UpdateFormat(ctx, "acme", TypeInvoice, FormatUpdate{Prefix: &prefix, Padding: &padding})
	require.NoError(t, err)
	require.Equal(t, "INV", cfg.Prefix)
	require.Equal(t, 4, cfg.Padding)
	require.Equal(t, int64(6), cfg.Counter)
}

func TestRedisStoreResetCounter(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()

	cfg, err := store.ResetCounter(ctx, "acme", TypeReceipt, 50)
	require.NoError(t, err)
	require.Equal(t, int64(50), cfg.Counter)

	issued, _, err := store.IncrementAndGet(ctx, "acme", TypeReceipt)
	require.NoError(t, err)
	require.Equal(t, int64(50), issued)
}

func TestRedisStoreTenantsAreIsolated(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()

	_, _, err := store.IncrementAndGet(ctx, "acme", TypeInvoice)
	require.NoError(t, err)

	issued, _, err := store.IncrementAndGet(ctx, "globex", TypeInvoice)
	require.NoError(t, err)
	require.Equal(t, int64(1), issued)
}
