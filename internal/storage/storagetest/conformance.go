// Package storagetest holds a behaviour suite shared by every KVStore backend.
package storagetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/bobmcallan/fintrack/internal/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunKVStoreSuite exercises the KVStore contract against stores built by newStore.
// Each subtest gets a fresh store.
func RunKVStoreSuite(t *testing.T, newStore func(t *testing.T) interfaces.KVStore) {
	t.Run("GetMissing", func(t *testing.T) {
		kv := newStore(t)
		_, err := kv.Get(context.Background(), "missing")
		require.Error(t, err)
		assert.True(t, errors.Is(err, interfaces.ErrKeyNotFound), "got %v", err)
	})

	t.Run("PutGet", func(t *testing.T) {
		kv := newStore(t)
		ctx := context.Background()
		require.NoError(t, kv.Put(ctx, "accounts", []byte(`{"accounts":[]}`)))

		got, err := kv.Get(ctx, "accounts")
		require.NoError(t, err)
		assert.Equal(t, `{"accounts":[]}`, string(got))
	})

	t.Run("PutReplacesWholeValue", func(t *testing.T) {
		kv := newStore(t)
		ctx := context.Background()
		require.NoError(t, kv.Put(ctx, "session", []byte("a-much-longer-first-value")))
		require.NoError(t, kv.Put(ctx, "session", []byte("short")))

		got, err := kv.Get(ctx, "session")
		require.NoError(t, err)
		assert.Equal(t, "short", string(got))
	})

	t.Run("KeysWithSlash", func(t *testing.T) {
		kv := newStore(t)
		ctx := context.Background()
		require.NoError(t, kv.Put(ctx, "ledger/acc-1", []byte("{}")))

		got, err := kv.Get(ctx, "ledger/acc-1")
		require.NoError(t, err)
		assert.Equal(t, "{}", string(got))
	})

	t.Run("DeleteIsIdempotent", func(t *testing.T) {
		kv := newStore(t)
		ctx := context.Background()
		require.NoError(t, kv.Put(ctx, "k", []byte("v")))
		require.NoError(t, kv.Delete(ctx, "k"))
		require.NoError(t, kv.Delete(ctx, "k"))

		_, err := kv.Get(ctx, "k")
		assert.True(t, errors.Is(err, interfaces.ErrKeyNotFound), "got %v", err)
	})

	t.Run("KeysByPrefix", func(t *testing.T) {
		kv := newStore(t)
		ctx := context.Background()
		for _, k := range []string{"ledger/b", "accounts", "ledger/a", "session"} {
			require.NoError(t, kv.Put(ctx, k, []byte("x")))
		}

		keys, err := kv.Keys(ctx, "ledger/")
		require.NoError(t, err)
		assert.Equal(t, []string{"ledger/a", "ledger/b"}, keys)

		all, err := kv.Keys(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 4)
	})

	t.Run("ConcurrentPuts", func(t *testing.T) {
		kv := newStore(t)
		ctx := context.Background()

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				assert.NoError(t, kv.Put(ctx, fmt.Sprintf("ledger/%02d", i), []byte("v")))
			}(i)
		}
		wg.Wait()

		keys, err := kv.Keys(ctx, "ledger/")
		require.NoError(t, err)
		assert.Len(t, keys, 10)
	})

	t.Run("BackendName", func(t *testing.T) {
		kv := newStore(t)
		assert.NotEmpty(t, kv.Backend())
	})
}
