package surrealdb

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/fintrack/internal/interfaces"
	"github.com/bobmcallan/fintrack/internal/storage/storagetest"
)

func TestKVStore_Contract(t *testing.T) {
	storagetest.RunKVStoreSuite(t, func(t *testing.T) interfaces.KVStore {
		return testStore(t)
	})
}

func TestKVStore_StoresJSONDocumentsVerbatim(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	doc := `{"account_id":"a1","transactions":[{"id":1,"amount":"12.50"}]}`
	require.NoError(t, store.Put(ctx, "ledger/a1", []byte(doc)))

	got, err := store.Get(ctx, "ledger/a1")
	require.NoError(t, err)
	assert.JSONEq(t, doc, string(got))
}

func TestIsNotFoundError(t *testing.T) {
	assert.False(t, isNotFoundError(nil))
	assert.False(t, isNotFoundError(assert.AnError))
	assert.True(t, isNotFoundError(errors.New("record Not Found")))
}

func TestKVStore_SharedConnectionIsNotClosed(t *testing.T) {
	owner := testStore(t)
	shared, err := NewKVStore(context.Background(), owner.db, owner.logger)
	require.NoError(t, err)

	require.NoError(t, shared.Close())
	require.NoError(t, owner.Put(context.Background(), "k", []byte(`{"v":1}`)))
}
