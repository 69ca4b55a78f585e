package surrealdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/fintrack/internal/common"
	tcommon "github.com/bobmcallan/fintrack/tests/common"
)

// testStore connects a KVStore to a database of its own on the shared server.
func testStore(t *testing.T) *KVStore {
	t.Helper()
	server := tcommon.StartSurrealDB(t)

	store, err := Connect(context.Background(), common.NewSilentLogger(), server.Config(t))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}
