package badger

import (
	"path/filepath"
	"testing"

	"github.com/bobmcallan/fintrack/internal/common"
	"github.com/bobmcallan/fintrack/internal/interfaces"
	"github.com/bobmcallan/fintrack/internal/storage/storagetest"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	store, err := NewStore(common.NewSilentLogger(), filepath.Join(dir, "badger"))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_KVContract(t *testing.T) {
	storagetest.RunKVStoreSuite(t, func(t *testing.T) interfaces.KVStore {
		return newTestStore(t)
	})
}

func TestStore_CloseNilDB(t *testing.T) {
	store := &Store{}
	if err := store.Close(); err != nil {
		t.Fatalf("Close on nil DB should not error: %v", err)
	}
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "badger")
	logger := common.NewSilentLogger()

	store, err := NewStore(logger, dir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if err := store.Put(t.Context(), "accounts", []byte(`{"accounts":[]}`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := NewStore(logger, dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(t.Context(), "accounts")
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if string(got) != `{"accounts":[]}` {
		t.Errorf("got %q", got)
	}
}
