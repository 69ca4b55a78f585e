// Package surrealdb provides a SurrealDB-backed KVStore for shared deployments.
package surrealdb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bobmcallan/fintrack/internal/common"
	"github.com/bobmcallan/fintrack/internal/interfaces"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

const kvTable = "kv"

// kvEntry is the document stored per key.
type kvEntry struct {
	Key        string    `json:"key"`
	Value      string    `json:"value"`
	ModifiedAt time.Time `json:"modified_at"`
}

// KVStore implements interfaces.KVStore on a SurrealDB table.
type KVStore struct {
	db      *surrealdb.DB
	logger  *common.Logger
	address string
}

// Connect opens a SurrealDB connection, signs in and selects the namespace.
func Connect(ctx context.Context, logger *common.Logger, config common.SurrealDBConfig) (*KVStore, error) {
	db, err := surrealdb.New(config.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
	}

	if _, err := db.SignIn(ctx, map[string]interface{}{
		"user": config.Username,
		"pass": config.Password,
	}); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("failed to sign in to SurrealDB: %w", err)
	}

	if err := db.Use(ctx, config.Namespace, config.Database); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("failed to select namespace/database: %w", err)
	}

	store, err := NewKVStore(ctx, db, logger)
	if err != nil {
		db.Close(ctx)
		return nil, err
	}
	store.address = config.Address

	logger.Info().
		Str("address", config.Address).
		Str("namespace", config.Namespace).
		Str("database", config.Database).
		Msg("SurrealDB storage initialized")
	return store, nil
}

// NewKVStore wraps an already connected database and ensures the table exists.
func NewKVStore(ctx context.Context, db *surrealdb.DB, logger *common.Logger) (*KVStore, error) {
	// SurrealDB v3 errors on querying non-existent tables
	sql := fmt.Sprintf("DEFINE TABLE IF NOT EXISTS %s SCHEMALESS", kvTable)
	if _, err := surrealdb.Query[any](ctx, db, sql, nil); err != nil {
		return nil, fmt.Errorf("failed to define table %s: %w", kvTable, err)
	}
	return &KVStore{db: db, logger: logger}, nil
}

func recordID(key string) surrealmodels.RecordID {
	return surrealmodels.NewRecordID(kvTable, key)
}

func isNotFoundError(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "not found")
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	entry, err := surrealdb.Select[kvEntry](ctx, s.db, recordID(key))
	if err != nil {
		if isNotFoundError(err) {
			return nil, fmt.Errorf("'%s': %w", key, interfaces.ErrKeyNotFound)
		}
		return nil, fmt.Errorf("failed to select key '%s': %w", key, err)
	}
	if entry == nil || entry.Key == "" {
		return nil, fmt.Errorf("'%s': %w", key, interfaces.ErrKeyNotFound)
	}
	return []byte(entry.Value), nil
}

func (s *KVStore) Put(ctx context.Context, key string, value []byte) error {
	sql := "UPSERT $rid CONTENT $entry"
	vars := map[string]any{
		"rid":   recordID(key),
		"entry": kvEntry{Key: key, Value: string(value), ModifiedAt: time.Now()},
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]kvEntry](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to put key '%s' after retries: %w", key, lastErr)
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	_, err := surrealdb.Delete[kvEntry](ctx, s.db, recordID(key))
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete key '%s': %w", key, err)
	}
	return nil
}

func (s *KVStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	sql := "SELECT * FROM kv WHERE string::starts_with(key, $prefix) ORDER BY key ASC"
	vars := map[string]any{"prefix": prefix}

	results, err := surrealdb.Query[[]kvEntry](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	var keys []string
	if results != nil && len(*results) > 0 {
		for _, entry := range (*results)[0].Result {
			keys = append(keys, entry.Key)
		}
	}
	return keys, nil
}

func (s *KVStore) Backend() string { return common.BackendSurrealDB }

// Close closes the connection when the store owns it.
func (s *KVStore) Close() error {
	if s.address == "" {
		return nil
	}
	return s.db.Close(context.Background())
}

var _ interfaces.KVStore = (*KVStore)(nil)
