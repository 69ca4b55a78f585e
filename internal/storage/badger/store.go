// Package badger provides a BadgerHold-backed KVStore for embedded local storage.
package badger

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/bobmcallan/fintrack/internal/common"
	"github.com/bobmcallan/fintrack/internal/interfaces"
	"github.com/timshannon/badgerhold/v4"
)

// KVEntry is the record stored per key.
type KVEntry struct {
	Key        string `badgerhold:"key"`
	Value      []byte
	ModifiedAt time.Time
}

// Store wraps a BadgerHold database connection.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// NewStore creates a new BadgerHold store at the given directory path.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create badger directory %s: %w", path, err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	options.Logger = nil // Disable default badger logger

	db, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	logger.Debug().Str("path", path).Msg("BadgerHold store opened")

	return &Store{
		db:     db,
		logger: logger,
	}, nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	var entry KVEntry
	if err := s.db.Get(key, &entry); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("'%s': %w", key, interfaces.ErrKeyNotFound)
		}
		return nil, fmt.Errorf("failed to get key '%s': %w", key, err)
	}
	return entry.Value, nil
}

func (s *Store) Put(_ context.Context, key string, value []byte) error {
	entry := KVEntry{Key: key, Value: value, ModifiedAt: time.Now()}
	if err := s.db.Upsert(key, &entry); err != nil {
		return fmt.Errorf("failed to set key '%s': %w", key, err)
	}
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	err := s.db.Delete(key, KVEntry{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete key '%s': %w", key, err)
	}
	return nil
}

func (s *Store) Keys(_ context.Context, prefix string) ([]string, error) {
	var entries []KVEntry
	if err := s.db.Find(&entries, nil); err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	var keys []string
	for _, entry := range entries {
		if strings.HasPrefix(entry.Key, prefix) {
			keys = append(keys, entry.Key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) Backend() string { return common.BackendBadger }

// Close closes the BadgerHold database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

var _ interfaces.KVStore = (*Store)(nil)
