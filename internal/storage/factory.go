package storage

import (
	"context"
	"fmt"

	"github.com/bobmcallan/fintrack/internal/common"
	"github.com/bobmcallan/fintrack/internal/interfaces"
	"github.com/bobmcallan/fintrack/internal/storage/badger"
	"github.com/bobmcallan/fintrack/internal/storage/gcs"
	"github.com/bobmcallan/fintrack/internal/storage/surrealdb"
)

// NewKVStore opens the backend selected by config.Storage.Backend.
// Supported backends: "file" (default), "memory", "badger", "surrealdb", "gcs".
func NewKVStore(ctx context.Context, logger *common.Logger, config *common.Config) (interfaces.KVStore, error) {
	backend := config.Storage.Backend
	if backend == "" {
		backend = common.BackendFile
	}

	switch backend {
	case common.BackendFile:
		return NewFileStore(logger, config.Storage.File.Path)

	case common.BackendMemory:
		return NewMemoryStore(), nil

	case common.BackendBadger:
		return badger.NewStore(logger, config.Storage.Badger.Path)

	case common.BackendSurrealDB:
		return surrealdb.Connect(ctx, logger, config.Storage.SurrealDB)

	case common.BackendGCS:
		return gcs.NewStore(ctx, logger, config.Storage.GCS)

	default:
		return nil, fmt.Errorf("unknown storage backend: %s (supported: file, memory, badger, surrealdb, gcs)", backend)
	}
}
