// Package storage provides key-value persistence with pluggable backends.
package storage

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bobmcallan/fintrack/internal/common"
	"github.com/bobmcallan/fintrack/internal/interfaces"
)

// FileStore keeps one file per key under a base directory.
type FileStore struct {
	basePath string
	logger   *common.Logger
}

// NewFileStore creates a new FileStore and ensures the directory exists.
func NewFileStore(logger *common.Logger, path string) (*FileStore, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	logger.Debug().Str("path", path).Msg("FileStore opened")
	return &FileStore{basePath: path, logger: logger}, nil
}

// filePath escapes the key so it is a single safe path segment and can be
// recovered by Keys.
func (fs *FileStore) filePath(key string) string {
	return filepath.Join(fs.basePath, url.PathEscape(key)+".json")
}

func (fs *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	path := fs.filePath(key)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("'%s': %w", key, interfaces.ErrKeyNotFound)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// Put writes the value atomically: temp file in the same directory, then rename.
func (fs *FileStore) Put(_ context.Context, key string, value []byte) error {
	target := fs.filePath(key)

	tmpFile, err := os.CreateTemp(fs.basePath, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(value); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	fs.logger.Debug().Str("key", key).Int("bytes", len(value)).Msg("FileStore put")
	return nil
}

func (fs *FileStore) Delete(_ context.Context, key string) error {
	if err := os.Remove(fs.filePath(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete '%s': %w", key, err)
	}
	return nil
}

// Keys lists stored keys, skipping temp files left by interrupted writes.
func (fs *FileStore) Keys(_ context.Context, prefix string) ([]string, error) {
	entries, err := os.ReadDir(fs.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", fs.basePath, err)
	}

	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, ".tmp-") {
			continue
		}
		key, err := url.PathUnescape(strings.TrimSuffix(name, ".json"))
		if err != nil {
			continue
		}
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (fs *FileStore) Backend() string { return common.BackendFile }

func (fs *FileStore) Close() error { return nil }

var _ interfaces.KVStore = (*FileStore)(nil)
