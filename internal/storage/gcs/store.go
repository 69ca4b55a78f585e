// Package gcs stores fintrack keys as objects in a Google Cloud Storage bucket.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/bobmcallan/fintrack/internal/common"
	"github.com/bobmcallan/fintrack/internal/interfaces"
)

const objectSuffix = ".json"

// Store implements interfaces.KVStore on a GCS bucket.
type Store struct {
	client *storage.Client
	bucket string
	prefix string
	logger *common.Logger
}

// NewStore creates a storage client from Application Default Credentials,
// or from the configured service account file.
func NewStore(ctx context.Context, logger *common.Logger, config common.GCSConfig) (*Store, error) {
	var opts []option.ClientOption
	if config.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(config.CredentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	logger.Info().Str("bucket", config.Bucket).Str("prefix", config.Prefix).Msg("GCS storage initialized")
	return &Store{
		client: client,
		bucket: config.Bucket,
		prefix: strings.Trim(config.Prefix, "/"),
		logger: logger,
	}, nil
}

// objectName maps a key to its object path; keys keep their slashes so the
// bucket browses like a directory tree.
func (s *Store) objectName(key string) string {
	if s.prefix == "" {
		return key + objectSuffix
	}
	return path.Join(s.prefix, key) + objectSuffix
}

// keyFromObject is the inverse of objectName. The boolean is false for
// objects that are not fintrack keys.
func (s *Store) keyFromObject(name string) (string, bool) {
	if !strings.HasSuffix(name, objectSuffix) {
		return "", false
	}
	name = strings.TrimSuffix(name, objectSuffix)
	if s.prefix != "" {
		if !strings.HasPrefix(name, s.prefix+"/") {
			return "", false
		}
		name = strings.TrimPrefix(name, s.prefix+"/")
	}
	return name, true
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	r, err := s.client.Bucket(s.bucket).Object(s.objectName(key)).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("'%s': %w", key, interfaces.ErrKeyNotFound)
		}
		return nil, fmt.Errorf("open object for '%s': %w", key, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read object for '%s': %w", key, err)
	}
	return data, nil
}

// Put uploads the value; GCS makes the object visible only once the writer closes.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	w := s.client.Bucket(s.bucket).Object(s.objectName(key)).NewWriter(ctx)
	w.ContentType = "application/json"
	// Documents are small; a single-request upload avoids a resumable session.
	w.ChunkSize = 0

	if _, err := w.Write(value); err != nil {
		_ = w.Close()
		return fmt.Errorf("write object for '%s': %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize upload for '%s': %w", key, err)
	}
	s.logger.Debug().Str("key", key).Int("bytes", len(value)).Msg("GCS put")
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.client.Bucket(s.bucket).Object(s.objectName(key)).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("delete object for '%s': %w", key, err)
	}
	return nil
}

func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	listPrefix := prefix
	if s.prefix != "" {
		listPrefix = s.prefix + "/" + prefix
	}

	var keys []string
	it := s.client.Bucket(s.bucket).Objects(ctx, &storage.Query{Prefix: listPrefix})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}
		if key, ok := s.keyFromObject(attrs.Name); ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) Backend() string { return common.BackendGCS }

func (s *Store) Close() error { return s.client.Close() }

var _ interfaces.KVStore = (*Store)(nil)
