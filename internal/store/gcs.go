package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const gcsTimeout = 30 * time.Second

// GCSStore keeps objects in a Cloud Storage bucket, optionally under a
// prefix.
type GCSStore struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCS connects to a bucket. An empty credentialsFile uses the
// application default credentials.
func NewGCS(ctx context.Context, bucket, prefix, credentialsFile string) (*GCSStore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}
	return &GCSStore{client: client, bucket: bucket, prefix: prefix}, nil
}

func (s *GCSStore) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, gcsTimeout)
	defer cancel()

	reader, err := s.client.Bucket(s.bucket).Object(s.keyPath(key)).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("gs://%s/%s: %w", s.bucket, s.keyPath(key), ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("opening gs://%s/%s: %w", s.bucket, s.keyPath(key), err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading gs://%s/%s: %w", s.bucket, s.keyPath(key), err)
	}
	return data, nil
}

func (s *GCSStore) Put(ctx context.Context, key string, value []byte, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, gcsTimeout)
	defer cancel()

	writer := s.client.Bucket(s.bucket).Object(s.keyPath(key)).NewWriter(ctx)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	writer.ContentType = contentType
	writer.CacheControl = "no-cache"

	if _, err := writer.Write(value); err != nil {
		writer.Close()
		return fmt.Errorf("uploading gs://%s/%s: %w", s.bucket, s.keyPath(key), err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("uploading gs://%s/%s: %w", s.bucket, s.keyPath(key), err)
	}
	return nil
}

// Close closes the GCS client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}

func (s *GCSStore) keyPath(key string) string {
	if s.prefix == "" {
		return key
	}
	return path.Join(s.prefix, key)
}
