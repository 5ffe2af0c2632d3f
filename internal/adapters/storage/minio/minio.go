package minio

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"photodrop/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Adapter is an adapter for one minio bucket. The private and public
// artifact stores each get their own Adapter over the same client.
type Adapter struct {
	client *minio.Client
	bucket string
	logger *slog.Logger
}

// NewClient creates the shared minio client
func NewClient(cfg config.MinioConfig) (*minio.Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return client, nil
}

// NewAdapter returns an Adapter bound to bucket, creating the bucket if it
// does not exist yet
func NewAdapter(ctx context.Context, client *minio.Client, bucket string, logger *slog.Logger) (*Adapter, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket exists: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return &Adapter{client: client, bucket: bucket, logger: logger}, nil
}

// Put streams r into the bucket under key and returns the number of bytes
// written. Size is not known up front, minio buffers in parts.
func (a *Adapter) Put(ctx context.Context, key string, r io.Reader) (int64, error) {
	info, err := a.client.PutObject(ctx, a.bucket, key, r, -1, minio.PutObjectOptions{})
	if err != nil {
		return 0, fmt.Errorf("failed to put object %q: %w", key, err)
	}
	return info.Size, nil
}

// Get opens a streaming read of the object under key
func (a *Adapter) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := a.client.GetObject(ctx, a.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %q: %w", key, err)
	}
	// GetObject is lazy; surface missing objects here instead of at the
	// first read
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, fmt.Errorf("failed to stat object %q: %w", key, err)
	}
	return obj, nil
}
