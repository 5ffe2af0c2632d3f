package port

import (
	"context"
	"io"
)

// ObjectStorage is an interface to define blob storage interactions. One
// instance is bound to one bucket; visibility is a property of the bucket,
// not of the object.
type ObjectStorage interface {
	Put(ctx context.Context, key string, r io.Reader) (int64, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}
