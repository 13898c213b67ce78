package port

import (
	"context"
	"io"
	"time"
)

// PutObjectInput encapsulates the parameters needed to store an object.
type PutObjectInput struct {
	Key         string
	Body        io.Reader
	ContentType string
}

// PutObjectOutput contains the result of a successful upload.
type PutObjectOutput struct {
	Location string
	ETag     string
}

// ObjectStorage abstracts the bucket holding generated bill bundles.
type ObjectStorage interface {
	Put(ctx context.Context, input PutObjectInput) (*PutObjectOutput, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited download URL that saves as fileName.
	PresignGet(ctx context.Context, key, fileName string, expiry time.Duration) (string, error)
}
