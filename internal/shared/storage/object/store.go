package object

import (
	"context"
	"io"
)

// ObjectStore defines the contract for saving and retrieving binary objects
// by caller-chosen keys. Delete is idempotent: a missing object is not an error.
type ObjectStore interface {
	Save(ctx context.Context, storageKey string, contentType string, r io.Reader) (sizeBytes int64, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	Exists(ctx context.Context, storageKey string) (bool, error)
	Delete(ctx context.Context, storageKey string) error
	DeletePrefix(ctx context.Context, prefix string) error
}
