package storage

import (
	"context"
	"io"
)

// Store persists uploaded files and hands back the stored key plus a
// publicly reachable URL.
type Store interface {
	Put(ctx context.Context, key string, data io.Reader, contentType string) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
