package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key is absent or expired.
var ErrNotFound = errors.New("kv: key not found")

// Store is the per-user key/value store used for the latest normalized
// recommendation. Values are opaque bytes.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// UserKey namespaces key under a principal that already carries its kind
// ("user:<id>" or "guest:<id>").
func UserKey(principal, key string) string {
	return principal + ":" + key
}
