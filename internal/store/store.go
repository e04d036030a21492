// Package store provides the durable key-value persistence primitive the
// catalog and ledger are built on. Every backend offers whole-document
// get/set of JSON blobs by string key; there is no partial update and no
// native transaction support.
package store

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when no document exists under the key.
var ErrKeyNotFound = errors.New("key not found")

// Store is the persistence boundary. Set replaces the whole document
// under the key; Get returns the last written document.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}
