// Package kv is the key-value persistence layer. The cart, the order
// ledger, sessions and the registered-accounts list are all stored as
// serialized blobs under fixed keys.
package kv

import "context"

type Store interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
