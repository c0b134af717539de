// Package kv implements the flat key-value persistence adapter backing all
// client stores. Values are whole documents: every write replaces the
// previous value for its key, and a read immediately following a write in
// the same process observes that write. No cross-process locking is
// provided; two concurrent writers can silently overwrite each other.
package kv

import (
	"context"
	"encoding/json"
)

// Repository is string-keyed durable storage with whole-value overwrite
// semantics.
type Repository interface {
	// Get returns the value at key, or (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}

// GetJSON reads the JSON document at key into v. The boolean reports whether
// the key was present.
func GetJSON[T any](ctx context.Context, r Repository, key string, v *T) (bool, error) {
	data, err := r.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if data == nil {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and stores it wholesale at key.
func SetJSON(ctx context.Context, r Repository, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return r.Set(ctx, key, data)
}
