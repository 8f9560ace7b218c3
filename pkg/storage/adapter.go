package storage

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

// Adapter is a namespaced key/value store.
type Adapter interface {
	// Get returns the stored value or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set creates or replaces the value under key.
	Set(ctx context.Context, key string, value []byte) error
	// Remove deletes key. Removing a missing key succeeds.
	Remove(ctx context.Context, key string) error
	// Clear deletes every key in the adapter's namespace.
	Clear(ctx context.Context) error
}

// Lister is implemented by adapters that can enumerate their keys.
// All adapters in this package implement it.
type Lister interface {
	Keys(ctx context.Context) ([]string, error)
}

// ValidateKey rejects empty and whitespace-only keys.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	return nil
}

// GetJSON decodes the value under key into T. The boolean is false when
// the key does not exist, in which case err is nil.
func GetJSON[T any](ctx context.Context, a Adapter, key string) (T, bool, error) {
	var v T
	data, err := a.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return v, false, nil
		}
		return v, false, err
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, false, errors.Join(ErrDecode, err)
	}
	return v, true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, a Adapter, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Join(ErrEncode, err)
	}
	return a.Set(ctx, key, data)
}
