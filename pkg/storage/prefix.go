package storage

import (
	"context"
	"errors"
	"strings"
)

// PrefixedAdapter scopes another adapter to keys starting with a prefix.
type PrefixedAdapter struct {
	inner  Adapter
	prefix string
}

// WithPrefix returns an adapter that stores every key as prefix+key in a.
// A trailing ":" separator is added when prefix does not end with one.
func WithPrefix(a Adapter, prefix string) *PrefixedAdapter {
	if prefix != "" && !strings.HasSuffix(prefix, ":") {
		prefix += ":"
	}
	return &PrefixedAdapter{inner: a, prefix: prefix}
}

// Prefix returns the effective key prefix.
func (p *PrefixedAdapter) Prefix() string { return p.prefix }

func (p *PrefixedAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	return p.inner.Get(ctx, p.prefix+key)
}

func (p *PrefixedAdapter) Set(ctx context.Context, key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	return p.inner.Set(ctx, p.prefix+key, value)
}

func (p *PrefixedAdapter) Remove(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	return p.inner.Remove(ctx, p.prefix+key)
}

// Clear removes only the keys carrying the prefix. The wrapped adapter must
// implement Lister unless the prefix is empty.
func (p *PrefixedAdapter) Clear(ctx context.Context) error {
	if p.prefix == "" {
		return p.inner.Clear(ctx)
	}
	keys, err := p.Keys(ctx)
	if err != nil {
		return err
	}
	var errs []error
	for _, k := range keys {
		if err := p.inner.Remove(ctx, p.prefix+k); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Keys lists the wrapped adapter's keys that carry the prefix, with the
// prefix stripped.
func (p *PrefixedAdapter) Keys(ctx context.Context) ([]string, error) {
	l, ok := p.inner.(Lister)
	if !ok {
		return nil, ErrClearUnsupported
	}
	all, err := l.Keys(ctx)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(all))
	for _, k := range all {
		if rest, ok := strings.CutPrefix(k, p.prefix); ok {
			keys = append(keys, rest)
		}
	}
	return keys, nil
}
