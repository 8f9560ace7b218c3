// Package collection holds entities in a mutex-guarded map and mirrors
// them to a storage.Adapter as a single JSON array.
//
// Every mutation runs against a copy of the map. The copy is persisted
// first and swapped in only when persistence succeeds, so a failed write
// leaves memory and storage consistent.
package collection

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"maps"
	"slices"
	"sort"
	"sync"

	"github.com/dmitrymomot/emailkit/pkg/logger"
	"github.com/dmitrymomot/emailkit/pkg/storage"
)

var (
	ErrNotFound  = errors.New("collection: item not found")
	ErrEmptyID   = errors.New("collection: empty id")
	ErrPersist   = errors.New("collection: failed to persist")
	ErrLoad      = errors.New("collection: failed to load")
	ErrDuplicate = errors.New("collection: duplicate id")
)

// Collection stores items of type T keyed by their ID.
type Collection[T any] struct {
	mu      sync.RWMutex
	items   map[string]T
	key     string
	idOf    func(T) string
	clone   func(T) T
	persist func(T) bool
	adapter storage.Adapter
	log     *slog.Logger
}

// Option configures a Collection.
type Option[T any] func(*Collection[T])

// WithAdapter enables persistence through a.
func WithAdapter[T any](a storage.Adapter) Option[T] {
	return func(c *Collection[T]) { c.adapter = a }
}

// WithClone sets a deep-copy function applied to items handed in and out.
func WithClone[T any](fn func(T) T) Option[T] {
	return func(c *Collection[T]) { c.clone = fn }
}

// WithPersistFilter limits which items are written to storage. Built-in
// entities are typically excluded.
func WithPersistFilter[T any](fn func(T) bool) Option[T] {
	return func(c *Collection[T]) { c.persist = fn }
}

// WithLogger sets the logger.
func WithLogger[T any](l *slog.Logger) Option[T] {
	return func(c *Collection[T]) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a collection persisted under key.
func New[T any](key string, idOf func(T) string, opts ...Option[T]) *Collection[T] {
	c := &Collection[T]{
		items: make(map[string]T),
		key:   key,
		idOf:  idOf,
		clone: func(v T) T { return v },
		persist: func(T) bool {
			return true
		},
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key returns the storage key.
func (c *Collection[T]) Key() string { return c.key }

// Adapter returns the configured adapter, or nil.
func (c *Collection[T]) Adapter() storage.Adapter { return c.adapter }

// Len returns the number of items.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Get returns a copy of the item with id.
func (c *Collection[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.items[id]
	if !ok {
		var zero T
		return zero, false
	}
	return c.clone(v), true
}

// Has reports whether id exists.
func (c *Collection[T]) Has(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.items[id]
	return ok
}

// All returns copies of every item ordered by ID.
func (c *Collection[T]) All() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, 0, len(c.items))
	for _, id := range slices.Sorted(maps.Keys(c.items)) {
		out = append(out, c.clone(c.items[id]))
	}
	return out
}

// Filter returns copies of the items for which keep is true, ordered by ID.
func (c *Collection[T]) Filter(keep func(T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []T
	for _, id := range slices.Sorted(maps.Keys(c.items)) {
		if v := c.items[id]; keep(v) {
			out = append(out, c.clone(v))
		}
	}
	return out
}

// Seed inserts items without persisting them. Used for built-ins.
func (c *Collection[T]) Seed(items ...T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, v := range items {
		c.items[c.idOf(v)] = c.clone(v)
	}
}

// Put inserts or replaces item.
func (c *Collection[T]) Put(ctx context.Context, item T) error {
	id := c.idOf(item)
	if id == "" {
		return ErrEmptyID
	}
	return c.Mutate(ctx, func(items map[string]T) error {
		items[id] = c.clone(item)
		return nil
	})
}

// Insert adds item and fails with ErrDuplicate when the ID exists.
func (c *Collection[T]) Insert(ctx context.Context, item T) error {
	id := c.idOf(item)
	if id == "" {
		return ErrEmptyID
	}
	return c.Mutate(ctx, func(items map[string]T) error {
		if _, ok := items[id]; ok {
			return ErrDuplicate
		}
		items[id] = c.clone(item)
		return nil
	})
}

// Update applies fn to the item with id and stores the result.
func (c *Collection[T]) Update(ctx context.Context, id string, fn func(T) (T, error)) (T, error) {
	var updated T
	err := c.Mutate(ctx, func(items map[string]T) error {
		cur, ok := items[id]
		if !ok {
			return ErrNotFound
		}
		next, err := fn(c.clone(cur))
		if err != nil {
			return err
		}
		items[id] = next
		updated = c.clone(next)
		return nil
	})
	return updated, err
}

// Delete removes the item with id and returns it.
func (c *Collection[T]) Delete(ctx context.Context, id string) (T, error) {
	var removed T
	err := c.Mutate(ctx, func(items map[string]T) error {
		cur, ok := items[id]
		if !ok {
			return ErrNotFound
		}
		removed = cur
		delete(items, id)
		return nil
	})
	return removed, err
}

// Mutate runs fn against a copy of the items and commits the copy when fn
// succeeds and the result is persisted.
func (c *Collection[T]) Mutate(ctx context.Context, fn func(items map[string]T) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := maps.Clone(c.items)
	if err := fn(next); err != nil {
		return err
	}
	if err := c.write(ctx, next); err != nil {
		return err
	}
	c.items = next
	return nil
}

// Persist writes the current items to storage.
func (c *Collection[T]) Persist(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.write(ctx, c.items)
}

func (c *Collection[T]) write(ctx context.Context, items map[string]T) error {
	if c.adapter == nil {
		return nil
	}
	out := make([]T, 0, len(items))
	for _, v := range items {
		if c.persist(v) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return c.idOf(out[i]) < c.idOf(out[j]) })

	if err := storage.SetJSON(ctx, c.adapter, c.key, out); err != nil {
		c.log.ErrorContext(ctx, "failed to persist collection",
			logger.StorageKey(c.key),
			logger.Count(len(out)),
			logger.Error(err),
		)
		return errors.Join(ErrPersist, err)
	}
	return nil
}

// Load reads stored items and merges them over the in-memory ones.
// A missing key loads nothing. It returns the number of items read.
func (c *Collection[T]) Load(ctx context.Context) (int, error) {
	if c.adapter == nil {
		return 0, nil
	}
	stored, ok, err := storage.GetJSON[[]T](ctx, c.adapter, c.key)
	if err != nil {
		return 0, errors.Join(ErrLoad, err)
	}
	if !ok {
		return 0, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, v := range stored {
		id := c.idOf(v)
		if id == "" {
			continue
		}
		c.items[id] = v
		n++
	}
	return n, nil
}

// Reset removes every persisted item and the storage key. Items excluded
// by the persist filter remain.
func (c *Collection[T]) Reset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := make(map[string]T)
	for id, v := range c.items {
		if !c.persist(v) {
			next[id] = v
		}
	}
	if c.adapter != nil {
		if err := c.adapter.Remove(ctx, c.key); err != nil {
			return errors.Join(ErrPersist, err)
		}
	}
	c.items = next
	return nil
}

// Marshal encodes the persistable items as an indented JSON array.
func (c *Collection[T]) Marshal() ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, 0, len(c.items))
	for _, id := range slices.Sorted(maps.Keys(c.items)) {
		if v := c.items[id]; c.persist(v) {
			out = append(out, v)
		}
	}
	return json.MarshalIndent(out, "", "  ")
}
