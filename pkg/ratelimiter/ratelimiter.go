package ratelimiter

import (
	"context"
	"fmt"
)

type RateLimiter interface {
	Allow(ctx context.Context, key string) (*Result, error)
	AllowN(ctx context.Context, key string, n int) (*Result, error)
}

// Bucket applies one Limit to every key.
type Bucket struct {
	store Store
	limit Limit
}

func NewBucket(store Store, limit Limit) (*Bucket, error) {
	if err := limit.validate(); err != nil {
		return nil, err
	}
	return &Bucket{store: store, limit: limit}, nil
}

func (b *Bucket) Allow(ctx context.Context, key string) (*Result, error) {
	return b.AllowN(ctx, key, 1)
}

func (b *Bucket) AllowN(ctx context.Context, key string, n int) (*Result, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: must be positive, got %d", ErrInvalidTokenCount, n)
	}
	return b.consume(ctx, key, n)
}

// Status reports the bucket without consuming tokens.
func (b *Bucket) Status(ctx context.Context, key string) (*Result, error) {
	return b.consume(ctx, key, 0)
}

func (b *Bucket) Reset(ctx context.Context, key string) error {
	return b.store.Reset(ctx, key)
}

func (b *Bucket) consume(ctx context.Context, key string, n int) (*Result, error) {
	remaining, resetAt, err := b.store.ConsumeTokens(ctx, key, n, b.limit)
	if err != nil {
		return nil, err
	}
	return &Result{Limit: b.limit.Capacity, Remaining: remaining, ResetAt: resetAt}, nil
}
