package ratelimiter

import (
	"context"
	"time"
)

// Store keeps bucket state.
type Store interface {
	// ConsumeTokens refills the bucket under key and takes n tokens when
	// enough are available. A negative remaining count means the tokens
	// were not taken. n == 0 only reports the state.
	ConsumeTokens(ctx context.Context, key string, n int, limit Limit) (remaining int, resetAt time.Time, err error)

	Reset(ctx context.Context, key string) error
}
