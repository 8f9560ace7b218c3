package ratelimiter

import (
	"fmt"
	"time"
)

// Result is the outcome of a rate limit check.
type Result struct {
	Limit     int       // bucket capacity
	Remaining int       // negative when the request was denied
	ResetAt   time.Time // next refill
}

func (r *Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter returns how long to wait before retrying, or 0 if allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	return max(0, time.Until(r.ResetAt))
}

// Limit defines the token bucket.
type Limit struct {
	Capacity       int
	RefillRate     int
	RefillInterval time.Duration
}

func (l Limit) validate() error {
	if l.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidConfig, l.Capacity)
	}
	if l.RefillRate <= 0 {
		return fmt.Errorf("%w: refill rate must be positive, got %d", ErrInvalidConfig, l.RefillRate)
	}
	if l.RefillInterval <= 0 {
		return fmt.Errorf("%w: refill interval must be positive, got %v", ErrInvalidConfig, l.RefillInterval)
	}
	return nil
}

// ttl is how long an idle bucket takes to refill completely. Stores may
// forget a bucket after that.
func (l Limit) ttl() time.Duration {
	intervals := (l.Capacity + l.RefillRate - 1) / l.RefillRate
	return time.Duration(intervals+1) * l.RefillInterval
}
