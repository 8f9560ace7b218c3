package storage

import (
	"context"
	"time"
)

// retry calls fn up to attempts times, waiting interval*n before attempt n+1.
// It stops early when ctx is done and returns the last error.
func retry(ctx context.Context, attempts int, interval time.Duration, fn func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := range attempts {
		if err = fn(ctx); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(i+1) * interval):
		}
	}
	return err
}
