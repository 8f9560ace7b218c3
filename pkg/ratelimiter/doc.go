// Package ratelimiter implements token bucket rate limiting with pluggable
// stores and a net/http middleware.
//
// A bucket holds up to Capacity tokens and regains RefillRate tokens every
// RefillInterval. Each request consumes one token; a request that finds too
// few tokens is denied and consumes nothing.
//
//	store, closeStore, err := ratelimiter.Open(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer closeStore()
//
//	bucket, err := ratelimiter.NewBucket(store, cfg.Limit())
//	if err != nil {
//		return err
//	}
//	r.With(ratelimiter.Middleware(bucket, ratelimiter.ByIP)).Post("/send", send)
//
// MemoryStore keeps buckets in process. RedisStore shares them between
// replicas, updating each bucket atomically in a Lua script.
//
// Denied requests receive 429 with Retry-After and X-RateLimit-* headers
// and the usual JSON error body.
package ratelimiter
