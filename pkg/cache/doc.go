// Package cache provides a generic in-memory LRU cache with optional TTL.
//
//	c := cache.NewLRU[string, *export.Result](256,
//		cache.WithTTL[string, *export.Result](10*time.Minute),
//	)
//	c.Put(key, res)
//	if v, ok := c.Get(key); ok {
//		return v
//	}
//
// Expired entries are removed lazily on Get. Stats exposes hit, miss and
// eviction counters for health endpoints.
package cache
