// Package storage defines the key/value persistence contract used by every
// entity manager and provides backends for it.
//
// An Adapter stores opaque byte values under string keys. Managers persist
// each collection as one JSON document, so the contract is deliberately
// small:
//
//	Get(ctx, key)        returns ErrNotFound when the key is missing
//	Set(ctx, key, value) creates or replaces
//	Remove(ctx, key)     a missing key is not an error
//	Clear(ctx)           removes every key in the adapter's namespace only
//
// GetJSON and SetJSON wrap the byte API for typed values. WithPrefix scopes
// an adapter to a key prefix; its Clear touches only prefixed keys.
//
// # Backends
//
//   - MemoryAdapter: process-local map, used by tests and the default config.
//   - FileAdapter: one file per key in a directory.
//   - RedisAdapter: go-redis; Clear deletes by SCAN over the key prefix and
//     never issues FLUSHDB.
//   - MongoAdapter: one document per key, {_id, value, updated_at}.
//   - PostgresAdapter: rows in kv_store, created by an embedded goose migration.
//   - S3Adapter: one object per key under a prefix.
//
// Open picks a backend from Config.Driver (STORAGE_DRIVER) and returns it
// with its healthcheck and close function:
//
//	var cfg storage.Config
//	config.MustLoad(&cfg)
//	backend, err := storage.Open(ctx, cfg, log)
//	if err != nil {
//		return err
//	}
//	defer backend.Close()
package storage
