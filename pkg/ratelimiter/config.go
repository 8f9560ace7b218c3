package ratelimiter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrymomot/emailkit/pkg/storage"
)

// Config is read from the environment with pkg/config. The redis driver
// reuses the storage redis settings.
type Config struct {
	Driver         string        `env:"RATELIMIT_DRIVER" envDefault:"memory"`
	Prefix         string        `env:"RATELIMIT_PREFIX" envDefault:"emailkit:ratelimit"`
	Capacity       int           `env:"RATELIMIT_CAPACITY" envDefault:"5"`
	RefillRate     int           `env:"RATELIMIT_REFILL_RATE" envDefault:"1"`
	RefillInterval time.Duration `env:"RATELIMIT_REFILL_INTERVAL" envDefault:"1m"`
	Redis          storage.RedisConfig
}

func (c Config) Limit() Limit {
	return Limit{Capacity: c.Capacity, RefillRate: c.RefillRate, RefillInterval: c.RefillInterval}
}

// Open returns the configured store and a function that releases it.
func Open(ctx context.Context, cfg Config) (Store, func() error, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "memory":
		ms := NewMemoryStore()
		return ms, ms.Close, nil
	case "redis":
		client, err := storage.ConnectRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisStore(client, cfg.Prefix), client.Close, nil
	}
	return nil, nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
}
