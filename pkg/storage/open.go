package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Driver names accepted by Open.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverS3       = "s3"
)

// Config selects and configures a backend.
type Config struct {
	Driver   string `env:"STORAGE_DRIVER" envDefault:"memory"`
	Prefix   string `env:"STORAGE_PREFIX" envDefault:"emailkit"`
	FileDir  string `env:"STORAGE_FILE_DIR" envDefault:"./data"`
	Redis    RedisConfig
	Mongo    MongoConfig
	Postgres PostgresConfig
	S3       S3Config
}

// Backend is an opened adapter with its lifecycle hooks.
type Backend struct {
	Adapter
	Driver      string
	Healthcheck func(context.Context) error
	Close       func() error
}

func noopHealthcheck(context.Context) error { return nil }

func noopClose() error { return nil }

// Open connects to the backend named by cfg.Driver. Memory and file
// backends are wrapped with cfg.Prefix; the networked ones namespace keys
// natively (redis key prefix, postgres namespace column, S3 object prefix,
// mongo collection).
func Open(ctx context.Context, cfg Config, log *slog.Logger) (*Backend, error) {
	if log == nil {
		log = slog.Default()
	}
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))

	switch driver {
	case "", DriverMemory:
		return &Backend{
			Adapter:     WithPrefix(NewMemoryAdapter(), cfg.Prefix),
			Driver:      DriverMemory,
			Healthcheck: noopHealthcheck,
			Close:       noopClose,
		}, nil

	case DriverFile:
		fa, err := NewFileAdapter(cfg.FileDir)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Adapter: WithPrefix(fa, cfg.Prefix),
			Driver:  DriverFile,
			Healthcheck: func(ctx context.Context) error {
				if _, err := fa.Keys(ctx); err != nil {
					return fmt.Errorf("%w: %w", ErrHealthcheckFailed, err)
				}
				return nil
			},
			Close: noopClose,
		}, nil

	case DriverRedis:
		client, err := ConnectRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Adapter:     NewRedisAdapter(client, cfg.Prefix, cfg.Redis.ScanBatchSize),
			Driver:      DriverRedis,
			Healthcheck: RedisHealthcheck(client),
			Close:       client.Close,
		}, nil

	case DriverMongo:
		client, err := ConnectMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		coll := client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)
		return &Backend{
			Adapter:     NewMongoAdapter(coll),
			Driver:      DriverMongo,
			Healthcheck: MongoHealthcheck(client),
			Close: func() error {
				return client.Disconnect(context.Background())
			},
		}, nil

	case DriverPostgres:
		pool, err := ConnectPostgres(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		if err := MigratePostgres(ctx, pool, cfg.Postgres.MigrationsTable, log); err != nil {
			pool.Close()
			return nil, err
		}
		return &Backend{
			Adapter:     NewPostgresAdapter(pool, cfg.Prefix),
			Driver:      DriverPostgres,
			Healthcheck: PostgresHealthcheck(pool),
			Close: func() error {
				pool.Close()
				return nil
			},
		}, nil

	case DriverS3:
		a, err := NewS3Adapter(ctx, cfg.S3, cfg.Prefix)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Adapter:     a,
			Driver:      DriverS3,
			Healthcheck: a.Healthcheck,
			Close:       noopClose,
		}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
}
