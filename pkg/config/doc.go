// Package config loads typed configuration from environment variables.
//
// Structs describe their settings with env and envDefault tags, parsed by
// github.com/caarlos0/env/v11. The first Load also reads an optional .env
// file from the working directory with github.com/joho/godotenv.
//
//	type Config struct {
//		CacheSize int           `env:"EXPORT_CACHE_SIZE" envDefault:"256"`
//		CacheTTL  time.Duration `env:"EXPORT_CACHE_TTL" envDefault:"10m"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
// Each struct type is parsed once and cached by type name. Later Load calls
// for the same type return the cached copy; ResetCache clears it in tests.
// A failed parse is not cached.
//
// LoadEnv reads extra .env files explicitly, MustLoad and MustLoadEnv panic
// on failure. LoadPrefixed parses a struct with every variable name
// prefixed and bypasses the cache, so one Config type can describe several
// instances:
//
//	var backup storage.Config
//	err := config.LoadPrefixed(&backup, "BACKUP_")
//
// Errors match ErrParsingConfig, ErrLoadingEnvFile, ErrConfigNotLoaded or
// ErrNilPointer under errors.Is.
package config
