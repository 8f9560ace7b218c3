package export

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/dmitrymomot/emailkit/pkg/cache"
	"github.com/dmitrymomot/emailkit/pkg/logger"
)

// Config is read from the environment with pkg/config.
type Config struct {
	CacheSize    int           `env:"EXPORT_CACHE_SIZE" envDefault:"256"`
	CacheTTL     time.Duration `env:"EXPORT_CACHE_TTL" envDefault:"10m"`
	DefaultWidth int           `env:"EXPORT_DEFAULT_WIDTH" envDefault:"600"`
}

// Service caches export results. A zero-value cache size disables caching.
type Service struct {
	cache        *cache.LRU[string, *Result]
	defaultWidth int
	log          *slog.Logger
}

type ServiceOption func(*Service)

func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func NewService(cfg Config, opts ...ServiceOption) *Service {
	s := &Service{
		defaultWidth: cfg.DefaultWidth,
		log:          slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if cfg.CacheSize > 0 {
		s.cache = cache.NewLRU[string, *Result](cfg.CacheSize, cache.WithTTL[string, *Result](cfg.CacheTTL))
	}
	s.log = s.log.With(logger.Component("export"))
	return s
}

// Export runs the export pipeline, serving repeated inputs from the cache.
// The returned Result is owned by the caller.
func (s *Service) Export(ctx context.Context, src string, opts Options) *Result {
	if opts.Width <= 0 && s.defaultWidth > 0 {
		opts.Width = s.defaultWidth
	}

	key := cacheKey(src, opts)
	if s.cache != nil {
		if res, ok := s.cache.Get(key); ok {
			return res.clone()
		}
	}

	start := time.Now()
	res := Export(ctx, src, opts)
	s.log.DebugContext(ctx, "exported",
		logger.Duration(time.Since(start)),
		slog.Int("output_size", res.Stats.OutputSize),
		slog.Int("warnings", len(res.Warnings)),
	)
	if res.HTML == "" {
		s.log.WarnContext(ctx, "export produced no output", slog.Any("warnings", res.Warnings))
		return res
	}
	if s.cache != nil {
		s.cache.Put(key, res.clone())
	}
	return res
}

// CacheStats returns cache counters, or zero values when caching is off.
func (s *Service) CacheStats() cache.Stats {
	if s.cache == nil {
		return cache.Stats{}
	}
	return s.cache.Stats()
}

func cacheKey(src string, opts Options) string {
	h := sha256.New()
	h.Write([]byte(src))
	h.Write([]byte{0})
	o, _ := json.Marshal(opts)
	h.Write(o)
	return hex.EncodeToString(h.Sum(nil))
}
