package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Environment names accepted by WithEnvironment.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

type format uint8

const (
	formatJSON format = iota
	formatText
)

type preset struct {
	env    string
	level  slog.Level
	format format
}

var (
	development = preset{env: EnvDevelopment, level: slog.LevelDebug, format: formatText}
	staging     = preset{env: EnvStaging, level: slog.LevelInfo, format: formatJSON}
	production  = preset{env: EnvProduction, level: slog.LevelInfo, format: formatJSON}
)

// presets maps environment names and their short aliases.
var presets = map[string]preset{
	EnvDevelopment: development,
	"dev":          development,
	"local":        development,
	EnvStaging:     staging,
	"stage":        staging,
	EnvProduction:  production,
	"prod":         production,
}

type config struct {
	preset     preset
	service    string
	level      *slog.Level
	output     io.Writer
	extractors []ContextExtractor
}

// Option configures New.
type Option func(*config)

// WithEnvironment applies the preset for env and tags every record with
// the service and environment names. Unknown names use the development
// preset.
func WithEnvironment(env, service string) Option {
	return func(c *config) {
		p, ok := presets[strings.ToLower(strings.TrimSpace(env))]
		if !ok {
			p = development
		}
		c.preset = p
		c.service = service
	}
}

// WithLevel overrides the environment's level with a slog level name such
// as "debug" or "warn+2". Empty or unknown names keep the preset level.
func WithLevel(name string) Option {
	return func(c *config) {
		var l slog.Level
		if name == "" || l.UnmarshalText([]byte(name)) != nil {
			return
		}
		c.level = &l
	}
}

// WithOutput redirects records from stdout to w. Nil is ignored.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.output = w
		}
	}
}

// WithContextExtractors registers functions that add attributes taken from
// the record's context.
func WithContextExtractors(extractors ...ContextExtractor) Option {
	return func(c *config) {
		for _, ex := range extractors {
			if ex != nil {
				c.extractors = append(c.extractors, ex)
			}
		}
	}
}

// New builds a logger. Without options it writes JSON at info level to
// stdout.
func New(opts ...Option) *slog.Logger {
	cfg := &config{preset: production, output: os.Stdout}
	for _, opt := range opts {
		opt(cfg)
	}

	level := cfg.preset.level
	if cfg.level != nil {
		level = *cfg.level
	}
	hopts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if cfg.preset.format == formatText {
		h = slog.NewTextHandler(cfg.output, hopts)
	} else {
		h = slog.NewJSONHandler(cfg.output, hopts)
	}
	if cfg.service != "" {
		h = h.WithAttrs([]slog.Attr{
			slog.String("service", cfg.service),
			slog.String("env", cfg.preset.env),
		})
	}
	if len(cfg.extractors) > 0 {
		h = &contextHandler{next: h, extractors: cfg.extractors}
	}
	return slog.New(h)
}

// SetAsDefault makes l the logger behind the slog package functions.
func SetAsDefault(l *slog.Logger) {
	slog.SetDefault(l)
}
