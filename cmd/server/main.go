// Command server runs the email builder HTTP API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/emailkit/handler"
	"github.com/dmitrymomot/emailkit/modules/builder"
	"github.com/dmitrymomot/emailkit/pkg/blueprint"
	docbuilder "github.com/dmitrymomot/emailkit/pkg/builder"
	"github.com/dmitrymomot/emailkit/pkg/config"
	"github.com/dmitrymomot/emailkit/pkg/customization"
	"github.com/dmitrymomot/emailkit/pkg/email"
	"github.com/dmitrymomot/emailkit/pkg/events"
	"github.com/dmitrymomot/emailkit/pkg/export"
	"github.com/dmitrymomot/emailkit/pkg/httpserver"
	"github.com/dmitrymomot/emailkit/pkg/logger"
	"github.com/dmitrymomot/emailkit/pkg/preset"
	"github.com/dmitrymomot/emailkit/pkg/profile"
	"github.com/dmitrymomot/emailkit/pkg/ratelimiter"
	"github.com/dmitrymomot/emailkit/pkg/recipe"
	"github.com/dmitrymomot/emailkit/pkg/search"
	"github.com/dmitrymomot/emailkit/pkg/storage"
	"github.com/dmitrymomot/emailkit/pkg/theme"
	"github.com/dmitrymomot/emailkit/pkg/variant"
)

// AppConfig is the top-level configuration, read from the environment.
type AppConfig struct {
	Env          string        `env:"APP_ENV" envDefault:"development"`
	Service      string        `env:"APP_SERVICE" envDefault:"emailkit"`
	LogLevel     string        `env:"LOG_LEVEL"`
	ProbeTimeout time.Duration `env:"APP_PROBE_TIMEOUT" envDefault:"2s"`

	HTTP    httpserver.Config
	Storage storage.Config
	Search  search.Config
	Email   email.Config
	Export  export.Config
	Limit   ratelimiter.Config
}

func main() {
	var cfg AppConfig
	config.MustLoad(&cfg)

	log := logger.New(
		logger.WithEnvironment(cfg.Env, cfg.Service),
		logger.WithLevel(cfg.LogLevel),
		logger.WithContextExtractors(requestIDExtractor),
	)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", logger.Error(err))
		os.Exit(1)
	}
}

func requestIDExtractor(ctx context.Context) (slog.Attr, bool) {
	id := middleware.GetReqID(ctx)
	if id == "" {
		return slog.Attr{}, false
	}
	return logger.RequestID(id), true
}

func run(ctx context.Context, cfg AppConfig, log *slog.Logger) error {
	backend, err := storage.Open(ctx, cfg.Storage, log)
	if err != nil {
		return err
	}
	index, indexHealth, err := search.Open(ctx, cfg.Search)
	if err != nil {
		return errors.Join(err, backend.Close())
	}

	emitter := events.NewEmitter(events.WithLogger(log))
	emitter.On("*", func(ctx context.Context, ev events.Event) {
		log.DebugContext(ctx, "entity event", logger.Event(ev.Name), logger.EntityID(ev.EntityID))
	})

	engine := customization.NewEngine(
		customization.WithLogger(log),
		customization.WithThemes(theme.NewManager(
			theme.WithStorage(backend), theme.WithEmitter(emitter), theme.WithLogger(log))),
		customization.WithVariants(variant.NewManager(
			variant.WithStorage(backend), variant.WithEmitter(emitter), variant.WithLogger(log))),
		customization.WithRecipes(recipe.NewManager(
			recipe.WithStorage(backend), recipe.WithIndex(index), recipe.WithEmitter(emitter), recipe.WithLogger(log))),
		customization.WithBlueprints(blueprint.NewManager(
			blueprint.WithStorage(backend), blueprint.WithIndex(index), blueprint.WithEmitter(emitter), blueprint.WithLogger(log))),
		customization.WithPresets(preset.NewManager(
			preset.WithStorage(backend), preset.WithIndex(index), preset.WithEmitter(emitter), preset.WithLogger(log))),
		customization.WithProfiles(profile.NewManager(
			profile.WithStorage(backend), profile.WithEmitter(emitter), profile.WithLogger(log))),
	)
	if err := engine.Load(ctx); err != nil {
		// partial data is served; the failing kinds start empty
		log.WarnContext(ctx, "failed to load stored entities", logger.Error(err))
	}

	sender, err := email.New(cfg.Email)
	if err != nil {
		return errors.Join(err, emitter.Close(), backend.Close())
	}
	limits, closeLimits, err := ratelimiter.Open(ctx, cfg.Limit)
	if err != nil {
		return errors.Join(err, emitter.Close(), backend.Close())
	}
	sendBucket, err := ratelimiter.NewBucket(limits, cfg.Limit.Limit())
	if err != nil {
		return errors.Join(err, closeLimits(), emitter.Close(), backend.Close())
	}

	exporter := export.NewService(cfg.Export, export.WithLogger(log))
	docs := docbuilder.New(engine,
		docbuilder.WithExporter(exporter),
		docbuilder.WithSender(sender),
		docbuilder.WithLogger(log),
	)

	eh := handler.NewErrorHandler(log, builder.MapError)
	documents := builder.NewDocumentService(docs, eh,
		builder.WithSendMiddleware(ratelimiter.Middleware(sendBucket, ratelimiter.ByIP)),
	)
	api := builder.Router(builder.RouterOptions{
		Themes:     builder.NewThemeService(engine.Themes(), eh),
		Variants:   builder.NewVariantService(engine.Variants(), eh),
		Recipes:    builder.NewRecipeService(engine.Recipes(), eh),
		Blueprints: builder.NewBlueprintService(engine.Blueprints(), eh),
		Presets:    builder.NewPresetService(engine.Presets(), eh),
		Profiles:   builder.NewProfileService(engine, eh),
		Components: builder.NewComponentService(engine.Registry(), eh),
		Styles:     builder.NewStyleService(engine, eh),
		Export:     builder.NewExportService(exporter, eh),
		Documents:  documents,
		Backup:     builder.NewBackupService(engine, backend, eh),
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Get("/health/live", httpserver.LivenessHandler())
	r.Get("/health/ready", httpserver.ReadinessHandler(log, cfg.ProbeTimeout,
		httpserver.Probe{Name: "storage", Check: backend.Healthcheck},
		httpserver.Probe{Name: "search", Check: indexHealth},
	))
	r.Mount("/api", api)

	srv := httpserver.NewFromConfig(cfg.HTTP,
		httpserver.WithLogger(log),
		httpserver.WithOnShutdown("ratelimit", func(context.Context) error { return closeLimits() }),
		httpserver.WithOnShutdown("events", func(context.Context) error { return emitter.Close() }),
		httpserver.WithOnShutdown("storage", func(context.Context) error { return backend.Close() }),
	)
	log.InfoContext(ctx, "starting",
		slog.String("storage", backend.Driver),
		slog.String("search", cfg.Search.Driver),
		slog.String("email", cfg.Email.Driver),
	)
	return srv.Run(ctx, r)
}
