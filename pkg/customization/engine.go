package customization

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/emailkit/pkg/blueprint"
	"github.com/dmitrymomot/emailkit/pkg/logger"
	"github.com/dmitrymomot/emailkit/pkg/preset"
	"github.com/dmitrymomot/emailkit/pkg/profile"
	"github.com/dmitrymomot/emailkit/pkg/recipe"
	"github.com/dmitrymomot/emailkit/pkg/registry"
	"github.com/dmitrymomot/emailkit/pkg/theme"
	"github.com/dmitrymomot/emailkit/pkg/variant"
)

var ErrPresetMismatch = errors.New("customization: preset targets another component type")

type Engine struct {
	themes     *theme.Manager
	variants   *variant.Manager
	recipes    *recipe.Manager
	blueprints *blueprint.Manager
	presets    *preset.Manager
	profiles   *profile.Manager
	registry   *registry.Registry
	log        *slog.Logger
	now        func() time.Time
}

type Option func(*Engine)

func WithThemes(m *theme.Manager) Option         { return func(e *Engine) { e.themes = m } }
func WithVariants(m *variant.Manager) Option     { return func(e *Engine) { e.variants = m } }
func WithRecipes(m *recipe.Manager) Option       { return func(e *Engine) { e.recipes = m } }
func WithBlueprints(m *blueprint.Manager) Option { return func(e *Engine) { e.blueprints = m } }
func WithPresets(m *preset.Manager) Option       { return func(e *Engine) { e.presets = m } }
func WithProfiles(m *profile.Manager) Option     { return func(e *Engine) { e.profiles = m } }
func WithRegistry(r *registry.Registry) Option   { return func(e *Engine) { e.registry = r } }
func WithClock(now func() time.Time) Option      { return func(e *Engine) { e.now = now } }

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// NewEngine builds an Engine. Managers that are not supplied are created
// in memory. The profile manager gets a reference checker backed by the
// other managers.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		log: slog.Default(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.themes == nil {
		e.themes = theme.NewManager()
	}
	if e.variants == nil {
		e.variants = variant.NewManager()
	}
	if e.recipes == nil {
		e.recipes = recipe.NewManager()
	}
	if e.blueprints == nil {
		e.blueprints = blueprint.NewManager()
	}
	if e.presets == nil {
		e.presets = preset.NewManager()
	}
	if e.profiles == nil {
		e.profiles = profile.NewManager()
	}
	if e.registry == nil {
		e.registry = registry.Default()
	}
	e.log = e.log.With(logger.Component("customization"))
	e.profiles.SetReferenceChecker(e.exists)
	return e
}

func (e *Engine) Themes() *theme.Manager         { return e.themes }
func (e *Engine) Variants() *variant.Manager     { return e.variants }
func (e *Engine) Recipes() *recipe.Manager       { return e.recipes }
func (e *Engine) Blueprints() *blueprint.Manager { return e.blueprints }
func (e *Engine) Presets() *preset.Manager       { return e.presets }
func (e *Engine) Profiles() *profile.Manager     { return e.profiles }
func (e *Engine) Registry() *registry.Registry   { return e.registry }

// Load reads every manager from storage in dependency order. Failures are
// collected and the remaining managers still load.
func (e *Engine) Load(ctx context.Context) error {
	loaders := []struct {
		kind string
		load func(context.Context) (int, error)
	}{
		{theme.Kind, e.themes.Load},
		{variant.Kind, e.variants.Load},
		{recipe.Kind, e.recipes.Load},
		{blueprint.Kind, e.blueprints.Load},
		{preset.Kind, e.presets.Load},
		{profile.Kind, e.profiles.Load},
	}

	var errs []error
	for _, l := range loaders {
		n, err := l.load(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("load %s: %w", l.kind, err))
			continue
		}
		e.log.DebugContext(ctx, "loaded", logger.EntityKind(l.kind), logger.Count(n))
	}
	return errors.Join(errs...)
}

func (e *Engine) exists(kind, id string) bool {
	var err error
	switch kind {
	case profile.RefTheme:
		_, err = e.themes.Get(id)
	case profile.RefVariant:
		_, err = e.variants.Get(id)
	case profile.RefRecipe:
		_, err = e.recipes.Get(id)
	case profile.RefPreset:
		_, err = e.presets.Get(id)
	default:
		return false
	}
	return err == nil
}
