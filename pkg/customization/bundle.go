package customization

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/emailkit/pkg/blueprint"
	"github.com/dmitrymomot/emailkit/pkg/logger"
	"github.com/dmitrymomot/emailkit/pkg/preset"
	"github.com/dmitrymomot/emailkit/pkg/profile"
	"github.com/dmitrymomot/emailkit/pkg/recipe"
	"github.com/dmitrymomot/emailkit/pkg/storage"
	"github.com/dmitrymomot/emailkit/pkg/theme"
	"github.com/dmitrymomot/emailkit/pkg/variant"
)

// BundleVersion is written into every exported bundle.
const BundleVersion = 1

var (
	ErrUnknownFormat      = errors.New("customization: unknown bundle format")
	ErrInvalidBundle      = errors.New("customization: invalid bundle")
	ErrUnsupportedVersion = errors.New("customization: unsupported bundle version")
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" and "yml" in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ContentType returns the MIME type for encoded bundles.
func (f Format) ContentType() string {
	if f == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Bundle is a snapshot of every user-defined entity plus the active
// pointers. Built-in variants and presets appear only when marked default.
type Bundle struct {
	Version         int                            `json:"version" yaml:"version"`
	ExportedAt      time.Time                      `json:"exported_at" yaml:"exported_at"`
	ActiveThemeID   string                         `json:"active_theme_id,omitempty" yaml:"active_theme_id,omitempty"`
	ActiveProfileID string                         `json:"active_profile_id,omitempty" yaml:"active_profile_id,omitempty"`
	Themes          []theme.Theme                  `json:"themes" yaml:"themes"`
	Variants        []variant.ComponentVariant     `json:"variants" yaml:"variants"`
	Recipes         []recipe.StyleRecipe           `json:"recipes" yaml:"recipes"`
	Blueprints      []blueprint.TemplateBlueprint  `json:"blueprints" yaml:"blueprints"`
	Presets         []preset.ComponentPreset       `json:"presets" yaml:"presets"`
	Profiles        []profile.CustomizationProfile `json:"profiles" yaml:"profiles"`
}

// ImportOptions controls ImportBundle.
type ImportOptions struct {
	// Overwrite replaces existing entities with the same ID.
	Overwrite bool
	// Activate restores the active theme and profile recorded in the bundle.
	Activate bool
}

// ImportResult counts imported entities per kind.
type ImportResult struct {
	Themes     int `json:"themes"`
	Variants   int `json:"variants"`
	Recipes    int `json:"recipes"`
	Blueprints int `json:"blueprints"`
	Presets    int `json:"presets"`
	Profiles   int `json:"profiles"`
}

func (r ImportResult) Total() int {
	return r.Themes + r.Variants + r.Recipes + r.Blueprints + r.Presets + r.Profiles
}

// Snapshot collects the current state into a Bundle.
func (e *Engine) Snapshot() (Bundle, error) {
	b := Bundle{
		Version:         BundleVersion,
		ExportedAt:      e.now().UTC(),
		ActiveThemeID:   e.themes.ActiveID(),
		ActiveProfileID: e.profiles.ActiveID(),
		Themes:          e.themes.UserThemes(),
		Recipes:         e.recipes.UserRecipes(),
		Blueprints:      e.blueprints.UserBlueprints(),
		Profiles:        e.profiles.List(),
	}

	// variants and presets export default built-ins too
	if err := decodeExport(e.variants.Export, &b.Variants); err != nil {
		return Bundle{}, fmt.Errorf("export variants: %w", err)
	}
	if err := decodeExport(e.presets.Export, &b.Presets); err != nil {
		return Bundle{}, fmt.Errorf("export presets: %w", err)
	}
	return b, nil
}

func decodeExport[T any](export func() ([]byte, error), dst *[]T) error {
	data, err := export()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}

// ExportBundle encodes a snapshot in format.
func (e *Engine) ExportBundle(format Format) ([]byte, error) {
	b, err := e.Snapshot()
	if err != nil {
		return nil, err
	}
	return EncodeBundle(b, format)
}

func EncodeBundle(b Bundle, format Format) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		return json.MarshalIndent(b, "", "  ")
	case FormatYAML:
		return yaml.Marshal(b)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

func DecodeBundle(data []byte, format Format) (Bundle, error) {
	var (
		b   Bundle
		err error
	)
	switch format {
	case FormatJSON, "":
		err = json.Unmarshal(data, &b)
	case FormatYAML:
		err = yaml.Unmarshal(data, &b)
	default:
		return Bundle{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return Bundle{}, errors.Join(ErrInvalidBundle, err)
	}
	if b.Version > BundleVersion {
		return Bundle{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, b.Version)
	}
	return b, nil
}

// ImportBundle decodes and applies a bundle.
func (e *Engine) ImportBundle(ctx context.Context, data []byte, format Format, opts ImportOptions) (ImportResult, error) {
	b, err := DecodeBundle(data, format)
	if err != nil {
		return ImportResult{}, err
	}
	return e.Apply(ctx, b, opts)
}

// Apply imports every collection of b. Themes go first and profiles last so
// profile references resolve. A failing collection does not stop the
// others; all failures are joined into the returned error.
func (e *Engine) Apply(ctx context.Context, b Bundle, opts ImportOptions) (ImportResult, error) {
	var (
		res  ImportResult
		errs []error
	)
	collect := func(kind string, n int, err error, dst *int) {
		*dst = n
		if err != nil {
			errs = append(errs, fmt.Errorf("import %s: %w", kind, err))
		}
	}

	n, err := e.themes.ImportThemes(ctx, b.Themes, opts.Overwrite)
	collect(theme.Kind, n, err, &res.Themes)
	n, err = e.variants.ImportVariants(ctx, b.Variants, opts.Overwrite)
	collect(variant.Kind, n, err, &res.Variants)
	n, err = e.recipes.ImportRecipes(ctx, b.Recipes, opts.Overwrite)
	collect(recipe.Kind, n, err, &res.Recipes)
	n, err = e.blueprints.ImportBlueprints(ctx, b.Blueprints, opts.Overwrite)
	collect(blueprint.Kind, n, err, &res.Blueprints)
	n, err = e.presets.ImportPresets(ctx, b.Presets, opts.Overwrite)
	collect(preset.Kind, n, err, &res.Presets)
	n, err = e.profiles.ImportProfiles(ctx, b.Profiles, opts.Overwrite)
	collect(profile.Kind, n, err, &res.Profiles)

	if opts.Activate {
		if b.ActiveThemeID != "" {
			if err := e.themes.SetActive(ctx, b.ActiveThemeID); err != nil {
				errs = append(errs, err)
			}
		}
		if b.ActiveProfileID != "" {
			if err := e.profiles.SetActive(ctx, b.ActiveProfileID); err != nil {
				errs = append(errs, err)
			}
		}
	}

	e.log.InfoContext(ctx, "bundle imported",
		logger.Count(res.Total()),
		logger.Errors(errs...),
	)
	return res, errors.Join(errs...)
}

// Backup stores a JSON bundle under key.
func (e *Engine) Backup(ctx context.Context, a storage.Adapter, key string) error {
	if err := storage.ValidateKey(key); err != nil {
		return err
	}
	data, err := e.ExportBundle(FormatJSON)
	if err != nil {
		return err
	}
	if err := a.Set(ctx, key, data); err != nil {
		return fmt.Errorf("backup %s: %w", key, err)
	}
	e.log.InfoContext(ctx, "backup written", logger.StorageKey(key), slog.Int("bytes", len(data)))
	return nil
}

// Restore reads the JSON bundle under key and imports it.
func (e *Engine) Restore(ctx context.Context, a storage.Adapter, key string, opts ImportOptions) (ImportResult, error) {
	if err := storage.ValidateKey(key); err != nil {
		return ImportResult{}, err
	}
	data, err := a.Get(ctx, key)
	if err != nil {
		return ImportResult{}, fmt.Errorf("restore %s: %w", key, err)
	}
	return e.ImportBundle(ctx, data, FormatJSON, opts)
}
