package customization_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/emailkit/pkg/customization"
	"github.com/dmitrymomot/emailkit/pkg/preset"
	"github.com/dmitrymomot/emailkit/pkg/profile"
	"github.com/dmitrymomot/emailkit/pkg/recipe"
	"github.com/dmitrymomot/emailkit/pkg/registry"
	"github.com/dmitrymomot/emailkit/pkg/storage"
	"github.com/dmitrymomot/emailkit/pkg/style"
	"github.com/dmitrymomot/emailkit/pkg/theme"
	"github.com/dmitrymomot/emailkit/pkg/variant"
)

func TestEngine_ResolveStyles(t *testing.T) {
	t.Parallel()
	e := customization.NewEngine()

	res, err := e.ResolveStyles(context.Background(), customization.Request{
		ComponentType: "button",
		RecipeIDs:     []string{"rounded"},
		VariantIDs:    []string{"button-lg"},
		Overrides:     style.New("color", "#000000", "border", "1px solid {colors.missing}"),
	})
	require.NoError(t, err)

	assert.Equal(t, theme.DefaultID, res.ThemeID)
	assert.Equal(t, "button-cta", res.PresetID, "default preset for the type")
	assert.Equal(t, style.Styles{
		"background-color": "#2563eb",   // theme, token resolved
		"color":            "#000000",   // override
		"padding":          "16px 32px", // variant over preset over theme
		"font-size":        "18px",      // variant
		"font-weight":      "700",       // preset
		"border-radius":    "6px",       // recipe over theme token
		"font-family":      "Arial, Helvetica, sans-serif",
		"text-decoration":  "none",
		"display":          "inline-block",
		"border":           "1px solid {colors.missing}",
	}, res.Styles)
	assert.Equal(t, []string{"colors.missing"}, res.Unresolved)
}

func TestEngine_ResolveStylesExplicitPreset(t *testing.T) {
	t.Parallel()
	e := customization.NewEngine()

	res, err := e.ResolveStyles(context.Background(), customization.Request{
		ComponentType: "text",
		PresetID:      "text-caption",
	})
	require.NoError(t, err)
	assert.Equal(t, "13px", res.Styles["font-size"])
	assert.Equal(t, "#6b7280", res.Styles["color"])
}

func TestEngine_ResolveStylesErrors(t *testing.T) {
	t.Parallel()
	e := customization.NewEngine()

	tests := []struct {
		name string
		req  customization.Request
		err  error
	}{
		{"unknown component", customization.Request{ComponentType: "carousel"}, registry.ErrNotFound},
		{"unknown theme", customization.Request{ComponentType: "button", ThemeID: "nope"}, theme.ErrNotFound},
		{"unknown preset", customization.Request{ComponentType: "button", PresetID: "nope"}, preset.ErrNotFound},
		{"preset mismatch", customization.Request{ComponentType: "button", PresetID: "heading-hero"}, customization.ErrPresetMismatch},
		{"unknown recipe", customization.Request{ComponentType: "button", RecipeIDs: []string{"nope"}}, recipe.ErrNotFound},
		{"variant mismatch", customization.Request{ComponentType: "button", VariantIDs: []string{"heading-small"}}, variant.ErrComponentMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.ResolveStyles(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestEngine_Profiles(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	e := customization.NewEngine()

	brand, err := e.Themes().Create(ctx, theme.Theme{
		Name:    "Brand",
		Extends: theme.DefaultID,
		Tokens:  style.Tokens{"colors": {"primary": "#ff0000"}},
	})
	require.NoError(t, err)

	_, err = e.Profiles().Create(ctx, profile.CustomizationProfile{Name: "Broken", ThemeID: "missing"})
	assert.ErrorIs(t, err, profile.ErrUnknownReference)

	p, err := e.Profiles().Create(ctx, profile.CustomizationProfile{
		Name:       "Marketing",
		ThemeID:    brand.ID,
		PresetIDs:  []string{"heading-hero", "button-link"},
		VariantIDs: []string{"button-sm", "heading-large"},
		RecipeIDs:  []string{"rounded"},
	})
	require.NoError(t, err)

	req, err := e.ProfileRequest(p.ID, "button")
	require.NoError(t, err)
	assert.Equal(t, "button-link", req.PresetID)
	assert.Equal(t, []string{"button-sm"}, req.VariantIDs)
	assert.Equal(t, []string{"rounded"}, req.RecipeIDs)

	res, err := e.ResolveForProfile(ctx, p.ID, "button", nil)
	require.NoError(t, err)
	assert.Equal(t, brand.ID, res.ThemeID)
	assert.Equal(t, "8px 16px", res.Styles["padding"])

	_, err = e.ResolveForProfile(ctx, "", "button", nil)
	assert.ErrorIs(t, err, profile.ErrNoActiveProfile)

	require.NoError(t, e.ActivateProfile(ctx, p.ID))
	assert.Equal(t, p.ID, e.Profiles().ActiveID())
	assert.Equal(t, brand.ID, e.Themes().ActiveID())

	res, err = e.ResolveStyles(ctx, customization.Request{ComponentType: "button", PresetID: "button-cta"})
	require.NoError(t, err)
	assert.Equal(t, "#ff0000", res.Styles["background-color"], "active theme applies")

	assert.ErrorIs(t, e.ActivateProfile(ctx, "missing"), profile.ErrNotFound)
}

func seed(t *testing.T, e *customization.Engine) (theme.Theme, profile.CustomizationProfile) {
	t.Helper()
	ctx := context.Background()

	th, err := e.Themes().Create(ctx, theme.Theme{Name: "Ocean", Tokens: style.Tokens{"colors": {"primary": "#0077be"}}})
	require.NoError(t, err)
	r, err := e.Recipes().Create(ctx, recipe.StyleRecipe{Name: "Shadowless", Styles: style.New("border", "0")})
	require.NoError(t, err)
	require.NoError(t, e.Variants().SetDefault(ctx, "button-lg"))
	p, err := e.Profiles().Create(ctx, profile.CustomizationProfile{Name: "Main", ThemeID: th.ID, RecipeIDs: []string{r.ID}})
	require.NoError(t, err)
	require.NoError(t, e.ActivateProfile(ctx, p.ID))
	return th, p
}

func TestEngine_BundleRoundTrip(t *testing.T) {
	t.Parallel()

	for _, format := range []customization.Format{customization.FormatJSON, customization.FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()

			src := customization.NewEngine()
			th, p := seed(t, src)

			data, err := src.ExportBundle(format)
			require.NoError(t, err)

			dst := customization.NewEngine()
			res, err := dst.ImportBundle(ctx, data, format, customization.ImportOptions{Overwrite: true, Activate: true})
			require.NoError(t, err)
			assert.Equal(t, 1, res.Themes)
			assert.Equal(t, 1, res.Recipes)
			assert.Equal(t, 1, res.Profiles)

			got, err := dst.Themes().Get(th.ID)
			require.NoError(t, err)
			assert.Equal(t, "#0077be", got.Tokens["colors"]["primary"])
			assert.Equal(t, th.ID, dst.Themes().ActiveID())
			assert.Equal(t, p.ID, dst.Profiles().ActiveID())

			def, ok := dst.Variants().Default("button", "size")
			require.True(t, ok)
			assert.Equal(t, "button-lg", def.ID)

			again, err := dst.ImportBundle(ctx, data, format, customization.ImportOptions{})
			require.NoError(t, err)
			assert.Equal(t, 0, again.Themes, "existing entities are skipped without overwrite")
		})
	}
}

func TestDecodeBundle_Errors(t *testing.T) {
	t.Parallel()

	_, err := customization.DecodeBundle([]byte("{"), customization.FormatJSON)
	assert.ErrorIs(t, err, customization.ErrInvalidBundle)

	_, err = customization.DecodeBundle([]byte(`{"version": 99}`), customization.FormatJSON)
	assert.ErrorIs(t, err, customization.ErrUnsupportedVersion)

	_, err = customization.DecodeBundle([]byte(`{}`), customization.Format("xml"))
	assert.ErrorIs(t, err, customization.ErrUnknownFormat)

	f, err := customization.ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, customization.FormatYAML, f)
	assert.Equal(t, "application/yaml", f.ContentType())
}

func TestEngine_BackupRestore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := storage.NewMemoryAdapter()

	src := customization.NewEngine()
	th, _ := seed(t, src)
	require.NoError(t, src.Backup(ctx, store, "backups/latest.json"))
	assert.ErrorIs(t, src.Backup(ctx, store, " "), storage.ErrInvalidKey)

	dst := customization.NewEngine()
	res, err := dst.Restore(ctx, store, "backups/latest.json", customization.ImportOptions{Overwrite: true})
	require.NoError(t, err)
	assert.Positive(t, res.Total())
	_, err = dst.Themes().Get(th.ID)
	require.NoError(t, err)

	_, err = dst.Restore(ctx, store, "missing", customization.ImportOptions{})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestEngine_LoadPersisted(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := storage.NewMemoryAdapter()

	build := func() *customization.Engine {
		return customization.NewEngine(
			customization.WithThemes(theme.NewManager(theme.WithStorage(store))),
			customization.WithRecipes(recipe.NewManager(recipe.WithStorage(store))),
			customization.WithProfiles(profile.NewManager(profile.WithStorage(store))),
		)
	}

	first := build()
	th, p := seed(t, first)

	second := build()
	require.NoError(t, second.Load(ctx))
	_, err := second.Themes().Get(th.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, second.Profiles().ActiveID())
}
