package variant_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/emailkit/pkg/events"
	"github.com/dmitrymomot/emailkit/pkg/storage"
	"github.com/dmitrymomot/emailkit/pkg/style"
	"github.com/dmitrymomot/emailkit/pkg/validator"
	"github.com/dmitrymomot/emailkit/pkg/variant"
)

func ptr[T any](v T) *T { return &v }

func TestManager_BuiltIns(t *testing.T) {
	t.Parallel()
	m := variant.NewManager()

	buttons := m.ForComponent("button")
	assert.Len(t, buttons, 7)
	assert.Equal(t, "intent", buttons[0].Category)

	def, ok := m.Default("button", "size")
	require.True(t, ok)
	assert.Equal(t, "button-md", def.ID)

	_, ok = m.Default("image", "size")
	assert.False(t, ok)

	assert.ErrorIs(t, m.Delete(context.Background(), "button-md"), variant.ErrBuiltIn)
	_, err := m.Update(context.Background(), "button-md", variant.Patch{Name: ptr("x")})
	assert.ErrorIs(t, err, variant.ErrBuiltIn)
}

func TestManager_CRUD(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := variant.NewManager()

	created, err := m.Create(ctx, variant.ComponentVariant{
		Name:          "Pill",
		ComponentType: "button",
		Category:      "shape",
		Styles:        style.New("borderRadius", "999px"),
		Props:         map[string]any{"full_width": true},
	})
	require.NoError(t, err)
	assert.Equal(t, "999px", created.Styles["border-radius"])

	updated, err := m.Update(ctx, created.ID, variant.Patch{
		Styles: style.Styles{"padding": "4px"},
		Props:  map[string]any{"full_width": nil, "icon": "star"},
	})
	require.NoError(t, err)
	assert.Equal(t, style.Styles{"border-radius": "999px", "padding": "4px"}, updated.Styles)
	assert.Equal(t, map[string]any{"icon": "star"}, updated.Props)

	shapes := m.List(variant.Filter{ComponentType: "button", Category: "shape"})
	assert.Len(t, shapes, 2)

	require.NoError(t, m.Delete(ctx, created.ID))
	_, err = m.Get(created.ID)
	assert.ErrorIs(t, err, variant.ErrNotFound)
}

func TestManager_CreateValidation(t *testing.T) {
	t.Parallel()
	m := variant.NewManager()

	_, err := m.Create(context.Background(), variant.ComponentVariant{Name: "No type"})
	assert.ErrorIs(t, err, validator.ErrValidationFailed)

	_, err = m.Create(context.Background(), variant.ComponentVariant{
		Name:          "Evil",
		ComponentType: "button",
		Styles:        style.Styles{"color": "red} .x {color: blue"},
	})
	assert.ErrorIs(t, err, validator.ErrValidationFailed)
}

func TestManager_SetDefault(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	emitter := events.NewEmitter()
	var changed []string
	emitter.On(events.VariantDefaultChanged, func(_ context.Context, e events.Event) { changed = append(changed, e.EntityID) })

	adapter := storage.NewMemoryAdapter()
	m := variant.NewManager(variant.WithStorage(adapter), variant.WithEmitter(emitter))

	require.NoError(t, m.SetDefault(ctx, "button-lg"))
	def, ok := m.Default("button", "size")
	require.True(t, ok)
	assert.Equal(t, "button-lg", def.ID)

	md, err := m.Get("button-md")
	require.NoError(t, err)
	assert.False(t, md.IsDefault)

	intent, ok := m.Default("button", "intent")
	require.True(t, ok)
	assert.Equal(t, "button-primary", intent.ID)

	assert.Equal(t, []string{"button-lg"}, changed)
	assert.ErrorIs(t, m.SetDefault(ctx, "missing"), variant.ErrNotFound)

	t.Run("survives reload", func(t *testing.T) {
		reloaded := variant.NewManager(variant.WithStorage(adapter))
		_, err := reloaded.Load(ctx)
		require.NoError(t, err)

		def, ok := reloaded.Default("button", "size")
		require.True(t, ok)
		assert.Equal(t, "button-lg", def.ID)
		assert.Len(t, reloaded.Defaults("button"), 2)
	})

	t.Run("created default takes the slot", func(t *testing.T) {
		v, err := m.Create(ctx, variant.ComponentVariant{Name: "Tiny", ComponentType: "button", Category: "size", IsDefault: true})
		require.NoError(t, err)
		def, ok := m.Default("button", "size")
		require.True(t, ok)
		assert.Equal(t, v.ID, def.ID)
	})
}

func TestManager_Apply(t *testing.T) {
	t.Parallel()
	m := variant.NewManager()
	base := style.New("color", "black", "padding", "1px")

	out, err := m.Apply(base, "button-lg", "button-danger")
	require.NoError(t, err)
	assert.Equal(t, "16px 32px", out["padding"])
	assert.Equal(t, "#ffffff", out["color"])
	assert.Equal(t, "{colors.danger}", out["background-color"])
	assert.Equal(t, "1px", base["padding"], "base must not be modified")

	_, err = m.Apply(base, "button-lg", "heading-large")
	assert.ErrorIs(t, err, variant.ErrComponentMismatch)

	_, err = m.ApplyFor("heading", base, "button-lg")
	assert.ErrorIs(t, err, variant.ErrComponentMismatch)

	_, err = m.Apply(base, "nope")
	assert.ErrorIs(t, err, variant.ErrNotFound)

	same, err := m.Apply(base)
	require.NoError(t, err)
	assert.Equal(t, base, same)
}

func TestManager_ExportImport(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := variant.NewManager()
	_, err := m.Create(ctx, variant.ComponentVariant{ID: "ghost", Name: "Ghost", ComponentType: "button", Category: "intent"})
	require.NoError(t, err)

	data, err := m.Export()
	require.NoError(t, err)

	other := variant.NewManager()
	n, err := other.Import(ctx, data, false)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	ghost, err := other.Get("ghost")
	require.NoError(t, err)
	assert.False(t, ghost.IsBuiltIn)

	_, err = other.Import(ctx, []byte("nope"), false)
	assert.ErrorIs(t, err, variant.ErrInvalidData)
}
