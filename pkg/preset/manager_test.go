package preset_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/emailkit/pkg/events"
	"github.com/dmitrymomot/emailkit/pkg/preset"
	"github.com/dmitrymomot/emailkit/pkg/storage"
	"github.com/dmitrymomot/emailkit/pkg/style"
	"github.com/dmitrymomot/emailkit/pkg/validator"
)

type failingAdapter struct{ storage.Adapter }

func (failingAdapter) Set(context.Context, string, []byte) error { return errors.New("quota exceeded") }

func ptr[T any](v T) *T { return &v }

func TestManager_Defaults(t *testing.T) {
	t.Parallel()
	m := preset.NewManager()

	def, ok := m.Default("button")
	require.True(t, ok)
	assert.Equal(t, "button-cta", def.ID)

	_, ok = m.Default("image")
	assert.False(t, ok)

	assert.Len(t, m.ByComponentType("text"), 2)
	assert.Equal(t, "heading", m.List()[2].ComponentType)
}

func TestManager_CRUDAndErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := preset.NewManager()

	created, err := m.Create(ctx, preset.ComponentPreset{
		Name:          "Footer link",
		ComponentType: "button",
		Styles:        style.New("fontSize", "12px"),
		Props:         map[string]any{"label": "Unsubscribe"},
	})
	require.NoError(t, err)
	assert.Equal(t, "12px", created.Styles["font-size"])

	updated, err := m.Update(ctx, created.ID, preset.Patch{
		Description: ptr("Tiny"),
		Props:       map[string]any{"label": nil},
	})
	require.NoError(t, err)
	assert.Equal(t, "Tiny", updated.Description)
	assert.Empty(t, updated.Props)

	_, err = m.Get("missing")
	var mErr *preset.PresetManagerError
	require.ErrorAs(t, err, &mErr)
	assert.Equal(t, "get", mErr.Op)
	assert.Equal(t, "missing", mErr.PresetID)
	assert.ErrorIs(t, err, preset.ErrNotFound)

	_, err = m.Create(ctx, preset.ComponentPreset{Name: "No type"})
	require.ErrorAs(t, err, &mErr)
	assert.ErrorIs(t, err, validator.ErrValidationFailed)

	_, err = m.Update(ctx, "button-cta", preset.Patch{Name: ptr("x")})
	assert.ErrorIs(t, err, preset.ErrBuiltIn)
	_, err = m.Update(ctx, "ghost", preset.Patch{Name: ptr("x")})
	assert.ErrorIs(t, err, preset.ErrNotFound)

	require.NoError(t, m.Delete(ctx, created.ID))
	assert.ErrorIs(t, m.Delete(ctx, created.ID), preset.ErrNotFound)
}

func TestManager_StorageError(t *testing.T) {
	t.Parallel()
	m := preset.NewManager(preset.WithStorage(failingAdapter{storage.NewMemoryAdapter()}))

	_, err := m.Create(context.Background(), preset.ComponentPreset{Name: "X", ComponentType: "text"})
	var sErr *preset.PresetStorageError
	require.ErrorAs(t, err, &sErr)
	assert.Equal(t, "create", sErr.Op)
	assert.Equal(t, "presets", sErr.Key)
	assert.Len(t, m.ByComponentType("text"), 2)
}

func TestManager_SetDefaultDuplicateApply(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	emitter := events.NewEmitter()
	var changed []string
	emitter.On(events.PresetDefaultChanged, func(_ context.Context, e events.Event) { changed = append(changed, e.EntityID) })
	adapter := storage.NewMemoryAdapter()
	m := preset.NewManager(preset.WithStorage(adapter), preset.WithEmitter(emitter))

	dup, err := m.Duplicate(ctx, "button-link", "")
	require.NoError(t, err)
	assert.Equal(t, "Text link button (copy)", dup.Name)
	assert.False(t, dup.IsDefault)
	assert.False(t, dup.IsBuiltIn)

	require.NoError(t, m.SetDefault(ctx, dup.ID))
	def, ok := m.Default("button")
	require.True(t, ok)
	assert.Equal(t, dup.ID, def.ID)
	cta, err := m.Get("button-cta")
	require.NoError(t, err)
	assert.False(t, cta.IsDefault)
	assert.Equal(t, []string{dup.ID}, changed)

	out, err := m.Apply(dup.ID, style.New("color", "black", "margin", "0"))
	require.NoError(t, err)
	assert.Equal(t, "{colors.primary}", out["color"])
	assert.Equal(t, "0", out["margin"])

	reloaded := preset.NewManager(preset.WithStorage(adapter))
	_, err = reloaded.Load(ctx)
	require.NoError(t, err)
	def, ok = reloaded.Default("button")
	require.True(t, ok)
	assert.Equal(t, dup.ID, def.ID)
	def, ok = reloaded.Default("heading")
	require.True(t, ok)
	assert.Equal(t, "heading-hero", def.ID)
}

func TestManager_SearchExportImport(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := preset.NewManager()

	got, err := m.Search(ctx, "caption")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "text-caption", got[0].ID)

	got, err = m.Search(ctx, "button")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = m.Create(ctx, preset.ComponentPreset{ID: "promo", Name: "Promo", ComponentType: "heading", Tags: []string{"sale"}})
	require.NoError(t, err)
	data, err := m.Export()
	require.NoError(t, err)

	other := preset.NewManager()
	n, err := other.Import(ctx, data, false)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	got, err = other.Search(ctx, "", "sale")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = other.Import(ctx, []byte("oops"), false)
	var mErr *preset.PresetManagerError
	require.ErrorAs(t, err, &mErr)
	assert.Equal(t, "import", mErr.Op)
	assert.ErrorIs(t, err, preset.ErrInvalidData)
}
