package recipe_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/emailkit/pkg/events"
	"github.com/dmitrymomot/emailkit/pkg/recipe"
	"github.com/dmitrymomot/emailkit/pkg/search"
	"github.com/dmitrymomot/emailkit/pkg/storage"
	"github.com/dmitrymomot/emailkit/pkg/style"
)

func ptr[T any](v T) *T { return &v }

func ids(rs []recipe.StyleRecipe) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return out
}

func TestManager_BuiltIns(t *testing.T) {
	t.Parallel()
	m := recipe.NewManager()

	assert.Len(t, m.List(), 5)
	for _, rid := range []string{"rounded", "centered", "muted-text", "bold-heading", "full-width"} {
		r, err := m.Get(rid)
		require.NoError(t, err, rid)
		assert.True(t, r.IsBuiltIn)
	}
	assert.ErrorIs(t, m.Delete(context.Background(), "rounded"), recipe.ErrBuiltIn)
}

func TestManager_CRUD(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	emitter := events.NewEmitter()
	var names []string
	emitter.On(events.Wildcard, func(_ context.Context, e events.Event) { names = append(names, e.Name) })

	m := recipe.NewManager(recipe.WithEmitter(emitter))
	created, err := m.Create(ctx, recipe.StyleRecipe{
		Name:   "Card",
		Tags:   []string{"Box", "box", " shadow "},
		Styles: style.New("backgroundColor", "#fff"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"box", "shadow"}, created.Tags)
	assert.Equal(t, "#fff", created.Styles["background-color"])

	updated, err := m.Update(ctx, created.ID, recipe.Patch{
		Description: ptr("Boxed content"),
		Styles:      style.Styles{"padding": "16px"},
	})
	require.NoError(t, err)
	assert.Equal(t, style.Styles{"background-color": "#fff", "padding": "16px"}, updated.Styles)

	require.NoError(t, m.Delete(ctx, created.ID))
	_, err = m.Get(created.ID)
	assert.ErrorIs(t, err, recipe.ErrNotFound)
	assert.Equal(t, []string{"recipe.created", "recipe.updated", "recipe.deleted"}, names)
}

func TestManager_ExtendsAndCompose(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := recipe.NewManager()

	_, err := m.Create(ctx, recipe.StyleRecipe{ID: "base", Name: "Base", Styles: style.New("color", "black", "padding", "4px")})
	require.NoError(t, err)
	_, err = m.Create(ctx, recipe.StyleRecipe{ID: "a", Name: "A", Extends: []string{"base"}, Styles: style.New("color", "red")})
	require.NoError(t, err)
	_, err = m.Create(ctx, recipe.StyleRecipe{ID: "b", Name: "B", Extends: []string{"base", "rounded"}, Styles: style.New("margin", "0")})
	require.NoError(t, err)

	flat, err := m.Flatten("a", "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"base", "a", "rounded", "b"}, ids(flat))

	composed, err := m.Compose("a", "b")
	require.NoError(t, err)
	assert.Equal(t, style.Styles{
		"color":         "red",
		"padding":       "4px",
		"border-radius": "6px",
		"margin":        "0",
	}, composed)

	applied, err := m.Apply(style.New("color", "blue", "width", "10px"), "base")
	require.NoError(t, err)
	assert.Equal(t, "black", applied["color"])
	assert.Equal(t, "10px", applied["width"])

	_, err = m.Compose("missing")
	assert.ErrorIs(t, err, recipe.ErrNotFound)

	t.Run("cycles rejected", func(t *testing.T) {
		_, err := m.Update(ctx, "base", recipe.Patch{Extends: []string{"a"}})
		assert.ErrorIs(t, err, recipe.ErrRecipeCycle)

		r, err := m.Get("base")
		require.NoError(t, err)
		assert.Empty(t, r.Extends)
	})

	t.Run("unknown parent", func(t *testing.T) {
		_, err := m.Create(ctx, recipe.StyleRecipe{Name: "Orphan", Extends: []string{"ghost"}})
		assert.ErrorIs(t, err, recipe.ErrParentNotFound)
	})

	t.Run("parent in use", func(t *testing.T) {
		assert.ErrorIs(t, m.Delete(ctx, "base"), recipe.ErrRecipeInUse)
	})
}

func TestManager_Search(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("private index", func(t *testing.T) {
		m := recipe.NewManager()
		got, err := m.Search(ctx, "mut")
		require.NoError(t, err)
		assert.Equal(t, []string{"muted-text"}, ids(got))

		got, err = m.Search(ctx, "", "text")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"muted-text", "bold-heading"}, ids(got))
	})

	t.Run("shared index filled by load", func(t *testing.T) {
		idx := search.NewMemoryIndex()
		m := recipe.NewManager(recipe.WithIndex(idx))
		assert.Zero(t, idx.Len())

		_, err := m.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, 5, idx.Len())

		created, err := m.Create(ctx, recipe.StyleRecipe{Name: "Hero banner", Tags: []string{"layout"}})
		require.NoError(t, err)
		got, err := m.Search(ctx, "hero")
		require.NoError(t, err)
		assert.Equal(t, []string{created.ID}, ids(got))

		require.NoError(t, m.Delete(ctx, created.ID))
		got, err = m.Search(ctx, "hero")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestManager_PersistAndImport(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	adapter := storage.NewMemoryAdapter()

	m := recipe.NewManager(recipe.WithStorage(adapter))
	_, err := m.Create(ctx, recipe.StyleRecipe{ID: "base", Name: "Base", Styles: style.New("color", "black")})
	require.NoError(t, err)
	_, err = m.Create(ctx, recipe.StyleRecipe{ID: "child", Name: "Child", Extends: []string{"base"}})
	require.NoError(t, err)

	reloaded := recipe.NewManager(recipe.WithStorage(adapter))
	n, err := reloaded.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, reloaded.UserRecipes(), 2)

	data, err := m.Export()
	require.NoError(t, err)

	fresh := recipe.NewManager()
	n, err = fresh.Import(ctx, data, false)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := fresh.Search(ctx, "child")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = fresh.Import(ctx, []byte(`[{"id":"x","name":"X","extends":["nope"]}]`), false)
	assert.ErrorIs(t, err, recipe.ErrParentNotFound)

	_, err = fresh.Import(ctx, []byte(`{`), false)
	assert.ErrorIs(t, err, recipe.ErrInvalidData)
}
