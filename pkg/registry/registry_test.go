package registry_test

import (
	"context"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/emailkit/pkg/components"
	"github.com/dmitrymomot/emailkit/pkg/registry"
	"github.com/dmitrymomot/emailkit/pkg/style"
)

func noop(registry.Props, style.Styles, []templ.Component) templ.Component {
	return components.Raw("")
}

func TestDefault(t *testing.T) {
	t.Parallel()
	r := registry.Default()

	types := make([]string, 0)
	for _, d := range r.List() {
		types = append(types, d.Type)
	}
	assert.Equal(t, []string{
		"button", "divider", "heading", "image", "spacer", "text",
		"column", "columns", "section",
	}, types)
	assert.Equal(t, []string{registry.CategoryContent, registry.CategoryLayout}, r.Categories())
	assert.Len(t, r.ByCategory(registry.CategoryLayout), 3)

	button := r.MustGet("button")
	assert.Equal(t, "Button", button.Name)
	assert.Equal(t, "12px 24px", button.DefaultStyles["padding"])
}

func TestRegistry_Register(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		def  registry.Definition
		err  error
	}{
		{name: "ok", def: registry.Definition{Type: "call-to-action", Render: noop}},
		{name: "duplicate", def: registry.Definition{Type: "button", Render: noop}, err: registry.ErrDuplicate},
		{name: "bad type", def: registry.Definition{Type: "Bad Type", Render: noop}, err: registry.ErrInvalidDef},
		{name: "no render", def: registry.Definition{Type: "empty"}, err: registry.ErrInvalidDef},
		{
			name: "unsafe default style",
			def:  registry.Definition{Type: "evil", Render: noop, DefaultStyles: style.Styles{"color": "expression(alert(1))"}},
			err:  registry.ErrInvalidDef,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := registry.Default()
			err := r.Register(tt.def)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			d, err := r.Get(tt.def.Type)
			require.NoError(t, err)
			assert.Equal(t, "Call To Action", d.Name)
			assert.Equal(t, registry.CategoryContent, d.Category)
		})
	}
}

func TestRegistry_GetUnregister(t *testing.T) {
	t.Parallel()
	r := registry.Default()

	_, err := r.Get("missing")
	assert.ErrorIs(t, err, registry.ErrNotFound)
	assert.Panics(t, func() { r.MustGet("missing") })

	d := r.MustGet("button")
	d.DefaultStyles["padding"] = "0"
	assert.Equal(t, "12px 24px", r.MustGet("button").DefaultStyles["padding"], "Get returns a copy")

	assert.True(t, r.Unregister("button"))
	assert.False(t, r.Unregister("button"))
	assert.False(t, r.Has("button"))
}

func TestRegistry_Build(t *testing.T) {
	t.Parallel()
	r := registry.Default()

	c, err := r.Build("button", registry.Props{"label": "Buy", "url": "https://example.com"}, style.New("color", "#fff"))
	require.NoError(t, err)
	out, err := components.Render(context.Background(), c)
	require.NoError(t, err)
	assert.Contains(t, out, `href="https://example.com"`)
	assert.Contains(t, out, ">Buy</a>")

	child, err := r.Build("text", registry.Props{"text": "inside"}, nil)
	require.NoError(t, err)
	section, err := r.Build("section", nil, nil, child)
	require.NoError(t, err)
	out, err = components.Render(context.Background(), section)
	require.NoError(t, err)
	assert.Contains(t, out, `<div data-layout="section"><p class="text">inside</p></div>`)

	_, err = r.Build("missing", nil, nil)
	assert.ErrorIs(t, err, registry.ErrNotFound)
}

func TestProps(t *testing.T) {
	t.Parallel()
	p := registry.Props{"s": "x", "empty": "", "f": 3.0, "n": "7", "b": "true", "i": 4}

	assert.Equal(t, "x", p.String("s", "d"))
	assert.Equal(t, "d", p.String("empty", "d"))
	assert.Equal(t, "d", p.String("missing", "d"))
	assert.Equal(t, "3", p.String("f", ""))
	assert.Equal(t, 3, p.Int("f", 0))
	assert.Equal(t, 7, p.Int("n", 0))
	assert.Equal(t, 4, p.Int("i", 0))
	assert.Equal(t, 9, p.Int("s", 9))
	assert.True(t, p.Bool("b", false))
	assert.True(t, p.Bool("missing", true))

	merged := registry.MergeProps(registry.Props{"a": 1, "b": 2}, registry.Props{"b": nil, "c": 3})
	assert.Equal(t, registry.Props{"a": 1, "c": 3}, merged)
}
