package style_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/emailkit/pkg/style"
)

var testTokens = style.Tokens{
	"colors": {
		"primary": "#2563eb",
		"border":  "{colors.muted}",
		"muted":   "#e5e7eb",
		"loop-a":  "{colors.loop-b}",
		"loop-b":  "{colors.loop-a}",
	},
	"spacing": {
		"md": "16px",
	},
}

func TestTokens_Lookup(t *testing.T) {
	t.Parallel()

	v, ok := testTokens.Lookup("colors.primary")
	require.True(t, ok)
	assert.Equal(t, "#2563eb", v)

	_, ok = testTokens.Lookup("colors.unknown")
	assert.False(t, ok)
	_, ok = testTokens.Lookup("colors")
	assert.False(t, ok)
}

func TestResolveValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    string
		missing []string
	}{
		{"plain", "12px", "12px", nil},
		{"single", "{colors.primary}", "#2563eb", nil},
		{"embedded", "1px solid {colors.primary}", "1px solid #2563eb", nil},
		{"multiple", "{spacing.md} {spacing.md}", "16px 16px", nil},
		{"chained", "1px solid {colors.border}", "1px solid #e5e7eb", nil},
		{"unknown", "{colors.nope}", "{colors.nope}", []string{"colors.nope"}},
		{"cycle", "{colors.loop-a}", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, missing := style.ResolveValue(tt.in, testTokens)
			if tt.name == "cycle" {
				require.Len(t, missing, 1)
				assert.Contains(t, []string{"colors.loop-a", "colors.loop-b"}, missing[0])
				return
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.missing, missing)
		})
	}
}

func TestResolveTokens(t *testing.T) {
	t.Parallel()

	s := style.Styles{
		"color":   "{colors.primary}",
		"padding": "{spacing.md}",
		"border":  "1px solid {colors.gone}",
		"margin":  "{spacing.gone} {colors.gone}",
	}
	got, missing := style.ResolveTokens(s, testTokens)
	assert.Equal(t, "#2563eb", got["color"])
	assert.Equal(t, "16px", got["padding"])
	assert.Equal(t, "1px solid {colors.gone}", got["border"])
	assert.Equal(t, []string{"colors.gone", "spacing.gone"}, missing)

	// source styles keep their references
	assert.Equal(t, "{colors.primary}", s["color"])
}

func TestMergeTokens(t *testing.T) {
	t.Parallel()

	base := style.Tokens{"colors": {"primary": "red", "text": "#111"}}
	over := style.Tokens{"colors": {"primary": "blue"}, "radius": {"sm": "4px"}}

	got := style.MergeTokens(base, over)
	assert.Equal(t, "blue", got["colors"]["primary"])
	assert.Equal(t, "#111", got["colors"]["text"])
	assert.Equal(t, "4px", got["radius"]["sm"])
	assert.Equal(t, "red", base["colors"]["primary"])

	c := got.Clone()
	c["colors"]["primary"] = "green"
	assert.Equal(t, "blue", got["colors"]["primary"])
}

func TestReferences(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"colors.a", "spacing.b"}, style.References("{colors.a} x {spacing.b}"))
	assert.Nil(t, style.References("none"))
	assert.Nil(t, style.References("{notatoken}"))
}
