package style_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/emailkit/pkg/style"
)

func TestNormalizeProperty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"color", "color"},
		{"fontSize", "font-size"},
		{"font-size", "font-size"},
		{"  backgroundColor ", "background-color"},
		{"WebkitTextSizeAdjust", "-webkit-text-size-adjust"},
		{"-webkit-text-size-adjust", "-webkit-text-size-adjust"},
		{"msTransform", "-ms-transform"},
		{"MozBorderRadius", "-moz-border-radius"},
		{"Color", "color"},
		{"border_top", "border-top"},
		{"--brandColor", "--brandColor"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, style.NormalizeProperty(tt.in), tt.in)
	}
}

func TestStyles_SetGet(t *testing.T) {
	t.Parallel()

	s := style.New("fontSize", "14px", "color", " #111 ", "dangling")
	assert.Len(t, s, 2)

	v, ok := s.Get("font-size")
	require.True(t, ok)
	assert.Equal(t, "14px", v)

	v, ok = s.Get("color")
	require.True(t, ok)
	assert.Equal(t, "#111", v)

	s.Set("color", "")
	_, ok = s.Get("color")
	assert.False(t, ok)
}

func TestStyles_String(t *testing.T) {
	t.Parallel()

	s := style.Styles{"padding": "4px", "color": "#fff", "border": "0"}
	assert.Equal(t, "border: 0; color: #fff; padding: 4px", s.String())
	assert.Equal(t, "", style.Styles{}.String())
	assert.Equal(t, ".btn { color: red; }", style.Rule(".btn", style.Styles{"color": "red"}))
	assert.Equal(t, "", style.Rule(".btn", nil))
}

func TestStyles_Clone(t *testing.T) {
	t.Parallel()

	orig := style.Styles{"color": "red"}
	c := orig.Clone()
	c["color"] = "blue"
	assert.Equal(t, "red", orig["color"])

	var nilStyles style.Styles
	assert.NotNil(t, nilStyles.Clone())
}

func TestMerge(t *testing.T) {
	t.Parallel()

	base := style.Styles{"color": "red", "padding": "4px", "margin": "0"}
	over := style.Styles{"color": "blue", "margin": "", "fontWeight": "bold"}

	got := style.Merge(base, nil, over)
	assert.Equal(t, style.Styles{
		"color":       "blue",
		"padding":     "4px",
		"font-weight": "bold",
	}, got)

	// inputs are untouched
	assert.Equal(t, "red", base["color"])
	assert.Equal(t, "0", base["margin"])
}

func TestMerge_LastWriteWins(t *testing.T) {
	t.Parallel()

	layers := []style.Styles{
		{"color": "1"},
		{"color": "2"},
		{"color": "3"},
	}
	assert.Equal(t, "3", style.Merge(layers...)["color"])
	assert.Empty(t, style.Merge())
}

func TestMergeDeep(t *testing.T) {
	t.Parallel()

	a := map[string]style.Styles{
		"button":  {"color": "red", "padding": "4px"},
		"heading": {"font-size": "24px"},
	}
	b := map[string]style.Styles{
		"button": {"color": "blue"},
		"text":   {"line-height": "1.5"},
	}

	got := style.MergeDeep(a, b)
	assert.Equal(t, style.Styles{"color": "blue", "padding": "4px"}, got["button"])
	assert.Equal(t, style.Styles{"font-size": "24px"}, got["heading"])
	assert.Equal(t, style.Styles{"line-height": "1.5"}, got["text"])
	assert.Equal(t, "red", a["button"]["color"])
}

func TestStyles_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	var s style.Styles
	require.NoError(t, json.Unmarshal([]byte(`{"fontSize":"12px","background-color":"#fff","margin":""}`), &s))
	assert.Equal(t, style.Styles{"font-size": "12px", "background-color": "#fff"}, s)

	var nested struct {
		Styles style.Styles `json:"styles"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"styles":{"textAlign":"center"}}`), &nested))
	assert.Equal(t, "center", nested.Styles["text-align"])

	assert.Error(t, json.Unmarshal([]byte(`{"color":1}`), &s))
}
