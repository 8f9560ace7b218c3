package id_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/emailkit/pkg/id"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("prefixed", func(t *testing.T) {
		t.Parallel()
		v := id.New("theme")
		require.True(t, id.HasPrefix(v, "theme"))
		_, err := uuid.Parse(v[len("theme_"):])
		assert.NoError(t, err)
	})

	t.Run("bare uuid without prefix", func(t *testing.T) {
		t.Parallel()
		v := id.New("")
		_, err := uuid.Parse(v)
		assert.NoError(t, err)
		assert.Empty(t, id.Prefix(v))
	})

	t.Run("unique", func(t *testing.T) {
		t.Parallel()
		assert.NotEqual(t, id.New("preset"), id.New("preset"))
	})
}

func TestPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"theme_abc", "theme"},
		{"recipe_x_y", "recipe"},
		{"_abc", ""},
		{"noprefix", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, id.Prefix(tt.in), tt.in)
	}
}
