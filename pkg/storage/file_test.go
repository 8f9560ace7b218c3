package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/emailkit/pkg/storage"
)

func TestFileAdapter(t *testing.T) {
	t.Parallel()
	runAdapterContract(t, func(t *testing.T) storage.Adapter {
		a, err := storage.NewFileAdapter(t.TempDir())
		require.NoError(t, err)
		return a
	})
}

func TestFileAdapter_EscapesKeys(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()
	a, err := storage.NewFileAdapter(dir)
	require.NoError(t, err)

	require.NoError(t, a.Set(ctx, "../escape/attempt", []byte("x")))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].IsDir())

	keys, err := a.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"../escape/attempt"}, keys)
}

func TestFileAdapter_ClearKeepsForeignFiles(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.txt"), []byte("hi"), 0o644))

	a, err := storage.NewFileAdapter(dir)
	require.NoError(t, err)
	require.NoError(t, a.Set(ctx, "k", []byte("1")))
	require.NoError(t, a.Clear(ctx))

	_, err = os.Stat(filepath.Join(dir, "README.txt"))
	assert.NoError(t, err)
	assert.Equal(t, dir, a.Dir())
}

func TestNewFileAdapter_EmptyDir(t *testing.T) {
	t.Parallel()
	_, err := storage.NewFileAdapter("")
	assert.ErrorIs(t, err, storage.ErrMissingConfig)
}
