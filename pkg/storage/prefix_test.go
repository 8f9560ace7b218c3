package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/emailkit/pkg/storage"
)

func TestPrefixedAdapter(t *testing.T) {
	t.Parallel()
	runAdapterContract(t, func(*testing.T) storage.Adapter {
		return storage.WithPrefix(storage.NewMemoryAdapter(), "app")
	})
}

func TestPrefixedAdapter_ClearKeepsOtherNamespaces(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	inner := storage.NewMemoryAdapter()
	require.NoError(t, inner.Set(ctx, "other:k", []byte("keep")))
	require.NoError(t, inner.Set(ctx, "unprefixed", []byte("keep")))

	p := storage.WithPrefix(inner, "app:")
	assert.Equal(t, "app:", p.Prefix())
	require.NoError(t, p.Set(ctx, "themes", []byte("1")))

	raw, err := inner.Get(ctx, "app:themes")
	require.NoError(t, err)
	assert.Equal(t, "1", string(raw))

	require.NoError(t, p.Clear(ctx))
	assert.Equal(t, 2, inner.Len())
	_, err = inner.Get(ctx, "other:k")
	assert.NoError(t, err)
}

type nonListing struct{ storage.Adapter }

func TestPrefixedAdapter_ClearNeedsLister(t *testing.T) {
	t.Parallel()
	p := storage.WithPrefix(nonListing{storage.NewMemoryAdapter()}, "x")
	assert.ErrorIs(t, p.Clear(context.Background()), storage.ErrClearUnsupported)

	// an empty prefix delegates straight to the wrapped adapter
	assert.NoError(t, storage.WithPrefix(nonListing{storage.NewMemoryAdapter()}, "").Clear(context.Background()))
}
