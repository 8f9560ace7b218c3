package cache_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/emailkit/pkg/cache"
)

func TestLRU_Basic(t *testing.T) {
	t.Parallel()
	c := cache.NewLRU[string, int](2)

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Put("a", 1)
	c.Put("b", 2)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	c.Put("a", 10)
	v, _ = c.Get("a")
	assert.Equal(t, 10, v)
	assert.Equal(t, 2, c.Len())
}

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()
	var evicted []string
	c := cache.NewLRU(2, cache.WithEvictCallback[string, int](func(k string, _ int) {
		evicted = append(evicted, k)
	}))

	c.Put("a", 1)
	c.Put("b", 2)
	c.Get("a")
	c.Put("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, []string{"b"}, evicted)
}

func TestLRU_TTL(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := cache.NewLRU(4,
		cache.WithTTL[string, string](time.Minute),
		cache.WithClock[string, string](func() time.Time { return now }),
	)

	c.Put("k", "v")
	_, ok := c.Get("k")
	assert.True(t, ok)

	now = now.Add(time.Minute)
	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestLRU_RemoveClearStats(t *testing.T) {
	t.Parallel()
	cleared := 0
	c := cache.NewLRU(3, cache.WithEvictCallback[int, int](func(int, int) { cleared++ }))
	c.Put(1, 1)
	c.Put(2, 2)

	assert.True(t, c.Remove(1))
	assert.False(t, c.Remove(1))
	assert.Equal(t, 0, cleared)

	c.Get(2)
	c.Get(3)
	s := c.Stats()
	assert.Equal(t, uint64(1), s.Hits)
	assert.Equal(t, uint64(1), s.Misses)
	assert.Equal(t, 1, s.Size)
	assert.Equal(t, 3, s.Capacity)

	c.Clear()
	assert.Equal(t, 1, cleared)
	assert.Equal(t, 0, c.Len())
}

func TestNewLRU_PanicsOnZeroCapacity(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { cache.NewLRU[string, int](0) })
}

func TestLRU_Concurrent(t *testing.T) {
	t.Parallel()
	c := cache.NewLRU[int, int](50)
	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				c.Put(g*1000+i, i)
				c.Get(g*1000 + i/2)
			}
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 50)
}
