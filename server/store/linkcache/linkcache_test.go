package linkcache

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetReturnsStoredValue(t *testing.T) {
	cache, err := New[string](4)
	require.NoError(t, err)

	_, ok := cache.Get("http://google.com")
	assert.False(t, ok, "empty cache should miss")

	cache.Set("http://google.com", "Google")

	value, ok := cache.Get("http://google.com")
	assert.True(t, ok)
	assert.Equal(t, "Google", value)
}

func TestSetReplacesExistingEntry(t *testing.T) {
	cache, err := New[string](4)
	require.NoError(t, err)

	cache.Set("key", "old")
	cache.Set("key", "new")

	value, ok := cache.Get("key")
	assert.True(t, ok)
	assert.Equal(t, "new", value)
	assert.Equal(t, 1, cache.Len())
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	cache, err := New[string](2)
	require.NoError(t, err)

	cache.Set("a", "1")
	cache.Set("b", "2")
	cache.Set("c", "3")

	_, ok := cache.Get("a")
	assert.False(t, ok, "oldest entry should have been evicted")
	assert.Equal(t, 2, cache.Len())
}

func TestGetPromotesEntry(t *testing.T) {
	cache, err := New[string](2)
	require.NoError(t, err)

	cache.Set("a", "1")
	cache.Set("b", "2")

	// Touch "a" so "b" becomes the eviction candidate.
	_, ok := cache.Get("a")
	require.True(t, ok)

	cache.Set("c", "3")

	_, ok = cache.Get("b")
	assert.False(t, ok, "least recently used entry should have been evicted")

	_, ok = cache.Get("a")
	assert.True(t, ok)
	_, ok = cache.Get("c")
	assert.True(t, ok)
}

func TestSetPromotesEntry(t *testing.T) {
	cache, err := New[string](2)
	require.NoError(t, err)

	cache.Set("a", "1")
	cache.Set("b", "2")

	// Overwriting counts as use.
	cache.Set("a", "updated")
	cache.Set("c", "3")

	_, ok := cache.Get("b")
	assert.False(t, ok)

	value, ok := cache.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "updated", value)
}

func TestClearEmptiesCache(t *testing.T) {
	cache, err := New[string](4)
	require.NoError(t, err)

	cache.Set("a", "1")
	cache.Set("b", "2")

	cache.Clear()

	assert.Equal(t, 0, cache.Len())
	_, ok := cache.Get("a")
	assert.False(t, ok)
}

func TestDefaultCapacity(t *testing.T) {
	cache, err := New[string](0)
	require.NoError(t, err)

	for i := 0; i < DefaultCapacity+10; i++ {
		cache.Set(fmt.Sprintf("key-%d", i), "value")
	}

	assert.Equal(t, DefaultCapacity, cache.Len())
}
