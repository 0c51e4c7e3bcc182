package adapter

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkompalli/QBank-Generator/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileCacheAdapter_SetGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	cache, err := NewFileCacheAdapter(path)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = cache.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	require.NoError(t, cache.Set(ctx, "k1", "v1", 0))
	val, err := cache.Get(ctx, "k1")
	assert.NoError(t, err)
	assert.Equal(t, "v1", val)
}

func TestFileCacheAdapter_OverwriteNotAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	cache, err := NewFileCacheAdapter(path)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k1", "old", 0))
	require.NoError(t, cache.Set(ctx, "k1", "new", 0))

	val, err := cache.Get(ctx, "k1")
	assert.NoError(t, err)
	assert.Equal(t, "new", val)

	// The persisted file holds exactly one entry for the key.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var persisted map[string]string
	require.NoError(t, json.Unmarshal(data, &persisted))
	assert.Len(t, persisted, 1)
	assert.Equal(t, "new", persisted["k1"])
}

func TestFileCacheAdapter_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	ctx := context.Background()

	cache, err := NewFileCacheAdapter(path)
	require.NoError(t, err)
	require.NoError(t, cache.Set(ctx, "k1", "v1", 0))

	reopened, err := NewFileCacheAdapter(path)
	require.NoError(t, err)
	val, err := reopened.Get(ctx, "k1")
	assert.NoError(t, err)
	assert.Equal(t, "v1", val)
}

func TestFileCacheAdapter_Delete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	cache, err := NewFileCacheAdapter(path)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k1", "v1", 0))
	require.NoError(t, cache.Delete(ctx, "k1"))
	_, err = cache.Get(ctx, "k1")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	// Deleting an absent key is not an error.
	assert.NoError(t, cache.Delete(ctx, "never-existed"))
}

func TestFileCacheAdapter_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := NewFileCacheAdapter(path)
	assert.Error(t, err)
}
