package conflicts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"modscan/core/dbpf"
)

func TestParseCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	keys := []dbpf.ResourceKey{
		{Type: 0x015A1849, Group: 1, Instance: 0x1122334455667788},
		{Type: 0x01B2D882, Group: 0, Instance: 42},
	}

	cache := LoadParseCache(path, zap.NewNop())
	cache.Put("mods/a.package|100|1700000000", keys)

	// Staged entries stay invisible until Save.
	_, ok := cache.Lookup("mods/a.package|100|1700000000")
	assert.False(t, ok)

	require.NoError(t, cache.Save())

	reloaded := LoadParseCache(path, zap.NewNop())
	got, ok := reloaded.Lookup("mods/a.package|100|1700000000")
	require.True(t, ok)
	assert.Equal(t, keys, got)

	_, ok = reloaded.Lookup("mods/a.package|101|1700000000")
	assert.False(t, ok)
}

func TestParseCacheEmptyResultIsCached(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	cache := LoadParseCache(path, zap.NewNop())
	cache.Put("mods/broken.package|10|1700000000", nil)
	require.NoError(t, cache.Save())

	reloaded := LoadParseCache(path, zap.NewNop())
	got, ok := reloaded.Lookup("mods/broken.package|10|1700000000")
	assert.True(t, ok)
	assert.Empty(t, got)
}

func TestLoadParseCacheCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	cache := LoadParseCache(path, zap.NewNop())
	_, ok := cache.Lookup("anything")
	assert.False(t, ok)

	// A corrupt cache must still be usable and writable.
	cache.Put("k", []dbpf.ResourceKey{{Type: 1, Group: 2, Instance: 3}})
	require.NoError(t, cache.Save())

	reloaded := LoadParseCache(path, zap.NewNop())
	got, ok := reloaded.Lookup("k")
	require.True(t, ok)
	assert.Equal(t, []dbpf.ResourceKey{{Type: 1, Group: 2, Instance: 3}}, got)
}

func TestCacheKeyChangesWithStat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.package")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o644))

	fi, err := os.Stat(path)
	require.NoError(t, err)
	before := CacheKey(path, fi)

	require.NoError(t, os.WriteFile(path, []byte("abcdef"), 0o644))
	fi, err = os.Stat(path)
	require.NoError(t, err)
	after := CacheKey(path, fi)

	assert.NotEqual(t, before, after)
}
