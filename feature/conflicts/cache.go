package conflicts

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"go.uber.org/zap"

	"modscan/core/dbpf"
)

// cacheEntry is the persisted shape of one file's parse result.
type cacheEntry struct {
	Keys [][]uint64 `json:"keys"`
}

// ParseCache persists parse results keyed by path, size and mtime, so files
// untouched since the previous scan skip index recovery entirely. Lookups are
// safe from multiple goroutines; Put and Save are called by the scan
// coordinator only.
type ParseCache struct {
	path string

	mu      sync.RWMutex
	entries map[string]cacheEntry
	staged  map[string]cacheEntry
}

// CacheKey builds the cache key for a file from its identity and stat info.
// Any change to size or mtime invalidates the entry.
func CacheKey(path string, fi fs.FileInfo) string {
	return fmt.Sprintf("%s|%d|%d", path, fi.Size(), fi.ModTime().Unix())
}

// LoadParseCache reads the cache at path. A missing or corrupt file yields an
// empty cache; the scan proceeds as if nothing were cached.
func LoadParseCache(path string, logger *zap.Logger) *ParseCache {
	c := &ParseCache{
		path:    path,
		entries: make(map[string]cacheEntry),
		staged:  make(map[string]cacheEntry),
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return c
	}
	if err := json.Unmarshal(raw, &c.entries); err != nil {
		logger.Warn("discarding unreadable parse cache", zap.String("path", path), zap.Error(err))
		c.entries = make(map[string]cacheEntry)
	}
	return c
}

// Lookup returns the cached keys for key, if present.
func (c *ParseCache) Lookup(key string) ([]dbpf.ResourceKey, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	keys := make([]dbpf.ResourceKey, 0, len(entry.Keys))
	for _, triple := range entry.Keys {
		if len(triple) != 3 {
			continue
		}
		keys = append(keys, dbpf.ResourceKey{
			Type:     uint32(triple[0]),
			Group:    uint32(triple[1]),
			Instance: triple[2],
		})
	}
	return keys, true
}

// Put stages a freshly parsed result. Staged entries only become visible to
// Lookup after Save, so a scan never observes its own partial output.
func (c *ParseCache) Put(key string, keys []dbpf.ResourceKey) {
	entry := cacheEntry{Keys: make([][]uint64, 0, len(keys))}
	for _, k := range keys {
		entry.Keys = append(entry.Keys, []uint64{uint64(k.Type), uint64(k.Group), k.Instance})
	}
	c.mu.Lock()
	c.staged[key] = entry
	c.mu.Unlock()
}

// Save merges staged entries into the cache and writes it to disk. Called
// only after a scan runs to completion; a cancelled scan leaves the file as
// it was.
func (c *ParseCache) Save() error {
	c.mu.Lock()
	for key, entry := range c.staged {
		c.entries[key] = entry
	}
	c.staged = make(map[string]cacheEntry)
	raw, err := json.Marshal(c.entries)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, raw, 0o644)
}
