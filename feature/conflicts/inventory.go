package conflicts

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// InventoryEntry is one file recorded by an external filesystem snapshot.
type InventoryEntry struct {
	Path  string  `json:"path"`
	MTime float64 `json:"mtime"`
	Size  int64   `json:"size"`
	Type  string  `json:"type"`
}

// Inventory is a point-in-time snapshot of a mods tree, produced by a
// separate indexing step. When its root matches the scan root, the scanner
// uses it instead of walking the directory.
type Inventory struct {
	Root    string           `json:"root"`
	Entries []InventoryEntry `json:"entries"`
}

// LoadInventory reads an inventory snapshot from path.
func LoadInventory(path string) (*Inventory, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var inv Inventory
	if err := json.Unmarshal(raw, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// PackagePaths returns the package files the inventory records under root,
// or ok=false when the snapshot covers a different tree. Entries whose file
// no longer exists on disk are dropped; the snapshot may be stale.
func (inv *Inventory) PackagePaths(root string) ([]string, bool) {
	if filepath.Clean(inv.Root) != filepath.Clean(root) {
		return nil, false
	}
	var paths []string
	for _, e := range inv.Entries {
		if !strings.EqualFold(e.Type, "package") {
			continue
		}
		if _, err := os.Stat(e.Path); err != nil {
			continue
		}
		paths = append(paths, e.Path)
	}
	return paths, true
}
