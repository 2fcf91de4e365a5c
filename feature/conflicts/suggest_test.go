package conflicts

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modscan/core/dbpf"
)

func TestSuggestLoadOrderRanksFolders(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	old := now.Add(-90 * 24 * time.Hour)

	critical := &ConflictRecord{
		Key: dbpf.ResourceKey{Type: 0x01B2D882, Group: 1, Instance: 1},
		Files: []*ContributingFile{
			{Path: "mods/CoreMod/a.package", Modified: old},
			{Path: "mods/Recolors/b.package", Modified: old},
		},
	}
	critical.refreshMetadata(now)

	moderate := &ConflictRecord{
		Key: dbpf.ResourceKey{Type: 0x03555A5D, Group: 1, Instance: 2},
		Files: []*ContributingFile{
			{Path: "mods/Recolors/b.package", Modified: old},
			{Path: "mods/Extras/c.package", Modified: old},
		},
	}
	moderate.refreshMetadata(now)

	got := SuggestLoadOrder("mods", []*ConflictRecord{critical, moderate}, now)

	require.Len(t, got.Entries, 3)
	// Folders touched by the critical conflict rank first; Recolors inherits
	// its worst conflict, not its mildest.
	assert.Equal(t, "mods/CoreMod", got.Entries[0].Folder)
	assert.Equal(t, SeverityCritical, got.Entries[0].Severity)
	assert.Equal(t, "mods/Recolors", got.Entries[1].Folder)
	assert.Equal(t, SeverityCritical, got.Entries[1].Severity)
	assert.Equal(t, "mods/Extras", got.Entries[2].Folder)
	assert.Equal(t, SeverityModerate, got.Entries[2].Severity)
}

func TestLoadOrderSuggestionWrite(t *testing.T) {
	root := t.TempDir()
	suggestion := &LoadOrderSuggestion{
		GeneratedAt: time.Now().UTC(),
		ModsRoot:    root,
		Entries: []LoadOrderEntry{
			{Folder: filepath.Join(root, "ModA"), Severity: SeverityHigh, Category: "Script"},
		},
	}

	path, err := suggestion.Write()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, loadOrderFileName), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var back LoadOrderSuggestion
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, suggestion.ModsRoot, back.ModsRoot)
	require.Len(t, back.Entries, 1)
	assert.Equal(t, SeverityHigh, back.Entries[0].Severity)
}
