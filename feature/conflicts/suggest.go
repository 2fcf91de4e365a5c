package conflicts

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// loadOrderFileName is written into the scan root on request.
const loadOrderFileName = "load_order_suggestion.json"

// LoadOrderEntry ranks one mod folder by the worst conflict it participates
// in. Folders earlier in the list should load later so their resources win.
type LoadOrderEntry struct {
	Folder   string   `json:"folder"`
	Severity Severity `json:"severity"`
	Category string   `json:"category"`
	Priority Priority `json:"priority"`
	Keywords []string `json:"keywords,omitempty"`
}

// LoadOrderSuggestion is the persisted reorder advice for a scanned tree.
type LoadOrderSuggestion struct {
	GeneratedAt time.Time        `json:"generated_at"`
	ModsRoot    string           `json:"mods_root"`
	Entries     []LoadOrderEntry `json:"entries"`
}

// SuggestLoadOrder condenses conflict records into per-folder advice. Each
// folder is ranked by the most urgent record any of its files contributes to.
func SuggestLoadOrder(root string, records []*ConflictRecord, now time.Time) *LoadOrderSuggestion {
	best := make(map[string]*ConflictRecord)
	for _, rec := range records {
		for _, f := range rec.Files {
			folder := f.Folder()
			cur, ok := best[folder]
			if !ok || rec.Priority.Less(cur.Priority) {
				best[folder] = rec
			}
		}
	}

	suggestion := &LoadOrderSuggestion{GeneratedAt: now, ModsRoot: root}
	for folder, rec := range best {
		suggestion.Entries = append(suggestion.Entries, LoadOrderEntry{
			Folder:   folder,
			Severity: rec.Severity,
			Category: rec.Category,
			Priority: rec.Priority,
			Keywords: rec.Keywords,
		})
	}
	sort.Slice(suggestion.Entries, func(i, j int) bool {
		a, b := suggestion.Entries[i], suggestion.Entries[j]
		if a.Priority != b.Priority {
			return a.Priority.Less(b.Priority)
		}
		return a.Folder < b.Folder
	})
	return suggestion
}

// Write persists the suggestion into the mods root it was generated for.
func (s *LoadOrderSuggestion) Write() (string, error) {
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.ModsRoot, loadOrderFileName)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
