package conflicts

import (
	"sort"
	"strings"
	"time"
)

// recentEscalationWindow bumps non-critical conflicts touching freshly
// updated mods to High: a collision involving something the user just
// installed is the most likely cause of a new problem.
const recentEscalationWindow = 14 * 24 * time.Hour

// CategoryOther is assigned to resource types absent from the library.
const CategoryOther = "Other"

type resourceMeta struct {
	Category string
	Label    string
}

// resourceLibrary maps known resource type ids to a category and a
// human-readable label. The ids come from observed container producers;
// the table is heuristic, not an official registry.
var resourceLibrary = map[uint32]resourceMeta{
	0x0166038C: {"Script", "Python Script"},
	0x015A1849: {"Gameplay", "Object Definition"},
	0x01B2D882: {"Gameplay", "Tuning"},
	0x025C95B7: {"Gameplay", "Autonomy"},
	0x00B2D882: {"Gameplay", "Tuning (Legacy)"},
	0x0355E0A6: {"Build/Buy", "Object Catalog"},
	0x319E4F1D: {"Texture", "Diffuse Map"},
	0x0333406C: {"Texture", "Image Resource"},
	0x034AEECB: {"CAS", "CAS Part"},
	0x03555A5D: {"CAS", "CAS Part Thumbnail"},
	0x545AC67A: {"Script", "Binary Script"},
	0x0621661E: {"Audio", "Audio Stream"},
	0x319E4F87: {"Texture", "Normal Map"},
	0x34613C29: {"Texture", "Specular Map"},
	0x5B4D8F8C: {"Gameplay", "Slot"},
	0xE06C2907: {"Gameplay", "Animation Clip"},
}

// criticalTypes collide with game-breaking consequences regardless of
// anything else about the contributing files.
var criticalTypes = map[uint32]struct{}{
	0x0166038C: {},
	0x015A1849: {},
	0x01B2D882: {},
	0x025C95B7: {},
	0x5B4D8F8C: {},
}

// highImpactTypes are visually or functionally prominent but recoverable.
var highImpactTypes = map[uint32]struct{}{
	0x0333406C: {},
	0x034AEECB: {},
	0x0355E0A6: {},
	0x545AC67A: {},
	0x319E4F1D: {},
	0x319E4F87: {},
	0x34613C29: {},
}

// categoryOrder ranks categories for priority sorting, gameplay first.
var categoryOrder = map[string]int{
	"Gameplay":    0,
	"Script":      1,
	"Build/Buy":   2,
	"CAS":         3,
	"Texture":     4,
	"Audio":       5,
	CategoryOther: 6,
}

var severityRank = map[Severity]int{
	SeverityCritical: 0,
	SeverityHigh:     1,
	SeverityModerate: 2,
	SeverityLow:      3,
}

// knownModKeywords maps lowercase path substrings to well-known mod brands.
// Matching is a cheap substring check against the full file path.
var knownModKeywords = map[string]string{
	"wickedwhims":     "WickedWhims",
	"basemental":      "Basemental",
	"mccc":            "MC Command Center",
	"slice of life":   "Slice of Life",
	"wonderful whims": "WonderfulWhims",
	"turbodriver":     "TURBODRIVER",
	"littlemssam":     "LittleMsSam",
	"zerobroken":      "Zero's Mods",
	"sacrificial":     "Sacrificial",
}

// matchKeywords returns the sorted brand labels whose needle occurs in path.
func matchKeywords(path string) []string {
	lower := strings.ToLower(path)
	var found []string
	for needle, label := range knownModKeywords {
		if strings.Contains(lower, needle) {
			found = append(found, label)
		}
	}
	sort.Strings(found)
	return found
}

// refreshMetadata derives category, label, severity and priority from the
// record's current file list. It must be called again whenever the file list
// changes; derived fields are never carried over.
func (r *ConflictRecord) refreshMetadata(now time.Time) {
	if meta, ok := resourceLibrary[r.Key.Type]; ok {
		r.Category = meta.Category
		r.Label = meta.Label
	} else {
		r.Category = CategoryOther
		r.Label = "Unknown resource"
	}

	// Contributing files are sorted by path so record content does not
	// depend on parse completion order.
	sort.Slice(r.Files, func(i, j int) bool { return r.Files[i].Path < r.Files[j].Path })

	r.LatestModified = time.Time{}
	r.HasScript = false
	keywordSet := make(map[string]struct{})
	for _, f := range r.Files {
		if f.HasScript {
			r.HasScript = true
		}
		if f.Modified.After(r.LatestModified) {
			r.LatestModified = f.Modified
		}
		for _, kw := range f.Keywords {
			keywordSet[kw] = struct{}{}
		}
	}
	r.Keywords = r.Keywords[:0]
	for kw := range keywordSet {
		r.Keywords = append(r.Keywords, kw)
	}
	sort.Strings(r.Keywords)

	severity := SeverityLow
	_, critical := criticalTypes[r.Key.Type]
	_, high := highImpactTypes[r.Key.Type]
	switch {
	case critical || r.Category == "Gameplay":
		severity = SeverityCritical
	case r.HasScript || high:
		severity = SeverityHigh
	case len(r.Files) >= 3:
		severity = SeverityHigh
	case r.Category == "CAS" || r.Category == "Texture":
		severity = SeverityModerate
	}

	if !r.LatestModified.IsZero() && severity != SeverityCritical {
		if now.Sub(r.LatestModified) <= recentEscalationWindow {
			severity = SeverityHigh
		}
	}

	r.Severity = severity
	catRank, ok := categoryOrder[r.Category]
	if !ok {
		catRank = categoryOrder[CategoryOther]
	}
	r.Priority = Priority{severityRank[severity], catRank, -len(r.Files)}
}
