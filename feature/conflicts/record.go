package conflicts

import (
	"path/filepath"
	"time"

	"modscan/core/dbpf"
)

// Severity grades how disruptive a resource collision is likely to be.
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityModerate Severity = "Moderate"
	SeverityLow      Severity = "Low"
)

// Priority is the sort key of a conflict record: severity rank, category
// rank, then negated file count. Records sort ascending, so the most urgent
// conflicts (and, within a tier, the most contested keys) come first.
type Priority [3]int

// Less orders priorities lexicographically.
func (p Priority) Less(o Priority) bool {
	for i := range p {
		if p[i] != o[i] {
			return p[i] < o[i]
		}
	}
	return false
}

// ContributingFile describes one container file that defines a conflicting
// key. A single file may appear in many records; the same value is shared.
type ContributingFile struct {
	Path     string    `json:"path"`
	Modified time.Time `json:"modified"`
	Size     int64     `json:"size"`
	// HasScript reports a colocated companion script archive, used purely
	// as a severity signal.
	HasScript bool     `json:"has_script"`
	Keywords  []string `json:"keywords,omitempty"`
}

// Folder returns the directory containing the file.
func (f *ContributingFile) Folder() string {
	return filepath.Dir(f.Path)
}

// ConflictRecord groups every file that defines the same resource key.
// Records only surface when at least two distinct files contribute.
// Category, severity and priority are derived by refreshMetadata once the
// file list is complete; they are never cached across list changes.
type ConflictRecord struct {
	Key            dbpf.ResourceKey    `json:"key"`
	Files          []*ContributingFile `json:"files"`
	Category       string              `json:"category"`
	Label          string              `json:"label"`
	Severity       Severity            `json:"severity"`
	Priority       Priority            `json:"priority"`
	LatestModified time.Time           `json:"latest_modified"`
	HasScript      bool                `json:"has_script"`
	Keywords       []string            `json:"keywords,omitempty"`
}
