package conflicts

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"modscan/core/dbpf"
)

// Accumulator folds per-file parse results into conflict records. It is not
// safe for concurrent use: the orchestrator feeds it from a single goroutine.
type Accumulator struct {
	records map[dbpf.ResourceKey]*ConflictRecord
}

// NewAccumulator creates an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{records: make(map[dbpf.ResourceKey]*ConflictRecord)}
}

// Add attaches one file's recovered keys to the running records. A file that
// yielded no keys, or whose stat fails, contributes nothing. All-zero keys
// are padding slots and never recorded.
func (a *Accumulator) Add(path string, keys []dbpf.ResourceKey) {
	if len(keys) == 0 {
		return
	}
	fi, err := os.Stat(path)
	if err != nil {
		return
	}
	meta := &ContributingFile{
		Path:      path,
		Modified:  fi.ModTime(),
		Size:      fi.Size(),
		HasScript: folderHasCompanionScript(filepath.Dir(path)),
		Keywords:  matchKeywords(path),
	}
	for _, key := range keys {
		if key.IsZero() {
			continue
		}
		rec := a.records[key]
		if rec == nil {
			rec = &ConflictRecord{Key: key}
			a.records[key] = rec
		}
		rec.Files = append(rec.Files, meta)
	}
}

// Conflicts finalizes accumulation: keys defined by at least two distinct
// files become classified records, sorted by priority (most urgent first,
// key order breaking exact ties for deterministic output).
func (a *Accumulator) Conflicts(now time.Time) []*ConflictRecord {
	var out []*ConflictRecord
	for _, rec := range a.records {
		if len(rec.Files) < 2 {
			continue
		}
		rec.refreshMetadata(now)
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority.Less(out[j].Priority)
		}
		return keyLess(out[i].Key, out[j].Key)
	})
	return out
}

func keyLess(a, b dbpf.ResourceKey) bool {
	if a.Type != b.Type {
		return a.Type < b.Type
	}
	if a.Group != b.Group {
		return a.Group < b.Group
	}
	return a.Instance < b.Instance
}

// folderHasCompanionScript reports whether the directory holds a script
// archive next to the package, a strong hint the mod carries gameplay logic.
func folderHasCompanionScript(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if strings.HasSuffix(strings.ToLower(e.Name()), ".ts4script") {
			return true
		}
	}
	return false
}
