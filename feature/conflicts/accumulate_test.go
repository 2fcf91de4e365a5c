package conflicts

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modscan/core/dbpf"
)

func touch(t *testing.T, path string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	return path
}

func TestAccumulatorRequiresTwoFiles(t *testing.T) {
	dir := t.TempDir()
	shared := dbpf.ResourceKey{Type: 0x015A1849, Group: 1, Instance: 10}
	unique := dbpf.ResourceKey{Type: 0x015A1849, Group: 1, Instance: 11}

	acc := NewAccumulator()
	acc.Add(touch(t, filepath.Join(dir, "a.package")), []dbpf.ResourceKey{shared, unique})
	acc.Add(touch(t, filepath.Join(dir, "b.package")), []dbpf.ResourceKey{shared})

	records := acc.Conflicts(time.Now())
	require.Len(t, records, 1)
	assert.Equal(t, shared, records[0].Key)
	assert.Len(t, records[0].Files, 2)
}

func TestAccumulatorSkipsZeroKeysAndMissingFiles(t *testing.T) {
	dir := t.TempDir()
	key := dbpf.ResourceKey{Type: 0x01B2D882, Group: 1, Instance: 10}

	acc := NewAccumulator()
	acc.Add(touch(t, filepath.Join(dir, "a.package")), []dbpf.ResourceKey{key, {}})
	acc.Add(touch(t, filepath.Join(dir, "b.package")), []dbpf.ResourceKey{key, {}})
	acc.Add(filepath.Join(dir, "gone.package"), []dbpf.ResourceKey{key})
	acc.Add(touch(t, filepath.Join(dir, "empty.package")), nil)

	records := acc.Conflicts(time.Now())
	require.Len(t, records, 1)
	assert.Len(t, records[0].Files, 2)
	for _, rec := range records {
		assert.False(t, rec.Key.IsZero())
	}
}

func TestAccumulatorDetectsCompanionScript(t *testing.T) {
	dir := t.TempDir()
	key := dbpf.ResourceKey{Type: 0xDEADBEEF, Group: 1, Instance: 10}

	scripted := filepath.Join(dir, "scripted")
	touch(t, filepath.Join(scripted, "Mod_Core.TS4Script"))
	plain := filepath.Join(dir, "plain")

	acc := NewAccumulator()
	acc.Add(touch(t, filepath.Join(scripted, "a.package")), []dbpf.ResourceKey{key})
	acc.Add(touch(t, filepath.Join(plain, "b.package")), []dbpf.ResourceKey{key})

	records := acc.Conflicts(time.Now())
	require.Len(t, records, 1)
	rec := records[0]
	assert.True(t, rec.HasScript)
	// Only the file next to the script archive carries the flag. Files are
	// sorted by path, so "plain" comes before "scripted".
	require.Len(t, rec.Files, 2)
	assert.False(t, rec.Files[0].HasScript)
	assert.True(t, rec.Files[1].HasScript)
	assert.Equal(t, SeverityHigh, rec.Severity)
}

func TestAccumulatorKeywords(t *testing.T) {
	dir := t.TempDir()
	key := dbpf.ResourceKey{Type: 0xDEADBEEF, Group: 1, Instance: 10}

	acc := NewAccumulator()
	acc.Add(touch(t, filepath.Join(dir, "WickedWhims", "a.package")), []dbpf.ResourceKey{key})
	acc.Add(touch(t, filepath.Join(dir, "Basemental", "b.package")), []dbpf.ResourceKey{key})

	records := acc.Conflicts(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(10, 0, 0))
	require.Len(t, records, 1)
	assert.Equal(t, []string{"Basemental", "WickedWhims"}, records[0].Keywords)
}
