package dbpf

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"os"
)

const (
	headerSize = 96
	// maxTailScan bounds how many trailing bytes the fallback scanner reads.
	maxTailScan = 8 << 20
	// tailRecordSize is the candidate record shape searched for by the tail
	// scanner: type, group, instanceHi, instanceLo, payloadOffset, payloadSize.
	tailRecordSize = 24
	// cancelCheckStride controls how often long scan loops poll the context.
	cancelCheckStride = 4096
)

var magic = []byte("DBPF")

// candidateWidths are the fixed index record widths tried during layout
// recovery, in priority order. Different tools that produce these containers
// disagree on the record width, so the reader scores each candidate by how
// many non-zero keys it yields and keeps the best (first wins ties).
var candidateWidths = [...]int{16, 24, 28, 32, 36, 40}

// Options controls optional reader behavior.
type Options struct {
	// AllowTailFallback permits scanning the file's trailing bytes for
	// plausible index records when header-directed lookup recovers nothing.
	// Disabling it ("fast mode") trades recall for speed.
	AllowTailFallback bool
}

// ReadIndex returns the resource keys defined by the container at path.
// It never fails: any I/O or format problem degrades to returning whatever
// was recovered before the problem, possibly an empty slice. Cancellation
// via ctx is cooperative and checked between candidate layouts and
// periodically inside long scans.
func ReadIndex(ctx context.Context, path string, opts Options) []ResourceKey {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	header := make([]byte, headerSize)
	if _, err := io.ReadFull(f, header); err != nil {
		return nil
	}
	if !bytes.Equal(header[0:4], magic) {
		return nil
	}

	fi, err := f.Stat()
	if err != nil {
		return nil
	}
	fileSize := fi.Size()

	// Primary header layout: entry count, table offset, table size.
	count := leU32(header, 36)
	offset := leU32(header, 40)
	size := leU32(header, 44)
	if int64(offset)+int64(size) > fileSize || size == 0 {
		// Legacy layout used by older producing tools.
		count = leU32(header, 32)
		offset = leU32(header, 48)
		size = leU32(header, 52)
	}
	if offset == 0 || int64(offset) > fileSize {
		offset = 0
		size = 0
	}

	var table []byte
	if offset > 0 && size > 0 {
		table = make([]byte, size)
		if _, err := f.ReadAt(table, int64(offset)); err != nil {
			table = nil
		}
	}

	keys := recoverTable(ctx, table, int(count))
	if len(keys) > 0 || !opts.AllowTailFallback {
		return keys
	}
	return scanTail(ctx, f, fileSize)
}

// recoverTable tries each candidate record width against the raw index table
// and keeps the width that yields the most non-zero keys. The count hint from
// the header caps how many entries are considered per width.
func recoverTable(ctx context.Context, table []byte, countHint int) []ResourceKey {
	var best []ResourceKey
	for _, width := range candidateWidths {
		if ctx.Err() != nil {
			break
		}
		n := len(table) / width
		if countHint > 0 && countHint < n {
			n = countHint
		}
		if n <= 0 {
			continue
		}
		var rows []ResourceKey
		for i := 0; i < n; i++ {
			if i%cancelCheckStride == 0 && ctx.Err() != nil {
				break
			}
			base := i * width
			if base+16 > len(table) {
				break
			}
			key := keyAt(table, base)
			if key.IsZero() {
				continue
			}
			rows = append(rows, key)
		}
		if len(rows) > len(best) {
			best = rows
		}
	}
	return best
}

// scanTail searches the trailing bytes of the file for 24-byte records that
// look like index entries. A candidate is accepted only when its key is
// non-zero and its payload offset/size fall inside the file. Recovered keys
// are deduplicated in first-seen order.
func scanTail(ctx context.Context, f *os.File, fileSize int64) []ResourceKey {
	tail := int64(maxTailScan)
	if fileSize < tail {
		tail = fileSize
	}
	buf := make([]byte, tail)
	if _, err := f.ReadAt(buf, fileSize-tail); err != nil {
		return nil
	}

	var out []ResourceKey
	seen := make(map[ResourceKey]struct{})
	for pos := 0; pos < len(buf)-tailRecordSize; pos += 4 {
		if (pos/4)%cancelCheckStride == 0 && ctx.Err() != nil {
			break
		}
		key := keyAt(buf, pos)
		if key.IsZero() {
			continue
		}
		payloadOffset := int64(leU32(buf, pos+16))
		payloadSize := int64(leU32(buf, pos+20))
		if payloadSize == 0 || payloadOffset >= fileSize {
			continue
		}
		if payloadOffset+payloadSize > fileSize {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}

// keyAt decodes the four little-endian u32 fields at base into a ResourceKey.
// The caller guarantees base+16 <= len(buf).
func keyAt(buf []byte, base int) ResourceKey {
	t := binary.LittleEndian.Uint32(buf[base:])
	g := binary.LittleEndian.Uint32(buf[base+4:])
	ih := binary.LittleEndian.Uint32(buf[base+8:])
	il := binary.LittleEndian.Uint32(buf[base+12:])
	return ResourceKey{Type: t, Group: g, Instance: uint64(ih)<<32 | uint64(il)}
}

func leU32(buf []byte, off int) uint32 {
	if off+4 > len(buf) {
		return 0
	}
	return binary.LittleEndian.Uint32(buf[off:])
}
