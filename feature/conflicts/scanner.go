package conflicts

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"modscan/core/dbpf"
)

// serialScanThreshold is the file count below which the scanner skips the
// worker pool; pool setup costs more than it saves on tiny mod folders.
const serialScanThreshold = 4

// Stats summarizes one scan run.
type Stats struct {
	// FilesTotal is the number of package files enumerated.
	FilesTotal int `json:"files_total"`
	// FilesParsed counts files that yielded at least one key, cache hits
	// included.
	FilesParsed int `json:"files_parsed"`
	// TotalEntries is the sum of keys recovered across all files.
	TotalEntries int `json:"total_entries"`
	// ElapsedSeconds is wall-clock scan duration.
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	// Cancelled reports whether the scan was interrupted. A cancelled scan
	// produces no conflict records.
	Cancelled bool `json:"cancelled"`
}

// Result pairs the conflicts found by a completed scan with its stats.
type Result struct {
	Conflicts []*ConflictRecord `json:"conflicts"`
	Stats     Stats             `json:"stats"`
}

// ProgressFunc receives (done, total) as files finish parsing. done is
// monotonic and reaches total when the scan completes uncancelled. It is
// always invoked from a single goroutine.
type ProgressFunc func(done, total int)

// Scanner walks a mods tree, recovers resource keys from every package file
// and folds them into conflict records.
type Scanner struct {
	cfg    Config
	logger *zap.Logger

	// read and now are injection points for tests.
	read func(ctx context.Context, path string, opts dbpf.Options) []dbpf.ResourceKey
	now  func() time.Time
}

// NewScanner builds a scanner over cfg.
func NewScanner(cfg Config, logger *zap.Logger) *Scanner {
	return &Scanner{
		cfg:    cfg,
		logger: logger,
		read:   dbpf.ReadIndex,
		now:    time.Now,
	}
}

type parseResult struct {
	path      string
	keys      []dbpf.ResourceKey
	cacheKey  string
	fromCache bool
}

// Scan enumerates, parses and accumulates. Cancellation via ctx stops work
// promptly: the result carries stats with Cancelled set and no conflict
// records, and the parse cache file is left untouched.
func (s *Scanner) Scan(ctx context.Context, progress ProgressFunc) (*Result, error) {
	start := s.now()

	paths, err := s.enumerate()
	if err != nil {
		return nil, err
	}
	s.logger.Info("starting conflict scan",
		zap.String("root", s.cfg.Root),
		zap.Int("files", len(paths)),
		zap.Bool("fast_mode", s.cfg.FastMode))

	var cache *ParseCache
	if s.cfg.UseCache {
		cache = LoadParseCache(s.cfg.CachePath, s.logger)
	}

	var results <-chan parseResult
	if len(paths) <= serialScanThreshold {
		results = s.scanSerial(ctx, paths, cache)
	} else {
		results = s.scanParallel(ctx, paths, cache)
	}

	acc := NewAccumulator()
	stats := Stats{FilesTotal: len(paths)}
	done := 0
	for res := range results {
		done++
		if len(res.keys) > 0 {
			stats.FilesParsed++
			stats.TotalEntries += len(res.keys)
			acc.Add(res.path, res.keys)
		}
		if cache != nil && !res.fromCache && res.cacheKey != "" {
			cache.Put(res.cacheKey, res.keys)
		}
		if progress != nil {
			progress(done, len(paths))
		}
	}

	stats.Cancelled = ctx.Err() != nil
	stats.ElapsedSeconds = s.now().Sub(start).Seconds()

	result := &Result{Stats: stats}
	if stats.Cancelled {
		s.logger.Info("conflict scan cancelled",
			zap.Int("files_done", done),
			zap.Int("files_total", len(paths)))
		return result, nil
	}

	if cache != nil {
		if err := cache.Save(); err != nil {
			s.logger.Warn("failed to persist parse cache",
				zap.String("path", s.cfg.CachePath), zap.Error(err))
		}
	}
	result.Conflicts = acc.Conflicts(s.now())
	s.logger.Info("conflict scan complete",
		zap.Int("files_parsed", stats.FilesParsed),
		zap.Int("total_entries", stats.TotalEntries),
		zap.Int("conflicts", len(result.Conflicts)),
		zap.Float64("elapsed_seconds", stats.ElapsedSeconds))
	return result, nil
}

// parseOne resolves one file through the cache or the index reader.
func (s *Scanner) parseOne(ctx context.Context, path string, cache *ParseCache) parseResult {
	res := parseResult{path: path}
	fi, err := os.Stat(path)
	if err != nil {
		return res
	}
	res.cacheKey = CacheKey(path, fi)
	if cache != nil {
		if keys, ok := cache.Lookup(res.cacheKey); ok {
			res.keys = keys
			res.fromCache = true
			return res
		}
	}
	res.keys = s.read(ctx, path, dbpf.Options{AllowTailFallback: !s.cfg.FastMode})
	return res
}

// scanSerial parses files one by one on a single goroutine.
func (s *Scanner) scanSerial(ctx context.Context, paths []string, cache *ParseCache) <-chan parseResult {
	out := make(chan parseResult)
	go func() {
		defer close(out)
		for _, path := range paths {
			if ctx.Err() != nil {
				return
			}
			out <- s.parseOne(ctx, path, cache)
		}
	}()
	return out
}

// scanParallel fans paths out over a bounded worker pool. A dispatcher feeds
// the work channel so cancellation is observed between files, workers parse
// independently, and a closer goroutine ends the result stream once every
// worker returns.
func (s *Scanner) scanParallel(ctx context.Context, paths []string, cache *ParseCache) <-chan parseResult {
	workers := s.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 2 {
		workers = 2
	}
	if workers > 8 {
		workers = 8
	}

	workCh := make(chan string)
	resultCh := make(chan parseResult)

	go func() {
		defer close(workCh)
		for _, path := range paths {
			select {
			case workCh <- path:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range workCh {
				resultCh <- s.parseOne(ctx, path, cache)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	return resultCh
}

// enumerate lists the package files to scan, preferring a matching inventory
// snapshot over a directory walk when one is configured.
func (s *Scanner) enumerate() ([]string, error) {
	if s.cfg.InventoryPath != "" {
		inv, err := LoadInventory(s.cfg.InventoryPath)
		if err != nil {
			s.logger.Warn("ignoring unreadable inventory snapshot",
				zap.String("path", s.cfg.InventoryPath), zap.Error(err))
		} else if paths, ok := inv.PackagePaths(s.cfg.Root); ok {
			s.logger.Debug("enumerated from inventory snapshot",
				zap.Int("files", len(paths)))
			return paths, nil
		}
	}
	return s.listPackages()
}

// listPackages walks the scan root collecting .package files. Unreadable
// subtrees are skipped rather than failing the scan.
func (s *Scanner) listPackages() ([]string, error) {
	root := s.cfg.Root
	if _, err := os.Stat(root); err != nil {
		return nil, err
	}
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if !s.cfg.Recursive && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".package") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}
