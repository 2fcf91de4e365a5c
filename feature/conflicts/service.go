package conflicts

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrScanInProgress is returned when a scan is requested while one runs.
var ErrScanInProgress = errors.New("a scan is already in progress")

// ErrNoScan is returned when results are requested before any scan finished.
var ErrNoScan = errors.New("no completed scan available")

// ScanRecorder receives a summary of every completed scan. Cancelled scans
// are not recorded.
type ScanRecorder interface {
	RecordScan(scanID, rayID, root string, stats Stats, conflicts int) error
}

// Status describes the service's current scan state.
type Status struct {
	Running   bool   `json:"running"`
	ScanID    string `json:"scan_id,omitempty"`
	Done      int    `json:"done"`
	Total     int    `json:"total"`
	LastStats *Stats `json:"last_stats,omitempty"`
}

// Service coordinates scans: one at a time, cancellable, with the latest
// completed result retained for queries.
type Service struct {
	cfg      Config
	logger   *zap.Logger
	recorder ScanRecorder

	mu        sync.Mutex
	running   bool
	scanID    string
	cancel    context.CancelFunc
	done      int
	total     int
	last      *Result
	lastStats *Stats
}

// NewService builds the conflict scan service. recorder may be nil when scan
// history is disabled.
func NewService(cfg Config, logger *zap.Logger, recorder ScanRecorder) *Service {
	return &Service{cfg: cfg, logger: logger, recorder: recorder}
}

// StartScan launches a background scan and returns its id. Only one scan may
// run at a time.
func (s *Service) StartScan(rayID string) (string, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return "", ErrScanInProgress
	}
	ctx, cancel := context.WithCancel(context.Background())
	scanID := uuid.NewString()
	s.running = true
	s.scanID = scanID
	s.cancel = cancel
	s.done = 0
	s.total = 0
	s.mu.Unlock()

	go s.run(ctx, scanID, rayID)
	return scanID, nil
}

func (s *Service) run(ctx context.Context, scanID, rayID string) {
	defer func() {
		s.mu.Lock()
		s.running = false
		s.cancel = nil
		s.mu.Unlock()
	}()

	result, err := s.ScanSync(ctx, func(done, total int) {
		s.mu.Lock()
		s.done = done
		s.total = total
		s.mu.Unlock()
	})
	if err != nil {
		s.logger.Error("scan failed",
			zap.String("scan_id", scanID), zap.Error(err))
		return
	}

	s.mu.Lock()
	s.lastStats = &result.Stats
	if !result.Stats.Cancelled {
		s.last = result
	}
	s.mu.Unlock()

	if s.recorder != nil && !result.Stats.Cancelled {
		if err := s.recorder.RecordScan(scanID, rayID, s.cfg.Root, result.Stats, len(result.Conflicts)); err != nil {
			s.logger.Warn("failed to record scan history",
				zap.String("scan_id", scanID), zap.Error(err))
		}
	}
}

// ScanSync runs one scan to completion on the calling goroutine. It is the
// direct path used by the CLI; the HTTP surface goes through StartScan.
func (s *Service) ScanSync(ctx context.Context, progress ProgressFunc) (*Result, error) {
	return NewScanner(s.cfg, s.logger).Scan(ctx, progress)
}

// Cancel interrupts a running scan. It reports whether one was running.
func (s *Service) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running || s.cancel == nil {
		return false
	}
	s.cancel()
	return true
}

// Status returns the current scan state.
func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Status{
		Running:   s.running,
		Done:      s.done,
		Total:     s.total,
		LastStats: s.lastStats,
	}
	if s.running {
		st.ScanID = s.scanID
	}
	return st
}

// Last returns the most recent completed scan result.
func (s *Service) Last() (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return nil, ErrNoScan
	}
	return s.last, nil
}

// SuggestLoadOrder derives reorder advice from the last completed scan and
// writes it into the scan root.
func (s *Service) SuggestLoadOrder() (*LoadOrderSuggestion, string, error) {
	last, err := s.Last()
	if err != nil {
		return nil, "", err
	}
	suggestion := SuggestLoadOrder(s.cfg.Root, last.Conflicts, time.Now())
	path, err := suggestion.Write()
	if err != nil {
		return nil, "", err
	}
	s.logger.Info("wrote load order suggestion",
		zap.String("path", path), zap.Int("entries", len(suggestion.Entries)))
	return suggestion, path, nil
}
