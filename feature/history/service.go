package history

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"modscan/feature/conflicts"
)

// Service persists scan summaries. A nil database disables it; every method
// degrades to a no-op so callers never have to branch on history being off.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new history service. db may be nil.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Enabled reports whether a database is connected.
func (s *Service) Enabled() bool {
	return s.db != nil
}

// Migrate creates or updates the scan_history table.
func (s *Service) Migrate() error {
	if s.db == nil {
		return nil
	}
	return s.db.AutoMigrate(&Record{})
}

// RecordScan stores one completed scan summary. It implements
// conflicts.ScanRecorder.
func (s *Service) RecordScan(scanID, rayID, root string, stats conflicts.Stats, conflictCount int) error {
	if s.db == nil {
		return nil
	}
	rec := Record{
		ScanID:         scanID,
		RayID:          rayID,
		Root:           root,
		FilesTotal:     stats.FilesTotal,
		FilesParsed:    stats.FilesParsed,
		TotalEntries:   stats.TotalEntries,
		Conflicts:      conflictCount,
		ElapsedSeconds: stats.ElapsedSeconds,
	}
	if err := s.db.Create(&rec).Error; err != nil {
		return err
	}
	s.logger.Debug("recorded scan", zap.String("scan_id", scanID), zap.Uint("id", rec.ID))
	return nil
}

// Recent returns the newest scan summaries, most recent first.
func (s *Service) Recent(limit int) ([]Record, error) {
	if s.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	var records []Record
	err := s.db.Order("created_at DESC").Limit(limit).Find(&records).Error
	return records, err
}
