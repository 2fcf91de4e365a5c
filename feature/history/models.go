package history

import "time"

// Record is one persisted scan summary.
type Record struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ScanID         string    `gorm:"size:36;index" json:"scan_id"`
	RayID          string    `gorm:"size:36" json:"ray_id"`
	Root           string    `json:"root"`
	FilesTotal     int       `json:"files_total"`
	FilesParsed    int       `json:"files_parsed"`
	TotalEntries   int       `json:"total_entries"`
	Conflicts      int       `json:"conflicts"`
	ElapsedSeconds float64   `json:"elapsed_seconds"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName overrides the table name.
func (Record) TableName() string {
	return "scan_history"
}
