package history

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"modscan/feature/conflicts"
)

// setupMockDB creates a mock GORM DB for testing.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestRecordScan(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewService(db, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `scan_history`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	stats := conflicts.Stats{
		FilesTotal:     12,
		FilesParsed:    11,
		TotalEntries:   340,
		ElapsedSeconds: 1.5,
	}
	err := svc.RecordScan("scan-1", "ray-1", "/mods", stats, 3)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecent(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewService(db, zap.NewNop())

	rows := sqlmock.NewRows([]string{"id", "scan_id", "root", "files_total", "conflicts"}).
		AddRow(2, "scan-2", "/mods", 12, 3).
		AddRow(1, "scan-1", "/mods", 10, 1)
	mock.ExpectQuery("SELECT \\* FROM `scan_history`").WillReturnRows(rows)

	records, err := svc.Recent(5)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "scan-2", records[0].ScanID)
	assert.Equal(t, 3, records[0].Conflicts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceDisabledWithoutDB(t *testing.T) {
	svc := NewService(nil, zap.NewNop())

	assert.False(t, svc.Enabled())
	assert.NoError(t, svc.Migrate())
	assert.NoError(t, svc.RecordScan("scan-1", "", "/mods", conflicts.Stats{}, 0))

	records, err := svc.Recent(10)
	assert.NoError(t, err)
	assert.Empty(t, records)
}
