package conflicts

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"modscan/core/dbpf"
)

func setupTestApp(t *testing.T, root string) (*fiber.App, *Service) {
	t.Helper()
	app := fiber.New()
	svc := NewService(scanConfig(root), zap.NewNop(), nil)
	handler := NewHandler(svc)
	handler.RegisterRoutes(app)
	return app, svc
}

func TestHandleStatusIdle(t *testing.T) {
	app, _ := setupTestApp(t, t.TempDir())

	req := httptest.NewRequest("GET", "/conflicts/status", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, false, body["running"])
}

func TestHandleConflictsBeforeAnyScan(t *testing.T) {
	app, _ := setupTestApp(t, t.TempDir())

	req := httptest.NewRequest("GET", "/conflicts/", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestHandleScanConflictWhenRunning(t *testing.T) {
	app, svc := setupTestApp(t, t.TempDir())

	// Simulate a scan in flight.
	svc.mu.Lock()
	svc.running = true
	svc.mu.Unlock()

	req := httptest.NewRequest("POST", "/conflicts/scan", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 409, resp.StatusCode)
}

func TestHandleScanAccepted(t *testing.T) {
	root := t.TempDir()
	app, _ := setupTestApp(t, root)

	req := httptest.NewRequest("POST", "/conflicts/scan", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 202, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "started", body["status"])
	assert.NotEmpty(t, body["scan_id"])
}

func TestHandleCancelIdle(t *testing.T) {
	app, _ := setupTestApp(t, t.TempDir())

	req := httptest.NewRequest("POST", "/conflicts/cancel", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "idle", body["status"])
}

func TestHandleConflictsAfterScan(t *testing.T) {
	root := t.TempDir()
	shared := dbpf.ResourceKey{Type: 0x015A1849, Group: 1, Instance: 0x1122334455667788}
	writePackage(t, root+"/A.package", []dbpf.ResourceKey{shared})
	writePackage(t, root+"/B.package", []dbpf.ResourceKey{shared})

	app, svc := setupTestApp(t, root)
	require.NoError(t, runScanAndStore(svc))

	req := httptest.NewRequest("GET", "/conflicts/", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Conflicts, 1)
	assert.Equal(t, SeverityCritical, body.Conflicts[0].Severity)
	assert.Equal(t, 2, body.Stats.FilesParsed)
}

func TestHandleLoadOrder(t *testing.T) {
	root := t.TempDir()
	shared := dbpf.ResourceKey{Type: 0x015A1849, Group: 1, Instance: 0x1122334455667788}
	writePackage(t, root+"/ModA/a.package", []dbpf.ResourceKey{shared})
	writePackage(t, root+"/ModB/b.package", []dbpf.ResourceKey{shared})

	app, svc := setupTestApp(t, root)
	require.NoError(t, runScanAndStore(svc))

	req := httptest.NewRequest("GET", "/conflicts/loadorder", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body LoadOrderSuggestion
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Entries, 2)

	// The advice file lands in the mods root.
	assert.FileExists(t, root+"/"+loadOrderFileName)
}

func TestHandleLoadOrderBeforeAnyScan(t *testing.T) {
	app, _ := setupTestApp(t, t.TempDir())

	req := httptest.NewRequest("GET", "/conflicts/loadorder", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

// runScanAndStore runs a synchronous scan and installs its result as the
// service's last completed scan, sidestepping the background goroutine.
func runScanAndStore(svc *Service) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	result, err := svc.ScanSync(ctx, nil)
	if err != nil {
		return err
	}
	svc.mu.Lock()
	svc.last = result
	svc.lastStats = &result.Stats
	svc.mu.Unlock()
	return nil
}
