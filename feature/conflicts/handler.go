package conflicts

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"modscan/core/logger"
	"modscan/core/middleware/rayid"
)

// Handler handles HTTP requests for conflict scans.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the conflict routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/conflicts")
	group.Get("/", h.HandleConflicts)
	group.Get("/status", h.HandleStatus)
	group.Get("/loadorder", h.HandleLoadOrder)
	group.Post("/scan", h.HandleScan)
	group.Post("/cancel", h.HandleCancel)
}

// HandleScan starts a background scan.
// @Summary Start Conflict Scan
// @Description Starts a background scan of the configured mods directory. Only one scan may run at a time.
// @Tags conflicts
// @Accept json
// @Produce json
// @Success 202 {object} map[string]string "Scan Accepted"
// @Failure 409 {object} map[string]string "Scan Already Running"
// @Router /conflicts/scan [post]
func (h *Handler) HandleScan(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	scanID, err := h.service.StartScan(rayid.FromCtx(c))
	if err != nil {
		if errors.Is(err, ErrScanInProgress) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Failed to start scan", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Scan started", zap.String("scan_id", scanID))
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status":  "started",
		"scan_id": scanID,
	})
}

// HandleConflicts returns the results of the last completed scan.
// @Summary Get Conflicts
// @Description Returns the conflict records and stats from the most recent completed scan.
// @Tags conflicts
// @Accept json
// @Produce json
// @Success 200 {object} Result "Scan Result"
// @Failure 404 {object} map[string]string "No Completed Scan"
// @Router /conflicts [get]
func (h *Handler) HandleConflicts(c *fiber.Ctx) error {
	result, err := h.service.Last()
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}

// HandleStatus reports scan progress.
// @Summary Get Scan Status
// @Description Reports whether a scan is running and how far it has progressed.
// @Tags conflicts
// @Accept json
// @Produce json
// @Success 200 {object} Status "Scan Status"
// @Router /conflicts/status [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(h.service.Status())
}

// HandleCancel interrupts a running scan.
// @Summary Cancel Scan
// @Description Cancels the running scan, if any. A cancelled scan produces no conflict records.
// @Tags conflicts
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Cancel Result"
// @Router /conflicts/cancel [post]
func (h *Handler) HandleCancel(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if h.service.Cancel() {
		l.Info("Scan cancelled")
		return c.JSON(fiber.Map{"status": "cancelling"})
	}
	return c.JSON(fiber.Map{"status": "idle"})
}

// HandleLoadOrder writes and returns load order advice.
// @Summary Suggest Load Order
// @Description Derives per-folder load order advice from the last completed scan and writes it into the mods root.
// @Tags conflicts
// @Accept json
// @Produce json
// @Success 200 {object} LoadOrderSuggestion "Load Order Suggestion"
// @Failure 404 {object} map[string]string "No Completed Scan"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /conflicts/loadorder [get]
func (h *Handler) HandleLoadOrder(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	suggestion, path, err := h.service.SuggestLoadOrder()
	if err != nil {
		if errors.Is(err, ErrNoScan) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Failed to write load order suggestion", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Load order suggestion written", zap.String("path", path))
	return c.JSON(suggestion)
}
