package history

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"modscan/core/logger"
)

// Handler handles HTTP requests for scan history.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the history routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/history")
	group.Get("/", h.HandleRecent)
}

// HandleRecent lists recent scan summaries.
// @Summary List Scan History
// @Description Returns the most recent scan summaries, newest first.
// @Tags history
// @Accept json
// @Produce json
// @Param limit query integer false "Maximum entries to return (default 20)"
// @Success 200 {array} Record "Scan Summaries"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /history [get]
func (h *Handler) HandleRecent(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	records, err := h.service.Recent(c.QueryInt("limit"))
	if err != nil {
		l.Error("Failed to load scan history", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if records == nil {
		records = []Record{}
	}
	return c.JSON(records)
}
