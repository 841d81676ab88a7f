package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/soportia/helpdesk/internal/service"
)

// DashboardHandler serves aggregate metrics for the agent dashboard.
type DashboardHandler struct {
	stats *service.StatsService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(stats *service.StatsService) *DashboardHandler {
	return &DashboardHandler{stats: stats}
}

// Stats GET /dashboard/stats.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	snapshot, err := h.stats.Collect(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": snapshot})
}
