package handler

import (
	"strconv"

	"go-retail-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetTransferMovement returns confirmed transfer volume per day for charts.
// Query params: days (default 7)
func (h *DashboardHandler) GetTransferMovement(c *fiber.Ctx) error {
	days, err := strconv.Atoi(c.Query("days", "7"))
	if err != nil || days <= 0 {
		days = 7
	}

	data, err := h.service.GetTransferMovement(days)
	if err != nil {
		return respondError(c, err)
	}

	return respondData(c, fiber.StatusOK, fiber.Map{
		"period": days,
		"series": data,
	})
}

// GetDashboardStats returns overview statistics
func (h *DashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.GetDashboardStats()
	if err != nil {
		return respondError(c, err)
	}

	return respondData(c, fiber.StatusOK, stats)
}
