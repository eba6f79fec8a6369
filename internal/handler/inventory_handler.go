package handler

import (
	"go-retail-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type InventoryHandler struct {
	service service.StockService
}

func NewInventoryHandler(s service.StockService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

// AdjustStock applies a manual on-hand correction.
// POST /api/v1/inventory/adjust
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	var req service.AdjustStockRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadRequest(c, "Invalid JSON")
	}

	entry, err := h.service.Adjust(&req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return respondData(c, fiber.StatusOK, entry)
}

// ReserveStock places a manual hold.
// POST /api/v1/inventory/reserve
func (h *InventoryHandler) ReserveStock(c *fiber.Ctx) error {
	var req service.ReservationRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadRequest(c, "Invalid JSON")
	}

	entry, err := h.service.Reserve(&req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return respondData(c, fiber.StatusOK, entry)
}

// ReleaseStock returns a manual hold to the available pool.
// POST /api/v1/inventory/release
func (h *InventoryHandler) ReleaseStock(c *fiber.Ctx) error {
	var req service.ReservationRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadRequest(c, "Invalid JSON")
	}

	entry, err := h.service.Release(&req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return respondData(c, fiber.StatusOK, entry)
}

// GetLocationStock lists every ledger entry at a location.
// GET /api/v1/inventory?locationId=
func (h *InventoryHandler) GetLocationStock(c *fiber.Ctx) error {
	locationID, err := uuid.Parse(c.Query("locationId"))
	if err != nil {
		return respondBadRequest(c, "locationId query parameter is required")
	}

	entries, err := h.service.GetByLocation(locationID)
	if err != nil {
		return respondError(c, err)
	}

	return respondData(c, fiber.StatusOK, entries)
}

// GetStock returns the ledger entry for one product×location pair.
// GET /api/v1/inventory/:productId/:locationId
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	productID, err := parseUUIDParam(c, "productId")
	if err != nil {
		return respondBadRequest(c, "Invalid product ID")
	}
	locationID, err := parseUUIDParam(c, "locationId")
	if err != nil {
		return respondBadRequest(c, "Invalid location ID")
	}

	entry, err := h.service.Get(productID, locationID)
	if err != nil {
		return respondError(c, err)
	}

	return respondData(c, fiber.StatusOK, entry)
}
