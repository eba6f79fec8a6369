package handler

import (
	"go-retail-inventory/internal/model"
	"go-retail-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type TransferHandler struct {
	service service.TransferService
}

func NewTransferHandler(s service.TransferService) *TransferHandler {
	return &TransferHandler{service: s}
}

// CreateTransfer starts a transfer and reserves stock at the source.
// POST /api/v1/transfers
func (h *TransferHandler) CreateTransfer(c *fiber.Ctx) error {
	var req service.CreateTransferRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadRequest(c, "Invalid JSON")
	}

	transfer, err := h.service.Create(&req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return respondData(c, fiber.StatusCreated, transfer)
}

// ConfirmTransfer applies the destination's acceptance, possibly partial.
// PUT /api/v1/transfers/:id/confirm
func (h *TransferHandler) ConfirmTransfer(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondBadRequest(c, "Invalid transfer ID")
	}

	req := new(service.ConfirmTransferRequest)
	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil {
			return respondBadRequest(c, "Invalid JSON")
		}
	}

	result, err := h.service.Confirm(id, req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	data := fiber.Map{"transfer": result.Transfer}
	if result.ReturnTransferID != nil {
		data["return_transfer_id"] = result.ReturnTransferID
	}
	return respondData(c, fiber.StatusOK, data)
}

// RejectTransfer declines the whole transfer; the reservation is released.
// PUT /api/v1/transfers/:id/reject
func (h *TransferHandler) RejectTransfer(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondBadRequest(c, "Invalid transfer ID")
	}

	var req struct {
		RejectionReason string `json:"rejection_reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondBadRequest(c, "Invalid JSON")
	}

	transfer, err := h.service.Reject(id, req.RejectionReason, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return respondData(c, fiber.StatusOK, transfer)
}

// CancelTransfer withdraws a pending transfer from the initiating side.
// PUT /api/v1/transfers/:id/cancel
func (h *TransferHandler) CancelTransfer(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondBadRequest(c, "Invalid transfer ID")
	}

	var req struct {
		CancellationReason string `json:"cancellation_reason"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return respondBadRequest(c, "Invalid JSON")
		}
	}

	transfer, err := h.service.Cancel(id, req.CancellationReason, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return respondData(c, fiber.StatusOK, transfer)
}

// DeleteTransfer removes a rejected or cancelled transfer record.
// DELETE /api/v1/transfers/:id
func (h *TransferHandler) DeleteTransfer(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondBadRequest(c, "Invalid transfer ID")
	}

	if err := h.service.Delete(id, getUserID(c)); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetTransfer returns one transfer with its items.
// GET /api/v1/transfers/:id
func (h *TransferHandler) GetTransfer(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondBadRequest(c, "Invalid transfer ID")
	}

	transfer, err := h.service.GetByID(id)
	if err != nil {
		return respondError(c, err)
	}

	return respondData(c, fiber.StatusOK, transfer)
}

// GetIncoming lists transfers destined for a location.
// GET /api/v1/transfers/incoming?locationId=&status=
func (h *TransferHandler) GetIncoming(c *fiber.Ctx) error {
	return h.listByLocation(c, h.service.ListIncoming)
}

// GetOutgoing lists transfers leaving a location.
// GET /api/v1/transfers/outgoing?locationId=&status=
func (h *TransferHandler) GetOutgoing(c *fiber.Ctx) error {
	return h.listByLocation(c, h.service.ListOutgoing)
}

func (h *TransferHandler) listByLocation(c *fiber.Ctx, list func(uuid.UUID, model.TransferStatus) ([]model.Transfer, error)) error {
	locationID, err := uuid.Parse(c.Query("locationId"))
	if err != nil {
		return respondBadRequest(c, "locationId query parameter is required")
	}

	status := model.TransferStatus(c.Query("status"))
	transfers, err := list(locationID, status)
	if err != nil {
		return respondError(c, err)
	}

	return respondData(c, fiber.StatusOK, transfers)
}
