package handler

import (
	"go-retail-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler serves the thin product and location CRUD pages.
type CatalogHandler struct {
	service service.CatalogService
}

func NewCatalogHandler(s service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: s}
}

// POST /api/v1/products
func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadRequest(c, "Invalid JSON")
	}

	product, err := h.service.CreateProduct(&req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusCreated, product)
}

// PUT /api/v1/products/:id
func (h *CatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondBadRequest(c, "Invalid product ID")
	}

	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadRequest(c, "Invalid JSON")
	}

	product, err := h.service.UpdateProduct(id, &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, product)
}

// DELETE /api/v1/products/:id
func (h *CatalogHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondBadRequest(c, "Invalid product ID")
	}

	if err := h.service.DeleteProduct(id, getUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GET /api/v1/products
func (h *CatalogHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, products)
}

// GET /api/v1/products/:id
func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondBadRequest(c, "Invalid product ID")
	}

	product, err := h.service.GetProductByID(id)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, product)
}

// POST /api/v1/locations
func (h *CatalogHandler) CreateLocation(c *fiber.Ctx) error {
	var req service.LocationRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadRequest(c, "Invalid JSON")
	}

	location, err := h.service.CreateLocation(&req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusCreated, location)
}

// PUT /api/v1/locations/:id
func (h *CatalogHandler) UpdateLocation(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondBadRequest(c, "Invalid location ID")
	}

	var req service.LocationRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadRequest(c, "Invalid JSON")
	}

	location, err := h.service.UpdateLocation(id, &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, location)
}

// DELETE /api/v1/locations/:id
func (h *CatalogHandler) DeleteLocation(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondBadRequest(c, "Invalid location ID")
	}

	if err := h.service.DeleteLocation(id, getUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GET /api/v1/locations
func (h *CatalogHandler) GetLocations(c *fiber.Ctx) error {
	locations, err := h.service.GetAllLocations()
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, locations)
}

// GET /api/v1/locations/:id
func (h *CatalogHandler) GetLocation(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondBadRequest(c, "Invalid location ID")
	}

	location, err := h.service.GetLocationByID(id)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, location)
}
