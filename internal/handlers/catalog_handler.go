package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/umirime/backend/internal/catalog"
)

// CatalogHandler serves the public reference tables the clients render
// before any authentication.
type CatalogHandler struct {
	catalog *catalog.Catalog
}

func NewCatalogHandler(cat *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: cat}
}

func (h *CatalogHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Umiri.me API", "status": "ok"})
}

// MoodTypes and Plans return the tables unwrapped, keyed by id, the shape
// the frontend consumes directly.
func (h *CatalogHandler) MoodTypes(c *fiber.Ctx) error {
	return c.JSON(h.catalog.Moods())
}

func (h *CatalogHandler) Plans(c *fiber.Ctx) error {
	return c.JSON(h.catalog.Plans())
}
