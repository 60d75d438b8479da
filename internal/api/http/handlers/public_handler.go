package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/docrequest-service/internal/api/dto"
	"github.com/spec-kit/docrequest-service/internal/service"
)

// PublicHandler serves unauthenticated lookups.
type PublicHandler struct {
	orders  *service.OrderService
	catalog *service.CatalogService
}

// NewPublicHandler constructs handler.
func NewPublicHandler(orders *service.OrderService, catalog *service.CatalogService) *PublicHandler {
	return &PublicHandler{orders: orders, catalog: catalog}
}

// Track GET /track/:key, where key is an order id or tracking number.
func (h *PublicHandler) Track(c *fiber.Ctx) error {
	view, err := h.orders.Track(c.UserContext(), c.Params("key"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, view)
}

// Prices GET /catalog/prices.
func (h *PublicHandler) Prices(c *fiber.Ctx) error {
	entries, err := h.catalog.ListPrices(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]dto.PriceResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.NewPriceResponse(e.DocumentType, e.Label, e.Price))
	}
	return data(c, http.StatusOK, out)
}
