package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/docrequest-service/internal/persistence"
)

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	driver      string
	store       persistence.RecordStore
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version, driver string, store persistence.RecordStore) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, driver: driver, store: store}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports readiness by pinging the record store.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "DEPENDENCY_UNAVAILABLE",
				"message": "record store unavailable",
				"details": fiber.Map{h.driver: err.Error()},
			},
		})
	}
	return c.JSON(fiber.Map{
		"status":       "ready",
		"dependencies": fiber.Map{h.driver: "ok"},
	})
}
