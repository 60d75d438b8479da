package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/docrequest-service/internal/domain"
	"github.com/spec-kit/docrequest-service/pkg/util"
)

func invalidPayload() error {
	return util.NewValidationError("invalid payload", nil)
}

func data(c *fiber.Ctx, status int, payload any) error {
	return c.Status(status).JSON(fiber.Map{"data": payload})
}

// parseOrderFilter reads status, search and range query parameters.
func parseOrderFilter(c *fiber.Ctx) (domain.OrderFilter, error) {
	var filter domain.OrderFilter
	fields := map[string]any{}
	if raw := c.Query("status"); raw != "" && raw != "all" {
		status, err := domain.ParseOrderStatus(raw)
		if err != nil {
			fields["status"] = "is invalid"
		}
		filter.Status = status
	}
	dateRange, err := domain.ParseDateRange(c.Query("range"))
	if err != nil {
		fields["range"] = "is invalid"
	}
	filter.DateRange = dateRange
	filter.Search = c.Query("search")
	if len(fields) > 0 {
		return domain.OrderFilter{}, util.NewValidationError("validation failed", fields)
	}
	return filter, nil
}
