package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/docrequest-service/internal/domain"
	"github.com/spec-kit/docrequest-service/pkg/util"
)

// RequireRole rejects requests whose session does not carry role.
func RequireRole(role domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session := SessionFromContext(c)
		if !session.Valid() || session.Role != role {
			return util.NewUnauthenticated(string(role) + " session required")
		}
		return c.Next()
	}
}
