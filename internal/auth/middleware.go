package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/docrequest-service/internal/domain"
	"github.com/spec-kit/docrequest-service/pkg/util"
)

const sessionKey = "auth_session"

// AuthMiddleware validates bearer tokens and stores the session on the request.
// Account status is not checked here; services re-read it on every call.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return util.NewUnauthenticated("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return util.NewUnauthenticated("invalid authorization header")
	}

	session, err := m.tokens.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return util.NewUnauthenticated("invalid token")
	}

	c.Locals(sessionKey, session)
	return c.Next()
}

// SessionFromContext retrieves the authenticated session, nil when absent.
func SessionFromContext(c *fiber.Ctx) *domain.Session {
	session, _ := c.Locals(sessionKey).(*domain.Session)
	return session
}
