package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/docrequest-service/internal/api/dto"
	"github.com/spec-kit/docrequest-service/internal/auth"
	"github.com/spec-kit/docrequest-service/internal/domain"
	"github.com/spec-kit/docrequest-service/internal/service"
	"github.com/spec-kit/docrequest-service/pkg/util"
)

// AuthHandler exposes registration and login for residents and the administrator.
type AuthHandler struct {
	identity *service.IdentityService
	tokens   *auth.TokenManager
}

// NewAuthHandler constructs handler.
func NewAuthHandler(identity *service.IdentityService, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{identity: identity, tokens: tokens}
}

// Register handles POST /auth/users/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	user, err := h.identity.Register(c.UserContext(), req)
	if err != nil {
		return err
	}
	authResp, err := h.issue(domain.Session{SubjectID: user.ID, Role: domain.RoleResident})
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, fiber.Map{
		"user": dto.NewUserResponse(user),
		"auth": authResp,
	})
}

// Login handles POST /auth/users/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	if req.Email == "" || req.Password == "" {
		return util.NewValidationError("email and password required", nil)
	}
	user, session, err := h.identity.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	authResp, err := h.issue(*session)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, fiber.Map{
		"user": dto.NewUserResponse(user),
		"auth": authResp,
	})
}

// AdminLogin handles POST /auth/admin/login.
func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	session, err := h.identity.AdminLogin(req.Username, req.Password)
	if err != nil {
		return err
	}
	authResp, err := h.issue(*session)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, fiber.Map{"auth": authResp})
}

func (h *AuthHandler) issue(session domain.Session) (dto.AuthResponse, error) {
	token, exp, err := h.tokens.GenerateToken(session)
	if err != nil {
		return dto.AuthResponse{}, util.NewInternalError(err)
	}
	return dto.AuthResponse{Token: token, ExpiresAt: exp}, nil
}
