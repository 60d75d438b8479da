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

// AdminHandler serves the administrator console.
type AdminHandler struct {
	orders      *service.OrderService
	accounts    *service.AccountService
	catalog     *service.CatalogService
	projections *service.ProjectionService
}

// AdminDependencies bundles the services behind admin routes.
type AdminDependencies struct {
	Orders      *service.OrderService
	Accounts    *service.AccountService
	Catalog     *service.CatalogService
	Projections *service.ProjectionService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(deps AdminDependencies) *AdminHandler {
	return &AdminHandler{
		orders:      deps.Orders,
		accounts:    deps.Accounts,
		catalog:     deps.Catalog,
		projections: deps.Projections,
	}
}

// Dashboard GET /admin/dashboard.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	dash, err := h.projections.AdminDashboard(c.UserContext(), auth.SessionFromContext(c))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dash)
}

// Orders GET /admin/orders?status=&search=&range=.
func (h *AdminHandler) Orders(c *fiber.Ctx) error {
	filter, err := parseOrderFilter(c)
	if err != nil {
		return err
	}
	rows, err := h.projections.AdminOrderTable(c.UserContext(), auth.SessionFromContext(c), filter)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, rows)
}

// UpdateOrder PUT /admin/orders/:id.
func (h *AdminHandler) UpdateOrder(c *fiber.Ctx) error {
	var req dto.UpdateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	input := service.TransitionInput{
		Status:       domain.OrderStatus(req.Status),
		PersonnelID:  req.PersonnelID,
		Instructions: req.SpecialInstructions,
	}
	if req.Price != nil {
		price := dto.AmountToMoney(*req.Price)
		input.Price = &price
	}
	order, err := h.orders.Transition(c.UserContext(), auth.SessionFromContext(c), c.Params("id"), input)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewOrderResponse(order))
}

// AssignPersonnel PUT /admin/orders/:id/personnel.
func (h *AdminHandler) AssignPersonnel(c *fiber.Ctx) error {
	var req dto.AssignPersonnelRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	order, err := h.orders.AssignPersonnel(c.UserContext(), auth.SessionFromContext(c), c.Params("id"), req.PersonnelID)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewOrderResponse(order))
}

// CancelOrder POST /admin/orders/:id/cancel.
func (h *AdminHandler) CancelOrder(c *fiber.Ctx) error {
	order, err := h.orders.Cancel(c.UserContext(), auth.SessionFromContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewOrderResponse(order))
}

// Users GET /admin/users?search=.
func (h *AdminHandler) Users(c *fiber.Ctx) error {
	users, err := h.accounts.ListUsers(c.UserContext(), auth.SessionFromContext(c), c.Query("search"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewUserResponses(users))
}

// UserDetails GET /admin/users/:id.
func (h *AdminHandler) UserDetails(c *fiber.Ctx) error {
	details, err := h.accounts.GetUserDetails(c.UserContext(), auth.SessionFromContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, fiber.Map{
		"user":   dto.NewUserResponse(&details.User),
		"orders": dto.NewOrderResponses(details.Orders),
	})
}

// SetUserStatus PUT /admin/users/:id/status.
func (h *AdminHandler) SetUserStatus(c *fiber.Ctx) error {
	var req dto.StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	user, err := h.accounts.SetUserStatus(c.UserContext(), auth.SessionFromContext(c), c.Params("id"), domain.UserStatus(req.Status))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewUserResponse(user))
}

// DeleteUser DELETE /admin/users/:id.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	if err := h.accounts.DeleteUser(c.UserContext(), auth.SessionFromContext(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// SetPrice PUT /admin/pricing/:type.
func (h *AdminHandler) SetPrice(c *fiber.Ctx) error {
	var req dto.SetPriceRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	if req.Price == nil {
		return util.NewValidationError("validation failed", map[string]any{"price": "is required"})
	}
	pricing, err := h.catalog.SetPrice(c.UserContext(), auth.SessionFromContext(c), c.Params("type"), dto.AmountToMoney(*req.Price))
	if err != nil {
		return err
	}
	out := make(map[string]dto.PriceResponse, len(pricing.Prices))
	for docType, price := range pricing.Prices {
		out[docType] = dto.NewPriceResponse(docType, domain.DocumentLabel(docType), price)
	}
	return data(c, http.StatusOK, out)
}

// Personnel GET /admin/personnel.
func (h *AdminHandler) Personnel(c *fiber.Ctx) error {
	roster, err := h.catalog.ListPersonnel(c.UserContext(), auth.SessionFromContext(c))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, roster)
}

// AddPersonnel POST /admin/personnel.
func (h *AdminHandler) AddPersonnel(c *fiber.Ctx) error {
	var req dto.CreatePersonnelRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	p, err := h.catalog.AddPersonnel(c.UserContext(), auth.SessionFromContext(c), req.Name, req.Phone)
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, p)
}

// RemovePersonnel DELETE /admin/personnel/:id.
func (h *AdminHandler) RemovePersonnel(c *fiber.Ctx) error {
	if err := h.catalog.RemovePersonnel(c.UserContext(), auth.SessionFromContext(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// SetPersonnelStatus PUT /admin/personnel/:id/status.
func (h *AdminHandler) SetPersonnelStatus(c *fiber.Ctx) error {
	var req dto.StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	p, err := h.catalog.SetPersonnelStatus(c.UserContext(), auth.SessionFromContext(c), c.Params("id"), domain.PersonnelStatus(req.Status))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, p)
}
