package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/docrequest-service/internal/api/dto"
	"github.com/spec-kit/docrequest-service/internal/auth"
	"github.com/spec-kit/docrequest-service/internal/service"
)

// ResidentHandler serves the signed-in resident's account, orders and notifications.
type ResidentHandler struct {
	identity      *service.IdentityService
	orders        *service.OrderService
	notifications *service.NotificationService
	projections   *service.ProjectionService
}

// ResidentDependencies bundles the services behind resident routes.
type ResidentDependencies struct {
	Identity      *service.IdentityService
	Orders        *service.OrderService
	Notifications *service.NotificationService
	Projections   *service.ProjectionService
}

// NewResidentHandler constructs handler.
func NewResidentHandler(deps ResidentDependencies) *ResidentHandler {
	return &ResidentHandler{
		identity:      deps.Identity,
		orders:        deps.Orders,
		notifications: deps.Notifications,
		projections:   deps.Projections,
	}
}

// Me GET /me.
func (h *ResidentHandler) Me(c *fiber.Ctx) error {
	user, err := h.identity.Me(c.UserContext(), auth.SessionFromContext(c))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewUserResponse(user))
}

// UpdateMe PUT /me. A profile_image field sets or clears the image reference.
func (h *ResidentHandler) UpdateMe(c *fiber.Ctx) error {
	var req service.ProfileInput
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	var image dto.ProfileImageRequest
	if err := c.BodyParser(&image); err != nil {
		return invalidPayload()
	}
	session := auth.SessionFromContext(c)
	user, err := h.identity.UpdateProfile(c.UserContext(), session, req)
	if err != nil {
		return err
	}
	if image.ProfileImage != nil {
		if user, err = h.identity.SetProfileImage(c.UserContext(), session, *image.ProfileImage); err != nil {
			return err
		}
	}
	return data(c, http.StatusOK, dto.NewUserResponse(user))
}

// SubmitOrder POST /orders.
func (h *ResidentHandler) SubmitOrder(c *fiber.Ctx) error {
	var req service.SubmitInput
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	order, err := h.orders.Submit(c.UserContext(), auth.SessionFromContext(c), req)
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, dto.NewOrderResponse(order))
}

// ListOrders GET /orders?status=&search=&range=.
func (h *ResidentHandler) ListOrders(c *fiber.Ctx) error {
	filter, err := parseOrderFilter(c)
	if err != nil {
		return err
	}
	orders, err := h.projections.OrderHistory(c.UserContext(), auth.SessionFromContext(c), filter)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewOrderResponses(orders))
}

// CancelOrder POST /orders/:id/cancel.
func (h *ResidentHandler) CancelOrder(c *fiber.Ctx) error {
	order, err := h.orders.Cancel(c.UserContext(), auth.SessionFromContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewOrderResponse(order))
}

// Dashboard GET /dashboard.
func (h *ResidentHandler) Dashboard(c *fiber.Ctx) error {
	dash, err := h.projections.ResidentDashboard(c.UserContext(), auth.SessionFromContext(c))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, fiber.Map{
		"stats":         dash.Stats,
		"recent_orders": dto.NewOrderResponses(dash.RecentOrders),
		"unread_count":  dash.UnreadCount,
	})
}

// Notifications GET /notifications.
func (h *ResidentHandler) Notifications(c *fiber.Ctx) error {
	list, err := h.notifications.ListForUser(c.UserContext(), auth.SessionFromContext(c))
	if err != nil {
		return err
	}
	unread := 0
	for _, n := range list {
		if !n.Read {
			unread++
		}
	}
	return data(c, http.StatusOK, fiber.Map{"items": list, "unread_count": unread})
}

// MarkNotificationRead POST /notifications/:id/read.
func (h *ResidentHandler) MarkNotificationRead(c *fiber.Ctx) error {
	n, err := h.notifications.MarkRead(c.UserContext(), auth.SessionFromContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, n)
}

// MarkAllNotificationsRead POST /notifications/read-all.
func (h *ResidentHandler) MarkAllNotificationsRead(c *fiber.Ctx) error {
	changed, err := h.notifications.MarkAllRead(c.UserContext(), auth.SessionFromContext(c))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, fiber.Map{"updated": changed})
}
