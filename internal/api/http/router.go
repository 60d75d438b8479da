package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/docrequest-service/internal/api/http/handlers"
	"github.com/spec-kit/docrequest-service/internal/auth"
	"github.com/spec-kit/docrequest-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Resident       *handlers.ResidentHandler
	Public         *handlers.PublicHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
	// Registry is exposed at MetricsPath when set.
	Registry    *prometheus.Registry
	MetricsPath string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Registry != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{})))
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/users/register", cfg.Auth.Register)
	authGroup.Post("/users/login", cfg.Auth.Login)
	authGroup.Post("/admin/login", cfg.Auth.AdminLogin)

	app.Get("/track/:key", cfg.Public.Track)
	app.Get("/catalog/prices", cfg.Public.Prices)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	admin.Get("/dashboard", cfg.Admin.Dashboard)
	admin.Get("/orders", cfg.Admin.Orders)
	admin.Put("/orders/:id", cfg.Admin.UpdateOrder)
	admin.Put("/orders/:id/personnel", cfg.Admin.AssignPersonnel)
	admin.Post("/orders/:id/cancel", cfg.Admin.CancelOrder)
	admin.Get("/users", cfg.Admin.Users)
	admin.Get("/users/:id", cfg.Admin.UserDetails)
	admin.Put("/users/:id/status", cfg.Admin.SetUserStatus)
	admin.Delete("/users/:id", cfg.Admin.DeleteUser)
	admin.Put("/pricing/:type", cfg.Admin.SetPrice)
	admin.Get("/personnel", cfg.Admin.Personnel)
	admin.Post("/personnel", cfg.Admin.AddPersonnel)
	admin.Delete("/personnel/:id", cfg.Admin.RemovePersonnel)
	admin.Put("/personnel/:id/status", cfg.Admin.SetPersonnelStatus)

	// resident routes share the root prefix, so they are guarded per route
	// rather than by a catch-all group
	requireResident := auth.RequireRole(domain.RoleResident)
	resident := func(h fiber.Handler) []fiber.Handler {
		return []fiber.Handler{cfg.AuthMiddleware.Handle, requireResident, h}
	}
	app.Get("/me", resident(cfg.Resident.Me)...)
	app.Put("/me", resident(cfg.Resident.UpdateMe)...)
	app.Get("/dashboard", resident(cfg.Resident.Dashboard)...)
	app.Post("/orders", resident(cfg.Resident.SubmitOrder)...)
	app.Get("/orders", resident(cfg.Resident.ListOrders)...)
	app.Post("/orders/:id/cancel", resident(cfg.Resident.CancelOrder)...)
	app.Get("/notifications", resident(cfg.Resident.Notifications)...)
	app.Post("/notifications/read-all", resident(cfg.Resident.MarkAllNotificationsRead)...)
	app.Post("/notifications/:id/read", resident(cfg.Resident.MarkNotificationRead)...)
}
