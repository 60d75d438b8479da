package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/docrequest-service/internal/api/http/handlers"
	"github.com/spec-kit/docrequest-service/internal/auth"
	"github.com/spec-kit/docrequest-service/internal/events"
	"github.com/spec-kit/docrequest-service/internal/observability"
	"github.com/spec-kit/docrequest-service/internal/persistence"
	"github.com/spec-kit/docrequest-service/internal/repository"
	"github.com/spec-kit/docrequest-service/internal/service"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

type testServer struct {
	app *fiber.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()
	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)
	store := persistence.WithMetrics(persistence.NewMemoryStore(), metrics)
	dispatcher := events.NewInMemoryDispatcher()

	users := repository.NewUserRepository(store)
	orderRepo := repository.NewOrderRepository(store)
	notificationRepo := repository.NewNotificationRepository(store)

	identity := service.NewIdentityService(service.IdentityDependencies{
		UserRepo: users,
		Hasher:   auth.BcryptHasher{Cost: bcrypt.MinCost},
		Admin:    service.AdminCredentials{Username: "admin", Password: "admin123"},
		Logger:   logger,
	})
	catalog := service.NewCatalogService(service.CatalogDependencies{
		PricingRepo:   repository.NewPricingRepository(store),
		PersonnelRepo: repository.NewPersonnelRepository(store),
		Identity:      identity,
		Logger:        logger,
	})
	orders := service.NewOrderService(service.OrderDependencies{
		OrderRepo:  orderRepo,
		UserRepo:   users,
		Catalog:    catalog,
		Identity:   identity,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	notifications := service.NewNotificationService(service.NotificationDependencies{
		NotificationRepo: notificationRepo,
		UserRepo:         users,
		Identity:         identity,
		Dispatcher:       dispatcher,
		Metrics:          metrics,
		Logger:           logger,
	})
	notifications.RegisterHandlers()
	require.NoError(t, catalog.Seed(context.Background()))
	accounts := service.NewAccountService(service.AccountDependencies{UserRepo: users, OrderRepo: orderRepo, Identity: identity})
	projections := service.NewProjectionService(service.ProjectionDependencies{
		Orders:           orders,
		UserRepo:         users,
		NotificationRepo: notificationRepo,
		Identity:         identity,
	})

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 5*time.Second)
	RegisterRoutes(app, RouteConfig{
		Health: handlers.NewHealthHandler("docrequest", "test", "memory", store),
		Auth:   handlers.NewAuthHandler(identity, tokens),
		Resident: handlers.NewResidentHandler(handlers.ResidentDependencies{
			Identity:      identity,
			Orders:        orders,
			Notifications: notifications,
			Projections:   projections,
		}),
		Public: handlers.NewPublicHandler(orders, catalog),
		Admin: handlers.NewAdminHandler(handlers.AdminDependencies{
			Orders:      orders,
			Accounts:    accounts,
			Catalog:     catalog,
			Projections: projections,
		}),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
		Registry:       registry,
	})
	return &testServer{app: app}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &env))
	}
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func (s *testServer) registerResident(t *testing.T, email string) string {
	t.Helper()
	status, env := s.do(t, nethttp.MethodPost, "/auth/users/register", "", map[string]any{
		"first_name":       "Ana",
		"last_name":        "Reyes",
		"email":            email,
		"phone":            "+63 917 555 0101",
		"address":          "12 Mabini St",
		"password":         "secret1",
		"confirm_password": "secret1",
	})
	require.Equal(t, nethttp.StatusCreated, status)
	body := decode[struct {
		Auth struct {
			Token string `json:"token"`
		} `json:"auth"`
	}](t, env)
	require.NotEmpty(t, body.Auth.Token)
	return body.Auth.Token
}

func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()
	status, env := s.do(t, nethttp.MethodPost, "/auth/admin/login", "", map[string]string{"username": "admin", "password": "admin123"})
	require.Equal(t, nethttp.StatusOK, status)
	body := decode[struct {
		Auth struct {
			Token string `json:"token"`
		} `json:"auth"`
	}](t, env)
	return body.Auth.Token
}

type orderBody struct {
	ID             string   `json:"id"`
	TrackingNumber string   `json:"tracking_number"`
	Status         string   `json:"status"`
	StatusLabel    string   `json:"status_label"`
	Price          *float64 `json:"price"`
	PriceLabel     string   `json:"price_label"`
	AssignedName   string   `json:"assigned_person_name"`
}

func TestResidentOrderFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.registerResident(t, "ana@example.com")

	status, env := s.do(t, nethttp.MethodGet, "/me", token, nil)
	require.Equal(t, nethttp.StatusOK, status)
	assert.NotContains(t, string(env.Data), "password")

	status, env = s.do(t, nethttp.MethodPost, "/orders", token, map[string]any{
		"document_type":   "barangay-clearance",
		"purpose":         "Employment",
		"delivery_method": "pickup",
	})
	require.Equal(t, nethttp.StatusCreated, status)
	order := decode[orderBody](t, env)
	assert.Equal(t, "pending", order.Status)
	assert.Equal(t, "TBD", order.AssignedName)
	assert.Nil(t, order.Price)
	assert.Equal(t, "-", order.PriceLabel)

	status, env = s.do(t, nethttp.MethodGet, "/orders?status=pending", token, nil)
	require.Equal(t, nethttp.StatusOK, status)
	list := decode[[]orderBody](t, env)
	require.Len(t, list, 1)
	assert.Equal(t, order.ID, list[0].ID)

	status, env = s.do(t, nethttp.MethodGet, "/track/"+order.TrackingNumber, "", nil)
	require.Equal(t, nethttp.StatusOK, status)
	view := decode[struct {
		OrderID string `json:"order_id"`
		Steps   []struct {
			Name  string `json:"name"`
			State string `json:"state"`
		} `json:"steps"`
	}](t, env)
	assert.Equal(t, order.ID, view.OrderID)
	assert.Len(t, view.Steps, 6)

	status, env = s.do(t, nethttp.MethodGet, "/notifications", token, nil)
	require.Equal(t, nethttp.StatusOK, status)
	notes := decode[struct {
		Unread int `json:"unread_count"`
	}](t, env)
	assert.Equal(t, 1, notes.Unread)

	for _, want := range []int{1, 0} {
		status, env = s.do(t, nethttp.MethodPost, "/notifications/read-all", token, nil)
		require.Equal(t, nethttp.StatusOK, status)
		assert.Equal(t, want, decode[struct {
			Updated int `json:"updated"`
		}](t, env).Updated)
	}

	status, env = s.do(t, nethttp.MethodPost, "/orders/"+order.ID+"/cancel", token, nil)
	require.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, "cancelled", decode[orderBody](t, env).Status)
}

func TestAdminUpdatesOrder(t *testing.T) {
	s := newTestServer(t)
	resident := s.registerResident(t, "ana@example.com")
	admin := s.adminToken(t)

	_, env := s.do(t, nethttp.MethodPost, "/orders", resident, map[string]any{
		"document_type":    "certificate-of-indigency",
		"purpose":          "Scholarship",
		"delivery_method":  "delivery",
		"delivery_address": "12 Mabini St",
	})
	order := decode[orderBody](t, env)

	status, env := s.do(t, nethttp.MethodGet, "/admin/personnel", admin, nil)
	require.Equal(t, nethttp.StatusOK, status)
	roster := decode[[]struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}](t, env)
	require.NotEmpty(t, roster)

	status, env = s.do(t, nethttp.MethodPut, "/admin/orders/"+order.ID, admin, map[string]any{
		"status":       "completed",
		"price":        30.5,
		"personnel_id": roster[0].ID,
	})
	require.Equal(t, nethttp.StatusOK, status)
	updated := decode[orderBody](t, env)
	assert.Equal(t, "completed", updated.Status)
	assert.Equal(t, "Delivered", updated.StatusLabel)
	require.NotNil(t, updated.Price)
	assert.InDelta(t, 30.5, *updated.Price, 0.001)
	assert.Equal(t, "₱30.50", updated.PriceLabel)
	assert.Equal(t, roster[0].Name, updated.AssignedName)

	status, env = s.do(t, nethttp.MethodGet, "/admin/orders?search=ana", admin, nil)
	require.Equal(t, nethttp.StatusOK, status)
	rows := decode[[]struct {
		OrderID   string `json:"order_id"`
		OwnerName string `json:"owner_name"`
	}](t, env)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ana Reyes", rows[0].OwnerName)

	status, env = s.do(t, nethttp.MethodPut, "/admin/orders/"+order.ID, admin, map[string]any{"status": "shipped"})
	assert.Equal(t, nethttp.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)

	status, _ = s.do(t, nethttp.MethodPut, "/admin/orders/"+order.ID+"/personnel", admin, map[string]string{"personnel_id": "ghost"})
	assert.Equal(t, nethttp.StatusNotFound, status)
}

func TestAccessControl(t *testing.T) {
	s := newTestServer(t)
	resident := s.registerResident(t, "ana@example.com")
	admin := s.adminToken(t)

	status, env := s.do(t, nethttp.MethodGet, "/orders", "", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNAUTHENTICATED", env.Error.Code)

	status, _ = s.do(t, nethttp.MethodGet, "/admin/dashboard", resident, nil)
	assert.Equal(t, nethttp.StatusUnauthorized, status)

	status, _ = s.do(t, nethttp.MethodGet, "/dashboard", admin, nil)
	assert.Equal(t, nethttp.StatusUnauthorized, status)

	status, env = s.do(t, nethttp.MethodGet, "/admin/users", admin, nil)
	require.Equal(t, nethttp.StatusOK, status)
	users := decode[[]map[string]any](t, env)
	require.Len(t, users, 1)
	assert.NotContains(t, users[0], "password_hash")

	id, _ := users[0]["id"].(string)
	status, _ = s.do(t, nethttp.MethodPut, "/admin/users/"+id+"/status", admin, map[string]string{"status": "disabled"})
	require.Equal(t, nethttp.StatusOK, status)

	status, env = s.do(t, nethttp.MethodGet, "/dashboard", resident, nil)
	assert.Equal(t, nethttp.StatusForbidden, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "ACCOUNT_DISABLED", env.Error.Code)
}

func TestRegisterValidationErrors(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, nethttp.MethodPost, "/auth/users/register", "", map[string]any{"email": "not-an-email"})
	assert.Equal(t, nethttp.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	assert.Contains(t, env.Error.Details, "email")
	assert.Contains(t, env.Error.Details, "first_name")

	s.registerResident(t, "ana@example.com")
	status, _ = s.do(t, nethttp.MethodPost, "/auth/users/login", "", map[string]string{"email": "ana@example.com", "password": "nope"})
	assert.Equal(t, nethttp.StatusUnauthorized, status)
}

func TestPublicAndOperationalRoutes(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, nethttp.MethodGet, "/catalog/prices", "", nil)
	require.Equal(t, nethttp.StatusOK, status)
	prices := decode[[]struct {
		DocumentType string  `json:"document_type"`
		Price        float64 `json:"price"`
	}](t, env)
	require.Len(t, prices, 3)
	assert.Equal(t, "barangay-clearance", prices[0].DocumentType)
	assert.InDelta(t, 50.0, prices[0].Price, 0.001)

	status, env = s.do(t, nethttp.MethodGet, "/track/ORD-NOPE", "", nil)
	assert.Equal(t, nethttp.StatusNotFound, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	status, _ = s.do(t, nethttp.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, nethttp.StatusOK, status)

	req := httptest.NewRequest(nethttp.MethodGet, "/metrics", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "docrequest_http_requests_total")
	assert.Contains(t, string(raw), "docrequest_store_operation_duration_seconds")
}
