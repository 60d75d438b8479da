package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/docrequest-service/internal/config"
	"github.com/spec-kit/docrequest-service/internal/domain"
	"github.com/spec-kit/docrequest-service/internal/events"
	"github.com/spec-kit/docrequest-service/internal/observability"
	"github.com/spec-kit/docrequest-service/internal/persistence"
	"github.com/spec-kit/docrequest-service/internal/repository"
)

type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

func (plainHasher) Compare(hash, plain string) error {
	if hash != "hashed:"+plain {
		return errors.New("password mismatch")
	}
	return nil
}

var adminSession = &domain.Session{SubjectID: AdminSubjectID, Role: domain.RoleAdmin}

type fixture struct {
	now      time.Time
	store    *persistence.MemoryStore
	registry *prometheus.Registry

	userRepo         repository.UserRepository
	orderRepo        repository.OrderRepository
	personnelRepo    repository.PersonnelRepository
	notificationRepo repository.NotificationRepository

	identity      *IdentityService
	catalog       *CatalogService
	orders        *OrderService
	notifications *NotificationService
	accounts      *AccountService
	projections   *ProjectionService
}

type fixtureOption func(*OrderDependencies)

func withKeys(keys KeyGenerator) fixtureOption {
	return func(d *OrderDependencies) { d.Keys = keys }
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()
	f := &fixture{
		now:      time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC),
		store:    persistence.NewMemoryStore(),
		registry: prometheus.NewRegistry(),
	}
	clock := func() time.Time { return f.now }
	logger := zap.NewNop()
	metrics := observability.NewMetrics(f.registry)
	dispatcher := events.NewInMemoryDispatcher()

	f.userRepo = repository.NewUserRepository(f.store)
	f.orderRepo = repository.NewOrderRepository(f.store)
	f.personnelRepo = repository.NewPersonnelRepository(f.store)
	f.notificationRepo = repository.NewNotificationRepository(f.store)

	f.identity = NewIdentityService(IdentityDependencies{
		UserRepo: f.userRepo,
		Hasher:   plainHasher{},
		Admin:    AdminCredentials{Username: "admin", Password: "admin123"},
		Logger:   logger,
		Now:      clock,
	})
	f.catalog = NewCatalogService(CatalogDependencies{
		PricingRepo:   repository.NewPricingRepository(f.store),
		PersonnelRepo: f.personnelRepo,
		Identity:      f.identity,
		Logger:        logger,
		Now:           clock,
	})
	orderDeps := OrderDependencies{
		OrderRepo:  f.orderRepo,
		UserRepo:   f.userRepo,
		Catalog:    f.catalog,
		Identity:   f.identity,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
		Now:        clock,
	}
	for _, opt := range opts {
		opt(&orderDeps)
	}
	f.orders = NewOrderService(orderDeps)
	f.notifications = NewNotificationService(NotificationDependencies{
		NotificationRepo: f.notificationRepo,
		UserRepo:         f.userRepo,
		Identity:         f.identity,
		Dispatcher:       dispatcher,
		Metrics:          metrics,
		Logger:           logger,
		Config:           config.NotificationConfig{},
		Now:              clock,
	})
	f.notifications.RegisterHandlers()
	f.accounts = NewAccountService(AccountDependencies{
		UserRepo:  f.userRepo,
		OrderRepo: f.orderRepo,
		Identity:  f.identity,
		Logger:    logger,
		Now:       clock,
	})
	f.projections = NewProjectionService(ProjectionDependencies{
		Orders:           f.orders,
		UserRepo:         f.userRepo,
		NotificationRepo: f.notificationRepo,
		Identity:         f.identity,
	})

	require.NoError(t, f.catalog.Seed(context.Background()))
	return f
}

func registerInput(first, email string) RegisterInput {
	return RegisterInput{
		FirstName:       first,
		LastName:        "Reyes",
		Email:           email,
		Phone:           "+63 917 555 0101",
		Address:         "12 Mabini St",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}
}

func (f *fixture) resident(t *testing.T, first, email string) (*domain.User, *domain.Session) {
	t.Helper()
	user, err := f.identity.Register(context.Background(), registerInput(first, email))
	require.NoError(t, err)
	return user, &domain.Session{SubjectID: user.ID, Role: domain.RoleResident}
}

func (f *fixture) submit(t *testing.T, session *domain.Session, docType string) *domain.Order {
	t.Helper()
	order, err := f.orders.Submit(context.Background(), session, SubmitInput{
		DocumentType:   docType,
		Purpose:        "Employment",
		DeliveryMethod: "pickup",
	})
	require.NoError(t, err)
	return order
}

func (f *fixture) activePersonnel(t *testing.T) domain.Personnel {
	t.Helper()
	roster, err := f.catalog.ListActivePersonnel(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, roster)
	return roster[0]
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
	metrics:
		for _, m := range family.GetMetric() {
			for _, pair := range m.GetLabel() {
				if want, ok := labels[pair.GetName()]; ok && want != pair.GetValue() {
					continue metrics
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func moneyPtr(m domain.Money) *domain.Money { return &m }

func strPtr(s string) *string { return &s }
