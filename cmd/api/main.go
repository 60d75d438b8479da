package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/docrequest-service/internal/api/http"
	"github.com/spec-kit/docrequest-service/internal/api/http/handlers"
	"github.com/spec-kit/docrequest-service/internal/auth"
	"github.com/spec-kit/docrequest-service/internal/config"
	"github.com/spec-kit/docrequest-service/internal/events"
	"github.com/spec-kit/docrequest-service/internal/observability"
	"github.com/spec-kit/docrequest-service/internal/persistence"
	"github.com/spec-kit/docrequest-service/internal/repository"
	"github.com/spec-kit/docrequest-service/internal/service"
	"github.com/spec-kit/docrequest-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	rawStore, err := persistence.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open record store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer rawStore.Close()
	store := persistence.WithMetrics(rawStore, metrics)

	userRepo := repository.NewUserRepository(store)
	orderRepo := repository.NewOrderRepository(store)
	personnelRepo := repository.NewPersonnelRepository(store)
	notificationRepo := repository.NewNotificationRepository(store)
	pricingRepo := repository.NewPricingRepository(store)

	dispatcher := events.NewInMemoryDispatcher()

	identity := service.NewIdentityService(service.IdentityDependencies{
		UserRepo: userRepo,
		Hasher:   auth.BcryptHasher{Cost: cfg.Auth.BcryptCost},
		Admin:    service.AdminCredentials{Username: cfg.Auth.AdminUsername, Password: cfg.Auth.AdminPassword},
		Logger:   logger,
	})
	catalog := service.NewCatalogService(service.CatalogDependencies{
		PricingRepo:   pricingRepo,
		PersonnelRepo: personnelRepo,
		Identity:      identity,
		Logger:        logger,
	})
	orders := service.NewOrderService(service.OrderDependencies{
		OrderRepo:  orderRepo,
		UserRepo:   userRepo,
		Catalog:    catalog,
		Identity:   identity,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	notifications := service.NewNotificationService(service.NotificationDependencies{
		NotificationRepo: notificationRepo,
		UserRepo:         userRepo,
		Identity:         identity,
		Dispatcher:       dispatcher,
		Metrics:          metrics,
		Logger:           logger,
		Config:           cfg.Notification,
	})
	accounts := service.NewAccountService(service.AccountDependencies{
		UserRepo:  userRepo,
		OrderRepo: orderRepo,
		Identity:  identity,
		Logger:    logger,
	})
	projections := service.NewProjectionService(service.ProjectionDependencies{
		Orders:           orders,
		UserRepo:         userRepo,
		NotificationRepo: notificationRepo,
		Identity:         identity,
	})

	if err := worker.Bootstrap(ctx, worker.BootstrapOptions{
		Notifications: notifications,
		Dispatcher:    dispatcher,
		Catalog:       catalog,
		SeedDefaults:  cfg.Store.SeedDefaults,
		Logger:        logger,
	}); err != nil {
		logger.Fatal("bootstrap failed", zap.Error(err))
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	routes := httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, cfg.Store.Driver, store),
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
	}
	if cfg.Metrics.Enabled {
		routes.Registry = registry
		routes.MetricsPath = cfg.Metrics.Path
	}
	httptransport.RegisterRoutes(app, routes)

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
