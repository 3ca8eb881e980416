// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/billforge/internal/admin"
	"github.com/carterperez-dev/billforge/internal/auth"
	"github.com/carterperez-dev/billforge/internal/bulk"
	"github.com/carterperez-dev/billforge/internal/config"
	"github.com/carterperez-dev/billforge/internal/core"
	"github.com/carterperez-dev/billforge/internal/entity"
	"github.com/carterperez-dev/billforge/internal/health"
	"github.com/carterperez-dev/billforge/internal/invoice"
	"github.com/carterperez-dev/billforge/internal/middleware"
	"github.com/carterperez-dev/billforge/internal/registration"
	"github.com/carterperez-dev/billforge/internal/server"
	"github.com/carterperez-dev/billforge/internal/supplier"
	"github.com/carterperez-dev/billforge/internal/template"
	"github.com/carterperez-dev/billforge/internal/user"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	telemetry, err := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(
			context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown", "error", err)
		}
	}()

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // process exit

	rdb, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close() //nolint:errcheck // process exit

	// Repositories and services.
	entityService := entity.NewService(entity.NewRepository(db.DB))
	userService := user.NewService(user.NewRepository(db.DB))
	supplierService := supplier.NewService(supplier.NewRepository(db.DB))
	templateService := template.NewService(template.NewRepository(db.DB))
	invoiceService := invoice.NewService(invoice.NewRepository(db.DB))
	registrationService := registration.NewService(
		registration.NewRepository(db.DB), db.DB)

	sessionManager, err := auth.NewSessionManager(cfg.Session)
	if err != nil {
		return err
	}
	authService := auth.NewService(sessionManager, userService, rdb.Client)

	bulkService := bulk.NewService(
		bulk.NewRepository(db.DB),
		&bulk.TemplateAdapter{Templates: templateService},
		&bulk.InvoiceAdapter{Invoices: invoiceService},
		bulk.NewHTTPDispatcher(cfg.Dispatch),
		bulk.NewHTTPRenderer(cfg.Renderer),
		cfg.Bulk,
		logger,
	)

	// Handlers.
	authHandler := auth.NewHandler(
		authService, cfg.Session.CookieName, cfg.IsProduction())
	entityHandler := entity.NewHandler(entityService)
	userHandler := user.NewHandler(userService)
	supplierHandler := supplier.NewHandler(supplierService)
	templateHandler := template.NewHandler(templateService)
	invoiceHandler := invoice.NewHandler(invoiceService)
	registrationHandler := registration.NewHandler(registrationService)
	bulkHandler := bulk.NewHandler(bulkService, cfg.Dispatch.Secret)
	adminHandler := admin.NewHandler(admin.NewRepository(db.DB))
	healthHandler := health.NewHandler(db, rdb, cfg.App.Version)

	srv := server.New(cfg.Server, logger)
	mountRoutes(srv.Router(), cfg, logger, rdb, authService, entityService,
		authHandler, entityHandler, userHandler, supplierHandler,
		templateHandler, invoiceHandler, registrationHandler,
		bulkHandler, adminHandler, healthHandler)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx, 2*time.Second)
}

func mountRoutes(
	r chi.Router,
	cfg *config.Config,
	logger *slog.Logger,
	rdb *core.Redis,
	authService *auth.Service,
	entityService *entity.Service,
	authHandler *auth.Handler,
	entityHandler *entity.Handler,
	userHandler *user.Handler,
	supplierHandler *supplier.Handler,
	templateHandler *template.Handler,
	invoiceHandler *invoice.Handler,
	registrationHandler *registration.Handler,
	bulkHandler *bulk.Handler,
	adminHandler *admin.Handler,
	healthHandler *health.Handler,
) {
	rateLimiter := middleware.NewRateLimiter(rdb.Client, middleware.RateLimitConfig{
		Limit:    middleware.PerMinute(cfg.RateLimit.Requests, cfg.RateLimit.Burst),
		KeyFunc:  middleware.KeyByIP,
		FailOpen: true,
	})

	authenticator := middleware.Authenticator(
		authService, cfg.Session.CookieName)

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(rateLimiter.Handler)
	r.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.ResolveTenant(entityService, cfg.App.BaseDomain))

	healthHandler.RegisterRoutes(r)

	r.Route("/v1", func(r chi.Router) {
		// Public surface.
		registrationHandler.RegisterPublicRoutes(r)
		authHandler.RegisterRoutes(r, authenticator)

		// Dispatch boundary callback, signature-authenticated.
		bulkHandler.RegisterWebhookRoutes(r)

		// Super-admin console.
		r.Route("/admin", func(r chi.Router) {
			r.Use(authenticator)
			r.Use(middleware.RequireSuperAdmin)
			r.Use(middleware.BlockForcedReset)

			entityHandler.RegisterAdminRoutes(r)
			registrationHandler.RegisterAdminRoutes(r)
			adminHandler.RegisterRoutes(r)
		})

		// Tenant-branded surface: any authenticated member.
		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Use(middleware.RequireTenant)
			r.Use(middleware.BlockForcedReset)

			supplierHandler.RegisterRoutes(r)
			templateHandler.RegisterRoutes(r)
			invoiceHandler.RegisterRoutes(r)
			bulkHandler.RegisterRoutes(r)
			entityHandler.RegisterTenantRoutes(r)

			// Tenant administration.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireEntityAdmin)

				userHandler.RegisterRoutes(r)
				supplierHandler.RegisterAdminRoutes(r)
				entityHandler.RegisterTenantAdminRoutes(r)
			})
		})
	})
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
