package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aaplusconsultants/policytrain/internal/portal/http"
	"github.com/aaplusconsultants/policytrain/internal/portal/idp"
	"github.com/aaplusconsultants/policytrain/internal/portal/mailer"
	"github.com/aaplusconsultants/policytrain/internal/portal/service"
	"github.com/aaplusconsultants/policytrain/internal/portal/store"
	"github.com/aaplusconsultants/policytrain/internal/portal/store/drivers/sqlite"
	"github.com/aaplusconsultants/policytrain/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the portal service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db     store.Store
	idp    idp.Provider
	mailer mailer.Mailer

	// Services
	inviteService       *service.InviteService
	sessionService      *service.SessionService
	reconcileService    *service.ReconcileService
	safeLinkService     *service.SafeLinkService
	organizationService *service.OrganizationService
	trainingService     *service.TrainingService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "portal-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	provider, err := idp.NewClient(idp.ClientConfig{
		BaseURL:    cfg.IdPURL,
		ServiceKey: cfg.IdPServiceKey,
		JWTSecret:  cfg.IdPJWTSecret,
	})
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize identity provider client: %w", err)
	}
	app.idp = provider
	app.mailer = mailer.NewResend(cfg.MailerAPIKey, cfg.MailerFrom)

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Start housekeeping service
	app.housekeepingService.Start()

	app.logger.Info("portal service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down portal service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("portal service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.safeLinkService = &service.SafeLinkService{
		Store: app.db,
		TTL:   app.cfg.SafeLinkTTL,
	}
	app.reconcileService = &service.ReconcileService{Store: app.db}
	app.sessionService = &service.SessionService{
		IDP:       app.idp,
		Reconcile: app.reconcileService,
	}
	app.inviteService = &service.InviteService{
		Store:     app.db,
		IDP:       app.idp,
		Mailer:    app.mailer,
		SafeLinks: app.safeLinkService,
		AppURL:    app.cfg.AppURL,
	}
	app.organizationService = &service.OrganizationService{Store: app.db}
	app.trainingService = &service.TrainingService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.cfg.IdPJWTSecret,
		BuildVersion,
		app.db,
		app.logger,
		app.cfg.IdPURL != "" && app.cfg.IdPServiceKey != "",
		app.cfg.MailerAPIKey != "",
	)

	// Wire services to router
	router.InviteService = app.inviteService
	router.SessionService = app.sessionService
	router.SafeLinkService = app.safeLinkService
	router.OrganizationService = app.organizationService
	router.TrainingService = app.trainingService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
