// Package app is the central wiring point for dependency injection.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fleetdeskhq/fleetdesk/auth"
	"github.com/fleetdeskhq/fleetdesk/config"
	"github.com/fleetdeskhq/fleetdesk/middleware"
	"github.com/fleetdeskhq/fleetdesk/repositories"
	"github.com/fleetdeskhq/fleetdesk/repositories/postgres"
	"github.com/fleetdeskhq/fleetdesk/services/audit"
	"github.com/fleetdeskhq/fleetdesk/services/drivers"
	"github.com/fleetdeskhq/fleetdesk/services/issues"
	"github.com/fleetdeskhq/fleetdesk/services/users"
	"github.com/fleetdeskhq/fleetdesk/services/vehicles"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repository Factory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Repos     *repositories.Repositories
	TxManager repositories.TransactionManager

	// Services
	Users    *users.Service
	Drivers  *drivers.Service
	Vehicles *vehicles.Service
	Issues   *issues.Service
	Audit    *audit.Service

	// Auth
	Tokens         *auth.TokenService
	AuthMiddleware *middleware.AuthMiddleware
	Permissions    *middleware.PermissionMiddleware
}

// NewDependencies creates and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps.initServices()
	deps.initAuth(cfg)

	if err := deps.bootstrap(ctx, cfg); err != nil {
		return nil, err
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase initializes the PostgreSQL connection, schema and repositories
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	factory, err := postgres.NewRepositoryFactory(cfg, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to create repository factory: %w", err)
	}

	d.RepoFactory = factory
	d.DB = factory.GetDB()

	if err := d.DB.InitSchema(ctx); err != nil {
		return err
	}

	d.Repos = factory.NewRepositories()
	d.TxManager = factory.GetTransactionManager()

	return nil
}

// initServices wires the domain services over the repositories
func (d *Dependencies) initServices() {
	d.Audit = audit.NewService(d.Repos.AuditLogs, d.Logger)
	d.Users = users.NewService(d.Repos.Users, d.TxManager, d.Logger)
	d.Vehicles = vehicles.NewService(d.Repos.Vehicles, d.TxManager, d.Logger)
	d.Drivers = drivers.NewService(d.Repos.Drivers, d.Repos.Vehicles, d.Logger)
	d.Issues = issues.NewService(d.Repos.Issues, d.Repos.Vehicles, d.Repos.Drivers, d.Logger)

	d.Logger.Info("services initialized")
}

// initAuth wires token issuance, authentication and permission gating
func (d *Dependencies) initAuth(cfg *config.Config) {
	d.Tokens = auth.NewTokenService(cfg.Auth, d.Logger)
	d.AuthMiddleware = middleware.NewAuthMiddleware(d.Tokens, d.Logger)
	d.Permissions = middleware.NewPermissionMiddleware(d.Audit, d.Logger)
}

// bootstrap seeds the initial admin account when configured
func (d *Dependencies) bootstrap(ctx context.Context, cfg *config.Config) error {
	return d.Users.EnsureAdmin(ctx, cfg.Auth.BootstrapAdminEmail, cfg.Auth.BootstrapAdminPassword)
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
	}

	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
