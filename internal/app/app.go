// Package app assembles the users API with fx: every component is provided
// here and the server and database are bound to the fx lifecycle.
package app

import (
	"context"
	"fmt"

	"github.com/toyz/usersapi/internal/audit"
	"github.com/toyz/usersapi/internal/config"
	"github.com/toyz/usersapi/internal/controllers"
	"github.com/toyz/usersapi/internal/diagnostics"
	"github.com/toyz/usersapi/internal/logging"
	"github.com/toyz/usersapi/internal/middleware"
	"github.com/toyz/usersapi/internal/repository"
	"github.com/toyz/usersapi/internal/routes"
	"github.com/toyz/usersapi/internal/services"
	"github.com/toyz/usersapi/internal/store"
	"github.com/toyz/usersapi/internal/validation"
	"github.com/toyz/usersapi/pkg/axon"
	"github.com/toyz/usersapi/pkg/axon/adapters"
	"go.uber.org/fx"
)

// Module provides the whole application for cfg
func Module(cfg *config.Config) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		fx.Provide(
			logging.NewAppLogger,
			NewStore,
			repository.NewUserRepository,
			repository.NewAuditRepository,
			audit.NewRecorder,
			fx.Annotate(validation.New, fx.As(new(services.Validator))),
			services.NewUserService,
			controllers.NewUserController,
			middleware.NewRequestIDMiddleware,
			middleware.NewLoggingMiddleware,
			middleware.NewErrorHandlingMiddleware,
			NewServer,
			fx.Annotate(axon.NewInMemoryRouteRegistry, fx.As(new(axon.RouteRegistry))),
			func() *diagnostics.DiagnosticSystem {
				return diagnostics.NewDiagnosticSystem(diagnostics.DiagnosticInfo)
			},
		),
		fx.Invoke(RegisterRoutes, RegisterServerLifecycle),
	)
}

// NewStore opens the database and prepares its schema and seed rows. The
// store is closed when the application stops.
func NewStore(lc fx.Lifecycle, cfg *config.Config, logger *logging.AppLogger) (*store.Store, error) {
	s, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	seeded, err := s.Init(context.Background(), store.DefaultSeed)
	if err != nil {
		s.Close()
		return nil, err
	}
	logger.Info("database ready", "path", s.Path(), "seeded", seeded)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return s.Close()
		},
	})
	return s, nil
}

// NewServer returns the adapter selected by cfg
func NewServer(cfg *config.Config) (axon.WebServerInterface, error) {
	switch cfg.Adapter {
	case "gin":
		return adapters.NewDefaultGinAdapter(), nil
	case "echo":
		return adapters.NewDefaultEchoAdapter(), nil
	case "fiber":
		return adapters.NewDefaultFiberAdapter(), nil
	case "chi":
		return adapters.NewDefaultChiAdapter(), nil
	default:
		return nil, fmt.Errorf("unknown adapter %q", cfg.Adapter)
	}
}

// RoutesParams are the dependencies of RegisterRoutes
type RoutesParams struct {
	fx.In

	Server     axon.WebServerInterface
	Controller *controllers.UserController
	Registry   axon.RouteRegistry
	RequestID  *middleware.RequestIDMiddleware
	Logging    *middleware.LoggingMiddleware
	Errors     *middleware.ErrorHandlingMiddleware
}

// RegisterRoutes wires the controller onto the server
func RegisterRoutes(p RoutesParams) {
	routes.RegisterRoutes(p.Server, routes.Middlewares{
		RequestID: p.RequestID,
		Logging:   p.Logging,
		Errors:    p.Errors,
	}, p.Controller, p.Registry)
}

// RegisterServerLifecycle starts the server with the application and shuts
// it down gracefully on stop
func RegisterServerLifecycle(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	server axon.WebServerInterface,
	cfg *config.Config,
	registry axon.RouteRegistry,
	diag *diagnostics.DiagnosticSystem,
	logger *logging.AppLogger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			diag.Banner(fmt.Sprintf("starting %s server", server.Name()))
			diag.Config(cfg)
			diag.Routes(registry.GetAllRoutes())

			go func() {
				if err := server.Start(cfg.Addr()); err != nil {
					diag.Error("server failed: %v", err)
					logger.Error("server failed", "error", err)
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			diag.Success("listening on http://localhost%s", cfg.Addr())
			return nil
		},
		OnStop: func(ctx context.Context) error {
			diag.Warn("stopping %s server", server.Name())
			return server.Stop(ctx)
		},
	})
}
