package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/adminkit/rbac-service/internal/infra/config"
	"github.com/adminkit/rbac-service/internal/infra/database"
	"github.com/adminkit/rbac-service/internal/infra/logger"
	"github.com/adminkit/rbac-service/internal/infra/security"
	"github.com/adminkit/rbac-service/internal/infra/telemetry"
	postgresrepo "github.com/adminkit/rbac-service/internal/repository/postgres"
	"github.com/adminkit/rbac-service/internal/transport/http/middleware"
	"github.com/adminkit/rbac-service/internal/transport/http/routes"
	"github.com/adminkit/rbac-service/internal/usecase"
)

// Application bundles the wired service and its lifecycle.
type Application struct {
	cfg    *config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
	pool   *pgxpool.Pool
	tracer *telemetry.TracerProvider
}

// New wires configuration, storage, services, and the HTTP engine.
func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	tracer, err := telemetry.Attach(ctx, cfg.Telemetry, log)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	if err := database.InitSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	if err := database.SeedDefaults(ctx, pool, log); err != nil {
		pool.Close()
		return nil, fmt.Errorf("seed defaults: %w", err)
	}

	tokens, err := security.NewTokenService(security.TokenConfig{
		Secret:          cfg.JWT.Secret,
		AccessTokenTTL:  cfg.JWT.AccessTokenTTL,
		RefreshTokenTTL: cfg.JWT.RefreshTokenTTL,
		DevMode:         cfg.App.IsDev(),
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init token service: %w", err)
	}

	repos := postgresrepo.NewRepositories(pool)

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	engine := routes.Register(routes.Dependencies{
		Config:  cfg,
		Logger:  log,
		Metrics: metrics,
		Services: routes.ServiceSet{
			Auth:        usecase.NewAuthService(repos.Users, tokens),
			Resolver:    usecase.NewPermissionResolver(repos.Users, repos.Roles),
			Users:       usecase.NewUserService(repos.Users),
			Roles:       usecase.NewRoleService(repos.Roles, repos.Permissions),
			Permissions: usecase.NewPermissionService(repos.Permissions),
			Templates:   usecase.NewTemplateService(repos.Templates),
		},
		Database: pool,
	})

	return &Application{
		cfg:    cfg,
		engine: engine,
		logger: log,
		pool:   pool,
		tracer: tracer,
	}, nil
}

// Run serves HTTP until the context is cancelled, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		a.close()
		return err
	}

	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.close()
		return fmt.Errorf("shutdown http server: %w", err)
	}

	a.close()
	return nil
}

func (a *Application) close() {
	if a.tracer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.tracer.Shutdown(ctx); err != nil {
			a.logger.Warn("tracer shutdown", zap.Error(err))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
	_ = a.logger.Sync()
}
