package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/adminkit/rbac-service/internal/infra/config"
	"github.com/adminkit/rbac-service/internal/transport/http/handlers"
	"github.com/adminkit/rbac-service/internal/transport/http/middleware"
	"github.com/adminkit/rbac-service/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Auth        *usecase.AuthService
	Resolver    *usecase.PermissionResolver
	Users       *usecase.UserService
	Roles       *usecase.RoleService
	Permissions *usecase.PermissionService
	Templates   *usecase.TemplateService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config   *config.AppConfig
	Logger   *zap.Logger
	Metrics  *middleware.HTTPMetrics
	Services ServiceSet
	Database DatabaseChecker
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware. Only
// /auth/login and /auth/refresh skip authentication; every other resource
// route sits behind the bearer check and, where configured, a permission
// gate.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config != nil && deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	if deps.Config != nil {
		r.Use(middleware.CORS(deps.Config.CORS.AllowedOrigins))
	}
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	requireAuth := middleware.RequireAuth(deps.Services.Auth)
	gate := func(codes ...string) gin.HandlerFunc {
		return middleware.RequirePermission(deps.Services.Resolver, codes...)
	}

	healthHandler := handlers.NewHealthHandler(deps.Database)
	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authHandler := handlers.NewAuthHandler(deps.Services.Auth, deps.Logger)
	authGroup := r.Group("/auth")
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/refresh", authHandler.Refresh)
	authGroup.GET("/me", requireAuth, authHandler.Me)

	userHandler := handlers.NewUserHandler(deps.Services.Users)
	userGroup := r.Group("/user", requireAuth)
	userGroup.POST("", gate("user:create"), userHandler.Create)
	userGroup.GET("/:id", gate("user:read"), userHandler.Get)
	userGroup.PUT("/:id", gate("user:update"), userHandler.Update)
	userGroup.DELETE("/:id", gate("user:delete"), userHandler.Delete)
	userGroup.POST("/page", gate("user:list"), userHandler.Page)

	roleHandler := handlers.NewRoleHandler(deps.Services.Roles)
	roleGroup := r.Group("/role", requireAuth)
	roleGroup.POST("", gate("role:create"), roleHandler.Create)
	roleGroup.GET("/:id", gate("role:read"), roleHandler.Get)
	roleGroup.GET("/:id/permissions", gate("role:read"), roleHandler.Permissions)
	roleGroup.PUT("/:id", gate("role:update"), roleHandler.Update)
	roleGroup.DELETE("/:id", gate("role:delete"), roleHandler.Delete)
	roleGroup.POST("/page", gate("role:list"), roleHandler.Page)

	permissionHandler := handlers.NewPermissionHandler(deps.Services.Permissions)
	permissionGroup := r.Group("/permission", requireAuth)
	permissionGroup.POST("", gate("permission:create"), permissionHandler.Create)
	permissionGroup.GET("/:id", gate("permission:read"), permissionHandler.Get)
	permissionGroup.PUT("/:id", gate("permission:update"), permissionHandler.Update)
	permissionGroup.DELETE("/:id", gate("permission:delete"), permissionHandler.Delete)
	permissionGroup.POST("/page", gate("permission:list"), permissionHandler.Page)

	templateHandler := handlers.NewTemplateHandler(deps.Services.Templates)
	templateGroup := r.Group("/template", requireAuth)
	templateGroup.POST("", templateHandler.Create)
	templateGroup.GET("/:id", templateHandler.Get)
	templateGroup.PUT("/:id", templateHandler.Update)
	templateGroup.DELETE("/:id", templateHandler.Delete)
	templateGroup.POST("/page", templateHandler.Page)

	return r
}
