package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/chemedu/periodic-table-api/docs"
	"github.com/chemedu/periodic-table-api/internal/api/handler"
	"github.com/chemedu/periodic-table-api/internal/api/middleware"
	"github.com/chemedu/periodic-table-api/internal/core/auth"
	"github.com/chemedu/periodic-table-api/internal/core/domain"
	"github.com/chemedu/periodic-table-api/internal/core/ports"
)

// Dependencies carries everything the router needs, constructed and wired
// in main.
type Dependencies struct {
	Logger         zerolog.Logger
	Codec          *auth.TokenCodec
	AuthService    ports.AuthService
	ElementService ports.ElementService
	AuditService   ports.AuditService
	TokenTTL       time.Duration

	// Mongo and Redis back the readiness probe only.
	Mongo *mongo.Database
	Redis *redis.Client
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORS()) // open by default; the frontend runs on another origin in development
	e.Use(echoprometheus.NewMiddleware("periodic_table"))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.AuthService, deps.TokenTTL)
	elementHandler := handler.NewElementHandler(deps.ElementService)
	auditHandler := handler.NewAuditHandler(deps.AuditService)
	guard := middleware.Auth(deps.Codec, deps.Logger)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Element routes (reads public, mutations admin-only) ---
	v1 := e.Group("/v1")
	v1.GET("/elements", elementHandler.List)
	v1.GET("/elements/:symbol", elementHandler.Get)
	v1.POST("/elements", elementHandler.Create, guard, adminOnly)
	v1.PUT("/elements/:symbol", elementHandler.Update, guard, adminOnly)
	v1.DELETE("/elements/:symbol", elementHandler.Delete, guard, adminOnly)

	// --- Audit trail (admin-only) ---
	v1.GET("/audit", auditHandler.List, guard, adminOnly)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
