package api

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/amref/learning-api/docs"
	"github.com/amref/learning-api/internal/api/handler"
	"github.com/amref/learning-api/internal/api/middleware"
	"github.com/amref/learning-api/internal/core/domain"
	"github.com/amref/learning-api/internal/core/ports"
)

// Deps are the collaborators the router wires into handlers and middleware.
// RateLimiter may be nil to disable rate limiting.
type Deps struct {
	APIPrefix    string
	Log          zerolog.Logger
	Guard        ports.AccessGuard
	Auth         ports.AuthService
	Reset        ports.PasswordResetService
	Users        ports.UserService
	RateLimiter  ports.RateLimiter
	HealthChecks map[string]handler.DependencyCheck

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	registerer, gatherer := d.Registerer, d.Gatherer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "learning",
		Registerer: registerer,
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Reset, d.Log)
	userHandler := handler.NewUserHandler(d.Users)
	healthHandler := handler.NewHealthHandler(d.HealthChecks)

	rateLimited := middleware.RateLimit(d.RateLimiter, d.Log)

	authenticated := []echo.MiddlewareFunc{
		middleware.Authenticate(d.Guard),
		middleware.RequireActive(d.Guard),
	}
	adminOnly := []echo.MiddlewareFunc{
		middleware.Authenticate(d.Guard),
		middleware.RequireActive(d.Guard),
		middleware.RequireRole(d.Guard, domain.RoleAdmin),
	}

	v1 := e.Group(normalizePrefix(d.APIPrefix))

	// --- Auth routes ---
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register, rateLimited)
	auth.POST("/login", authHandler.Login, rateLimited)
	auth.POST("/password-reset", authHandler.RequestPasswordReset, rateLimited)
	auth.POST("/password-reset/confirm", authHandler.ConfirmPasswordReset, rateLimited)

	// --- User routes ---
	users := v1.Group("/users")
	users.GET("/me", userHandler.Me, authenticated...)
	users.PUT("/me", userHandler.UpdateMe, authenticated...)
	users.GET("", userHandler.List, adminOnly...)
	users.GET("/:id", userHandler.Get, adminOnly...)
	users.PUT("/:id", userHandler.Update, adminOnly...)

	// --- Health probes, metrics and docs (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func normalizePrefix(prefix string) string {
	prefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
	if prefix != "" && !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return prefix
}
