package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/users-api/docs"
	"github.com/99minutos/users-api/internal/api/handler"
	"github.com/99minutos/users-api/internal/api/middleware"
	"github.com/99minutos/users-api/internal/core/domain"
	"github.com/99minutos/users-api/internal/core/ports"
)

const bodyLimit = "1M"

// Dependencies carries everything the HTTP layer needs. All of it is built
// once in main and handed in here.
type Dependencies struct {
	Log          zerolog.Logger
	Version      string
	CORSOrigins  []string
	SecureCookie bool

	Verifier    middleware.TokenVerifier
	AuthService ports.AuthService
	UserService ports.UserService
	Checkers    []ports.DependencyChecker

	// Registerer receives the HTTP request metrics. Nil means the default
	// Prometheus registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     deps.CORSOrigins,
		AllowCredentials: true,
	}))
	e.Use(echomiddleware.BodyLimit(bodyLimit))
	e.Use(echomiddleware.Secure())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "users_api",
		Registerer: deps.Registerer,
	}))

	// --- Discovery, probes, metrics, docs (no auth required) ---
	index := handler.NewIndexHandler(deps.Version)
	e.GET("/", index.Root)
	e.GET("/api", index.Status)

	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Checkers...)
	e.GET("/health", healthHandler.Liveness)            // liveness: is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness: are dependencies up?

	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authenticate := middleware.Authenticate(deps.Verifier)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.AuthService, deps.SecureCookie)
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout, authenticate)
	auth.GET("/me", authHandler.Me, authenticate)

	// --- User routes ---
	userHandler := handler.NewUserHandler(deps.UserService)
	users := e.Group("/users", authenticate)
	users.GET("", userHandler.List, middleware.RequireRoles(domain.RoleAdmin))
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	return e
}
