// Package router wires handlers and middleware onto an echo instance.
package router

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/movies-api/internal/config"
	"github.com/iliyamo/movies-api/internal/handler"
	"github.com/iliyamo/movies-api/internal/middleware"
)

// Deps are the collaborators the routes need.  Redis is optional; without
// it the response cache and rate limit are disabled.
type Deps struct {
	Logger    *slog.Logger
	Movies    *handler.MovieHandler
	DB        handler.Pinger
	Redis     *redis.Client
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
	// JWTSecret enables the bearer guard on mutating movie routes.
	JWTSecret string
	// Prefix is where the movies resource is mounted, "/api" by default.
	Prefix string
}

// New builds the echo instance serving the API.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.ErrorHandler

	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(logger))
	e.Use(middleware.Metrics())
	e.Use(echomw.CORS())

	RegisterRoutes(e, d.DB)
	RegisterMovies(e, d)
	return e
}

// RegisterRoutes registers the operational endpoints.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health)
	if db != nil {
		e.GET("/readyz", handler.Ready(db))
	}
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterMovies mounts the movies resource under d.Prefix.  Reads go
// through the response cache; writes require a bearer token when a JWT
// secret is configured and invalidate the cache when they succeed.
func RegisterMovies(e *echo.Echo, d Deps) {
	prefix := d.Prefix
	if prefix == "" {
		prefix = "/api"
	}
	if prefix == "/" {
		prefix = ""
	}

	g := e.Group(prefix+"/movies",
		middleware.NewTokenBucket(d.RateLimit, d.Redis),
		middleware.NewRedisCache(d.Cache, d.Redis),
	)

	var guard []echo.MiddlewareFunc
	if d.JWTSecret != "" {
		guard = append(guard, middleware.BearerAuth(d.JWTSecret))
	}

	h := d.Movies
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create, guard...)
	g.PATCH("/:id", h.Update, guard...)
	g.DELETE("/:id", h.Delete, guard...)
}
