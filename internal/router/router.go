package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/mind-mirror/internal/config"
	"github.com/iliyamo/mind-mirror/internal/handler"    // handlers serving the routes
	"github.com/iliyamo/mind-mirror/internal/middleware" // CORS, access log and rate limiting
)

// Options carries the cross-cutting settings applied to every route.
type Options struct {
	Origins   middleware.OriginPolicy
	RateLimit config.RateLimitConfig
	Redis     *redis.Client // nil disables rate limiting
	Log       *zap.Logger
}

// Endpoint describes one registered route for the startup banner.
type Endpoint struct {
	Name string
	Path string
}

// Endpoints lists the public routes in registration order.  The recent
// route is shown with its default query.
func Endpoints() []Endpoint {
	return []Endpoint{
		{Name: "health", Path: "/api/health"},
		{Name: "all records", Path: "/api/records"},
		{Name: "today's records", Path: "/api/records/today"},
		{Name: "recent records", Path: "/api/records/recent?count=" + handler.DefaultRecentCount},
	}
}

// New builds the Echo instance with middleware and routes registered.
func New(h *handler.RecordHandler, opts Options) *echo.Echo {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(log))
	e.Use(middleware.CORS(opts.Origins))
	e.Use(middleware.NewTokenBucket(opts.RateLimit, opts.Redis, log))

	RegisterRoutes(e, h)
	return e
}

// RegisterRoutes maps the read-only API under /api.  None of the routes
// require authentication.
func RegisterRoutes(e *echo.Echo, h *handler.RecordHandler) {
	api := e.Group("/api")
	// Liveness probe; answers without touching the database.
	api.GET("/health", h.Health)
	api.GET("/records", h.ListAll)
	api.GET("/records/today", h.ListToday)
	// ?count=N, defaults to 5
	api.GET("/records/recent", h.ListRecent)
}
