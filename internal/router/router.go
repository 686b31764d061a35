// Package router builds the echo instance and registers every route of the
// API.
package router

import (
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/filmes-api/internal/config"
	"github.com/iliyamo/filmes-api/internal/handler"
	"github.com/iliyamo/filmes-api/internal/middleware"
	"github.com/iliyamo/filmes-api/internal/queue"
	"github.com/iliyamo/filmes-api/internal/repository"
	"github.com/iliyamo/filmes-api/internal/utils"
)

// Deps are the collaborators the router wires into handlers and
// middleware.  Redis and Events may be nil; the cache, the rate limit and
// event publishing are then disabled.
type Deps struct {
	Config config.Config
	DB     *sqlx.DB
	Redis  *redis.Client
	Events queue.Publisher
	Log    *zap.Logger
}

// New returns a ready to serve echo instance.
func New(d Deps) *echo.Echo {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Events == nil {
		d.Events = queue.NopPublisher{}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.ErrorHandler(d.Log)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(reg)

	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(metrics.Middleware())

	RegisterRoutes(e, d.DB)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))
	RegisterCatalog(e, d)
	return e
}

// RegisterRoutes registers the unauthenticated health checks.
func RegisterRoutes(e *echo.Echo, db *sqlx.DB) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(db))
}

// RegisterCatalog registers the /v1 resources.  Reads are public; writes
// require an ADMIN token when a JWT secret is configured.
func RegisterCatalog(e *echo.Echo, d Deps) {
	addresses := repository.NewAddressRepo(d.DB)
	theaters := repository.NewTheaterRepo(d.DB)
	movies := repository.NewMovieRepo(d.DB)
	sessions := repository.NewSessionRepo(d.DB)

	// Auth runs first so the rate limit can key on the token subject.
	v1 := e.Group("/v1")
	if d.Config.Auth.Enabled() {
		v1.Use(middleware.WritesOnly(middleware.JWTAuth(d.Config.Auth.Secret)))
		v1.Use(middleware.WritesOnly(middleware.RequireRole(utils.RoleAdmin)))
	}
	v1.Use(middleware.NewTokenBucket(d.Config.RateLimit, d.Redis, d.Log))
	v1.Use(middleware.NewRedisCache(d.Config.Cache, d.Redis, d.Log))

	ah := handler.NewAddressHandler(addresses, d.Events, d.Log)
	v1.POST("/addresses", ah.Create)
	v1.GET("/addresses", ah.List)
	v1.GET("/addresses/:id", ah.Get)
	v1.PUT("/addresses/:id", ah.Replace)
	v1.DELETE("/addresses/:id", ah.Delete)

	th := handler.NewTheaterHandler(theaters, addresses, sessions, d.Events, d.Log)
	v1.POST("/theaters", th.Create)
	v1.GET("/theaters", th.List)
	v1.GET("/theaters/:id", th.Get)
	v1.PUT("/theaters/:id", th.Replace)
	v1.DELETE("/theaters/:id", th.Delete)

	mh := handler.NewMovieHandler(movies, sessions, d.Events, d.Log)
	v1.POST("/movies", mh.Create)
	v1.GET("/movies", mh.List)
	v1.GET("/movies/:id", mh.Get)
	v1.PUT("/movies/:id", mh.Replace)
	v1.PATCH("/movies/:id", mh.Patch)
	v1.DELETE("/movies/:id", mh.Delete)

	sh := handler.NewSessionHandler(sessions, d.Events, d.Log)
	v1.POST("/sessions", sh.Create)
	v1.GET("/sessions", sh.List)
	v1.GET("/sessions/:movie_id/:theater_id", sh.Get)
	v1.DELETE("/sessions/:movie_id/:theater_id", sh.Delete)
}
