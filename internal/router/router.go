// Package router assembles the HTTP API: services over a store, their
// handlers, and the middleware chain.
package router

import (
	"context"
	"database/sql"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/config"
	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/handler"
	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/middleware"
	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/model"
	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/queue"
	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/repository"
	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/service"
)

// Deps are the collaborators of the API. Publisher, Redis and DB may be
// nil; Clock defaults to the wall clock.
type Deps struct {
	Cfg       config.Config
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
	Store     repository.Store
	Publisher service.EventPublisher
	Redis     *redis.Client
	DB        *sql.DB
	Clock     service.Clock
	Log       *zap.Logger
}

// Handlers groups every HTTP handler of the API.
type Handlers struct {
	Auth          *handler.AuthHandler
	Health        *handler.HealthHandler
	Schedules     *handler.ScheduleHandler
	Magazines     *handler.MagazineHandler
	ContentSizes  *handler.ContentSizeHandler
	ContentTypes  *handler.LabelHandler
	BusinessTypes *handler.LabelHandler
	Customers     *handler.CustomerHandler
	Bookings      *handler.BookingHandler
	Reports       *handler.ReportHandler
}

// NewHandlers builds the services over d.Store and wraps them in handlers.
func NewHandlers(d Deps) *Handlers {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	pub := d.Publisher
	if pub == nil {
		pub = queue.NopPublisher{}
	}
	cfg := d.Cfg

	labels := service.NewLabelService(d.Store, cfg.SeedContentTypes, cfg.SeedBusinessTypes, log.Named("labels"))
	auth := service.NewAuthService(d.Store, d.Store, labels, service.AuthConfig{
		JWTSecret:      cfg.JWTSecret,
		AccessTTLMin:   cfg.AccessTTLMin,
		RefreshTTLDays: cfg.RefreshTTLDays,
		BcryptCost:     cfg.BcryptCost,
	}, log.Named("auth"))

	health := &handler.HealthHandler{}
	if d.DB != nil {
		health.DB = d.DB
	}
	if d.Redis != nil {
		rdb := d.Redis
		health.Redis = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	return &Handlers{
		Auth:          handler.NewAuthHandler(auth, log),
		Health:        health,
		Schedules:     handler.NewScheduleHandler(service.NewScheduleService(d.Store, log.Named("schedules"), d.Clock), log),
		Magazines:     handler.NewMagazineHandler(service.NewMagazineService(d.Store, d.Store, cfg.DefaultPages, log.Named("magazines")), log),
		ContentSizes:  handler.NewContentSizeHandler(service.NewPricingService(d.Store, d.Store), log),
		ContentTypes:  handler.NewLabelHandler(labels, model.ContentTypeLabel, log),
		BusinessTypes: handler.NewLabelHandler(labels, model.BusinessTypeLabel, log),
		Customers:     handler.NewCustomerHandler(service.NewCustomerService(d.Store, d.Store), log),
		Bookings:      handler.NewBookingHandler(service.NewBookingService(d.Store, pub, log.Named("bookings"), d.Clock), log),
		Reports:       handler.NewReportHandler(service.NewReportService(d.Store, cfg.DefaultPages, d.Clock), log),
	}
}

// New returns an Echo instance with every route registered.
func New(d Deps) *echo.Echo {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(log.Named("http")))

	h := NewHandlers(d)
	RegisterRoutes(e, h.Health)
	RegisterAuth(e, h.Auth, d.Cfg.JWTSecret)
	RegisterLedger(e, h, d.Cfg.JWTSecret,
		middleware.NewReportCache(d.Cache, d.Redis, log.Named("cache")),
		middleware.NewTokenBucket(d.RateLimit, d.Redis, log.Named("ratelimit")))
	return e
}

// RegisterRoutes registers the unauthenticated probes.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", h.Ready)
}

// RegisterAuth registers /v1/auth and the session endpoints that need an
// access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleOwner))
	auth.GET("/me", a.Me)
	auth.POST("/auth/logout-all", a.LogoutAll)
}
