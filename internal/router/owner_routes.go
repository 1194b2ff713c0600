package router

import (
	"github.com/labstack/echo/v4"

	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/handler"
	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/middleware"
	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/model"
)

// RegisterLedger registers the owner-scoped ledger endpoints under /v1.
// All routes require a valid JWT and the OWNER role. Successful writes
// invalidate the owner's cached reports.
func RegisterLedger(e *echo.Echo, h *Handlers, jwtSecret string, cache *middleware.ReportCache, limit echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleOwner),
		limit,
		cache.Invalidate(),
	)

	// ---- Schedules ----
	g.POST("/schedules", h.Schedules.Create)
	g.GET("/schedules", h.Schedules.List)
	g.GET("/schedules/:id", h.Schedules.Get)
	g.PUT("/schedules/:id", h.Schedules.Update)
	g.DELETE("/schedules/:id", h.Schedules.Delete)
	g.GET("/issues/current", h.Schedules.CurrentIssue)

	// ---- Magazines ----
	g.POST("/magazines", h.Magazines.Create)
	g.GET("/magazines", h.Magazines.List)
	g.GET("/magazines/:id", h.Magazines.Get)
	g.PUT("/magazines/:id", h.Magazines.Rename)
	g.PUT("/magazines/:id/schedule", h.Magazines.Bind)
	g.GET("/magazines/:id/pages", h.Magazines.PageBudget)
	g.PUT("/magazines/:id/pages/:issue", h.Magazines.SetPageBudget)
	g.DELETE("/magazines/:id/pages/:issue", h.Magazines.ResetPageBudget)
	g.POST("/magazines/:id/archive", h.Magazines.Archive)
	g.POST("/magazines/:id/unarchive", h.Magazines.Unarchive)
	g.DELETE("/magazines/:id", h.Magazines.Delete)

	// ---- Content sizes and prices ----
	g.POST("/content-sizes", h.ContentSizes.Create)
	g.GET("/content-sizes", h.ContentSizes.List)
	g.GET("/content-sizes/:id", h.ContentSizes.Get)
	g.PUT("/content-sizes/:id", h.ContentSizes.Update)
	g.GET("/content-sizes/:id/price", h.ContentSizes.Price)
	g.PUT("/content-sizes/:id/prices/:magazine_id", h.ContentSizes.SetPrice)
	g.DELETE("/content-sizes/:id/prices/:magazine_id", h.ContentSizes.RemovePrice)
	g.POST("/content-sizes/:id/archive", h.ContentSizes.Archive)
	g.POST("/content-sizes/:id/unarchive", h.ContentSizes.Unarchive)
	g.DELETE("/content-sizes/:id", h.ContentSizes.Delete)

	// ---- Content types and business types ----
	registerLabels(g.Group("/content-types"), h.ContentTypes)
	registerLabels(g.Group("/business-types"), h.BusinessTypes)
	g.POST("/labels/seed", h.ContentTypes.SeedDefaults)

	// ---- Customers ----
	g.POST("/customers", h.Customers.Create)
	g.GET("/customers", h.Customers.List)
	g.GET("/customers/:id", h.Customers.Get)
	g.PUT("/customers/:id", h.Customers.Update)
	g.POST("/customers/:id/archive", h.Customers.Archive)
	g.POST("/customers/:id/unarchive", h.Customers.Unarchive)
	g.DELETE("/customers/:id", h.Customers.Delete)

	// ---- Bookings ----
	g.POST("/bookings", h.Bookings.Create)
	g.GET("/bookings", h.Bookings.List)
	g.GET("/bookings/:id", h.Bookings.Get)
	g.PUT("/bookings/:id", h.Bookings.Update)
	g.DELETE("/bookings/:id", h.Bookings.Delete)

	// ---- Reports ----
	r := g.Group("/reports", cache.Middleware())
	r.GET("/magazines/:id/current-issue", h.Reports.CurrentIssue)
	r.GET("/revenue", h.Reports.Revenue)
}

func registerLabels(g *echo.Group, h *handler.LabelHandler) {
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Rename)
	g.POST("/:id/archive", h.Archive)
	g.POST("/:id/unarchive", h.Unarchive)
	g.DELETE("/:id", h.Delete)
}
