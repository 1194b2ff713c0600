package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes. Nil dependencies
// are reported as disabled.
type HealthHandler struct {
	DB    Pinger
	Redis func(ctx context.Context) error
}

// Health reports that the process is serving.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Ready checks the database and Redis. Redis is optional, so a failing
// Redis only shows up in the body.
func (h *HealthHandler) Ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	checks := echo.Map{"database": "disabled", "redis": "disabled"}
	status := http.StatusOK
	if h.DB != nil {
		checks["database"] = "ok"
		if err := h.DB.PingContext(ctx); err != nil {
			checks["database"] = err.Error()
			status = http.StatusServiceUnavailable
		}
	}
	if h.Redis != nil {
		checks["redis"] = "ok"
		if err := h.Redis(ctx); err != nil {
			checks["redis"] = err.Error()
		}
	}
	return c.JSON(status, checks)
}
