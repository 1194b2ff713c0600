package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/middleware"
)

// requestTimeout bounds the store work of a single request.
const requestTimeout = 5 * time.Second

var errNoOwner = errors.New("invalid user_id in context")

// getUserID returns the owner set by the JWT middleware.
func getUserID(c echo.Context) (uint64, error) {
	id, ok := middleware.OwnerID(c)
	if !ok {
		return 0, errNoOwner
	}
	return id, nil
}

// scope returns the owner and a request context with timeout. When it
// returns ok=false the 401 response has been written.
func scope(c echo.Context) (context.Context, context.CancelFunc, uint64, bool) {
	ownerID, err := getUserID(c)
	if err != nil {
		_ = c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		return nil, nil, 0, false
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	return ctx, cancel, ownerID, true
}

func paramID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg, "code": "BAD_REQUEST"})
}

// archivedParam reads ?archived=true.
func archivedParam(c echo.Context) bool {
	b, _ := strconv.ParseBool(c.QueryParam("archived"))
	return b
}

// idsParam reads a repeated or comma separated id query parameter.
func idsParam(c echo.Context, name string) ([]uint64, error) {
	var out []uint64
	for _, raw := range c.QueryParams()[name] {
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p == "" {
				continue
			}
			id, err := strconv.ParseUint(p, 10, 64)
			if err != nil || id == 0 {
				return nil, errors.New("invalid " + name)
			}
			out = append(out, id)
		}
	}
	return out, nil
}

// Date accepts "2006-01-02" as well as RFC 3339 timestamps. A bare date
// is the last second of that day in UTC, so an issue closing on the 20th
// is still open during the 20th.
type Date struct{ time.Time }

const endOfDay = 24*time.Hour - time.Second

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, errors.New("dates must be YYYY-MM-DD or RFC 3339")
	}
	return t.UTC(), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(strings.Trim(string(b), `"`))
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := parseDate(s)
	if err != nil {
		return err
	}
	if len(s) == len(time.DateOnly) {
		t = t.Add(endOfDay)
	}
	d.Time = t
	return nil
}

// dateParam reads an optional date query parameter. to=true moves a bare
// date to the end of that day.
func dateParam(c echo.Context, name string, to bool) (*time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	t, err := parseDate(raw)
	if err != nil {
		return nil, errors.New("invalid " + name + ": " + err.Error())
	}
	if to && len(strings.TrimSpace(raw)) == len(time.DateOnly) {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// reply writes v with status, or the mapped error.
func reply(c echo.Context, log *zap.Logger, status int, v any, err error) error {
	if err != nil {
		return writeError(c, log, err)
	}
	return c.JSON(status, v)
}

// noContent writes 204, or the mapped error.
func noContent(c echo.Context, log *zap.Logger, err error) error {
	if err != nil {
		return writeError(c, log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
