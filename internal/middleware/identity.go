package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// Context keys set by JWTAuth.
const (
	ctxOwnerID = "user_id"
	ctxRole    = "role"
)

// OwnerID returns the authenticated owner stored by JWTAuth.
func OwnerID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(ctxOwnerID).(uint64)
	return id, ok && id != 0
}

// identity is the owner part of cache and rate-limit keys, "anon" for
// unauthenticated requests.
func identity(c echo.Context) string {
	if id, ok := OwnerID(c); ok {
		return strconv.FormatUint(id, 10)
	}
	return "anon"
}
