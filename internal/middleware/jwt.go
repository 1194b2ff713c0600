package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/utils"
)

// JWTAuth validates the Bearer access token and stores the owner ID
// (uint64) and role in the context for handlers and later middleware.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			claims, err := utils.ParseAccessToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			ownerID, _ := claims.OwnerID()
			c.Set(ctxOwnerID, ownerID)
			c.Set(ctxRole, claims.Role)
			return next(c)
		}
	}
}
