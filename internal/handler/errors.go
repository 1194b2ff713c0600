package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/service"
)

var kindStatus = map[service.Kind]int{
	service.KindValidation:    http.StatusBadRequest,
	service.KindNotFound:      http.StatusNotFound,
	service.KindDuplicate:     http.StatusConflict,
	service.KindProtected:     http.StatusConflict,
	service.KindUnknownIssue:  http.StatusUnprocessableEntity,
	service.KindInvalidRange:  http.StatusUnprocessableEntity,
	service.KindPriceNotFound: http.StatusUnprocessableEntity,
	service.KindIssueClosed:   http.StatusConflict,
	service.KindNoFutureIssue: http.StatusNotFound,
}

// statusOf maps a service error to its HTTP status.
func statusOf(err error) int {
	if errors.Is(err, service.ErrInvalidCreds) {
		return http.StatusUnauthorized
	}
	if st, ok := kindStatus[service.KindOf(err)]; ok {
		return st
	}
	return http.StatusInternalServerError
}

// writeError renders err as {"error", "code"}. Anything that is not a
// typed service error is logged and hidden behind a generic 500.
func writeError(c echo.Context, log *zap.Logger, err error) error {
	var se *service.Error
	if errors.As(err, &se) {
		msg := se.Message
		if msg == "" {
			msg = se.Error()
		}
		return c.JSON(statusOf(err), echo.Map{"error": msg, "code": se.Code})
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return c.JSON(http.StatusGatewayTimeout, echo.Map{"error": "request timed out", "code": "TIMEOUT"})
	}
	log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error", "code": "INTERNAL"})
}
