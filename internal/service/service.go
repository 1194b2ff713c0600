// Package service holds the business rules of the bookings ledger:
// schedules and issues, magazines and page budgets, content-size pricing,
// bookings and the reports built from them. Services depend on the store
// interfaces in package repository and never on a concrete backend.
package service

import (
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("bookingsapp/service")

// Clock returns the reference time for close-date checks.
type Clock func() time.Time

// SystemClock is the wall clock in UTC.
func SystemClock() time.Time { return time.Now().UTC() }

func orNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}

func orSystem(now Clock) Clock {
	if now == nil {
		return SystemClock
	}
	return now
}

func requireName(what, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrValidation.withf("%s is required", what)
	}
	return name, nil
}
