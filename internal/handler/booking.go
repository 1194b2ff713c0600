package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/repository"
	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/service"
)

// BookingHandler serves /v1/bookings.
type BookingHandler struct {
	Bookings *service.BookingService
	Log      *zap.Logger
}

func NewBookingHandler(s *service.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{Bookings: s, Log: log}
}

// Create handles POST /v1/bookings. All entries are priced and validated
// before anything is stored.
func (h *BookingHandler) Create(c echo.Context) error {
	ctx, cancel, ownerID, ok := scope(c)
	if !ok {
		return nil
	}
	defer cancel()

	var req service.BookingInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	b, err := h.Bookings.Create(ctx, ownerID, req)
	return reply(c, h.Log, http.StatusCreated, b, err)
}

// Update handles PUT /v1/bookings/:id; the entry list replaces the stored
// one.
func (h *BookingHandler) Update(c echo.Context) error {
	ctx, cancel, ownerID, ok := scope(c)
	if !ok {
		return nil
	}
	defer cancel()

	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req service.BookingInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	b, err := h.Bookings.Update(ctx, ownerID, id, req)
	return reply(c, h.Log, http.StatusOK, b, err)
}

func (h *BookingHandler) Get(c echo.Context) error {
	ctx, cancel, ownerID, ok := scope(c)
	if !ok {
		return nil
	}
	defer cancel()

	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	b, err := h.Bookings.Get(ctx, ownerID, id)
	return reply(c, h.Log, http.StatusOK, b, err)
}

// List handles GET /v1/bookings?customer_id=&magazine_id=&from=&to=.
func (h *BookingHandler) List(c echo.Context) error {
	ctx, cancel, ownerID, ok := scope(c)
	if !ok {
		return nil
	}
	defer cancel()

	var f repository.BookingFilter
	var err error
	if f.CustomerID, err = optionalID(c, "customer_id"); err != nil {
		return badRequest(c, err.Error())
	}
	if f.MagazineID, err = optionalID(c, "magazine_id"); err != nil {
		return badRequest(c, err.Error())
	}
	if f.From, err = dateParam(c, "from", false); err != nil {
		return badRequest(c, err.Error())
	}
	if f.To, err = dateParam(c, "to", true); err != nil {
		return badRequest(c, err.Error())
	}
	items, err := h.Bookings.List(ctx, ownerID, f)
	return reply(c, h.Log, http.StatusOK, items, err)
}

func (h *BookingHandler) Delete(c echo.Context) error {
	ctx, cancel, ownerID, ok := scope(c)
	if !ok {
		return nil
	}
	defer cancel()

	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	return noContent(c, h.Log, h.Bookings.Delete(ctx, ownerID, id))
}

func optionalID(c echo.Context, name string) (uint64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}
