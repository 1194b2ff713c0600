package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/service"
)

// CustomerHandler serves /v1/customers.
type CustomerHandler struct {
	Customers *service.CustomerService
	Log       *zap.Logger
}

func NewCustomerHandler(s *service.CustomerService, log *zap.Logger) *CustomerHandler {
	return &CustomerHandler{Customers: s, Log: log}
}

func (h *CustomerHandler) Create(c echo.Context) error {
	ctx, cancel, ownerID, ok := scope(c)
	if !ok {
		return nil
	}
	defer cancel()

	var req service.CustomerInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	cu, err := h.Customers.Create(ctx, ownerID, req)
	return reply(c, h.Log, http.StatusCreated, cu, err)
}

func (h *CustomerHandler) List(c echo.Context) error {
	ctx, cancel, ownerID, ok := scope(c)
	if !ok {
		return nil
	}
	defer cancel()

	items, err := h.Customers.List(ctx, ownerID, archivedParam(c))
	return reply(c, h.Log, http.StatusOK, items, err)
}

func (h *CustomerHandler) Get(c echo.Context) error {
	ctx, cancel, ownerID, ok := scope(c)
	if !ok {
		return nil
	}
	defer cancel()

	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	cu, err := h.Customers.Get(ctx, ownerID, id)
	return reply(c, h.Log, http.StatusOK, cu, err)
}

// Update handles PUT /v1/customers/:id with the full writable record.
func (h *CustomerHandler) Update(c echo.Context) error {
	ctx, cancel, ownerID, ok := scope(c)
	if !ok {
		return nil
	}
	defer cancel()

	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req service.CustomerInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	cu, err := h.Customers.Update(ctx, ownerID, id, req)
	return reply(c, h.Log, http.StatusOK, cu, err)
}

func (h *CustomerHandler) Archive(c echo.Context) error {
	return h.setArchived(c, true)
}

func (h *CustomerHandler) Unarchive(c echo.Context) error {
	return h.setArchived(c, false)
}

func (h *CustomerHandler) setArchived(c echo.Context, archived bool) error {
	ctx, cancel, ownerID, ok := scope(c)
	if !ok {
		return nil
	}
	defer cancel()

	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	fn := h.Customers.Unarchive
	if archived {
		fn = h.Customers.Archive
	}
	cu, err := fn(ctx, ownerID, id)
	return reply(c, h.Log, http.StatusOK, cu, err)
}

func (h *CustomerHandler) Delete(c echo.Context) error {
	ctx, cancel, ownerID, ok := scope(c)
	if !ok {
		return nil
	}
	defer cancel()

	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	return noContent(c, h.Log, h.Customers.Delete(ctx, ownerID, id))
}
