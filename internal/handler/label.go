package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/model"
	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/service"
)

// LabelHandler serves one lookup list: /v1/content-types or
// /v1/business-types.
type LabelHandler struct {
	Labels *service.LabelService
	Kind   model.LabelKind
	Log    *zap.Logger
}

func NewLabelHandler(s *service.LabelService, kind model.LabelKind, log *zap.Logger) *LabelHandler {
	return &LabelHandler{Labels: s, Kind: kind, Log: log}
}

type labelReq struct {
	Name string `json:"name"`
}

func (h *LabelHandler) Create(c echo.Context) error {
	ctx, cancel, ownerID, ok := scope(c)
	if !ok {
		return nil
	}
	defer cancel()

	var req labelReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	l, err := h.Labels.Create(ctx, ownerID, h.Kind, req.Name)
	return reply(c, h.Log, http.StatusCreated, l, err)
}

func (h *LabelHandler) List(c echo.Context) error {
	ctx, cancel, ownerID, ok := scope(c)
	if !ok {
		return nil
	}
	defer cancel()

	items, err := h.Labels.List(ctx, ownerID, h.Kind, archivedParam(c))
	return reply(c, h.Log, http.StatusOK, items, err)
}

func (h *LabelHandler) Get(c echo.Context) error {
	ctx, cancel, ownerID, ok := scope(c)
	if !ok {
		return nil
	}
	defer cancel()

	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	l, err := h.Labels.Get(ctx, ownerID, h.Kind, id)
	return reply(c, h.Log, http.StatusOK, l, err)
}

func (h *LabelHandler) Rename(c echo.Context) error {
	ctx, cancel, ownerID, ok := scope(c)
	if !ok {
		return nil
	}
	defer cancel()

	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req labelReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	l, err := h.Labels.Rename(ctx, ownerID, h.Kind, id, req.Name)
	return reply(c, h.Log, http.StatusOK, l, err)
}

func (h *LabelHandler) Archive(c echo.Context) error {
	return h.setArchived(c, true)
}

func (h *LabelHandler) Unarchive(c echo.Context) error {
	return h.setArchived(c, false)
}

func (h *LabelHandler) setArchived(c echo.Context, archived bool) error {
	ctx, cancel, ownerID, ok := scope(c)
	if !ok {
		return nil
	}
	defer cancel()

	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	fn := h.Labels.Unarchive
	if archived {
		fn = h.Labels.Archive
	}
	l, err := fn(ctx, ownerID, h.Kind, id)
	return reply(c, h.Log, http.StatusOK, l, err)
}

// Delete removes a label. Defaults and labels in use are protected.
func (h *LabelHandler) Delete(c echo.Context) error {
	ctx, cancel, ownerID, ok := scope(c)
	if !ok {
		return nil
	}
	defer cancel()

	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	return noContent(c, h.Log, h.Labels.Delete(ctx, ownerID, h.Kind, id))
}

// SeedDefaults handles POST /v1/labels/seed and restores the default
// content and business types of the owner.
func (h *LabelHandler) SeedDefaults(c echo.Context) error {
	ctx, cancel, ownerID, ok := scope(c)
	if !ok {
		return nil
	}
	defer cancel()

	return noContent(c, h.Log, h.Labels.SeedDefaults(ctx, ownerID))
}
