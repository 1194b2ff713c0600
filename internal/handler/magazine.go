package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/service"
)

// MagazineHandler serves /v1/magazines.
type MagazineHandler struct {
	Magazines *service.MagazineService
	Log       *zap.Logger
}

func NewMagazineHandler(s *service.MagazineService, log *zap.Logger) *MagazineHandler {
	return &MagazineHandler{Magazines: s, Log: log}
}

type magazineReq struct {
	Name       string  `json:"name"`
	ScheduleID *uint64 `json:"schedule_id"`
}

// Create handles POST /v1/magazines.
func (h *MagazineHandler) Create(c echo.Context) error {
	ctx, cancel, ownerID, ok := scope(c)
	if !ok {
		return nil
	}
	defer cancel()

	var req magazineReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	m, err := h.Magazines.Create(ctx, ownerID, req.Name, req.ScheduleID)
	return reply(c, h.Log, http.StatusCreated, m, err)
}

// List handles GET /v1/magazines?archived=true.
func (h *MagazineHandler) List(c echo.Context) error {
	ctx, cancel, ownerID, ok := scope(c)
	if !ok {
		return nil
	}
	defer cancel()

	items, err := h.Magazines.List(ctx, ownerID, archivedParam(c))
	return reply(c, h.Log, http.StatusOK, items, err)
}

func (h *MagazineHandler) Get(c echo.Context) error {
	ctx, cancel, ownerID, ok := scope(c)
	if !ok {
		return nil
	}
	defer cancel()

	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	m, err := h.Magazines.Get(ctx, ownerID, id)
	return reply(c, h.Log, http.StatusOK, m, err)
}

// Rename handles PUT /v1/magazines/:id.
func (h *MagazineHandler) Rename(c echo.Context) error {
	ctx, cancel, ownerID, ok := scope(c)
	if !ok {
		return nil
	}
	defer cancel()

	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req magazineReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	m, err := h.Magazines.Rename(ctx, ownerID, id, req.Name)
	return reply(c, h.Log, http.StatusOK, m, err)
}

// Bind handles PUT /v1/magazines/:id/schedule. The body must carry
// schedule_id; null unbinds.
func (h *MagazineHandler) Bind(c echo.Context) error {
	ctx, cancel, ownerID, ok := scope(c)
	if !ok {
		return nil
	}
	defer cancel()

	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return badRequest(c, "invalid request body")
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return badRequest(c, "invalid request body")
	}
	if _, ok := raw["schedule_id"]; !ok {
		return badRequest(c, "schedule_id is required (null to unbind)")
	}
	var req magazineReq
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&req); err != nil {
		return badRequest(c, "invalid schedule_id")
	}
	m, err := h.Magazines.Bind(ctx, ownerID, id, req.ScheduleID)
	return reply(c, h.Log, http.StatusOK, m, err)
}

// PageBudget handles GET /v1/magazines/:id/pages.
func (h *MagazineHandler) PageBudget(c echo.Context) error {
	ctx, cancel, ownerID, ok := scope(c)
	if !ok {
		return nil
	}
	defer cancel()

	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	lines, err := h.Magazines.PageBudget(ctx, ownerID, id)
	return reply(c, h.Log, http.StatusOK, echo.Map{
		"default_pages": h.Magazines.DefaultPages(),
		"issues":        lines,
	}, err)
}

// SetPageBudget handles PUT /v1/magazines/:id/pages/:issue.
func (h *MagazineHandler) SetPageBudget(c echo.Context) error {
	ctx, cancel, ownerID, ok := scope(c)
	if !ok {
		return nil
	}
	defer cancel()

	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req struct {
		TotalPages int `json:"total_pages"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	m, err := h.Magazines.SetPageBudget(ctx, ownerID, id, c.Param("issue"), req.TotalPages)
	return reply(c, h.Log, http.StatusOK, m, err)
}

// ResetPageBudget handles DELETE /v1/magazines/:id/pages/:issue.
func (h *MagazineHandler) ResetPageBudget(c echo.Context) error {
	ctx, cancel, ownerID, ok := scope(c)
	if !ok {
		return nil
	}
	defer cancel()

	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	m, err := h.Magazines.ResetPageBudget(ctx, ownerID, id, c.Param("issue"))
	return reply(c, h.Log, http.StatusOK, m, err)
}

func (h *MagazineHandler) Archive(c echo.Context) error {
	return h.setArchived(c, true)
}

func (h *MagazineHandler) Unarchive(c echo.Context) error {
	return h.setArchived(c, false)
}

func (h *MagazineHandler) setArchived(c echo.Context, archived bool) error {
	ctx, cancel, ownerID, ok := scope(c)
	if !ok {
		return nil
	}
	defer cancel()

	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	fn := h.Magazines.Unarchive
	if archived {
		fn = h.Magazines.Archive
	}
	m, err := fn(ctx, ownerID, id)
	return reply(c, h.Log, http.StatusOK, m, err)
}

func (h *MagazineHandler) Delete(c echo.Context) error {
	ctx, cancel, ownerID, ok := scope(c)
	if !ok {
		return nil
	}
	defer cancel()

	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	return noContent(c, h.Log, h.Magazines.Delete(ctx, ownerID, id))
}
