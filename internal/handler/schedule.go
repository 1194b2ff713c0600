package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/service"
)

// ScheduleHandler serves /v1/schedules and /v1/issues.
type ScheduleHandler struct {
	Schedules *service.ScheduleService
	Log       *zap.Logger
}

func NewScheduleHandler(s *service.ScheduleService, log *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{Schedules: s, Log: log}
}

type issueReq struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	CloseDate Date   `json:"close_date"`
	Year      int    `json:"year"`
	Month     int    `json:"month"`
}

type scheduleReq struct {
	Name   string     `json:"name"`
	Issues []issueReq `json:"issues"`
}

func (r scheduleReq) issues() []service.IssueInput {
	out := make([]service.IssueInput, len(r.Issues))
	for i, is := range r.Issues {
		out[i] = service.IssueInput{ID: is.ID, Name: is.Name, CloseDate: is.CloseDate.Time, Year: is.Year, Month: is.Month}
	}
	return out
}

// Create handles POST /v1/schedules.
func (h *ScheduleHandler) Create(c echo.Context) error {
	ctx, cancel, ownerID, ok := scope(c)
	if !ok {
		return nil
	}
	defer cancel()

	var req scheduleReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	res, err := h.Schedules.Create(ctx, ownerID, req.Name, req.issues())
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, res)
}

// Update handles PUT /v1/schedules/:id. The issue list replaces the
// current one.
func (h *ScheduleHandler) Update(c echo.Context) error {
	ctx, cancel, ownerID, ok := scope(c)
	if !ok {
		return nil
	}
	defer cancel()

	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req scheduleReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	res, err := h.Schedules.Update(ctx, ownerID, id, req.Name, req.issues())
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *ScheduleHandler) Get(c echo.Context) error {
	ctx, cancel, ownerID, ok := scope(c)
	if !ok {
		return nil
	}
	defer cancel()

	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	sc, err := h.Schedules.Get(ctx, ownerID, id)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, sc)
}

func (h *ScheduleHandler) List(c echo.Context) error {
	ctx, cancel, ownerID, ok := scope(c)
	if !ok {
		return nil
	}
	defer cancel()

	items, err := h.Schedules.List(ctx, ownerID)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ScheduleHandler) Delete(c echo.Context) error {
	ctx, cancel, ownerID, ok := scope(c)
	if !ok {
		return nil
	}
	defer cancel()

	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	if err := h.Schedules.Delete(ctx, ownerID, id); err != nil {
		return writeError(c, h.Log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CurrentIssue handles GET /v1/issues/current?schedule_id=1,2. Without
// schedule_id every schedule of the owner is considered.
func (h *ScheduleHandler) CurrentIssue(c echo.Context) error {
	ctx, cancel, ownerID, ok := scope(c)
	if !ok {
		return nil
	}
	defer cancel()

	ids, err := idsParam(c, "schedule_id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	is, err := h.Schedules.CurrentIssue(ctx, ownerID, ids)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, is)
}
