package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/service"
)

// ReportHandler serves the read-only aggregation endpoints under
// /v1/reports. Responses may be served from the report cache.
type ReportHandler struct {
	Reports *service.ReportService
	Log     *zap.Logger
}

func NewReportHandler(s *service.ReportService, log *zap.Logger) *ReportHandler {
	return &ReportHandler{Reports: s, Log: log}
}

// CurrentIssue handles GET /v1/reports/magazines/:id/current-issue.
func (h *ReportHandler) CurrentIssue(c echo.Context) error {
	ctx, cancel, ownerID, ok := scope(c)
	if !ok {
		return nil
	}
	defer cancel()

	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	b, err := h.Reports.CurrentIssueBreakdown(ctx, ownerID, id)
	return reply(c, h.Log, http.StatusOK, b, err)
}

// Revenue handles GET /v1/reports/revenue?from=&to=. Both bounds are
// optional and apply to booking creation time.
func (h *ReportHandler) Revenue(c echo.Context) error {
	ctx, cancel, ownerID, ok := scope(c)
	if !ok {
		return nil
	}
	defer cancel()

	from, err := dateParam(c, "from", false)
	if err != nil {
		return badRequest(c, err.Error())
	}
	to, err := dateParam(c, "to", true)
	if err != nil {
		return badRequest(c, err.Error())
	}
	r, err := h.Reports.PublicationsRevenue(ctx, ownerID, from, to)
	return reply(c, h.Log, http.StatusOK, r, err)
}
