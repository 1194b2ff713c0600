package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/model"
	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/service"
)

// ContentSizeHandler serves /v1/content-sizes and their price table.
type ContentSizeHandler struct {
	Pricing *service.PricingService
	Log     *zap.Logger
}

func NewContentSizeHandler(s *service.PricingService, log *zap.Logger) *ContentSizeHandler {
	return &ContentSizeHandler{Pricing: s, Log: log}
}

// Create handles POST /v1/content-sizes.
func (h *ContentSizeHandler) Create(c echo.Context) error {
	ctx, cancel, ownerID, ok := scope(c)
	if !ok {
		return nil
	}
	defer cancel()

	var req service.ContentSizeInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	cs, err := h.Pricing.Create(ctx, ownerID, req)
	return reply(c, h.Log, http.StatusCreated, cs, err)
}

func (h *ContentSizeHandler) List(c echo.Context) error {
	ctx, cancel, ownerID, ok := scope(c)
	if !ok {
		return nil
	}
	defer cancel()

	items, err := h.Pricing.List(ctx, ownerID, archivedParam(c))
	return reply(c, h.Log, http.StatusOK, items, err)
}

func (h *ContentSizeHandler) Get(c echo.Context) error {
	ctx, cancel, ownerID, ok := scope(c)
	if !ok {
		return nil
	}
	defer cancel()

	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	cs, err := h.Pricing.Get(ctx, ownerID, id)
	return reply(c, h.Log, http.StatusOK, cs, err)
}

// Update handles PUT /v1/content-sizes/:id. Prices are managed through
// the price routes.
func (h *ContentSizeHandler) Update(c echo.Context) error {
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
		Description string          `json:"description"`
		Size        decimal.Decimal `json:"size"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	cs, err := h.Pricing.Update(ctx, ownerID, id, req.Description, req.Size)
	return reply(c, h.Log, http.StatusOK, cs, err)
}

// SetPrice handles PUT /v1/content-sizes/:id/prices/:magazine_id.
func (h *ContentSizeHandler) SetPrice(c echo.Context) error {
	ctx, cancel, ownerID, ok := scope(c)
	if !ok {
		return nil
	}
	defer cancel()

	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	magazineID, err := paramID(c, "magazine_id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req struct {
		Price *decimal.Decimal `json:"price"`
	}
	if err := c.Bind(&req); err != nil || req.Price == nil {
		return badRequest(c, "price is required")
	}
	cs, err := h.Pricing.SetPrice(ctx, ownerID, id, magazineID, *req.Price)
	return reply(c, h.Log, http.StatusOK, cs, err)
}

// RemovePrice handles DELETE /v1/content-sizes/:id/prices/:magazine_id.
func (h *ContentSizeHandler) RemovePrice(c echo.Context) error {
	ctx, cancel, ownerID, ok := scope(c)
	if !ok {
		return nil
	}
	defer cancel()

	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	magazineID, err := paramID(c, "magazine_id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	cs, err := h.Pricing.RemovePrice(ctx, ownerID, id, magazineID)
	return reply(c, h.Log, http.StatusOK, cs, err)
}

// Price handles GET /v1/content-sizes/:id/price?magazine_id=1,2&mode=sum.
// A single magazine without mode returns its own price; otherwise mode
// (sum or mean) is required.
func (h *ContentSizeHandler) Price(c echo.Context) error {
	ctx, cancel, ownerID, ok := scope(c)
	if !ok {
		return nil
	}
	defer cancel()

	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	magazineIDs, err := idsParam(c, "magazine_id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	mode := model.PriceMode(strings.ToLower(c.QueryParam("mode")))

	var price decimal.Decimal
	if len(magazineIDs) == 1 && mode == "" {
		price, err = h.Pricing.GetPrice(ctx, ownerID, id, magazineIDs[0])
	} else {
		price, err = h.Pricing.AggregatePrice(ctx, ownerID, id, magazineIDs, mode)
	}
	return reply(c, h.Log, http.StatusOK, echo.Map{
		"content_size_id": id,
		"magazine_ids":    magazineIDs,
		"mode":            mode,
		"price":           price,
	}, err)
}

func (h *ContentSizeHandler) Archive(c echo.Context) error {
	return h.setArchived(c, true)
}

func (h *ContentSizeHandler) Unarchive(c echo.Context) error {
	return h.setArchived(c, false)
}

func (h *ContentSizeHandler) setArchived(c echo.Context, archived bool) error {
	ctx, cancel, ownerID, ok := scope(c)
	if !ok {
		return nil
	}
	defer cancel()

	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	fn := h.Pricing.Unarchive
	if archived {
		fn = h.Pricing.Archive
	}
	cs, err := fn(ctx, ownerID, id)
	return reply(c, h.Log, http.StatusOK, cs, err)
}

func (h *ContentSizeHandler) Delete(c echo.Context) error {
	ctx, cancel, ownerID, ok := scope(c)
	if !ok {
		return nil
	}
	defer cancel()

	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	return noContent(c, h.Log, h.Pricing.Delete(ctx, ownerID, id))
}
