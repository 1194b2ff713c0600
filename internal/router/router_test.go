package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/config"
	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/repository/memory"
)

type api struct {
	t *testing.T
	e *echo.Echo
}

func newAPI(t *testing.T) *api {
	t.Helper()
	now := time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	store := memory.New()
	store.SetClock(clock)

	e := New(Deps{
		Cfg: config.Config{
			JWTSecret:         "router-secret",
			AccessTTLMin:      15,
			RefreshTTLDays:    30,
			BcryptCost:        4,
			DefaultPages:      32,
			SeedContentTypes:  []string{"Advert", "Article"},
			SeedBusinessTypes: []string{"Retail"},
		},
		Store: store,
		Clock: clock,
	})
	return &api{t: t, e: e}
}

func (a *api) call(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

// must performs the call, asserts the status and decodes the body into out.
func (a *api) must(status int, method, path, token string, body, out any) {
	a.t.Helper()
	rec := a.call(method, path, token, body)
	require.Equal(a.t, status, rec.Code, "%s %s: %s", method, path, rec.Body.String())
	if out != nil {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), out))
	}
}

func (a *api) register(email string) string {
	a.t.Helper()
	var res struct {
		Access struct {
			Token string `json:"token"`
		} `json:"access"`
	}
	a.must(http.StatusCreated, http.MethodPost, "/v1/auth/register", "",
		map[string]string{"email": email, "password": "correct horse"}, &res)
	return res.Access.Token
}

type idBody struct {
	ID uint64 `json:"id"`
}

type errBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func TestHealth(t *testing.T) {
	a := newAPI(t)
	rec := a.call(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = a.call(http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"database":"disabled","redis":"disabled"}`, rec.Body.String())
}

func TestAuthFlow(t *testing.T) {
	a := newAPI(t)
	body := map[string]string{"email": "office@example.com", "password": "correct horse"}

	var reg struct {
		Refresh struct {
			Token string `json:"token"`
		} `json:"refresh"`
	}
	a.must(http.StatusCreated, http.MethodPost, "/v1/auth/register", "", body, &reg)

	var e errBody
	a.must(http.StatusConflict, http.MethodPost, "/v1/auth/register", "", body, &e)
	assert.Equal(t, "EMAIL_EXISTS", e.Code)

	a.must(http.StatusUnauthorized, http.MethodPost, "/v1/auth/login", "",
		map[string]string{"email": "office@example.com", "password": "wrong horse"}, nil)

	var login struct {
		Access struct {
			Token string `json:"token"`
		} `json:"access"`
	}
	a.must(http.StatusOK, http.MethodPost, "/v1/auth/login", "", body, &login)
	a.must(http.StatusOK, http.MethodGet, "/v1/me", login.Access.Token, nil, nil)

	a.must(http.StatusOK, http.MethodPost, "/v1/auth/refresh", "",
		map[string]string{"refresh_token": reg.Refresh.Token}, nil)
	a.must(http.StatusUnauthorized, http.MethodPost, "/v1/auth/refresh", "",
		map[string]string{"refresh_token": reg.Refresh.Token}, nil)
	a.must(http.StatusBadRequest, http.MethodPost, "/v1/auth/logout", "", map[string]string{}, nil)

	a.must(http.StatusUnauthorized, http.MethodGet, "/v1/schedules", "", nil, nil)
}

func TestLedgerFlow(t *testing.T) {
	a := newAPI(t)
	tok := a.register("office@example.com")

	var sched struct {
		Schedule struct {
			ID uint64 `json:"id"`
		} `json:"schedule"`
	}
	a.must(http.StatusCreated, http.MethodPost, "/v1/schedules", tok, map[string]any{
		"name": "Monthly",
		"issues": []map[string]any{
			{"name": "Jan26", "close_date": "2025-12-20"},
			{"name": "Feb26", "close_date": "2026-01-20T00:00:00Z"},
		},
	}, &sched)

	var cur struct {
		Name string `json:"name"`
	}
	a.must(http.StatusOK, http.MethodGet, "/v1/issues/current", tok, nil, &cur)
	assert.Equal(t, "Feb26", cur.Name)

	var mag idBody
	a.must(http.StatusCreated, http.MethodPost, "/v1/magazines", tok,
		map[string]any{"name": "Local", "schedule_id": sched.Schedule.ID}, &mag)
	a.must(http.StatusOK, http.MethodPut, fmt.Sprintf("/v1/magazines/%d/pages/Feb26", mag.ID), tok,
		map[string]any{"total_pages": 40}, nil)

	var size idBody
	a.must(http.StatusCreated, http.MethodPost, "/v1/content-sizes", tok, map[string]any{
		"description": "Quarter page",
		"size":        "0.25",
		"prices":      map[string]string{fmt.Sprint(mag.ID): "100"},
	}, &size)

	var price struct {
		Price string `json:"price"`
	}
	a.must(http.StatusOK, http.MethodGet, fmt.Sprintf("/v1/content-sizes/%d/price?magazine_id=%d", size.ID, mag.ID), tok, nil, &price)
	assert.Equal(t, "100", price.Price)

	var types []struct {
		ID   uint64 `json:"id"`
		Name string `json:"name"`
	}
	a.must(http.StatusOK, http.MethodGet, "/v1/content-types", tok, nil, &types)
	var advert uint64
	for _, ct := range types {
		if ct.Name == "Advert" {
			advert = ct.ID
		}
	}
	require.NotZero(t, advert)

	var cust idBody
	a.must(http.StatusCreated, http.MethodPost, "/v1/customers", tok, map[string]any{"name": "Bakery"}, &cust)

	var booking struct {
		ID    uint64 `json:"id"`
		Total string `json:"total"`
	}
	a.must(http.StatusCreated, http.MethodPost, "/v1/bookings", tok, map[string]any{
		"customer_id":        cust.ID,
		"additional_charges": "20",
		"entries": []map[string]any{{
			"magazine_id":         mag.ID,
			"content_size_id":     size.ID,
			"content_type_id":     advert,
			"discount_percentage": "10",
			"discount_value":      "5",
			"start_issue":         "Feb26",
		}},
	}, &booking)
	assert.Equal(t, "105", booking.Total)

	var breakdown struct {
		Issue       string `json:"issue"`
		TotalPages  int    `json:"total_pages"`
		BookedPages string `json:"booked_pages"`
	}
	a.must(http.StatusOK, http.MethodGet, fmt.Sprintf("/v1/reports/magazines/%d/current-issue", mag.ID), tok, nil, &breakdown)
	assert.Equal(t, "Feb26", breakdown.Issue)
	assert.Equal(t, 40, breakdown.TotalPages)
	assert.Equal(t, "0.25", breakdown.BookedPages)

	var revenue struct {
		Total string `json:"total"`
	}
	a.must(http.StatusOK, http.MethodGet, "/v1/reports/revenue?from=2025-01-01", tok, nil, &revenue)
	assert.Equal(t, "105", revenue.Total)

	var list []idBody
	a.must(http.StatusOK, http.MethodGet, fmt.Sprintf("/v1/bookings?magazine_id=%d", mag.ID), tok, nil, &list)
	assert.Len(t, list, 1)

	var e errBody
	a.must(http.StatusConflict, http.MethodDelete, fmt.Sprintf("/v1/content-types/%d", advert), tok, nil, &e)
	assert.Equal(t, "PROTECTED", e.Code)
	a.must(http.StatusConflict, http.MethodDelete, fmt.Sprintf("/v1/magazines/%d", mag.ID), tok, nil, &e)
	assert.Equal(t, "MAGAZINE_IN_USE", e.Code)
	a.must(http.StatusConflict, http.MethodDelete, fmt.Sprintf("/v1/schedules/%d", sched.Schedule.ID), tok, nil, &e)
	assert.Equal(t, "SCHEDULE_IN_USE", e.Code)

	a.must(http.StatusNoContent, http.MethodDelete, fmt.Sprintf("/v1/bookings/%d", booking.ID), tok, nil, nil)
	a.must(http.StatusNotFound, http.MethodGet, fmt.Sprintf("/v1/bookings/%d", booking.ID), tok, nil, nil)
}

func TestBookingErrorsMapToStatus(t *testing.T) {
	a := newAPI(t)
	tok := a.register("office@example.com")

	var sched struct {
		Schedule struct {
			ID uint64 `json:"id"`
		} `json:"schedule"`
	}
	a.must(http.StatusCreated, http.MethodPost, "/v1/schedules", tok, map[string]any{
		"name":   "Monthly",
		"issues": []map[string]any{{"name": "Jan26", "close_date": "2026-01-20"}, {"name": "Feb26", "close_date": "2026-02-20"}},
	}, &sched)
	var mag, size, cust idBody
	a.must(http.StatusCreated, http.MethodPost, "/v1/magazines", tok,
		map[string]any{"name": "Local", "schedule_id": sched.Schedule.ID}, &mag)
	a.must(http.StatusCreated, http.MethodPost, "/v1/content-sizes", tok,
		map[string]any{"description": "Half page", "size": "0.5"}, &size)
	a.must(http.StatusCreated, http.MethodPost, "/v1/customers", tok, map[string]any{"name": "Garage"}, &cust)
	var types []idBody
	a.must(http.StatusOK, http.MethodGet, "/v1/content-types", tok, nil, &types)
	require.NotEmpty(t, types)

	entry := func(start, finish string) map[string]any {
		return map[string]any{
			"customer_id": cust.ID,
			"entries": []map[string]any{{
				"magazine_id": mag.ID, "content_size_id": size.ID, "content_type_id": types[0].ID,
				"start_issue": start, "finish_issue": finish, "list_price": "50",
			}},
		}
	}

	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"unknown issue", entry("Mar26", ""), http.StatusUnprocessableEntity, "UNKNOWN_ISSUE"},
		{"reversed range", entry("Feb26", "Jan26"), http.StatusUnprocessableEntity, "INVALID_RANGE"},
		{"no entries", map[string]any{"customer_id": cust.ID}, http.StatusBadRequest, "VALIDATION"},
		{"unknown customer", map[string]any{"customer_id": 9999}, http.StatusNotFound, "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e errBody
			a.must(tt.status, http.MethodPost, "/v1/bookings", tok, tt.body, &e)
			assert.Equal(t, tt.code, e.Code)
		})
	}

	var e errBody
	a.must(http.StatusUnprocessableEntity, http.MethodGet,
		fmt.Sprintf("/v1/content-sizes/%d/price?magazine_id=%d", size.ID, mag.ID), tok, nil, &e)
	assert.Equal(t, "PRICE_NOT_FOUND", e.Code)
	a.must(http.StatusBadRequest, http.MethodGet, "/v1/reports/revenue?from=2026-02-01&to=2026-01-01", tok, nil, &e)
	a.must(http.StatusBadRequest, http.MethodGet, "/v1/bookings?from=yesterday", tok, nil, nil)
}

func TestOwnersAreIsolated(t *testing.T) {
	a := newAPI(t)
	alice := a.register("alice@example.com")
	bob := a.register("bob@example.com")

	var cust idBody
	a.must(http.StatusCreated, http.MethodPost, "/v1/customers", alice, map[string]any{"name": "Bakery"}, &cust)
	a.must(http.StatusNotFound, http.MethodGet, fmt.Sprintf("/v1/customers/%d", cust.ID), bob, nil, nil)

	var list []idBody
	a.must(http.StatusOK, http.MethodGet, "/v1/customers", bob, nil, &list)
	assert.Empty(t, list)
}

func TestMagazineBindRequiresField(t *testing.T) {
	a := newAPI(t)
	tok := a.register("office@example.com")

	var mag struct {
		ID         uint64  `json:"id"`
		ScheduleID *uint64 `json:"schedule_id"`
	}
	a.must(http.StatusCreated, http.MethodPost, "/v1/magazines", tok, map[string]any{"name": "Local"}, &mag)
	a.must(http.StatusBadRequest, http.MethodPut, fmt.Sprintf("/v1/magazines/%d/schedule", mag.ID), tok, map[string]any{}, nil)
	a.must(http.StatusOK, http.MethodPut, fmt.Sprintf("/v1/magazines/%d/schedule", mag.ID), tok,
		map[string]any{"schedule_id": nil}, &mag)
	assert.Nil(t, mag.ScheduleID)
}
