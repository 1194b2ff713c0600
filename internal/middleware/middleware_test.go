package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/config"
	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/utils"
)

const secret = "mw-secret"

func protected(e *echo.Echo, mws ...echo.MiddlewareFunc) {
	e.GET("/who", func(c echo.Context) error {
		id, ok := OwnerID(c)
		if !ok {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.JSON(http.StatusOK, echo.Map{"owner_id": id})
	}, mws...)
}

func do(e *echo.Echo, method, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth(t *testing.T) {
	e := echo.New()
	protected(e, JWTAuth(secret), RequireRole("OWNER"))

	tok, err := utils.NewAccessToken(secret, 9, "OWNER", 5)
	require.NoError(t, err)
	rec := do(e, http.MethodGet, "/who", tok.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"owner_id":9}`, rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/who", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/who", "junk").Code)

	other, err := utils.NewAccessToken(secret, 9, "READER", 5)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, do(e, http.MethodGet, "/who", other.Token).Code)
}

func TestRequestLogger_LevelByStatus(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	e := echo.New()
	e.Use(RequestLogger(zap.New(core)))
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/bad", func(c echo.Context) error { return c.NoContent(http.StatusBadRequest) })
	e.GET("/boom", func(c echo.Context) error { return echo.NewHTTPError(http.StatusInternalServerError) })

	rec := do(e, http.MethodGet, "/ok", "")
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
	do(e, http.MethodGet, "/bad", "")
	do(e, http.MethodGet, "/boom", "")

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, "/bad", entries[1].ContextMap()["path"])
}

func TestDisabledRedisMiddlewarePassesThrough(t *testing.T) {
	rc := NewReportCache(config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}}, nil, nil)
	e := echo.New()
	e.GET("/r", func(c echo.Context) error { return c.String(http.StatusOK, "fresh") },
		rc.Middleware(), rc.Invalidate(), NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil, nil))

	rec := do(e, http.MethodGet, "/r", "")
	assert.Equal(t, "fresh", rec.Body.String())
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestPayloadCodec(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"a":1}`))
	require.NoError(t, err)

	status, got, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, `{"a":1}`, string(body))

	_, _, _, ok = decodePayload(bs[:5])
	assert.False(t, ok)
}

func TestKeysAreOwnerScoped(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/reports/revenue?from=2026-01-01", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/reports/revenue")

	anon := cacheKey("cache", identity(c), 0, c)
	c.Set(ctxOwnerID, uint64(3))
	owned := cacheKey("cache", identity(c), 0, c)
	bumped := cacheKey("cache", identity(c), 1, c)

	assert.NotEqual(t, anon, owned)
	assert.NotEqual(t, owned, bumped)
	assert.Contains(t, owned, "cache:3:0:")
	assert.Equal(t, "rl:3:GET /v1/reports/revenue", rateKey("rl", c))
}
