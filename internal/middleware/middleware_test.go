package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-pos/internal/config"
	"github.com/iliyamo/restaurant-pos/internal/utils"
)

const secret = "test-secret"

func protected(roles ...string) *echo.Echo {
	e := echo.New()
	g := e.Group("/v1", JWTAuth(secret), RequireRole(roles...))
	g.GET("/whoami", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"staff": StaffID(c), "role": Role(c)})
	})
	return e
}

func call(e *echo.Echo, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/whoami", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func issue(t *testing.T, key, role string) string {
	t.Helper()
	tok, err := utils.NewAccessToken(key, "staff-1", role, time.Hour)
	require.NoError(t, err)
	return tok.Token
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	rec := call(protected(RoleStaff, RoleManager), issue(t, secret, "manager"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"staff":"staff-1","role":"MANAGER"}`, rec.Body.String())
}

func TestJWTAuthRejects(t *testing.T) {
	e := protected(RoleStaff)
	assert.Equal(t, http.StatusUnauthorized, call(e, "").Code)
	assert.Equal(t, http.StatusUnauthorized, call(e, "garbage").Code)
	assert.Equal(t, http.StatusUnauthorized, call(e, issue(t, "other-secret", RoleStaff)).Code)
}

func TestRequireRoleForbids(t *testing.T) {
	rec := call(protected(RoleManager), issue(t, secret, RoleStaff))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCanOverride(t *testing.T) {
	assert.True(t, CanOverride(RoleManager))
	assert.True(t, CanOverride(RoleAdmin))
	assert.False(t, CanOverride(RoleStaff))
	assert.False(t, CanOverride(""))
}

func TestTokenBucketDisabledPassesThrough(t *testing.T) {
	log, _ := test.NewNullLogger()
	e := echo.New()
	e.Use(NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil, log))
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	}
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/orders", nil)
	req.Header.Set("X-Real-Ip", "10.0.0.1")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/orders")

	assert.Equal(t, "rl:ip:10.0.0.1:user:anon:route:POST /v1/orders", buildRateKey(config.RateLimitConfig{Prefix: "rl"}, c))
	c.Set(ContextStaffID, "staff-1")
	assert.Equal(t, "rl:user:staff-1", buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}, c))
}

func TestRequestLogger(t *testing.T) {
	log, hook := test.NewNullLogger()
	e := echo.New()
	e.Use(RequestLogger(log))
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.GET("/boom", func(c echo.Context) error { return echo.NewHTTPError(http.StatusBadGateway, "down") })

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-42")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "request handled", hook.LastEntry().Message)
	assert.Equal(t, http.StatusNoContent, hook.LastEntry().Data["status"])
	assert.Equal(t, "req-42", hook.LastEntry().Data["request_id"])
	assert.Equal(t, "req-42", rec.Header().Get(echo.HeaderXRequestID))

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "request failed", hook.LastEntry().Message)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}
