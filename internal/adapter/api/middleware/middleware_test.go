package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhub/internal/domain/entity"
	"eventhub/internal/infrastructure/cache"
	"eventhub/internal/infrastructure/token"
	"eventhub/pkg/response"
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = response.HTTPErrorHandler
	return e
}

func issue(t *testing.T, m *token.JWTManager, role entity.Role) string {
	t.Helper()
	raw, _, err := m.Issue(&entity.User{ID: "u1", Email: "u1@example.com", Role: role})
	require.NoError(t, err)
	return raw
}

func whoami(c echo.Context) error {
	caller := Caller(c)
	return c.String(http.StatusOK, caller.ID+":"+string(caller.Role))
}

func TestAuthenticateBearerAndCookie(t *testing.T) {
	jwt := token.NewJWTManager("secret", time.Hour)
	e := newEcho()
	e.GET("/api/me", whoami, NewAuthMiddleware(jwt).Authenticate)
	raw := issue(t, jwt, entity.RoleCustomer)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+raw)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1:customer", rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: raw})
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticateRejections(t *testing.T) {
	jwt := token.NewJWTManager("secret", time.Hour)
	e := newEcho()
	auth := NewAuthMiddleware(jwt)
	e.GET("/api/me", whoami, auth.Authenticate)
	e.GET("/dashboard", whoami, auth.Authenticate)

	cases := []struct {
		name   string
		path   string
		header string
		accept string
		status int
	}{
		{"missing token", "/api/me", "", "", http.StatusUnauthorized},
		{"malformed header", "/api/me", "Token abc", "", http.StatusUnauthorized},
		{"bad token", "/api/me", "Bearer nope", "", http.StatusUnauthorized},
		{"api path with html accept", "/api/me", "", "text/html", http.StatusUnauthorized},
		{"browser navigation", "/dashboard", "", "text/html,application/xhtml+xml", http.StatusFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tc.header)
			}
			if tc.accept != "" {
				req.Header.Set(echo.HeaderAccept, tc.accept)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusFound {
				assert.Equal(t, "/login?redirect=%2Fdashboard", rec.Header().Get(echo.HeaderLocation))
			} else {
				assert.Contains(t, rec.Body.String(), `"UNAUTHORIZED"`)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	jwt := token.NewJWTManager("secret", time.Hour)
	e := newEcho()
	e.POST("/api/services", whoami, NewAuthMiddleware(jwt).Authenticate, RequireRole(entity.RoleServiceProvider))

	req := httptest.NewRequest(http.MethodPost, "/api/services", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+issue(t, jwt, entity.RoleCustomer))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/services", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+issue(t, jwt, entity.RoleServiceProvider))
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResponseCacheAndInvalidate(t *testing.T) {
	store := cache.NewMemoryStore()
	e := newEcho()
	hits := 0
	e.GET("/api/services", func(c echo.Context) error {
		hits++
		return c.JSON(http.StatusOK, map[string]int{"hits": hits})
	}, ResponseCache(store, time.Minute))
	e.POST("/api/services", func(c echo.Context) error {
		return c.NoContent(http.StatusCreated)
	}, InvalidateCache(store, "/api/services"))

	get := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/services?page=1", nil))
		return rec
	}

	first := get()
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	second := get()
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, hits)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/services", nil))
	require.Equal(t, http.StatusCreated, rec.Code)

	third := get()
	assert.Equal(t, "MISS", third.Header().Get("X-Cache"))
	assert.Equal(t, 2, hits)
}

func TestIPRateLimit(t *testing.T) {
	e := newEcho()
	e.POST("/api/auth/login", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, IPRateLimit(1, 1))

	codes := []int{}
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, http.StatusOK, codes[0])
	assert.Contains(t, codes[1:], http.StatusTooManyRequests)
}
