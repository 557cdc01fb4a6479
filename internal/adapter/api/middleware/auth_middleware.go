package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"eventhub/internal/domain/entity"
	"eventhub/internal/domain/service"
	"eventhub/internal/infrastructure/token"
	"eventhub/pkg/errors"
)

const (
	TokenCookie = "token"
	LoginPath   = "/login"

	contextUID  = "uid"
	contextRole = "role"
)

// TokenVerifier validates a raw access token.
type TokenVerifier interface {
	Verify(raw string) (*token.Claims, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
}

func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

// extractToken prefers the Authorization header and falls back to the token cookie.
func extractToken(c echo.Context) (string, bool) {
	if authHeader := c.Request().Header.Get(echo.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", false
		}
		return strings.TrimSpace(parts[1]), true
	}

	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}
	return "", false
}

// isBrowserNavigation reports whether the request is a page load rather than
// an API call.
func isBrowserNavigation(c echo.Context) bool {
	req := c.Request()
	if req.Method != http.MethodGet {
		return false
	}
	if strings.HasPrefix(req.URL.Path, "/api/") || req.URL.Path == "/api" {
		return false
	}
	return strings.Contains(req.Header.Get(echo.HeaderAccept), echo.MIMETextHTML)
}

func (m *AuthMiddleware) reject(c echo.Context, message string) error {
	if isBrowserNavigation(c) {
		target := LoginPath + "?redirect=" + url.QueryEscape(c.Request().URL.RequestURI())
		return c.Redirect(http.StatusFound, target)
	}
	return errors.Unauthorized(message, nil)
}

// Authenticate resolves the caller from the bearer token or token cookie.
// API requests without a valid token get 401; browser navigations are sent to
// the login page.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, ok := extractToken(c)
		if !ok {
			return m.reject(c, "Authentication required")
		}

		claims, err := m.verifier.Verify(raw)
		if err != nil {
			return m.reject(c, "Invalid or expired token")
		}

		c.Set(contextUID, claims.UserID())
		c.Set(contextRole, string(claims.Role))

		return next(c)
	}
}

// Caller returns the identity set by Authenticate. It is the zero Caller on
// unauthenticated routes.
func Caller(c echo.Context) service.Caller {
	uid, _ := c.Get(contextUID).(string)
	role, _ := c.Get(contextRole).(string)
	return service.Caller{ID: uid, Role: entity.Role(role)}
}
