package middleware

import (
	"github.com/labstack/echo/v4"

	"eventhub/internal/domain/entity"
	"eventhub/internal/domain/repository"
	"eventhub/pkg/errors"
)

// AdminMiddleware re-checks the stored role, so a demoted admin loses access
// before their token expires.
type AdminMiddleware struct {
	userRepo repository.UserRepository
}

func NewAdminMiddleware(userRepo repository.UserRepository) *AdminMiddleware {
	return &AdminMiddleware{
		userRepo: userRepo,
	}
}

func (m *AdminMiddleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		caller := Caller(c)
		if caller.ID == "" {
			return errors.Unauthorized("Authentication required", nil)
		}

		user, err := m.userRepo.GetByID(c.Request().Context(), caller.ID)
		if err != nil {
			if errors.Is(err, errors.CodeNotFound) {
				return errors.Unauthorized("User no longer exists", err)
			}
			return err
		}

		if user.Role != entity.RoleAdmin {
			return errors.Forbidden("Admin access required", nil)
		}

		return next(c)
	}
}

// RequireRole gates a route on the token's role claim.
func RequireRole(roles ...entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller := Caller(c)
			for _, r := range roles {
				if caller.Role == r {
					return next(c)
				}
			}
			return errors.Forbidden("You do not have permission to perform this action", nil)
		}
	}
}
