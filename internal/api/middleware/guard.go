package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/amref/learning-api/internal/api/metrics"
	"github.com/amref/learning-api/internal/core/domain"
	"github.com/amref/learning-api/internal/core/ports"
)

// RequireActive rejects inactive identities. It must run after Authenticate.
func RequireActive(guard ports.AccessGuard) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, _ := CurrentUser(c)
			if err := guard.RequireActive(user); err != nil {
				if errors.Is(err, domain.ErrForbiddenInactive) {
					metrics.GuardDenialsTotal.WithLabelValues("inactive").Inc()
				}
				return err
			}
			return next(c)
		}
	}
}

// RequireRole rejects identities whose role is not exactly role.
func RequireRole(guard ports.AccessGuard, role domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, _ := CurrentUser(c)
			if err := guard.RequireRole(user, role); err != nil {
				if errors.Is(err, domain.ErrForbiddenRole) {
					metrics.GuardDenialsTotal.WithLabelValues("role").Inc()
				}
				return err
			}
			return next(c)
		}
	}
}
