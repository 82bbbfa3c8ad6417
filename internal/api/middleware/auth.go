package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/amref/learning-api/internal/api/metrics"
	"github.com/amref/learning-api/internal/core/domain"
	"github.com/amref/learning-api/internal/core/ports"
)

// UserKey is the echo context key holding the resolved *domain.User.
const UserKey = "user"

// Authenticate extracts the bearer token, resolves it through guard and stores
// the identity under UserKey. Every failure is domain.ErrUnauthenticated.
func Authenticate(guard ports.AccessGuard) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				metrics.TokenRejectionsTotal.WithLabelValues("missing").Inc()
				return domain.ErrUnauthenticated
			}

			user, err := guard.Resolve(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthenticated) {
					metrics.TokenRejectionsTotal.WithLabelValues(domain.TokenFailureReason(err)).Inc()
				}
				return err
			}

			c.Set(UserKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the identity stored by Authenticate.
func CurrentUser(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(UserKey).(*domain.User)
	return user, ok && user != nil
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
