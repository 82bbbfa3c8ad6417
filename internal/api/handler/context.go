package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/amref/learning-api/internal/api/middleware"
	"github.com/amref/learning-api/internal/core/domain"
)

// bindAndValidate binds the request into dst and runs the registered validator.
// Both failures become 400s.
func bindAndValidate(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// currentUser returns the identity injected by the Authenticate middleware.
// Its absence means the route was wired without authentication.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}
