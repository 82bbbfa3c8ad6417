package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/amref/learning-api/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("%w: %w", domain.ErrUnauthenticated, domain.ErrTokenExpired), http.StatusUnauthorized},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrForbiddenInactive, http.StatusForbidden},
		{domain.ErrForbiddenRole, http.StatusForbidden},
		{fmt.Errorf("%w: %w", domain.ErrInvalidResetToken, domain.ErrTokenKind), http.StatusBadRequest},
		{fmt.Errorf("%w: %w", domain.ErrUserExists, domain.ErrEmailTaken), http.StatusConflict},
		{domain.ErrUserExists, http.StatusConflict},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrInvalidInput, http.StatusBadRequest},
		{fmt.Errorf("register: %w", fmt.Errorf("hash password: %w", domain.ErrInvalidInput)), http.StatusBadRequest},
		{echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded"), http.StatusTooManyRequests},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	handler := NewHTTPErrorHandler(zerolog.Nop())
	for _, tc := range cases {
		e := echo.New()
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

		handler(tc.err, c)

		if rec.Code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, rec.Code)
		}
		var resp errorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Error == "" {
			t.Fatalf("%v: invalid envelope %q", tc.err, rec.Body.String())
		}
	}
}

func TestHTTPErrorHandler_HidesTokenCause(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(fmt.Errorf("%w: %w", domain.ErrUnauthenticated, domain.ErrTokenSignature), c)

	var resp errorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Error != domain.ErrUnauthenticated.Error() {
		t.Fatalf("unexpected message %q", resp.Error)
	}
	if rec.Header().Get(echo.HeaderWWWAuthenticate) != "Bearer" {
		t.Fatalf("missing WWW-Authenticate header")
	}
}
