package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/amref/learning-api/internal/core/domain"
	"github.com/amref/learning-api/internal/core/ports"
	"github.com/amref/learning-api/internal/core/service"
)

// tokenGuard resolves the literal tokens "user", "admin" and "inactive".
type tokenGuard struct{}

func (tokenGuard) Resolve(_ context.Context, token string) (*domain.User, error) {
	switch token {
	case "user":
		return &domain.User{ID: "u1", Role: domain.RoleUser, IsActive: true}, nil
	case "admin":
		return &domain.User{ID: "a1", Role: domain.RoleAdmin, IsActive: true}, nil
	case "inactive":
		return &domain.User{ID: "u2", Role: domain.RoleAdmin, IsActive: false}, nil
	}
	return nil, domain.ErrUnauthenticated
}

func (tokenGuard) RequireActive(user *domain.User) error {
	return service.NewAccessGuard(nil, nil).RequireActive(user)
}

func (tokenGuard) RequireRole(user *domain.User, role domain.Role) error {
	return service.NewAccessGuard(nil, nil).RequireRole(user, role)
}

type listOnlyUsers struct {
	ports.UserService
}

func (listOnlyUsers) List(context.Context, int, int) ([]*domain.User, error) {
	return []*domain.User{{ID: "u1"}}, nil
}

func newTestRouter() *echo.Echo {
	reg := prometheus.NewRegistry()
	return NewRouter(Deps{
		APIPrefix:  "api/v1/",
		Log:        zerolog.Nop(),
		Guard:      tokenGuard{},
		Users:      listOnlyUsers{},
		Registerer: reg,
		Gatherer:   reg,
	})
}

func TestRouter_AdminRoutesAreGuarded(t *testing.T) {
	e := newTestRouter()

	cases := []struct {
		token string
		code  int
	}{
		{"", http.StatusUnauthorized},
		{"garbage", http.StatusUnauthorized},
		{"inactive", http.StatusForbidden},
		{"user", http.StatusForbidden},
		{"admin", http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
		if tc.token != "" {
			req.Header.Set("Authorization", "Bearer "+tc.token)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		if rec.Code != tc.code {
			t.Fatalf("token %q: expected %d, got %d (%s)", tc.token, tc.code, rec.Code, rec.Body.String())
		}
	}
}

func TestRouter_PublicEndpoints(t *testing.T) {
	e := newTestRouter()

	for _, path := range []string{"/health", "/metrics"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestRouter_ValidationRunsBeforeServices(t *testing.T) {
	e := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestNormalizePrefix(t *testing.T) {
	cases := map[string]string{"": "", "/api/v1": "/api/v1", "api/v1/": "/api/v1", " /x/ ": "/x"}
	for in, want := range cases {
		if got := normalizePrefix(in); got != want {
			t.Fatalf("normalizePrefix(%q) = %q, want %q", in, got, want)
		}
	}
}
