package handler

import (
	"context"
	"io"
	"net/http/httptest"

	"github.com/labstack/echo/v4"

	"github.com/amref/learning-api/internal/core/domain"
	"github.com/amref/learning-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error)
	loginFn    func(ctx context.Context, identifier, password string) (*ports.AuthResult, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, identifier, password string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, identifier, password)
}

type stubResetService struct {
	requestFn func(ctx context.Context, email string) (string, error)
	confirmFn func(ctx context.Context, token, newPassword string) (*domain.User, error)
}

func (s *stubResetService) RequestReset(ctx context.Context, email string) (string, error) {
	return s.requestFn(ctx, email)
}

func (s *stubResetService) ConfirmReset(ctx context.Context, token, newPassword string) (*domain.User, error) {
	return s.confirmFn(ctx, token, newPassword)
}

type stubUserService struct {
	getFn         func(ctx context.Context, id string) (*domain.User, error)
	listFn        func(ctx context.Context, skip, limit int) ([]*domain.User, error)
	updateFn      func(ctx context.Context, id string, in ports.ProfileUpdate) (*domain.User, error)
	adminUpdateFn func(ctx context.Context, id string, in ports.AdminUpdate) (*domain.User, error)
}

func (s *stubUserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) List(ctx context.Context, skip, limit int) ([]*domain.User, error) {
	return s.listFn(ctx, skip, limit)
}

func (s *stubUserService) UpdateProfile(ctx context.Context, id string, in ports.ProfileUpdate) (*domain.User, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubUserService) AdminUpdate(ctx context.Context, id string, in ports.AdminUpdate) (*domain.User, error) {
	return s.adminUpdateFn(ctx, id, in)
}

func (s *stubUserService) EnsureAdmin(context.Context, ports.AdminSeed) (*domain.User, bool, error) {
	return nil, false, nil
}

func newTestContext(method, target, contentType string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}
