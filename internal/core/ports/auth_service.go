package ports

import (
	"context"
	"time"

	"github.com/amref/learning-api/internal/core/domain"
)

// RegisterInput carries self-service registration data. The role is never
// taken from the caller.
type RegisterInput struct {
	Email     string
	Username  string
	Password  string
	FirstName string
	LastName  string
}

// AuthResult is a freshly issued access token and the identity it belongs to.
type AuthResult struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *domain.User
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, identifier, password string) (*AuthResult, error)
}

// AccessGuard resolves bearer tokens into identities and enforces
// active-status and role requirements.
type AccessGuard interface {
	Resolve(ctx context.Context, token string) (*domain.User, error)
	RequireActive(user *domain.User) error
	RequireRole(user *domain.User, role domain.Role) error
}
