package ports

import (
	"context"

	"github.com/amref/learning-api/internal/core/domain"
)

// ProfileUpdate holds self-service changes; nil fields are left untouched.
type ProfileUpdate struct {
	Email     *string
	Username  *string
	FirstName *string
	LastName  *string
	Password  *string
}

// AdminUpdate extends ProfileUpdate with fields only an admin may change.
type AdminUpdate struct {
	ProfileUpdate
	IsActive *bool
	Role     *domain.Role
}

// AdminSeed describes the initial administrator account.
type AdminSeed struct {
	Email    string
	Username string
	Password string
}

type UserService interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, skip, limit int) ([]*domain.User, error)
	UpdateProfile(ctx context.Context, id string, in ProfileUpdate) (*domain.User, error)
	AdminUpdate(ctx context.Context, id string, in AdminUpdate) (*domain.User, error)
	// EnsureAdmin creates the seed admin unless an admin already exists.
	EnsureAdmin(ctx context.Context, seed AdminSeed) (*domain.User, bool, error)
}
