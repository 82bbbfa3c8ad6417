package ports

import (
	"context"

	"github.com/amref/learning-api/internal/core/domain"
)

// UserRepository is the identity store. Implementations enforce uniqueness of
// email and username and report violations as domain.ErrUserExists.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// FindByEmailOrUsername matches identifier against either field.
	FindByEmailOrUsername(ctx context.Context, identifier string) (*domain.User, error)
	Insert(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	List(ctx context.Context, skip, limit int) ([]*domain.User, error)
	ExistsWithRole(ctx context.Context, role domain.Role) (bool, error)
}
