package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/amref/learning-api/internal/core/domain"
	"github.com/amref/learning-api/internal/core/ports"
)

type accessGuard struct {
	repo  ports.UserRepository
	codec ports.TokenCodec
}

func NewAccessGuard(repo ports.UserRepository, codec ports.TokenCodec) ports.AccessGuard {
	return &accessGuard{repo: repo, codec: codec}
}

// Resolve decodes an access token and loads its subject from the store. Token
// failures and vanished subjects are ErrUnauthenticated; store I/O errors are
// returned as-is.
func (g *accessGuard) Resolve(ctx context.Context, token string) (*domain.User, error) {
	claims, err := g.codec.DecodeAccess(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
	}

	user, err := g.repo.FindByID(ctx, claims.Subject)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve identity: %w", err)
	}
	return user, nil
}

func (g *accessGuard) RequireActive(user *domain.User) error {
	if user == nil {
		return domain.ErrUnauthenticated
	}
	if !user.IsActive {
		return domain.ErrForbiddenInactive
	}
	return nil
}

// RequireRole demands an exact role match; admin does not imply user.
func (g *accessGuard) RequireRole(user *domain.User, role domain.Role) error {
	if user == nil {
		return domain.ErrUnauthenticated
	}
	if user.Role != role {
		return domain.ErrForbiddenRole
	}
	return nil
}
