package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/amref/learning-api/internal/core/domain"
	"github.com/amref/learning-api/internal/core/ports"
)

// dummyPassword is hashed once and verified against when the identifier is
// unknown, so a miss costs the same hash comparison as a wrong password.
const dummyPassword = "learning-api/dummy-password"

// Authenticator checks an identifier/password pair against the identity store.
type Authenticator struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthenticator(repo ports.UserRepository, hasher ports.PasswordHasher) *Authenticator {
	return &Authenticator{repo: repo, hasher: hasher}
}

// Authenticate resolves identifier as an email or username and verifies the
// password. Unknown identifier and wrong password both return (nil, false, nil).
// The active flag is not checked here.
func (a *Authenticator) Authenticate(ctx context.Context, identifier, password string) (*domain.User, bool, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		a.hasher.Verify(password, a.dummy())
		return nil, false, nil
	}

	user, err := a.repo.FindByEmailOrUsername(ctx, identifier)
	if errors.Is(err, domain.ErrUserNotFound) {
		a.hasher.Verify(password, a.dummy())
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("authenticate: %w", err)
	}

	if !a.hasher.Verify(password, user.PasswordHash) {
		return nil, false, nil
	}
	return user, true, nil
}

func (a *Authenticator) dummy() string {
	a.dummyOnce.Do(func() {
		// A failed hash leaves an empty string, which Verify rejects.
		a.dummyHash, _ = a.hasher.Hash(dummyPassword)
	})
	return a.dummyHash
}
