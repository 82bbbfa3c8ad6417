package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/amref/learning-api/internal/core/domain"
	"github.com/amref/learning-api/internal/core/ports"
)

// authService implements registration and login.
type authService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	codec  ports.TokenCodec
	authn  *Authenticator
	log    zerolog.Logger
}

func NewAuthService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	codec ports.TokenCodec,
	authn *Authenticator,
	log zerolog.Logger,
) ports.AuthService {
	return &authService{
		repo:   repo,
		hasher: hasher,
		codec:  codec,
		authn:  authn,
		log:    log,
	}
}

// Register creates an active account with the user role and returns an access
// token for it.
func (s *authService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	email := domain.NormalizeEmail(in.Email)
	username := strings.TrimSpace(in.Username)
	if email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := domain.ValidateUsername(username); err != nil {
		return nil, err
	}

	if err := checkAvailable(ctx, s.repo, email, username, ""); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: hash,
		IsActive:     true,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Insert(ctx, user); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return s.issue(user)
}

// Login authenticates identifier (email or username) and issues an access
// token. Inactive accounts are refused even with correct credentials.
func (s *authService) Login(ctx context.Context, identifier, password string) (*ports.AuthResult, error) {
	user, ok, err := s.authn.Authenticate(ctx, identifier, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrForbiddenInactive
	}
	return s.issue(user)
}

func (s *authService) issue(user *domain.User) (*ports.AuthResult, error) {
	token, exp, err := s.codec.IssueAccess(user.ID, user.Role, 0)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &ports.AuthResult{AccessToken: token, ExpiresAt: exp, User: user}, nil
}

// checkAvailable fails when email or username belongs to an account other
// than selfID.
func checkAvailable(ctx context.Context, repo ports.UserRepository, email, username, selfID string) error {
	if email != "" {
		existing, err := repo.FindByEmail(ctx, email)
		switch {
		case err == nil && existing.ID != selfID:
			return fmt.Errorf("%w: %w", domain.ErrUserExists, domain.ErrEmailTaken)
		case err != nil && !errors.Is(err, domain.ErrUserNotFound):
			return fmt.Errorf("check email: %w", err)
		}
	}
	if username != "" {
		existing, err := repo.FindByUsername(ctx, username)
		switch {
		case err == nil && existing.ID != selfID:
			return fmt.Errorf("%w: %w", domain.ErrUserExists, domain.ErrUsernameTaken)
		case err != nil && !errors.Is(err, domain.ErrUserNotFound):
			return fmt.Errorf("check username: %w", err)
		}
	}
	return nil
}
