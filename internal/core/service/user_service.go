package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/amref/learning-api/internal/core/domain"
	"github.com/amref/learning-api/internal/core/ports"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 100
)

type userService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	log    zerolog.Logger
}

func NewUserService(repo ports.UserRepository, hasher ports.PasswordHasher, log zerolog.Logger) ports.UserService {
	return &userService{repo: repo, hasher: hasher, log: log}
}

func (s *userService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// List pages through accounts. A non-positive limit means DefaultListLimit;
// limits above MaxListLimit are clamped.
func (s *userService) List(ctx context.Context, skip, limit int) ([]*domain.User, error) {
	if skip < 0 {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return s.repo.List(ctx, skip, limit)
}

// UpdateProfile applies self-service changes. Role and active flag are not
// reachable from here.
func (s *userService) UpdateProfile(ctx context.Context, id string, in ports.ProfileUpdate) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyProfile(ctx, user, in); err != nil {
		return nil, err
	}
	return s.save(ctx, user)
}

func (s *userService) AdminUpdate(ctx context.Context, id string, in ports.AdminUpdate) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyProfile(ctx, user, in.ProfileUpdate); err != nil {
		return nil, err
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, domain.ErrInvalidRole
		}
		user.Role = *in.Role
	}

	updated, err := s.save(ctx, user)
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Str("user_id", updated.ID).
		Str("role", string(updated.Role)).
		Bool("is_active", updated.IsActive).
		Msg("user updated by admin")
	return updated, nil
}

// EnsureAdmin seeds an administrator when none exists yet. The bool reports
// whether an account was created.
func (s *userService) EnsureAdmin(ctx context.Context, seed ports.AdminSeed) (*domain.User, bool, error) {
	exists, err := s.repo.ExistsWithRole(ctx, domain.RoleAdmin)
	if err != nil {
		return nil, false, fmt.Errorf("ensure admin: %w", err)
	}
	if exists {
		return nil, false, nil
	}

	email := domain.NormalizeEmail(seed.Email)
	username := strings.TrimSpace(seed.Username)
	if email == "" || seed.Password == "" {
		return nil, false, fmt.Errorf("ensure admin: %w", domain.ErrInvalidInput)
	}
	if err := domain.ValidateUsername(username); err != nil {
		return nil, false, fmt.Errorf("ensure admin: %w", err)
	}
	if err := checkAvailable(ctx, s.repo, email, username, ""); err != nil {
		return nil, false, fmt.Errorf("ensure admin: %w", err)
	}

	hash, err := s.hasher.Hash(seed.Password)
	if err != nil {
		return nil, false, fmt.Errorf("ensure admin: %w", err)
	}

	now := time.Now().UTC()
	admin := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		FirstName:    "Admin",
		LastName:     "User",
		PasswordHash: hash,
		IsActive:     true,
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Insert(ctx, admin); err != nil {
		return nil, false, fmt.Errorf("ensure admin: %w", err)
	}

	s.log.Info().Str("user_id", admin.ID).Str("username", admin.Username).Msg("initial admin created")
	return admin, true, nil
}

func (s *userService) applyProfile(ctx context.Context, user *domain.User, in ports.ProfileUpdate) error {
	var email, username string
	if in.Email != nil {
		email = domain.NormalizeEmail(*in.Email)
		if email == "" {
			return domain.ErrInvalidInput
		}
	}
	if in.Username != nil {
		username = strings.TrimSpace(*in.Username)
		if err := domain.ValidateUsername(username); err != nil {
			return err
		}
	}
	if err := checkAvailable(ctx, s.repo, email, username, user.ID); err != nil {
		return err
	}

	if email != "" {
		user.Email = email
	}
	if username != "" {
		user.Username = username
	}
	if in.FirstName != nil {
		user.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		user.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Password != nil {
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return fmt.Errorf("update password: %w", err)
		}
		user.PasswordHash = hash
	}
	return nil
}

func (s *userService) save(ctx context.Context, user *domain.User) (*domain.User, error) {
	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}
