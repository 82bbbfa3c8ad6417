package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/amref/learning-api/internal/core/domain"
	"github.com/amref/learning-api/internal/core/ports"
)

type passwordResetService struct {
	repo     ports.UserRepository
	hasher   ports.PasswordHasher
	codec    ports.TokenCodec
	throttle ports.ResetThrottle
	notifier ports.ResetNotifier
	log      zerolog.Logger
}

// NewPasswordResetService returns a PasswordResetService. throttle may be nil.
func NewPasswordResetService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	codec ports.TokenCodec,
	throttle ports.ResetThrottle,
	notifier ports.ResetNotifier,
	log zerolog.Logger,
) ports.PasswordResetService {
	return &passwordResetService{
		repo:     repo,
		hasher:   hasher,
		codec:    codec,
		throttle: throttle,
		notifier: notifier,
		log:      log,
	}
}

// RequestReset issues a reset token for email and hands it to the notifier.
// Unknown e-mails yield domain.ErrUserNotFound, which callers must not expose.
func (s *passwordResetService) RequestReset(ctx context.Context, email string) (string, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return "", domain.ErrInvalidInput
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("request reset: %w", err)
	}

	if s.throttle != nil {
		allowed, err := s.throttle.Allow(ctx, user.Email)
		if err != nil {
			s.log.Warn().Err(err).Str("user_id", user.ID).Msg("reset throttle check failed, continuing")
		} else if !allowed {
			return "", domain.ErrResetThrottled
		}
	}

	token, err := s.codec.IssueReset(user.Email)
	if err != nil {
		return "", fmt.Errorf("request reset: %w", err)
	}

	notice := ports.ResetNotice{
		Email:    user.Email,
		Username: user.Username,
		Token:    token,
		IssuedAt: time.Now().UTC(),
	}
	if err := s.notifier.NotifyReset(ctx, notice); err != nil {
		return "", fmt.Errorf("request reset: notify: %w", err)
	}

	if s.throttle != nil {
		if err := s.throttle.Mark(ctx, user.Email); err != nil {
			s.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to set reset throttle")
		}
	}

	s.log.Info().Str("user_id", user.ID).Msg("password reset requested")
	return token, nil
}

// ConfirmReset replaces the password of the account named by a valid reset
// token. Any decode failure, including an access token, and any e-mail that no
// longer resolves is domain.ErrInvalidResetToken.
func (s *passwordResetService) ConfirmReset(ctx context.Context, token, newPassword string) (*domain.User, error) {
	claims, err := s.codec.DecodeReset(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidResetToken, err)
	}
	if newPassword == "" {
		return nil, domain.ErrInvalidInput
	}

	user, err := s.repo.FindByEmail(ctx, claims.Email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidResetToken, err)
	}
	if err != nil {
		return nil, fmt.Errorf("confirm reset: %w", err)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, fmt.Errorf("confirm reset: %w", err)
	}
	user.PasswordHash = hash
	user.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("confirm reset: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("password reset completed")
	return user, nil
}
