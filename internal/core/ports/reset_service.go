package ports

import (
	"context"
	"time"

	"github.com/amref/learning-api/internal/core/domain"
)

type PasswordResetService interface {
	// RequestReset returns the issued token; callers must not reveal whether
	// the account exists.
	RequestReset(ctx context.Context, email string) (string, error)
	ConfirmReset(ctx context.Context, token, newPassword string) (*domain.User, error)
}

// ResetNotice is handed to the notifier so the token can reach the account owner.
type ResetNotice struct {
	Email    string    `json:"email"`
	Username string    `json:"username"`
	Token    string    `json:"token"`
	IssuedAt time.Time `json:"issued_at"`
}

// ResetNotifier delivers reset notices out of band.
type ResetNotifier interface {
	NotifyReset(ctx context.Context, notice ResetNotice) error
}

// ResetThrottle limits how often a reset may be requested for one e-mail.
type ResetThrottle interface {
	Allow(ctx context.Context, email string) (bool, error)
	Mark(ctx context.Context, email string) error
}
