package ports

import (
	"time"

	"github.com/amref/learning-api/internal/core/domain"
)

// PasswordHasher turns plaintext passwords into salted one-way hashes.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify never errors; malformed hashes simply do not match.
	Verify(plaintext, hash string) bool
}

// TokenCodec issues and verifies signed, expiring tokens.
type TokenCodec interface {
	// IssueAccess signs an access token for subject. ttl <= 0 uses the codec default.
	IssueAccess(subject string, role domain.Role, ttl time.Duration) (string, time.Time, error)
	DecodeAccess(token string) (*domain.AccessClaims, error)
	IssueReset(email string) (string, error)
	DecodeReset(token string) (*domain.ResetClaims, error)
}
