package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/amref/learning-api/internal/core/domain"
)

const hashCost = bcrypt.DefaultCost

// MaxPasswordBytes is the longest input bcrypt accepts, counted in bytes.
const MaxPasswordBytes = 72

// BcryptHasher hashes passwords with bcrypt. The salt is random per call and
// embedded in the output.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: hashCost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	if plaintext == "" || len(plaintext) > MaxPasswordBytes {
		return "", fmt.Errorf("hash password: %w", domain.ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches hash. Any malformed hash is a mismatch.
func (h *BcryptHasher) Verify(plaintext, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
