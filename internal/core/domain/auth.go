package domain

import (
	"errors"
	"time"
)

// TokenKind discriminates access tokens from password reset tokens.
type TokenKind string

const (
	TokenAccess        TokenKind = "access"
	TokenPasswordReset TokenKind = "password_reset"
)

// ErrTokenInvalid is returned for every token that must not be trusted.
// The more specific causes below are wrapped alongside it.
var ErrTokenInvalid = errors.New("invalid token")

var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenSignature = errors.New("token signature invalid")
	ErrTokenKind      = errors.New("unexpected token kind")
)

var (
	ErrUnauthenticated   = errors.New("could not validate credentials")
	ErrForbiddenInactive = errors.New("inactive user")
	ErrForbiddenRole     = errors.New("not enough privileges")
	ErrInvalidResetToken = errors.New("invalid reset token")
	ErrResetThrottled    = errors.New("password reset recently requested")
)

// AccessClaims is the decoded content of a valid access token.
type AccessClaims struct {
	Subject   string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ResetClaims is the decoded content of a valid password reset token.
type ResetClaims struct {
	Email     string
	NotBefore time.Time
	ExpiresAt time.Time
}

// TokenFailureReason maps a token error to a short label for logs and metrics.
func TokenFailureReason(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrTokenExpired):
		return "expired"
	case errors.Is(err, ErrTokenSignature):
		return "signature"
	case errors.Is(err, ErrTokenKind):
		return "kind"
	case errors.Is(err, ErrTokenMalformed):
		return "malformed"
	case errors.Is(err, ErrUserNotFound):
		return "unknown_subject"
	default:
		return "invalid"
	}
}
