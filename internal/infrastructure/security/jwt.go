package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/amref/learning-api/internal/core/domain"
)

const (
	defaultAccessTTL = 30 * time.Minute
	defaultResetTTL  = 48 * time.Hour
)

// JWTConfig configures a JWTCodec. Now is optional and defaults to time.Now.
type JWTConfig struct {
	Secret    string
	Algorithm string
	AccessTTL time.Duration
	ResetTTL  time.Duration
	Now       func() time.Time
}

// JWTCodec signs and verifies access and password reset tokens with a shared
// HMAC key. Each token carries a "typ" claim so the two kinds never cross.
type JWTCodec struct {
	key       []byte
	method    jwt.SigningMethod
	accessTTL time.Duration
	resetTTL  time.Duration
	now       func() time.Time
}

type tokenClaims struct {
	Kind domain.TokenKind `json:"typ"`
	Role domain.Role      `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// NewJWTCodec validates cfg and builds a codec. Only HMAC algorithms are accepted.
func NewJWTCodec(cfg JWTConfig) (*JWTCodec, error) {
	if cfg.Secret == "" {
		return nil, errors.New("jwt codec: secret is required")
	}

	alg := strings.ToUpper(strings.TrimSpace(cfg.Algorithm))
	if alg == "" {
		alg = jwt.SigningMethodHS256.Alg()
	}
	method, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("jwt codec: unsupported algorithm %q", cfg.Algorithm)
	}

	c := &JWTCodec{
		key:       []byte(cfg.Secret),
		method:    method,
		accessTTL: cfg.AccessTTL,
		resetTTL:  cfg.ResetTTL,
		now:       cfg.Now,
	}
	if c.accessTTL <= 0 {
		c.accessTTL = defaultAccessTTL
	}
	if c.resetTTL <= 0 {
		c.resetTTL = defaultResetTTL
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c, nil
}

// IssueAccess signs {sub, role, iat, exp, typ=access}. ttl <= 0 uses the default.
func (c *JWTCodec) IssueAccess(subject string, role domain.Role, ttl time.Duration) (string, time.Time, error) {
	if subject == "" || !role.Valid() {
		return "", time.Time{}, fmt.Errorf("issue access token: %w", domain.ErrInvalidInput)
	}
	if ttl <= 0 {
		ttl = c.accessTTL
	}

	now := c.now()
	exp := now.Add(ttl)
	claims := tokenClaims{
		Kind: domain.TokenAccess,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := c.sign(claims)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("issue access token: %w", err)
	}
	return signed, claims.ExpiresAt.Time, nil
}

func (c *JWTCodec) DecodeAccess(token string) (*domain.AccessClaims, error) {
	claims, err := c.parse(token, domain.TokenAccess)
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		return nil, fmt.Errorf("%w: %w", domain.ErrTokenInvalid, domain.ErrTokenMalformed)
	}

	out := &domain.AccessClaims{
		Subject:   claims.Subject,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}

// IssueReset signs {sub=email, nbf, iat, exp, typ=password_reset}.
func (c *JWTCodec) IssueReset(email string) (string, error) {
	if email == "" {
		return "", fmt.Errorf("issue reset token: %w", domain.ErrInvalidInput)
	}

	now := c.now()
	claims := tokenClaims{
		Kind: domain.TokenPasswordReset,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.resetTTL)),
		},
	}

	signed, err := c.sign(claims)
	if err != nil {
		return "", fmt.Errorf("issue reset token: %w", err)
	}
	return signed, nil
}

func (c *JWTCodec) DecodeReset(token string) (*domain.ResetClaims, error) {
	claims, err := c.parse(token, domain.TokenPasswordReset)
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" || claims.NotBefore == nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTokenInvalid, domain.ErrTokenMalformed)
	}

	return &domain.ResetClaims{
		Email:     claims.Subject,
		NotBefore: claims.NotBefore.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (c *JWTCodec) sign(claims tokenClaims) (string, error) {
	return jwt.NewWithClaims(c.method, claims).SignedString(c.key)
}

func (c *JWTCodec) parse(token string, kind domain.TokenKind) (*tokenClaims, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: %w", domain.ErrTokenInvalid, domain.ErrTokenMalformed)
	}

	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return c.key, nil },
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTokenInvalid, classify(err))
	}
	if claims.Kind != kind {
		return nil, fmt.Errorf("%w: %w", domain.ErrTokenInvalid, domain.ErrTokenKind)
	}
	return claims, nil
}

// classify narrows a jwt library error to one of the domain token causes.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired), errors.Is(err, jwt.ErrTokenNotValidYet):
		return domain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return domain.ErrTokenSignature
	default:
		return domain.ErrTokenMalformed
	}
}
