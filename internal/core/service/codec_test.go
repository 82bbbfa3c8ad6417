package service

import (
	"testing"
	"time"

	"github.com/amref/learning-api/internal/infrastructure/security"
)

func newTestCodec(t *testing.T, secret string) *security.JWTCodec {
	t.Helper()
	codec, err := security.NewJWTCodec(security.JWTConfig{
		Secret:    secret,
		Algorithm: "HS256",
		AccessTTL: 30 * time.Minute,
		ResetTTL:  48 * time.Hour,
	})
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	return codec
}
