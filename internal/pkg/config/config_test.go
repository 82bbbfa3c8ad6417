package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, "HS256", cfg.Auth.JWTAlgorithm)
	assert.Equal(t, 30*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 48*time.Hour, cfg.Auth.ResetTokenTTL)
	assert.Equal(t, "log", cfg.Notifier.Kind)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.SeedAdmin())
}

func TestLoadFrom_GeneratesSecretWhenMissing(t *testing.T) {
	a, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)
	b, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.True(t, a.GeneratedSecret)
	assert.NotEmpty(t, a.Auth.JWTSecret)
	assert.NotEqual(t, a.Auth.JWTSecret, b.Auth.JWTSecret)
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":       "s3cret",
		"JWT_ALGORITHM":    "HS512",
		"ACCESS_TOKEN_TTL": "15m",
		"ADMIN_EMAIL":      "admin@example.com",
		"ADMIN_USERNAME":   "admin",
		"ADMIN_PASSWORD":   "adminpassword",
		"RESET_NOTIFIER":   "amqp",
		"ENV":              "production",
	}))
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.False(t, cfg.GeneratedSecret)
	assert.Equal(t, "HS512", cfg.Auth.JWTAlgorithm)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.True(t, cfg.SeedAdmin())
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "amqp", cfg.Notifier.Kind)
}

func TestLoadFrom_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"algorithm": {"JWT_ALGORITHM": "RS256"},
		"notifier":  {"RESET_NOTIFIER": "smtp"},
		"ttl":       {"ACCESS_TOKEN_TTL": "0s"},
		"duration":  {"RESET_TOKEN_TTL": "soon"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFrom(context.Background(), envconfig.MapLookuper(env))
			assert.Error(t, err)
		})
	}
}
