package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/amref/learning-api/internal/api"
	"github.com/amref/learning-api/internal/api/handler"
	"github.com/amref/learning-api/internal/core/ports"
	"github.com/amref/learning-api/internal/core/service"
	redisstore "github.com/amref/learning-api/internal/infrastructure/db/redis"
	"github.com/amref/learning-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(context.Background())
	cfg := a.cfg

	rdb, err := a.connectRedis(ctx)
	if err != nil {
		return err
	}

	notifier, err := a.resetNotifier(ctx)
	if err != nil {
		return err
	}

	authn := service.NewAuthenticator(a.users, a.hasher)
	authService := service.NewAuthService(a.users, a.hasher, a.codec, authn, logger.Component("auth"))
	resetService := service.NewPasswordResetService(
		a.users,
		a.hasher,
		a.codec,
		redisstore.NewResetThrottle(rdb, cfg.Auth.ResetThrottle),
		notifier,
		logger.Component("password_reset"),
	)
	guard := service.NewAccessGuard(a.users, a.codec)

	if cfg.SeedAdmin() {
		if err := a.seedAdmin(ctx, adminSeed(cfg)); err != nil {
			return err
		}
	}

	// A nil interface disables limiting; a typed nil pointer would not.
	var limiter ports.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = redisstore.NewRateLimiter(rdb, "ratelimit:auth", cfg.RateLimit.Limit, cfg.RateLimit.Window)
	}

	e := api.NewRouter(api.Deps{
		APIPrefix:   cfg.APIPrefix,
		Log:         logger.Component("http"),
		Guard:       guard,
		Auth:        authService,
		Reset:       resetService,
		Users:       a.userService(),
		RateLimiter: limiter,
		HealthChecks: map[string]handler.DependencyCheck{
			"mongodb": a.store.Ping,
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
	})

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
