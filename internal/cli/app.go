package cli

import (
	"context"
	"fmt"
	"strconv"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/amref/learning-api/internal/api/metrics"
	"github.com/amref/learning-api/internal/core/ports"
	"github.com/amref/learning-api/internal/core/service"
	mongostore "github.com/amref/learning-api/internal/infrastructure/db/mongo"
	redisstore "github.com/amref/learning-api/internal/infrastructure/db/redis"
	"github.com/amref/learning-api/internal/infrastructure/notify"
	"github.com/amref/learning-api/internal/infrastructure/queue"
	"github.com/amref/learning-api/internal/infrastructure/security"
	"github.com/amref/learning-api/internal/pkg/config"
	"github.com/amref/learning-api/pkg/logger"
)

// app holds the process-wide collaborators shared by the commands.
type app struct {
	cfg   *config.Config
	log   zerolog.Logger
	store *mongostore.Store
	users *mongostore.UserRepository

	hasher *security.BcryptHasher
	codec  *security.JWTCodec

	closers []func(context.Context) error
}

func newApp(ctx context.Context) (*app, error) {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: cfg.ProjectName,
	})
	if cfg.GeneratedSecret {
		log.Warn().Msg("JWT_SECRET is not set; using a random per-process key, tokens will not survive a restart")
	}

	store, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  cfg.ProjectName,
	})
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: log, store: store}
	a.closers = append(a.closers, store.Close)

	a.users = mongostore.NewUserRepository(store.DB)
	if err := a.users.EnsureIndexes(ctx); err != nil {
		a.close(ctx)
		return nil, fmt.Errorf("ensure user indexes: %w", err)
	}

	a.hasher = security.NewBcryptHasher()
	a.codec, err = security.NewJWTCodec(security.JWTConfig{
		Secret:    cfg.Auth.JWTSecret,
		Algorithm: cfg.Auth.JWTAlgorithm,
		AccessTTL: cfg.Auth.AccessTokenTTL,
		ResetTTL:  cfg.Auth.ResetTokenTTL,
	})
	if err != nil {
		a.close(ctx)
		return nil, err
	}
	return a, nil
}

func (a *app) userService() ports.UserService {
	return service.NewUserService(a.users, a.hasher, logger.Component("users"))
}

func adminSeed(cfg *config.Config) ports.AdminSeed {
	return ports.AdminSeed{
		Email:    cfg.Admin.Email,
		Username: cfg.Admin.Username,
		Password: cfg.Admin.Password,
	}
}

// seedAdmin creates the configured administrator when no admin exists yet.
func (a *app) seedAdmin(ctx context.Context, seed ports.AdminSeed) error {
	_, created, err := a.userService().EnsureAdmin(ctx, seed)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if !created {
		a.log.Info().Msg("admin already present, seeding skipped")
	}
	return nil
}

func (a *app) connectRedis(ctx context.Context) (*goredis.Client, error) {
	client, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     a.cfg.Redis.Addr,
		Password: a.cfg.Redis.Password,
		DB:       a.cfg.Redis.DB,
	})
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func(context.Context) error { return client.Close() })
	return client, nil
}

// resetNotifier builds the configured sink and fronts it with a sharded
// dispatcher. The dispatcher workers stop when ctx is cancelled.
func (a *app) resetNotifier(ctx context.Context) (ports.ResetNotifier, error) {
	var sink ports.ResetNotifier
	switch a.cfg.Notifier.Kind {
	case "amqp":
		n, err := notify.NewAMQPNotifier(notify.AMQPConfig{
			URL:   a.cfg.Notifier.AMQPURL,
			Queue: a.cfg.Notifier.ResetQueue,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return n.Close() })
		sink = n
	default:
		sink = notify.NewLogNotifier(logger.Component("reset_notifier"))
	}

	d := queue.NewDispatcher(a.cfg.Notifier.Workers, sink, logger.Component("reset_dispatcher"))
	d.OnDepth = func(worker, depth int) {
		metrics.ResetQueueDepth.WithLabelValues(strconv.Itoa(worker)).Set(float64(depth))
	}
	d.Start(ctx)
	return d, nil
}

// close releases resources in reverse acquisition order.
func (a *app) close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.log.Warn().Err(err).Msg("shutdown: close failed")
		}
	}
	a.closers = nil
}
