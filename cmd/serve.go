package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"salonos-service/internal/app"
	"salonos-service/internal/ratelimit"
	"salonos-service/pkg/config"
	"salonos-service/pkg/database"
	"salonos-service/pkg/jwtutil"
	"salonos-service/pkg/logger"
	"salonos-service/pkg/password"
	"salonos-service/prometheus"

	"go.uber.org/zap"
)

// ServeCmd runs the API server until the context is cancelled.
type ServeCmd struct {
	SkipMigrate     bool          `help:"Do not auto-migrate the schema on start."`
	ShutdownTimeout time.Duration `help:"Grace period for in-flight requests." default:"10s"`
}

func (s *ServeCmd) Run(ctx context.Context) error {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logger.InitLogger(cfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.GetLogger()
	defer func() { _ = log.Sync() }()
	log.Info("Starting salonos service...", cfg.LogConfig()...)

	db, err := database.Open(&cfg.DB)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()
	log.Info("Database connection established")

	if !s.SkipMigrate {
		if err := database.Migrate(db, log); err != nil {
			return err
		}
	}

	tokens, err := jwtutil.NewJWTUtil(jwtutil.JWTConfig{
		Secret:        cfg.JWT.Secret,
		Lifetime:      cfg.JWT.Lifetime,
		SigningMethod: cfg.JWT.SigningMethod,
	})
	if err != nil {
		return err
	}
	log.Info("JWT utility initialized")

	hasher, err := password.NewHasher(cfg.Security.BcryptCost)
	if err != nil {
		return err
	}

	var limiter ratelimit.Limiter = ratelimit.Noop{}
	if cfg.Security.RedisAddr != "" {
		redisLimiter, err := ratelimit.NewRedisLimiter(ratelimit.RedisOptions{
			Addr:     cfg.Security.RedisAddr,
			Password: cfg.Security.RedisPassword,
			DB:       cfg.Security.RedisDB,
			Limit:    cfg.Security.LoginRateLimit,
			Window:   cfg.Security.LoginRateWindow,
		})
		if err != nil {
			return err
		}
		defer func() { _ = redisLimiter.Close() }()
		if err := redisLimiter.Ping(ctx); err != nil {
			log.Warn("Redis not reachable, login throttle fails open", zap.Error(err))
		}
		limiter = redisLimiter
		log.Info("Login throttle enabled",
			zap.Int("limit", cfg.Security.LoginRateLimit),
			zap.Duration("window", cfg.Security.LoginRateWindow))
	}

	prometheus.SetVersion(cfg.Metrics.Version)

	e, err := app.NewServer(app.Dependencies{
		DB:      db,
		Tokens:  tokens,
		Hasher:  hasher,
		Limiter: limiter,
		Logger:  log,
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting server", zap.String("port", cfg.Server.Port))
		errCh <- e.Start(":" + cfg.Server.Port)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
