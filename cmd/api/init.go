package main

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"deskcalc/internal/calculator"
	"deskcalc/internal/observability"
	"deskcalc/internal/session"
)

// initMetrics initialises the metric provider and every package's
// instruments. Add new InitMetrics calls here as packages grow their own.
func initMetrics(ctx context.Context) (func(context.Context) error, error) {
	shutdown, err := observability.InitMetrics(ctx)
	if err != nil {
		return nil, err
	}

	if err := calculator.InitMetrics(); err != nil {
		return nil, err
	}

	return shutdown, nil
}

// newSessionStore picks the session backend. REDIS_ADDR selects Redis,
// otherwise sessions live in process memory and die with it.
func newSessionStore(ctx context.Context) (session.Store, error) {
	cfg := session.DefaultConfig()
	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.Prefix = envOr("REDIS_SESSION_PREFIX", cfg.Prefix)

	ttl, err := envDurationOr("SESSION_TTL", cfg.TTL)
	if err != nil {
		return nil, err
	}
	cfg.TTL = ttl

	if cfg.RedisAddr == "" {
		observability.Logger.Info("using in-memory session store",
			zap.Duration("ttl", cfg.TTL),
		)

		return session.NewMemoryStore(cfg), nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	store := session.NewRedisStore(client, cfg)

	if err := store.Ping(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	observability.Logger.Info("using redis session store",
		zap.String("addr", cfg.RedisAddr),
		zap.String("prefix", cfg.Prefix),
		zap.Duration("ttl", cfg.TTL),
	)

	return store, nil
}
