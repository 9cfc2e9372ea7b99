package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/target/fleet-alerts/config"
	"github.com/target/fleet-alerts/internal/bootstrap"
)

const defaultCommandTimeout = 30 * time.Second

// withDatabase runs f with a connected database and a signal-aware deadline.
func withDatabase(cmdCtx *commandContext, timeout time.Duration, f func(context.Context, *sql.DB) error) error {
	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	db, err := bootstrap.ConnectDB(ctx, bootstrap.DatabaseConfig{
		DBConfig: cmdCtx.Config.Postgres,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", cerr)
		}
	}()

	return f(ctx, db)
}

// maybeConnectRedis connects when Redis is configured. A nil client with a nil
// error means no configuration was found.
//
//nolint:ireturn // returning redis.UniversalClient keeps sentinel/cluster support flexible.
func maybeConnectRedis(ctx context.Context, cmdCtx *commandContext) (redis.UniversalClient, error) {
	if !hasRedisConfig(&cmdCtx.Config.Redis) {
		cmdCtx.Logger.Info("no redis configuration detected; skipping redis connection")
		return nil, nil
	}
	client, err := bootstrap.ConnectRedis(ctx, bootstrap.DatabaseConfig{
		RedisConfig: cmdCtx.Config.Redis,
		Logger:      cmdCtx.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}

func hasRedisConfig(cfg *config.RedisConfig) bool {
	if cfg == nil {
		return false
	}
	if cfg.UseCluster {
		return len(cfg.ClusterNodes) > 0 || cfg.URI != ""
	}
	if cfg.UseSentinel {
		return len(cfg.SentinelNodes) > 0
	}
	return cfg.URI != ""
}

func closeRedis(cmdCtx *commandContext, client redis.UniversalClient) {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
		cmdCtx.Logger.Warn("redis close failed", "error", err)
	}
}

func positiveTimeout(d time.Duration) error {
	if d <= 0 {
		return errors.New("--timeout must be greater than zero")
	}
	return nil
}
