package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/target/fleet-alerts/config"
	"github.com/target/fleet-alerts/internal/bootstrap"
	"github.com/target/fleet-alerts/internal/data"
	"github.com/target/fleet-alerts/internal/devseed"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		slog.ErrorContext(ctx, "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
	logger := bootstrap.InitLogger(cfg.Log)

	if err := run(ctx, logger, &cfg); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		stop()
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) (err error) {
	logStartupInfo(ctx, logger, cfg)

	if err = bootstrap.ValidateServiceConfig(cfg); err != nil {
		return err
	}

	db, redisClient, err := initInfrastructure(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close database failed", "error", cerr)
		}
		if cerr := redisClient.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close redis failed", "error", cerr)
		}
	}()

	if cfg.Postgres.RunMigrationsOnStart {
		if err = bootstrap.RunMigrations(ctx, db, logger); err != nil {
			return err
		}
	} else {
		logger.InfoContext(ctx, "skipping database migrations on startup", "reason", "disabled via config")
	}

	if cfg.IsDev {
		if seedErr := devseed.Run(ctx, data.NewDeviceRepo(db), logger); seedErr != nil {
			logger.WarnContext(ctx, "development seeding incomplete", "error", seedErr)
		}
	}

	services, err := bootstrap.NewServices(ctx, &bootstrap.ServiceDeps{
		Config:      cfg,
		DB:          db,
		RedisClient: redisClient,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := services.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close services failed", "error", cerr)
		}
	}()

	err = bootstrap.RunServices(ctx, &bootstrap.ServiceOrchestrationConfig{
		Config:      cfg,
		Services:    services,
		DB:          db,
		RedisClient: redisClient,
		Logger:      logger,
	})
	logger.InfoContext(ctx, "fleet-alerts stopped")
	return err
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting fleet-alerts",
		"db_host", cfg.Postgres.Host,
		"db_port", cfg.Postgres.Port,
		"db_name", cfg.Postgres.Name,
		"auth_mode", cfg.Auth.Mode,
		"dev", cfg.IsDev,
		"enabled_services", bootstrap.GetEnabledServices(cfg))
}

// initInfrastructure connects shared dependencies used by the service runtime.
//
//nolint:ireturn // returning redis.UniversalClient keeps sentinel/cluster support flexible.
func initInfrastructure(
	ctx context.Context,
	cfg *config.AppConfig,
	logger *slog.Logger,
) (*sql.DB, redis.UniversalClient, error) {
	dbCfg := bootstrap.DatabaseConfig{
		DBConfig:    cfg.Postgres,
		RedisConfig: cfg.Redis,
		Logger:      logger,
	}

	db, err := bootstrap.ConnectDB(ctx, dbCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect db: %w", err)
	}

	redisClient, err := bootstrap.ConnectRedis(ctx, dbCfg)
	if err != nil {
		if cerr := db.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close database after redis connect failure", "error", cerr)
			return nil, nil, fmt.Errorf("connect redis: %w", errors.Join(err, fmt.Errorf("close database: %w", cerr)))
		}
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}

	return db, redisClient, nil
}
