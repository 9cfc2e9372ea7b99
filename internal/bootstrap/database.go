package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/redis/go-redis/v9"
	"github.com/target/fleet-alerts/config"
	"github.com/target/fleet-alerts/internal/data"
)

const connectTimeout = 5 * time.Second

// DatabaseConfig contains configuration for database connections.
type DatabaseConfig struct {
	DBConfig    config.DBConfig
	RedisConfig config.RedisConfig
	Logger      *slog.Logger
}

// PostgresDSN builds the connection URL, escaping credentials.
func PostgresDSN(cfg config.DBConfig) string {
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:   "/" + cfg.Name,
	}
	q := u.Query()
	q.Set("sslmode", cfg.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// ConnectDB opens the PostgreSQL pool and verifies it with a ping.
func ConnectDB(ctx context.Context, cfg DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", PostgresDSN(cfg.DBConfig))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.DBConfig.MaxOpenConns)
	db.SetMaxIdleConns(cfg.DBConfig.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.DBConfig.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if pingErr := db.PingContext(pingCtx); pingErr != nil {
		if closeErr := db.Close(); closeErr != nil {
			pingErr = errors.Join(pingErr, fmt.Errorf("close database connection: %w", closeErr))
		}
		return nil, fmt.Errorf("ping database: %w", pingErr)
	}

	if cfg.Logger != nil {
		cfg.Logger.InfoContext(ctx, "database connected",
			"host", cfg.DBConfig.Host,
			"port", cfg.DBConfig.Port,
			"database", cfg.DBConfig.Name,
		)
	}

	return db, nil
}

// ConnectRedis connects to a single node, a sentinel group or a cluster,
// depending on configuration, and verifies the connection.
//
//nolint:ireturn // returning redis.UniversalClient lets us pick single, sentinel, or cluster clients at runtime.
func ConnectRedis(ctx context.Context, cfg DatabaseConfig) (redis.UniversalClient, error) {
	opts, desc, err := RedisOptions(cfg.RedisConfig)
	if err != nil {
		return nil, err
	}
	var client redis.UniversalClient
	if cfg.RedisConfig.UseCluster {
		client = redis.NewClusterClient(opts.Cluster())
	} else {
		client = redis.NewUniversalClient(opts)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if pingErr := client.Ping(pingCtx).Err(); pingErr != nil {
		if closeErr := client.Close(); closeErr != nil {
			pingErr = errors.Join(pingErr, fmt.Errorf("close redis client: %w", closeErr))
		}
		return nil, fmt.Errorf("ping redis: %w", pingErr)
	}

	if cfg.Logger != nil {
		cfg.Logger.InfoContext(ctx, "redis connected", "addr", desc)
	}
	return client, nil
}

// RedisOptions translates configuration into universal client options plus a
// credential-free description for logs. Setting MasterName selects a failover
// client.
func RedisOptions(cfg config.RedisConfig) (*redis.UniversalOptions, string, error) {
	switch {
	case cfg.UseCluster:
		addrs := normalizeAddrs(cfg.ClusterNodes)
		opts := &redis.UniversalOptions{Password: cfg.Password}
		if len(addrs) == 0 {
			// Fall back to the single URI as a cluster seed.
			seed, err := directOptions(cfg)
			if err != nil {
				return nil, "", err
			}
			addrs = seed.Addrs
			opts.Username = seed.Username
			opts.Password = seed.Password
			opts.TLSConfig = seed.TLSConfig
		}
		opts.Addrs = addrs
		return opts, "cluster:" + strings.Join(addrs, ","), nil

	case cfg.UseSentinel:
		nodes := normalizeAddrs(cfg.SentinelNodes)
		if len(nodes) == 0 {
			return nil, "", errors.New("redis sentinel configuration requires at least one sentinel node")
		}
		return &redis.UniversalOptions{
			Addrs:            nodes,
			MasterName:       cfg.SentinelMasterName,
			Password:         cfg.Password,
			SentinelPassword: cfg.SentinelPassword,
		}, "sentinel:" + cfg.SentinelMasterName, nil

	default:
		opts, err := directOptions(cfg)
		if err != nil {
			return nil, "", err
		}
		return opts, opts.Addrs[0], nil
	}
}

func directOptions(cfg config.RedisConfig) (*redis.UniversalOptions, error) {
	uri := strings.TrimSpace(cfg.URI)
	if uri == "" {
		return nil, errors.New("redis configuration requires a URI")
	}
	if !isRedisURL(uri) {
		return &redis.UniversalOptions{Addrs: []string{uri}, Password: cfg.Password}, nil
	}

	parsed, err := redis.ParseURL(uri)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	password := cfg.Password
	if parsed.Password != "" {
		password = parsed.Password
	}
	return &redis.UniversalOptions{
		Addrs:     []string{parsed.Addr},
		Username:  parsed.Username,
		Password:  password,
		DB:        parsed.DB,
		TLSConfig: parsed.TLSConfig,
	}, nil
}

func normalizeAddrs(raw []string) []string {
	result := make([]string, 0, len(raw))
	for _, addr := range raw {
		if trimmed := strings.TrimSpace(addr); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func isRedisURL(value string) bool {
	return strings.HasPrefix(value, "redis://") || strings.HasPrefix(value, "rediss://")
}

// RunMigrations applies pending schema migrations.
func RunMigrations(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	applied, err := data.RunMigrations(ctx, db)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	if logger != nil {
		logger.InfoContext(ctx, "database migrations completed", "applied", applied)
	}

	return nil
}
