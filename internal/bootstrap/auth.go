package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/target/fleet-alerts/config"
	"github.com/target/fleet-alerts/internal/adapters/authroles"
	"github.com/target/fleet-alerts/internal/adapters/devauth"
	"github.com/target/fleet-alerts/internal/adapters/oidc"
	redisadapter "github.com/target/fleet-alerts/internal/adapters/redis"
	"github.com/target/fleet-alerts/internal/ports"
	"github.com/target/fleet-alerts/internal/service"
)

// AuthConfig contains configuration for auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	Redis       config.RedisConfig
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildAuthService creates an auth service for the configured mode. Bearer
// tokens are verified by OIDC or, in mock mode, by the dev verifier. Cookie
// sessions are enabled whenever a Redis client is available.
func BuildAuthService(ctx context.Context, cfg AuthConfig) (*service.AuthService, error) {
	verifier, err := buildVerifier(ctx, cfg.Auth)
	if err != nil {
		return nil, err
	}

	opts := service.AuthServiceOptions{
		Verifier: verifier,
		Roles: authroles.StaticRoleMapper{
			AdminGroup: cfg.Auth.AdminGroup,
			UserGroup:  cfg.Auth.UserGroup,
		},
	}
	if cfg.RedisClient != nil {
		opts.Sessions = redisadapter.NewSessionStore(cfg.RedisClient, redisadapter.SessionStoreOptions{
			Prefix: cfg.Redis.SessionPrefix,
		})
	} else if cfg.Logger != nil {
		cfg.Logger.WarnContext(ctx, "session cookies disabled: redis client not configured")
	}

	if cfg.Logger != nil {
		cfg.Logger.InfoContext(ctx, "auth configured", "mode", cfg.Auth.Mode)
	}
	return service.NewAuthService(opts), nil
}

//nolint:ireturn // the verifier implementation depends on the configured mode.
func buildVerifier(ctx context.Context, cfg config.AuthConfig) (ports.TokenVerifier, error) {
	switch cfg.Mode {
	case config.AuthModeMock:
		v, err := devauth.NewVerifier(devauth.Config{
			Token:           cfg.DevAuth.Token,
			UserID:          cfg.DevAuth.UserID,
			Email:           cfg.DevAuth.Email,
			Groups:          cfg.DevAuth.Groups,
			SessionDuration: cfg.SessionTTL,
		})
		if err != nil {
			return nil, fmt.Errorf("create dev verifier: %w", err)
		}
		return v, nil

	case config.AuthModeOIDC:
		v, err := oidc.NewVerifier(ctx, oidc.VerifierConfig{
			ClientID:     cfg.OIDC.ClientID,
			DiscoveryURL: cfg.OIDC.DiscoveryURL,
			UserInfo:     cfg.OIDC.UserInfo,
		})
		if err != nil {
			return nil, fmt.Errorf("create oidc verifier: %w", err)
		}
		return v, nil

	default:
		return nil, fmt.Errorf("unsupported auth mode %q", cfg.Mode)
	}
}
