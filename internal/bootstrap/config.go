package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/target/fleet-alerts/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// InitLogger initializes the structured logger. When LOG_FILE is set every
// line is also written to a size-rotated file.
func InitLogger(cfg config.LogConfig) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(logWriter(cfg), &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)
	return logger
}

func logWriter(cfg config.LogConfig) io.Writer {
	if cfg.File == "" {
		return os.Stdout
	}
	return io.MultiWriter(os.Stdout, &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.FileMaxSizeMB,
		MaxBackups: cfg.FileMaxBackups,
		MaxAge:     cfg.FileMaxAgeDays,
		Compress:   cfg.FileCompress,
	})
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (config.AppConfig, error) {
	// Load .env file if it exists (development)
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return config.AppConfig{}, fmt.Errorf("load .env file: %w", err)
		}
	}

	var cfg config.AppConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}

// ValidateServiceConfig validates that at least one service is enabled and
// that each enabled service has what it needs to start.
func ValidateServiceConfig(cfg *config.AppConfig) error {
	if cfg == nil {
		return errors.New("service config is required")
	}
	services, err := cfg.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("invalid service configuration: %w", err)
	}

	if len(services) == 0 {
		return errors.New("no services enabled")
	}

	if services[config.ServiceModeIntake] {
		if len(cfg.Kafka.Brokers) == 0 {
			return errors.New("intake service requires KAFKA_BROKERS")
		}
		if cfg.Kafka.IntakeTopic == "" || cfg.Kafka.GroupID == "" {
			return errors.New("intake service requires KAFKA_INTAKE_TOPIC and KAFKA_GROUP_ID")
		}
	}

	if cfg.Auth.Mode == config.AuthModeOIDC && cfg.Auth.OIDC.DiscoveryURL == "" {
		return errors.New("AUTH_MODE=oidc requires AUTH_OIDC_DISCOVERY_URL")
	}

	return nil
}

// GetEnabledServices returns a sorted list of enabled service names.
func GetEnabledServices(cfg *config.AppConfig) []string {
	if cfg == nil {
		return []string{}
	}
	services, err := cfg.GetEnabledServices()
	if err != nil {
		// Return empty list on error - validation will catch this
		return []string{}
	}

	enabledServices := make([]string, 0, len(services))
	for svc := range services {
		enabledServices = append(enabledServices, string(svc))
	}
	sort.Strings(enabledServices)
	return enabledServices
}
