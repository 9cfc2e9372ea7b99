package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/target/fleet-alerts/config"
	"github.com/target/fleet-alerts/internal/adapters/kafka"
	redisadapter "github.com/target/fleet-alerts/internal/adapters/redis"
	"github.com/target/fleet-alerts/internal/core"
	"github.com/target/fleet-alerts/internal/data"
	httpx "github.com/target/fleet-alerts/internal/http"
	"github.com/target/fleet-alerts/internal/observability/statsd"
	"github.com/target/fleet-alerts/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Alerts  *service.AlertService
	Auth    *service.AuthService
	Metrics *statsd.Client

	// closers are released in reverse order by Close.
	closers []io.Closer
}

// Close releases event writers and the metrics client.
func (c *ServiceContainer) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices wires repositories, fan-out publishers, metrics and auth into
// the services used by every runtime mode.
func NewServices(ctx context.Context, deps *ServiceDeps) (*ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return nil, errors.New("service deps with config are required")
	}
	if deps.DB == nil {
		return nil, errors.New("database is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	container := &ServiceContainer{}
	container.Metrics = buildMetrics(logger, cfg.Observability.Metrics)
	if container.Metrics != nil {
		container.closers = append(container.closers, container.Metrics)
	}

	events := buildEventPublisher(ctx, container, deps, logger)

	alertOpts := service.AlertServiceOptions{
		Alerts:  data.NewAlertRepo(deps.DB),
		Devices: data.NewDeviceRepo(deps.DB),
		Events:  events,
		Logger:  logger,
	}
	if container.Metrics != nil {
		alertOpts.Metrics = container.Metrics
	}
	alerts, err := service.NewAlertService(alertOpts)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("create alert service: %w", err), container.Close())
	}
	container.Alerts = alerts

	auth, err := BuildAuthService(ctx, AuthConfig{
		Auth:        cfg.Auth,
		Redis:       cfg.Redis,
		RedisClient: deps.RedisClient,
		Logger:      logger,
	})
	if err != nil {
		return nil, errors.Join(fmt.Errorf("create auth service: %w", err), container.Close())
	}
	container.Auth = auth

	return container, nil
}

func buildMetrics(logger *slog.Logger, cfg config.ObservabilityMetricsConfig) *statsd.Client {
	if !cfg.IsEnabled() {
		return nil
	}
	client, err := statsd.NewClient(statsd.Config{
		Address: cfg.StatsdAddress,
		Prefix:  cfg.Prefix,
		Env:     cfg.Env,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		return nil
	}
	return client
}

// buildEventPublisher fans lifecycle events out to Redis pub/sub and, when a
// topic is configured, to Kafka.
//
//nolint:ireturn // the publisher is a fan-out over whichever sinks are configured.
func buildEventPublisher(
	ctx context.Context,
	container *ServiceContainer,
	deps *ServiceDeps,
	logger *slog.Logger,
) core.AlertEventPublisher {
	var fanout core.FanoutPublisher
	if deps.RedisClient != nil && deps.Config.Redis.EventsChannel != "" {
		fanout = append(fanout, redisadapter.NewEventPublisher(deps.RedisClient, deps.Config.Redis.EventsChannel))
	}
	if deps.Config.Kafka.EventsEnabled() {
		writer := kafka.NewEventWriter(kafka.NewWriter(deps.Config.Kafka.Brokers, deps.Config.Kafka.EventsTopic))
		container.closers = append(container.closers, writer)
		fanout = append(fanout, writer)
	}

	logger.InfoContext(ctx, "alert event fan-out configured", "sinks", len(fanout))
	if len(fanout) == 0 {
		return core.NoopPublisher{}
	}
	return fanout
}

// ReadinessChecks returns the dependencies reported by /readyz.
func ReadinessChecks(db *sql.DB, client redis.UniversalClient) map[string]httpx.Pinger {
	checks := map[string]httpx.Pinger{}
	if db != nil {
		checks["postgres"] = db
	}
	if client != nil {
		checks["redis"] = redisPinger{client: client}
	}
	return checks
}

type redisPinger struct {
	client redis.UniversalClient
}

func (p redisPinger) PingContext(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config      *config.AppConfig
	Services    *ServiceContainer
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// backgroundService describes a component that runs until its context ends.
type backgroundService struct {
	mode config.ServiceMode
	run  func(context.Context) error
}

// RunServices starts every enabled service and blocks until ctx is cancelled
// or one of them fails. A failure cancels the others.
func RunServices(ctx context.Context, cfg *ServiceOrchestrationConfig) error {
	if cfg == nil || cfg.Config == nil || cfg.Services == nil {
		return errors.New("service orchestration config with app config and services is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	enabled, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}

	return runAll(ctx, logger, selectServices(enabled, buildBackgroundServices(cfg, logger)))
}

func buildBackgroundServices(cfg *ServiceOrchestrationConfig, logger *slog.Logger) []backgroundService {
	return []backgroundService{
		{
			mode: config.ServiceModeHTTP,
			run: func(ctx context.Context) error {
				return RunHTTPServer(ctx, &HTTPServerConfig{
					HTTP: cfg.Config.HTTP,
					Router: httpx.RouterServices{
						Alerts: cfg.Services.Alerts,
						Auth:   cfg.Services.Auth,
						Ready:  ReadinessChecks(cfg.DB, cfg.RedisClient),
						Logger: logger,
					},
					Logger: logger,
				})
			},
		},
		{
			mode: config.ServiceModeIntake,
			run: func(ctx context.Context) error {
				return RunIntake(ctx, IntakeConfig{
					Kafka:  cfg.Config.Kafka,
					Alerts: cfg.Services.Alerts,
					Logger: logger,
				})
			},
		},
	}
}

func selectServices(enabled map[config.ServiceMode]bool, all []backgroundService) []backgroundService {
	out := make([]backgroundService, 0, len(all))
	for _, svc := range all {
		if enabled[svc.mode] {
			out = append(out, svc)
		}
	}
	return out
}

func runAll(ctx context.Context, logger *slog.Logger, services []backgroundService) error {
	if len(services) == 0 {
		return errors.New("no services enabled")
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, svc := range services {
		g.Go(func() error {
			logger.InfoContext(gctx, "service started", "service", svc.mode)
			if err := svc.run(gctx); err != nil {
				return fmt.Errorf("%s failed: %w", svc.mode, err)
			}
			logger.InfoContext(gctx, "service stopped", "service", svc.mode)
			return nil
		})
	}
	return g.Wait()
}

// IntakeConfig contains dependencies for the Kafka intake consumer.
type IntakeConfig struct {
	Kafka  config.KafkaConfig
	Alerts kafka.AlertCreator
	Logger *slog.Logger
}

// RunIntake consumes alert requests until ctx is cancelled.
func RunIntake(ctx context.Context, cfg IntakeConfig) error {
	intake, err := kafka.NewIntake(kafka.IntakeOptions{
		Reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.IntakeTopic,
			GroupID: cfg.Kafka.GroupID,
		}),
		Alerts:          cfg.Alerts,
		Logger:          cfg.Logger,
		RetryBackoff:    cfg.Kafka.RetryBackoff,
		MaxRetryBackoff: cfg.Kafka.MaxRetryBackoff,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := intake.Close(); cerr != nil && cfg.Logger != nil {
			cfg.Logger.Error("close intake reader failed", "error", cerr)
		}
	}()
	return intake.Run(ctx)
}
