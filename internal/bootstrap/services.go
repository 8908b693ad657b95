package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/target/seyren-notify/config"
	"github.com/target/seyren-notify/internal/core"
	"github.com/target/seyren-notify/internal/data"
	"github.com/target/seyren-notify/internal/observability/statsd"
	"github.com/target/seyren-notify/internal/service/dispatcher"
)

// ServiceContainer holds the wired dispatch stack.
type ServiceContainer struct {
	Dispatcher *dispatcher.Service
	Registry   *dispatcher.Registry
	// Outcomes is nil when the Redis ledger is disabled.
	Outcomes core.OutcomeRecorder
	Metrics  *statsd.Client

	redis redis.UniversalClient
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config *config.AppConfig
	Logger *slog.Logger
	// Redis overrides the client built from config. Used by tests.
	Redis redis.UniversalClient
}

// NewServices wires notifiers, the registry, metrics and the optional outcome ledger
// into a dispatcher.
func NewServices(ctx context.Context, deps *ServiceDeps) (*ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return nil, errors.New("service config is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	registry, err := BuildRegistry(cfg, logger)
	if err != nil {
		return nil, err
	}

	c := &ServiceContainer{Registry: registry}
	c.Metrics = buildMetrics(logger, cfg.Observability)

	if err := c.connectLedger(ctx, deps, logger); err != nil {
		c.Close()
		return nil, err
	}

	c.Dispatcher = dispatcher.NewService(dispatcher.ServiceOptions{
		Registry: registry,
		Observers: dispatcher.Observers{
			Recorder: c.Outcomes,
			Metrics:  c.Metrics,
			Logger:   logger,
		},
		Config: dispatcher.Config{Concurrency: cfg.Dispatch.Concurrency},
	})
	return c, nil
}

func (c *ServiceContainer) connectLedger(ctx context.Context, deps *ServiceDeps, logger *slog.Logger) error {
	client := deps.Redis
	if client == nil {
		if !deps.Config.Redis.Enabled {
			return nil
		}
		var err error
		client, err = ConnectRedis(ctx, RedisDeps{Config: deps.Config.Redis, Logger: logger})
		if err != nil {
			return fmt.Errorf("connect outcome ledger: %w", err)
		}
		c.redis = client
	}
	c.Outcomes = data.NewRedisOutcomeRepo(client, deps.Config.Redis.OutcomeTTL)
	return nil
}

func buildMetrics(logger *slog.Logger, cfg config.ObservabilityConfig) *statsd.Client {
	if !cfg.Metrics.IsEnabled() {
		return nil
	}
	client, err := statsd.NewClient(statsd.Config{
		Enabled: true,
		Address: cfg.Metrics.StatsdAddress,
		Prefix:  cfg.Metrics.Prefix,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		return nil
	}
	return client
}

// Close releases the connections the container opened itself.
func (c *ServiceContainer) Close() {
	if c == nil {
		return
	}
	if err := c.Metrics.Close(); err != nil {
		slog.Default().Warn("failed to close statsd client", "error", err)
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			slog.Default().Warn("failed to close redis client", "error", err)
		}
	}
}
