package components

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"spotmap/internal/api"
	"spotmap/internal/api/handlers/http/system"
	"spotmap/internal/config"
	"spotmap/internal/observability"
	"spotmap/internal/redis"
	"spotmap/internal/service"
	"spotmap/internal/storage/postgres"
	"spotmap/internal/workers"
	"spotmap/pkg/logger"
)

type Components struct {
	logger     *slog.Logger
	HttpServer *api.Server
	Postgres   *postgres.Postgres
	Redis      *redis.Redis
	Warmer     *workers.AggregationWarmer // nil when disabled
}

func InitComponents(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Components, error) {
	logger.Info("Initializing Postgres")

	storage, err := postgres.NewPostgres(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to init postgres",
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("failed to init postgres: %w", err)
	}

	if cfg.Postgres.MigrateOnStartup {
		if err := storage.Migrate(ctx); err != nil {
			storage.Close()
			return nil, fmt.Errorf("failed to migrate postgres: %w", err)
		}
	}

	logger.Info("Initializing Redis")
	redisClient, err := redis.NewRedis(ctx, cfg, logger)
	if err != nil {
		storage.Close()
		return nil, fmt.Errorf("failed to init redis: %w", err)
	}

	clock := clockwork.NewRealClock()
	metrics := observability.NewMetrics()
	cache := redis.NewAggregateCache(redisClient, cfg.Aggregation.CacheTTL)

	spotSvc := service.NewSpotService(storage.SpotStore(), clock, metrics, logger, cfg.Spots.DefaultRadiusKM)
	alertSvc := service.NewAlertService(storage.SpotStore(), storage.AlertStore(), cache, metrics, logger)
	syncSvc := service.NewCategorySync(storage.SpotStore(), storage.AlertStore(), storage.Transactor(), cache, clock, metrics, logger)

	srv := service.NewService(spotSvc, alertSvc, syncSvc)

	httpServer := api.NewServer(ctx, cfg, logger, srv, clock, map[string]system.ReadinessChecker{
		"postgres": storage,
		"redis":    redisClient,
	})
	logger.Info("Initialized server")

	var warmer *workers.AggregationWarmer
	if cfg.Aggregation.WarmInterval > 0 {
		warmer = workers.NewAggregationWarmer(alertSvc, cfg.Aggregation.WarmWorkers, cfg.Aggregation.WarmInterval, clock, logger)
	}

	return &Components{
		logger:     logger,
		HttpServer: httpServer,
		Postgres:   storage,
		Redis:      redisClient,
		Warmer:     warmer,
	}, nil
}

func SetupLogger(env string) *slog.Logger {
	switch env {
	case "local":
		return logger.SetupPrettySlog()
	case "dev":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	default:
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	}
}

func (c *Components) ShutdownAll() {
	start := time.Now()
	c.logger.Info("Shutting down components")

	c.Postgres.Close()
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.logger.Error("Redis close failed", slog.String("err", err.Error()))
		}
	}

	c.logger.Info("All components stopped",
		slog.Duration("latency", time.Since(start)))
}
