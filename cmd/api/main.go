package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"barberm/internal/api"
	"barberm/internal/calendar"
	"barberm/internal/config"
	"barberm/internal/database"
	"barberm/internal/events"
	"barberm/internal/export"
	"barberm/internal/logging"
	"barberm/internal/metrics"
	"barberm/internal/refresh"
	"barberm/internal/repository"
	"barberm/internal/scheduling"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	redisClient := initRedis(cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	cal, err := calendar.New(cfg.Business)
	if err != nil {
		logger.Error().Err(err).Msg("build business calendar")
		return err
	}

	bus := events.NewEventBus()
	subscribeEventLogging(bus, &logger)

	engine := scheduling.NewService(db, cal, cfg.Services, cfg.Business.MaxBookingDays, bus, &logger)

	snapshotCache := buildSnapshotCache(cfg, redisClient, &logger)
	engine.SetSnapshotCache(snapshotCache)

	exporter := export.NewExporter(cfg.Exports.Path, &logger)
	httpServer := api.NewHTTPServer(cfg.API, engine, engine, exporter, cfg.Cleanup, &logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startMetrics(ctx, cfg, &logger)
	startRefresher(ctx, cfg, engine, snapshotCache, &logger)
	startBackups(ctx, cfg, &logger)

	return startServer(ctx, httpServer, cfg, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := logging.Component(baseLogger, "api-main")

	return cfg, logger, closer, nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if !cfg.Redis.Enabled || cfg.Redis.Address == "" {
		return nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)

	if err := repository.Ping(context.Background(), redisClient); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

// subscribeEventLogging wires a logging consumer onto every lifecycle
// event, the place an email or messenger notifier would also hook in.
func subscribeEventLogging(bus *events.EventBus, logger *zerolog.Logger) {
	eventLogger := logging.Component(logger, "events")

	handler := func(event *events.Event) error {
		eventLogger.Info().
			Str("type", event.Type).
			RawJSON("payload", event.Payload).
			Msg("appointment event")
		return nil
	}

	for _, eventType := range []string{
		events.EventAppointmentCreated,
		events.EventAppointmentConfirmed,
		events.EventAppointmentRejected,
		events.EventAppointmentCompleted,
		events.EventAppointmentCancelled,
	} {
		bus.Subscribe(eventType, handler)
	}
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

// buildSnapshotCache picks the day-snapshot cache shared by the engine's
// read path and the refresher: Redis with in-memory failover when Redis is
// up, plain in-memory otherwise.
func buildSnapshotCache(cfg *config.Config, redisClient *redis.Client, logger *zerolog.Logger) repository.SnapshotCache {
	ttl := time.Duration(cfg.Refresh.SnapshotTTL) * time.Second
	if redisClient == nil {
		return repository.NewMemorySnapshotCache(ttl)
	}
	return repository.NewFailoverSnapshotCache(
		repository.NewRedisSnapshotCache(redisClient, ttl),
		repository.NewMemorySnapshotCache(ttl),
		logger,
	)
}

func startRefresher(ctx context.Context, cfg *config.Config, engine *scheduling.Service, cache repository.SnapshotCache, logger *zerolog.Logger) {
	if !cfg.Refresh.Enabled {
		return
	}

	interval := time.Duration(cfg.Refresh.IntervalSeconds) * time.Second
	refresher := refresh.NewRefresher(engine, cache, interval, 0, logger)
	go refresher.Start(ctx)
}

func startBackups(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Backup.Enabled {
		return
	}
	backupService := database.NewBackupService(cfg.Database.Path, cfg.Backup, logger)
	go backupService.Start(ctx)
}

func startServer(ctx context.Context, httpServer *api.HTTPServer, cfg *config.Config, logger *zerolog.Logger) error {
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	logger.Info().Int("http_port", cfg.API.HTTP.Port).Msg("API server started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.API.HTTP.ShutdownTimeout)*time.Second)
	defer cancel()

	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("API server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
