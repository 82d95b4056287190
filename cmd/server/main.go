package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/paradise-yatra/data-management-system-sub003/internal/adapters/audit"
	"github.com/paradise-yatra/data-management-system-sub003/internal/adapters/cache"
	"github.com/paradise-yatra/data-management-system-sub003/internal/adapters/repositories"
	"github.com/paradise-yatra/data-management-system-sub003/internal/adapters/routing"
	"github.com/paradise-yatra/data-management-system-sub003/internal/api"
	"github.com/paradise-yatra/data-management-system-sub003/internal/config"
	"github.com/paradise-yatra/data-management-system-sub003/internal/platform/db"
	"github.com/paradise-yatra/data-management-system-sub003/internal/platform/logger"
	"github.com/paradise-yatra/data-management-system-sub003/internal/platform/obs"
	"github.com/paradise-yatra/data-management-system-sub003/internal/ports"
	"github.com/paradise-yatra/data-management-system-sub003/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, SQLite, Redis, OSRM, Kafka) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, zap.String("service", "voya-trail-engine"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownMetrics, err := obs.InitMetrics(cfg.MetricsAddr, log)
	if err != nil {
		return err
	}

	sqlDB, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := db.Migrate(sqlDB, log); err != nil {
		return err
	}

	pool, err := db.OpenPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	catalogDB, err := db.OpenSQLite(cfg.CatalogDBPath)
	if err != nil {
		return err
	}
	defer catalogDB.Close()

	if err := repositories.InitSchema(catalogDB); err != nil {
		return err
	}

	settings := loadSettings(ctx, repositories.NewPgSettingsStore(pool), cfg.Settings, log)

	store, closeStore, err := routeCacheStore(cfg, pool, catalogDB, log)
	if err != nil {
		return err
	}
	defer closeStore()

	osrm, err := routing.NewOSRMProvider(settings.RoutingBaseURL, settings.RoutingTimeout, log)
	if err != nil {
		return err
	}
	resolver := services.NewLogisticsResolver(routing.NewHaversineProvider(settings.FallbackSpeedKmh), log, osrm)
	routeCache := services.NewRouteCache(store, resolver, settings.RouteCacheTTLHours, log)

	runs, closeRuns := runLogger(cfg, log)
	defer closeRuns()

	scheduler := services.NewSchedulerService(
		repositories.NewSqlitePlaceCatalog(catalogDB),
		routeCache.Resolve,
		runs,
		settings,
		log,
	)
	pricing := services.NewPricingService(
		repositories.NewPgItineraryRepository(pool),
		runs,
		settings.DefaultMarkupPercent,
		log,
	)

	router := api.NewRouter(api.Deps{
		Scheduler: scheduler,
		Pricing:   pricing,
		Routes:    routeCache,
	}, log)

	// Timeouts leave room for a full day of cold-cache routing calls.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.String("route_cache", cfg.RouteCacheBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return errors.Join(srv.Shutdown(shutdownCtx), shutdownMetrics(shutdownCtx))
}

// loadSettings layers defaults < settings table < config file / environment.
// An unreachable settings table is not fatal.
func loadSettings(ctx context.Context, store ports.SettingsStore, overrides map[string]string, log *zap.Logger) config.Settings {
	settings := config.DefaultSettings()
	stored, err := store.All(ctx)
	if err != nil {
		log.Warn("settings table unavailable, using defaults", zap.Error(err))
	} else {
		settings = settings.Apply(stored, log)
	}
	return settings.Apply(overrides, log)
}

// routeCacheStore selects the route cache backend named by ROUTE_CACHE_BACKEND.
func routeCacheStore(cfg *config.Config, pg *pgxpool.Pool, catalog *sql.DB, log *zap.Logger) (ports.RouteCacheStore, func(), error) {
	noop := func() {}

	switch cfg.RouteCacheBackend {
	case "", "postgres":
		return cache.NewSQLRouteCache(pg, log), noop, nil
	case "sqlite":
		return cache.NewSqliteRouteCache(catalog), noop, nil
	case "memory":
		return cache.NewMemoryRouteCache(), noop, nil
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, nil, errors.New("route cache: REDIS_ADDR is required for the redis backend")
		}
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return cache.NewRedisRouteCache(client, ""), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("route cache: unknown backend %q", cfg.RouteCacheBackend)
	}
}

// runLogger publishes run metadata to Kafka when brokers are configured,
// otherwise to the service log.
func runLogger(cfg *config.Config, log *zap.Logger) (ports.RunLogger, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		return audit.NewZapRunLogger(log), func() {}
	}

	k := audit.NewKafkaRunLogger(cfg.KafkaBrokers, cfg.KafkaRunTopic, log)
	return k, func() {
		if err := k.Close(); err != nil {
			log.Warn("close kafka run logger", zap.Error(err))
		}
	}
}
