package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"go-shortview/internal/config"
	"go-shortview/internal/notify"
	"go-shortview/internal/tracking/database"
	httpdelivery "go-shortview/internal/tracking/delivery/http"
	"go-shortview/internal/tracking/domain"
	"go-shortview/internal/tracking/jobs"
	"go-shortview/internal/tracking/repository/rediscache"
	"go-shortview/internal/tracking/repository/sqlite"
	"go-shortview/internal/tracking/usecase"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// storageSet opens the database and decorates the store with the cache.
var storageSet = wire.NewSet(
	provideDB,
	provideRedisClient,
	rediscache.NewArtifactCache,
	provideStore,
)

// trackingSet builds the tracking core.
var trackingSet = wire.NewSet(
	httpdelivery.NewRouteResolver,
	wire.Bind(new(usecase.RouteResolver), new(*httpdelivery.RouteResolver)),
	provideLoopGuard,
	usecase.NewAgentFilter,
	wire.InterfaceValue(new(domain.Clock), domain.SystemClock{}),
	provideSite,
	usecase.NewTrackingService,
)

// httpSet builds the HTTP surface.
var httpSet = wire.NewSet(
	wire.Bind(new(httpdelivery.Pinger), new(*sql.DB)),
	httpdelivery.NewHandler,
	provideAuthenticator,
	provideRateLimiter,
	httpdelivery.NewRouter,
)

// openDB opens the configured database, creating the sqlite data directory.
func openDB(cfg *config.Config) (*sql.DB, error) {
	if cfg.DatabaseDriver == database.DriverSQLite && cfg.DatabaseURL != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DatabaseURL), 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := database.OpenDB(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

func provideDB(cfg *config.Config, logger *zap.Logger) (*sql.DB, func(), error) {
	db, err := openDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := database.RunMigrations(db, cfg.DatabaseDriver); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	logger.Info("database initialized", zap.String("driver", cfg.DatabaseDriver))
	cleanup := func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", zap.Error(err))
		}
	}
	return db, cleanup, nil
}

func provideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	return rediscache.NewClient(context.Background(), cfg.RedisAddr)
}

func provideStore(db *sql.DB, cfg *config.Config, cache rediscache.ArtifactCache) usecase.Store {
	return rediscache.NewStore(sqlite.NewStore(db, cfg.DatabaseDriver), cache)
}

func provideLoopGuard(resolver usecase.RouteResolver) *usecase.LoopGuard {
	return usecase.NewLoopGuard(resolver, httpdelivery.RouteRedirectLink)
}

func provideSite(cfg *config.Config) usecase.Site {
	return cfg.Site()
}

func provideSMTPConfig(cfg *config.Config) notify.SMTPConfig {
	return cfg.SMTP()
}

func provideAuthenticator(cfg *config.Config) *httpdelivery.Authenticator {
	return httpdelivery.NewAuthenticator(cfg.JWTSecret)
}

func provideRateLimiter(cfg *config.Config) (*httpdelivery.RateLimiter, func()) {
	rl := httpdelivery.NewRateLimiter(cfg.APIRateLimit)
	return rl, rl.Stop
}

func provideSweeper(svc *usecase.TrackingService, cfg *config.Config, logger *zap.Logger) *jobs.Sweeper {
	return jobs.NewSweeper(svc, cfg.SweepInterval, logger)
}

// provideNoDispatcher is for one-shot commands that never record events.
func provideNoDispatcher() usecase.Dispatcher {
	return nil
}
