package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/department-summary/internal/aggregate"
	httptransport "github.com/spec-kit/department-summary/internal/api/http"
	"github.com/spec-kit/department-summary/internal/api/http/handlers"
	"github.com/spec-kit/department-summary/internal/auth"
	"github.com/spec-kit/department-summary/internal/config"
	"github.com/spec-kit/department-summary/internal/events"
	"github.com/spec-kit/department-summary/internal/observability"
	"github.com/spec-kit/department-summary/internal/persistence"
	"github.com/spec-kit/department-summary/internal/repository"
	"github.com/spec-kit/department-summary/internal/service"
	"github.com/spec-kit/department-summary/internal/source"
	"github.com/spec-kit/department-summary/internal/store"
	"github.com/spec-kit/department-summary/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.Tracing, cfg.App.Name, cfg.App.Version)
	if err != nil {
		logger.Fatal("failed to init tracing", zap.Error(err))
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	policy, err := aggregate.ParsePolicy(cfg.Aggregate.MalformedPolicy)
	if err != nil {
		logger.Fatal("invalid malformed record policy", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	service.NewNotificationService(dispatcher, logger, cfg.Notification).RegisterHandlers()

	pingers := map[string]handlers.Pinger{}

	var fetcher source.Fetcher
	switch cfg.Source.Kind {
	case config.SourcePostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()

		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		fetcher = source.NewPostgresFetcher(repository.NewUserRepository(pg.PoolHandle()))
		pingers["postgres"] = pg
	default:
		fetcher = source.NewHTTPFetcher(cfg.Source, logger)
	}

	var summaryStore store.SummaryStore
	switch cfg.Store.Kind {
	case config.StoreRedis:
		rdb := persistence.NewRedis(ctx, cfg.Redis, logger)
		defer rdb.Close()
		summaryStore = store.NewRedisStore(rdb, cfg.Store.RedisKey)
	default:
		summaryStore = store.NewMemoryStore()
	}
	pingers["store"] = summaryStore

	summaryService := service.NewSummaryService(service.SummaryDependencies{
		Fetcher:    fetcher,
		Store:      summaryStore,
		Policy:     policy,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pingers),
		Summary:        handlers.NewSummaryHandler(summaryService, "Department Summary"),
		Metrics:        metrics,
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
	})

	logger.Info("starting",
		zap.String("addr", cfg.App.Addr()),
		zap.String("source", fetcher.Name()),
		zap.String("store", cfg.Store.Kind),
		zap.String("policy", string(policy)),
		zap.Duration("refresh_interval", cfg.Aggregate.RefreshInterval),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.Listen(cfg.App.Addr())
	})
	g.Go(func() error {
		return worker.NewRefresher(summaryService, cfg.Aggregate.RefreshInterval, logger).Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}
