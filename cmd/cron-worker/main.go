package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/danhewitt/motorline-backend/internal/classifieds"
	"github.com/danhewitt/motorline-backend/internal/cron"
	"github.com/danhewitt/motorline-backend/internal/favourites"
	"github.com/danhewitt/motorline-backend/internal/taxonomy"
	"github.com/danhewitt/motorline-backend/pkg/config"
	"github.com/danhewitt/motorline-backend/pkg/db"
	"github.com/danhewitt/motorline-backend/pkg/logger"
	"github.com/danhewitt/motorline-backend/pkg/metrics"
	"github.com/danhewitt/motorline-backend/pkg/migrate"
	"github.com/danhewitt/motorline-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	classifiedsRepo := classifieds.NewRepository(dbClient.DB())

	taxonomyCache, err := taxonomy.NewCache(taxonomy.CacheParams{
		Store:    redisClient,
		Logger:   logg,
		Key:      redisClient.TaxonomyKey(),
		TTL:      cfg.Taxonomy.CacheTTL,
		FilePath: cfg.Taxonomy.FilePath,
	})
	exitOn(logg, "taxonomy cache", err)
	taxonomySvc, err := taxonomy.NewService(taxonomy.ServiceParams{
		Repo:    taxonomy.NewRepository(dbClient.DB()),
		Cache:   taxonomyCache,
		Store:   redisClient,
		Logger:  logg,
		LockKey: redisClient.TaxonomyLockKey(),
		LockTTL: cfg.Taxonomy.LockTTL,
	})
	exitOn(logg, "taxonomy service", err)

	favouritesStore, err := favourites.NewStore(redisClient, redisClient.FavouritesKey)
	exitOn(logg, "favourites store", err)
	favouritesRepo := favourites.NewRepository(dbClient.DB())
	favouritesSvc, err := favourites.NewService(favourites.ServiceParams{
		Store:           favouritesStore,
		Repo:            favouritesRepo,
		ClassifiedsRepo: classifiedsRepo,
		Logger:          logg,
		PageSize:        cfg.Favourites.PageSize,
	})
	exitOn(logg, "favourites service", err)

	taxonomyJob, err := cron.NewTaxonomyRefreshJob(taxonomySvc)
	exitOn(logg, "taxonomy refresh job", err)
	favouritesJob, err := cron.NewFavouritesReconcileJob(favouritesSvc, favouritesRepo, logg)
	exitOn(logg, "favourites reconcile job", err)

	lock, err := cron.NewRedisLock(redisClient, redisClient.CronLockKey(), cfg.Cron.LockTTL)
	exitOn(logg, "cron lock", err)

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(taxonomyJob, favouritesJob),
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Cron.Interval,
	})
	exitOn(logg, "cron service", err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithField(ctx, "env", cfg.App.Env)
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func exitOn(logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+resource, err)
	os.Exit(1)
}
