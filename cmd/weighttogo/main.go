package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	adapthttp "weighttogo/internal/adapter/http"
	"weighttogo/internal/adapter/memory"
	"weighttogo/internal/adapter/postgres"
	"weighttogo/internal/adapter/redis"
	"weighttogo/internal/app"
	"weighttogo/internal/config"
	"weighttogo/internal/domain"
	"weighttogo/internal/logging"
)

// store is everything the services persist through.
type store interface {
	domain.WeightRepository
	domain.GoalRepository
	domain.AchievementRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(logging.Options{
		Level:      cfg.Log.Level,
		Path:       cfg.Log.Path,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	var db store
	if cfg.DatabaseURL != "" {
		pg, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer func() { _ = pg.Close() }()
		db = pg
		logger.Info("using postgres store")
	} else {
		db = memory.New()
		logger.Warn("DATABASE_URL not set, using in-memory store")
	}

	opts := []app.EngineOption{
		app.WithClock(time.Now, cfg.Location),
		app.WithLogger(logger.Named("achievements")),
	}
	if cfg.Redis.Addr != "" {
		client, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()

		lockCfg := redis.DefaultConfig()
		lockCfg.TTL = cfg.Redis.LockTTL
		opts = append(opts, app.WithLocker(redis.NewLocker(client, lockCfg, logger.Named("lock"))))
		logger.Info("using redis locks", zap.String("addr", cfg.Redis.Addr))
	}

	engine := app.NewAchievementEngine(db, db, db, opts...)
	weightSvc := app.NewWeightService(db, db, engine, logger)
	goalSvc := app.NewGoalService(db, db)
	achievementSvc := app.NewAchievementService(db)
	chartsSvc := app.NewChartsService(db, engine)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           adapthttp.New(weightSvc, goalSvc, achievementSvc, chartsSvc, cfg.WebDir, logger.Named("http")).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr), zap.String("tz", cfg.Timezone))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
