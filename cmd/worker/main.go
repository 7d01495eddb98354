package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Augusto9237/dg-notas-sub001/internal/config"
	"github.com/Augusto9237/dg-notas-sub001/internal/push"
	"github.com/Augusto9237/dg-notas-sub001/internal/repository/postgres"
	fallbackService "github.com/Augusto9237/dg-notas-sub001/internal/service/fallback"
	sweeperService "github.com/Augusto9237/dg-notas-sub001/internal/service/sweeper"
	"github.com/Augusto9237/dg-notas-sub001/internal/worker"
	"github.com/Augusto9237/dg-notas-sub001/pkg/logger"
	redisBroker "github.com/Augusto9237/dg-notas-sub001/pkg/messaging/redis"
	"github.com/Augusto9237/dg-notas-sub001/pkg/metrics"
)

const (
	cleanupInterval = 10 * time.Minute
	sweepInterval   = 24 * time.Hour
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)
	appMetrics := metrics.NewMetrics("dgnotas_worker")

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	subscriptionRepo := postgres.NewSubscriptionRepository(db)
	queueRepo := postgres.NewQueueRepository(db)

	pushClient, err := push.NewClient(push.Config{
		VAPIDPublicKey:  cfg.VAPID.PublicKey,
		VAPIDPrivateKey: cfg.VAPID.PrivateKey,
		Subscriber:      cfg.VAPID.Subscriber,
		Timeout:         cfg.Push.Timeout,
		TTLSeconds:      cfg.Push.TTLSeconds,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize push client")
	}

	fallbackSvc := fallbackService.NewService(queueRepo, appLogger, appMetrics)
	sweeperSvc := sweeperService.NewService(pushClient, subscriptionRepo, appLogger, appMetrics)

	w := worker.NewMaintenanceWorker(
		fallbackSvc,
		sweeperSvc,
		appLogger,
		cleanupInterval,
		sweepInterval,
		cfg.Fallback.Retention,
	)

	ctx, cancel := context.WithCancel(context.Background())
	go w.Start(ctx)

	broker, err := redisBroker.NewRedisBroker(cfg.Redis.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	listener := worker.NewDispatchListener(broker, appLogger)
	go func() {
		if err := listener.Start(ctx); err != nil {
			appLogger.Error(err, "dispatch listener stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down worker...")
	cancel()
}
