package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Augusto9237/dg-notas-sub001/internal/config"
	"github.com/Augusto9237/dg-notas-sub001/internal/handler"
	notificationHandler "github.com/Augusto9237/dg-notas-sub001/internal/handler/notification"
	subscriptionHandler "github.com/Augusto9237/dg-notas-sub001/internal/handler/subscription"
	"github.com/Augusto9237/dg-notas-sub001/internal/middleware"
	"github.com/Augusto9237/dg-notas-sub001/internal/push"
	"github.com/Augusto9237/dg-notas-sub001/internal/repository/postgres"
	"github.com/Augusto9237/dg-notas-sub001/internal/router"
	dispatchService "github.com/Augusto9237/dg-notas-sub001/internal/service/dispatch"
	fallbackService "github.com/Augusto9237/dg-notas-sub001/internal/service/fallback"
	notificationService "github.com/Augusto9237/dg-notas-sub001/internal/service/notification"
	sweeperService "github.com/Augusto9237/dg-notas-sub001/internal/service/sweeper"
	"github.com/Augusto9237/dg-notas-sub001/pkg/logger"
	redisBroker "github.com/Augusto9237/dg-notas-sub001/pkg/messaging/redis"
	"github.com/Augusto9237/dg-notas-sub001/pkg/metrics"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)
	appMetrics := metrics.NewMetrics("dgnotas")

	// Initialize database
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Initialize repositories
	subscriptionRepo := postgres.NewSubscriptionRepository(db)
	queueRepo := postgres.NewQueueRepository(db)

	// Initialize the push transport once and hand it to everything that sends
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

	// Initialize Redis message broker
	broker, err := redisBroker.NewRedisBroker(cfg.Redis.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	// Initialize services
	dispatchSvc := dispatchService.NewService(pushClient, subscriptionRepo, appLogger, appMetrics)
	fallbackSvc := fallbackService.NewService(queueRepo, appLogger, appMetrics)
	sweeperSvc := sweeperService.NewService(pushClient, subscriptionRepo, appLogger, appMetrics)
	notifierSvc := notificationService.NewService(dispatchSvc, fallbackSvc, broker, notificationService.Config{
		ThrottleEnabled: cfg.Throttle.Enabled,
		ThrottleWindow:  cfg.Throttle.Window,
	}, appLogger)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Initialize handlers
	h := handler.NewHandler(db)
	notificationH := notificationHandler.NewHandler(dispatchSvc, fallbackSvc, notifierSvc, cfg.Fallback.DrainMaxAge)
	subscriptionH := subscriptionHandler.NewHandler(subscriptionRepo, dispatchSvc, sweeperSvc, pushClient.PublicKey())

	// Setup router
	r := router.NewRouter(
		authMiddleware,
		notificationH,
		subscriptionH,
		h,
		router.RouterConfig{
			RateLimitRPS:   50,
			RateLimitBurst: 100,
			CORSConfig:     middleware.DefaultCORSConfig(),
			MetricsPrefix:  "dgnotas_api",
			CronSecret:     cfg.Cron.Secret,
		},
	)
	r.Setup()

	// Create server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	// Start server
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
