package worker

import (
	"context"
	"time"

	"github.com/Augusto9237/dg-notas-sub001/internal/service/fallback"
	"github.com/Augusto9237/dg-notas-sub001/internal/service/sweeper"
	"github.com/Augusto9237/dg-notas-sub001/pkg/logger"
)

// MaintenanceWorker runs the two scheduled jobs the delivery core needs: the
// fallback-queue retention sweep and the full endpoint health sweep.
type MaintenanceWorker struct {
	fallback        *fallback.Service
	sweeper         *sweeper.Service
	logger          *logger.Logger
	cleanupInterval time.Duration
	sweepInterval   time.Duration
	retention       time.Duration
}

func NewMaintenanceWorker(
	fb *fallback.Service,
	sw *sweeper.Service,
	logger *logger.Logger,
	cleanupInterval time.Duration,
	sweepInterval time.Duration,
	retention time.Duration,
) *MaintenanceWorker {
	return &MaintenanceWorker{
		fallback:        fb,
		sweeper:         sw,
		logger:          logger,
		cleanupInterval: cleanupInterval,
		sweepInterval:   sweepInterval,
		retention:       retention,
	}
}

func (w *MaintenanceWorker) Start(ctx context.Context) {
	cleanupTicker := time.NewTicker(w.cleanupInterval)
	defer cleanupTicker.Stop()
	sweepTicker := time.NewTicker(w.sweepInterval)
	defer sweepTicker.Stop()

	w.logger.Info("starting maintenance worker",
		"cleanup_interval", w.cleanupInterval.String(),
		"sweep_interval", w.sweepInterval.String())

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("shutting down maintenance worker")
			return
		case <-cleanupTicker.C:
			if _, err := w.fallback.Cleanup(ctx, w.retention); err != nil {
				w.logger.Error(err, "failed to cleanup fallback queue")
			}
		case <-sweepTicker.C:
			if _, err := w.sweeper.Sweep(ctx); err != nil {
				w.logger.Error(err, "failed to sweep endpoints")
			}
		}
	}
}
