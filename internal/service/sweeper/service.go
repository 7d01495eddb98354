// Package sweeper probes every stored endpoint with a silent payload and
// removes the ones the push service reports as permanently gone.
package sweeper

import (
	"context"
	"sync"
	"time"

	"github.com/Augusto9237/dg-notas-sub001/internal/model"
	"github.com/Augusto9237/dg-notas-sub001/internal/push"
	"github.com/Augusto9237/dg-notas-sub001/internal/repository"
	"github.com/Augusto9237/dg-notas-sub001/pkg/logger"
	"github.com/Augusto9237/dg-notas-sub001/pkg/metrics"
)

// probePayload is silent on engines that honor tag-based dedupe; engines that
// render it anyway collapse repeats under the same tag.
var probePayload = &model.NotificationPayload{
	Title:              "dg-notas",
	Tag:                "health-check",
	RequireInteraction: false,
}

// SweepResult summarizes one full health sweep.
type SweepResult struct {
	TotalChecked int `json:"totalChecked"`
	InvalidFound int `json:"invalidFound"`
	Removed      int `json:"removed"`
}

type Service struct {
	transport push.Transport
	subs      repository.SubscriptionRepository
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

func NewService(transport push.Transport, subs repository.SubscriptionRepository, logger *logger.Logger, metrics *metrics.Metrics) *Service {
	return &Service{
		transport: transport,
		subs:      subs,
		logger:    logger,
		metrics:   metrics,
	}
}

// Sweep probes every stored endpoint concurrently. A transient failure keeps
// the endpoint and never stops the sweep; only 404/410 results are removed,
// in one batch after all probes complete. Full-table scan, intended for an
// operator trigger or a low-frequency schedule.
func (s *Service) Sweep(ctx context.Context) (*SweepResult, error) {
	start := time.Now()

	subs, err := s.subs.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	s.metrics.SubscriptionsStored.Set(float64(len(subs)))

	result := &SweepResult{TotalChecked: len(subs)}
	if len(subs) == 0 {
		return result, nil
	}

	results := make(chan push.Result, len(subs))
	var wg sync.WaitGroup
	for _, sub := range subs {
		wg.Add(1)
		go func(t push.Target) {
			defer wg.Done()
			sendStart := time.Now()
			r := s.transport.Send(ctx, t, probePayload)
			s.metrics.PushSendDuration.Observe(time.Since(sendStart).Seconds())
			results <- r
		}(push.Target{Endpoint: sub.Endpoint, P256dh: sub.P256dh, Auth: sub.Auth})
	}
	wg.Wait()
	close(results)

	var invalid []string
	for r := range results {
		if r.Invalid() {
			invalid = append(invalid, r.Endpoint)
		}
	}
	result.InvalidFound = len(invalid)

	if len(invalid) > 0 {
		removed, err := s.subs.DeleteByEndpoints(ctx, invalid)
		if err != nil {
			return nil, err
		}
		result.Removed = int(removed)
		s.metrics.SweepRemovals.Add(float64(removed))
	}

	s.metrics.SweepDuration.Observe(time.Since(start).Seconds())
	s.logger.Info("endpoint sweep complete",
		"checked", result.TotalChecked,
		"invalid", result.InvalidFound,
		"removed", result.Removed)

	return result, nil
}
