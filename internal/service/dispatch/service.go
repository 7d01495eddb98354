// Package dispatch fans one notification out to many endpoints concurrently
// and prunes endpoints the push service reports as permanently gone.
package dispatch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Augusto9237/dg-notas-sub001/internal/model"
	"github.com/Augusto9237/dg-notas-sub001/internal/push"
	"github.com/Augusto9237/dg-notas-sub001/internal/repository"
	"github.com/Augusto9237/dg-notas-sub001/pkg/logger"
	"github.com/Augusto9237/dg-notas-sub001/pkg/metrics"
)

// ErrNoTargets is returned when a dispatch is requested with no endpoints.
// The message keeps the platform's locale.
var ErrNoTargets = errors.New("nenhuma subscription fornecida")

// EndpointResult is the per-endpoint view of a fanout, used by the test-send
// surface.
type EndpointResult struct {
	Endpoint string `json:"endpoint"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

// Result aggregates one fanout. Per-endpoint failures never fail the batch;
// callers get counts plus the endpoints that were pruned.
type Result struct {
	SuccessCount     int              `json:"successCount"`
	FailureCount     int              `json:"failureCount"`
	InvalidEndpoints []string         `json:"invalidEndpoints"`
	TotalTargets     int              `json:"totalTargets"`
	Endpoints        []EndpointResult `json:"-"`
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

// Dispatch sends payload to every target concurrently, waits for all sends,
// then removes permanently-invalid endpoints in one batch.
func (s *Service) Dispatch(ctx context.Context, targets []push.Target, payload *model.NotificationPayload) (*Result, error) {
	if len(targets) == 0 {
		return nil, ErrNoTargets
	}

	results := make(chan push.Result, len(targets))
	var wg sync.WaitGroup
	for _, target := range targets {
		wg.Add(1)
		go func(t push.Target) {
			defer wg.Done()
			start := time.Now()
			r := s.transport.Send(ctx, t, payload)
			s.metrics.PushSendDuration.Observe(time.Since(start).Seconds())
			results <- r
		}(target)
	}
	wg.Wait()
	close(results)

	agg := &Result{
		InvalidEndpoints: []string{},
		TotalTargets:     len(targets),
	}
	for r := range results {
		agg.Endpoints = append(agg.Endpoints, EndpointResult{
			Endpoint: r.Endpoint,
			Success:  r.Delivered(),
			Error:    r.ErrorMessage(),
		})
		switch {
		case r.Delivered():
			agg.SuccessCount++
			s.metrics.PushSends.WithLabelValues("delivered").Inc()
		case r.Invalid():
			agg.FailureCount++
			agg.InvalidEndpoints = append(agg.InvalidEndpoints, r.Endpoint)
			s.metrics.PushSends.WithLabelValues("invalid").Inc()
		default:
			agg.FailureCount++
			s.metrics.PushSends.WithLabelValues("transient_failure").Inc()
			s.logger.Warn("push send failed",
				"endpoint", truncate(r.Endpoint, 60),
				"status", r.StatusCode,
				"error", r.ErrorMessage())
		}
	}

	// Batched delete after all sends, one storage round-trip.
	if len(agg.InvalidEndpoints) > 0 {
		removed, err := s.subs.DeleteByEndpoints(ctx, agg.InvalidEndpoints)
		if err != nil {
			s.logger.Error(err, "failed to remove invalid subscriptions")
		} else {
			s.metrics.InvalidEndpoints.Add(float64(removed))
			s.logger.Info("removed invalid subscriptions", "count", removed)
		}
	}

	return agg, nil
}

// DispatchToUser loads the user's registered endpoints and dispatches to all
// of them.
func (s *Service) DispatchToUser(ctx context.Context, userID string, payload *model.NotificationPayload) (*Result, error) {
	subs, err := s.subs.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	targets := make([]push.Target, len(subs))
	for i, sub := range subs {
		targets[i] = push.Target{
			Endpoint: sub.Endpoint,
			P256dh:   sub.P256dh,
			Auth:     sub.Auth,
		}
	}
	return s.Dispatch(ctx, targets, payload)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
