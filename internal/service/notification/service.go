// Package notification is the dual-channel entry point business events use:
// every notification goes through the push fanout AND the polling fallback
// queue, independently, so a user is reachable no matter which channel their
// browser honors.
package notification

import (
	"context"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/Augusto9237/dg-notas-sub001/internal/model"
	"github.com/Augusto9237/dg-notas-sub001/internal/service/dispatch"
	"github.com/Augusto9237/dg-notas-sub001/internal/service/fallback"
	"github.com/Augusto9237/dg-notas-sub001/pkg/logger"
	"github.com/Augusto9237/dg-notas-sub001/pkg/messaging"
)

type Config struct {
	ThrottleEnabled bool
	ThrottleWindow  time.Duration
}

type Service struct {
	dispatcher *dispatch.Service
	fallback   *fallback.Service
	broker     messaging.Broker
	throttle   *cache.Cache
	logger     *logger.Logger
}

func NewService(dispatcher *dispatch.Service, fb *fallback.Service, broker messaging.Broker, cfg Config, logger *logger.Logger) *Service {
	var throttle *cache.Cache
	if cfg.ThrottleEnabled {
		window := cfg.ThrottleWindow
		if window <= 0 {
			window = time.Hour
		}
		throttle = cache.New(window, 10*time.Minute)
	}
	return &Service{
		dispatcher: dispatcher,
		fallback:   fb,
		broker:     broker,
		throttle:   throttle,
		logger:     logger,
	}
}

// Notify delivers payload to the user through both channels. The fallback
// enqueue always happens; a failure on one channel never suppresses the
// other. When throttling is enabled, a recently-notified user gets only the
// fallback entry.
func (s *Service) Notify(ctx context.Context, userID string, payload *model.NotificationPayload) (*dispatch.Result, error) {
	if _, err := s.fallback.Enqueue(ctx, userID, payload); err != nil {
		s.logger.Error(err, "failed to enqueue fallback notification", "user_id", userID)
	}

	if s.throttled(userID) {
		s.logger.Debug("push fanout throttled", "user_id", userID)
		return &dispatch.Result{InvalidEndpoints: []string{}}, nil
	}

	result, err := s.dispatcher.DispatchToUser(ctx, userID, payload)
	if err != nil {
		if err == dispatch.ErrNoTargets {
			return &dispatch.Result{InvalidEndpoints: []string{}}, nil
		}
		return nil, err
	}

	if s.throttle != nil {
		s.throttle.SetDefault(userID, time.Now())
	}

	if s.broker != nil {
		event := messaging.DispatchEvent{
			UserID:           userID,
			SuccessCount:     result.SuccessCount,
			FailureCount:     result.FailureCount,
			InvalidEndpoints: result.InvalidEndpoints,
			TotalTargets:     result.TotalTargets,
		}
		if err := s.broker.Publish(ctx, messaging.ChannelDispatched, event); err != nil {
			s.logger.Error(err, "failed to publish dispatch event")
		}
	}

	return result, nil
}

func (s *Service) throttled(userID string) bool {
	if s.throttle == nil {
		return false
	}
	_, found := s.throttle.Get(userID)
	return found
}
