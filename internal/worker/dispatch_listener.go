package worker

import (
	"context"
	"encoding/json"

	"github.com/Augusto9237/dg-notas-sub001/pkg/logger"
	"github.com/Augusto9237/dg-notas-sub001/pkg/messaging"
)

// DispatchListener consumes the fanout events the API processes publish and
// surfaces delivery activity in the worker's logs.
type DispatchListener struct {
	broker messaging.Broker
	logger *logger.Logger
}

func NewDispatchListener(broker messaging.Broker, logger *logger.Logger) *DispatchListener {
	return &DispatchListener{
		broker: broker,
		logger: logger,
	}
}

// Start blocks consuming dispatch events until ctx is cancelled or the
// broker's channel closes.
func (l *DispatchListener) Start(ctx context.Context) error {
	msgs, err := l.broker.Subscribe(ctx, messaging.ChannelDispatched)
	if err != nil {
		return err
	}
	l.logger.Info("listening for dispatch events", "channel", messaging.ChannelDispatched)

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			var event messaging.DispatchEvent
			if err := json.Unmarshal(msg, &event); err != nil {
				l.logger.Error(err, "failed to decode dispatch event")
				continue
			}
			l.logger.Info("push fanout dispatched",
				"user_id", event.UserID,
				"success", event.SuccessCount,
				"failure", event.FailureCount,
				"invalid", len(event.InvalidEndpoints),
				"targets", event.TotalTargets)
		}
	}
}
