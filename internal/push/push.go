// Package push delivers a single notification to a single endpoint over the
// Web Push protocol and classifies the outcome.
package push

import (
	"context"
	"fmt"

	"github.com/Augusto9237/dg-notas-sub001/internal/model"
)

// Outcome classifies one delivery attempt.
type Outcome int

const (
	// OutcomeDelivered means the push service accepted the message (2xx).
	OutcomeDelivered Outcome = iota
	// OutcomeTransientFailure covers network errors, encryption errors and
	// non-2xx statuses other than 404/410. The endpoint must be kept.
	OutcomeTransientFailure
	// OutcomePermanentInvalidity means the push service returned 404 or 410:
	// the subscription is gone and the caller must delete the endpoint.
	OutcomePermanentInvalidity
)

// Target identifies one push destination with its encryption key material.
type Target struct {
	Endpoint string
	P256dh   string
	Auth     string
}

// Result is the per-endpoint outcome of one send.
type Result struct {
	Endpoint   string
	Outcome    Outcome
	StatusCode int
	Err        error
}

func (r Result) Delivered() bool {
	return r.Outcome == OutcomeDelivered
}

func (r Result) Invalid() bool {
	return r.Outcome == OutcomePermanentInvalidity
}

// ErrorMessage returns a human-readable failure description, empty on success.
func (r Result) ErrorMessage() string {
	switch {
	case r.Outcome == OutcomeDelivered:
		return ""
	case r.Err != nil:
		return r.Err.Error()
	default:
		return fmt.Sprintf("push service returned status %d", r.StatusCode)
	}
}

// Transport sends one payload to one endpoint. Implementations are stateless
// and never retry; retry policy belongs to callers.
type Transport interface {
	Send(ctx context.Context, target Target, payload *model.NotificationPayload) Result
}
