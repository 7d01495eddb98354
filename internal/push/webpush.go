package push

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/Augusto9237/dg-notas-sub001/internal/model"
)

const defaultTimeout = 10 * time.Second

// Config holds the VAPID credentials and send parameters for the Web Push
// transport.
type Config struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	Subscriber      string
	Timeout         time.Duration
	TTLSeconds      int
}

// Client is the Web Push implementation of Transport. Construct once at
// process start and pass by reference to every component that sends.
type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.VAPIDPublicKey == "" || cfg.VAPIDPrivateKey == "" {
		return nil, fmt.Errorf("vapid key pair is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// PublicKey returns the VAPID public key browsers need to subscribe.
func (c *Client) PublicKey() string {
	return c.cfg.VAPIDPublicKey
}

func (c *Client) Send(ctx context.Context, target Target, payload *model.NotificationPayload) Result {
	body, err := json.Marshal(payload)
	if err != nil {
		return Result{
			Endpoint: target.Endpoint,
			Outcome:  OutcomeTransientFailure,
			Err:      fmt.Errorf("failed to marshal payload: %w", err),
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	sub := &webpush.Subscription{
		Endpoint: target.Endpoint,
		Keys: webpush.Keys{
			P256dh: target.P256dh,
			Auth:   target.Auth,
		},
	}

	resp, err := webpush.SendNotificationWithContext(ctx, body, sub, &webpush.Options{
		HTTPClient:      c.http,
		Subscriber:      c.cfg.Subscriber,
		TTL:             c.cfg.TTLSeconds,
		VAPIDPublicKey:  c.cfg.VAPIDPublicKey,
		VAPIDPrivateKey: c.cfg.VAPIDPrivateKey,
	})
	if err != nil {
		return Result{
			Endpoint: target.Endpoint,
			Outcome:  OutcomeTransientFailure,
			Err:      fmt.Errorf("failed to send push: %w", err),
		}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return Result{
			Endpoint:   target.Endpoint,
			Outcome:    OutcomePermanentInvalidity,
			StatusCode: resp.StatusCode,
		}
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return Result{
			Endpoint:   target.Endpoint,
			Outcome:    OutcomeDelivered,
			StatusCode: resp.StatusCode,
		}
	default:
		return Result{
			Endpoint:   target.Endpoint,
			Outcome:    OutcomeTransientFailure,
			StatusCode: resp.StatusCode,
		}
	}
}
