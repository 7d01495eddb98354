package push

import (
	"context"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Augusto9237/dg-notas-sub001/internal/model"
)

func testPayload() *model.NotificationPayload {
	return &model.NotificationPayload{
		Title: "Notificação de teste",
		Body:  "corpo",
		URL:   "/",
	}
}

func newTestClient(t *testing.T) *Client {
	t.Helper()

	privateKey, publicKey, err := webpush.GenerateVAPIDKeys()
	require.NoError(t, err)

	client, err := NewClient(Config{
		VAPIDPublicKey:  publicKey,
		VAPIDPrivateKey: privateKey,
		Subscriber:      "suporte@dgnotas.com.br",
		Timeout:         5 * time.Second,
		TTLSeconds:      60,
	})
	require.NoError(t, err)
	return client
}

// newTestTarget builds a target with real curve keys so payload encryption
// succeeds and the send reaches the fake push service.
func newTestTarget(t *testing.T, endpoint string) Target {
	t.Helper()

	priv, err := ecdh.P256().GenerateKey(rand.Reader)
	require.NoError(t, err)

	auth := make([]byte, 16)
	_, err = rand.Read(auth)
	require.NoError(t, err)

	return Target{
		Endpoint: endpoint,
		P256dh:   base64.RawURLEncoding.EncodeToString(priv.PublicKey().Bytes()),
		Auth:     base64.RawURLEncoding.EncodeToString(auth),
	}
}

func TestClient_Send_Classification(t *testing.T) {
	tests := []struct {
		name        string
		statusCode  int
		wantOutcome Outcome
	}{
		{"created is delivered", http.StatusCreated, OutcomeDelivered},
		{"ok is delivered", http.StatusOK, OutcomeDelivered},
		{"not found is permanent invalidity", http.StatusNotFound, OutcomePermanentInvalidity},
		{"gone is permanent invalidity", http.StatusGone, OutcomePermanentInvalidity},
		{"server error is transient", http.StatusInternalServerError, OutcomeTransientFailure},
		{"too many requests is transient", http.StatusTooManyRequests, OutcomeTransientFailure},
		{"bad request is transient", http.StatusBadRequest, OutcomeTransientFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				w.WriteHeader(tt.statusCode)
			}))
			defer ts.Close()

			client := newTestClient(t)
			target := newTestTarget(t, ts.URL)

			result := client.Send(context.Background(), target, testPayload())

			assert.Equal(t, tt.wantOutcome, result.Outcome)
			assert.Equal(t, tt.statusCode, result.StatusCode)
			assert.Equal(t, ts.URL, result.Endpoint)
		})
	}
}

func TestClient_Send_NetworkError(t *testing.T) {
	client := newTestClient(t)
	// Nothing listens here; the dial fails.
	target := newTestTarget(t, "http://127.0.0.1:1")

	result := client.Send(context.Background(), target, testPayload())

	assert.Equal(t, OutcomeTransientFailure, result.Outcome)
	assert.Error(t, result.Err)
	assert.NotEmpty(t, result.ErrorMessage())
}

func TestClient_Send_SetsVAPIDAuthorization(t *testing.T) {
	var authHeader string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	client := newTestClient(t)
	result := client.Send(context.Background(), newTestTarget(t, ts.URL), testPayload())

	require.True(t, result.Delivered())
	assert.Contains(t, authHeader, "vapid")
}

func TestNewClient_RequiresKeyPair(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}

func TestResult_Helpers(t *testing.T) {
	delivered := Result{Outcome: OutcomeDelivered, StatusCode: 201}
	assert.True(t, delivered.Delivered())
	assert.False(t, delivered.Invalid())
	assert.Empty(t, delivered.ErrorMessage())

	invalid := Result{Outcome: OutcomePermanentInvalidity, StatusCode: 410}
	assert.False(t, invalid.Delivered())
	assert.True(t, invalid.Invalid())
	assert.Contains(t, invalid.ErrorMessage(), "410")
}
