package paymentprovider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/equiptrack/internal/config"
	"github.com/magabrotheeeer/equiptrack/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.PaymentProvider{
		APIURL:        srv.URL + "/",
		SecretKey:     "sk_test_123",
		WebhookSecret: "whsec_test",
		Timeout:       2 * time.Second,
	})
}

func TestClient_CreateCheckoutSession(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "payment", r.PostForm.Get("mode"))
		assert.Equal(t, "https://app.example/payment-success?session_id={CHECKOUT_SESSION_ID}", r.PostForm.Get("success_url"))
		assert.Equal(t, "5998", r.PostForm.Get("line_items[0][price_data][unit_amount]"))
		assert.Equal(t, "1", r.PostForm.Get("line_items[0][quantity]"))
		assert.Equal(t, "u1", r.PostForm.Get("metadata[user_id]"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(CheckoutSession{
			ID:            "cs_test_1",
			URL:           "https://checkout.stripe.com/c/pay/cs_test_1",
			Status:        SessionOpen,
			PaymentStatus: PaymentUnpaid,
			AmountTotal:   5998,
			Currency:      "usd",
		})
	})

	session, err := client.CreateCheckoutSession(context.Background(), CheckoutSessionParams{
		SuccessURL:  "https://app.example/payment-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   "https://app.example/pricing",
		ProductName: "Monthly Plan",
		UnitAmount:  5998,
		Quantity:    1,
		Currency:    "usd",
		Metadata:    map[string]string{"user_id": "u1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", session.ID)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_1", session.URL)
}

func TestClient_GetCheckoutSession(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/checkout/sessions/cs_test_1", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"cs_test_1","status":"complete","payment_status":"paid","amount_total":2999,"currency":"usd"}`))
	})

	session, err := client.GetCheckoutSession(context.Background(), "cs_test_1")
	require.NoError(t, err)
	assert.Equal(t, SessionComplete, session.Status)
	assert.Equal(t, PaymentPaid, session.PaymentStatus)
	assert.Equal(t, int64(2999), session.AmountTotal)
}

func TestClient_UpstreamErrors(t *testing.T) {
	t.Run("non 2xx with api error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"No such checkout.session"}}`))
		})

		_, err := client.GetCheckoutSession(context.Background(), "cs_missing")
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrUpstream)
		assert.Contains(t, err.Error(), "No such checkout.session")
	})

	t.Run("server error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := client.CreateCheckoutSession(context.Background(), CheckoutSessionParams{Quantity: 1})
		assert.ErrorIs(t, err, models.ErrUpstream)
	})

	t.Run("unreachable", func(t *testing.T) {
		client := NewClient(config.PaymentProvider{APIURL: "http://127.0.0.1:1", Timeout: time.Second})

		_, err := client.GetCheckoutSession(context.Background(), "cs_1")
		assert.ErrorIs(t, err, models.ErrUpstream)
	})
}

func TestClient_ParseWebhook(t *testing.T) {
	client := NewClient(config.PaymentProvider{WebhookSecret: "whsec_test"})
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"id":"cs_1","status":"complete","payment_status":"paid"}}}`)

	t.Run("valid signature", func(t *testing.T) {
		event, err := client.ParseWebhook(payload, SignPayload(payload, "whsec_test", now), now)
		require.NoError(t, err)
		assert.Equal(t, "evt_1", event.ID)
		assert.Equal(t, EventCheckoutCompleted, event.Type)
		assert.Equal(t, "cs_1", event.Data.Object.ID)
	})

	tests := []struct {
		name   string
		header string
	}{
		{name: "empty header", header: ""},
		{name: "wrong secret", header: SignPayload(payload, "other", now)},
		{name: "stale timestamp", header: SignPayload(payload, "whsec_test", now.Add(-10*time.Minute))},
		{name: "garbage", header: "test_signature"},
		{name: "tampered body", header: SignPayload([]byte(`{"id":"evt_2"}`), "whsec_test", now)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := client.ParseWebhook(payload, tt.header, now)
			assert.Nil(t, event)
			assert.ErrorIs(t, err, models.ErrInvalidSignature)
		})
	}

	t.Run("valid signature but broken json", func(t *testing.T) {
		body := []byte(`{not json`)
		_, err := client.ParseWebhook(body, SignPayload(body, "whsec_test", now), now)
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("missing secret rejects everything", func(t *testing.T) {
		unconfigured := NewClient(config.PaymentProvider{})
		_, err := unconfigured.ParseWebhook(payload, SignPayload(payload, "", now), now)
		assert.ErrorIs(t, err, models.ErrInvalidSignature)
	})
}
