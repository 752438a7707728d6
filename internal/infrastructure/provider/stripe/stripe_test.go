package stripe_test

import (
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v79/webhook"
	"go.uber.org/zap"

	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/domain/provider"
	stripeProvider "github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/infrastructure/provider/stripe"
)

const testWebhookSecret = "whsec_test_secret"

func signPayload(t *testing.T, payload []byte) string {
	t.Helper()
	ts := time.Now()
	sig := webhook.ComputeSignature(ts, payload, testWebhookSecret)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(sig))
}

func TestProvider_ParseWebhook(t *testing.T) {
	p := stripeProvider.NewProvider("sk_test_x", testWebhookSecret, zap.NewNop())

	completedPayload := []byte(`{
		"id": "evt_test_1",
		"type": "checkout.session.completed",
		"created": 1700000000,
		"api_version": "2024-06-20",
		"data": {
			"object": {
				"id": "cs_test_1",
				"object": "checkout.session",
				"payment_intent": {"id": "pi_test_1"},
				"customer": {"id": "cus_test_1"},
				"metadata": {"record_id": "6f1c7a4e-0000-4000-8000-000000000001", "kind": "donation"}
			}
		}
	}`)

	t.Run("verified completed event is classified with correlation ids", func(t *testing.T) {
		event, err := p.ParseWebhook(completedPayload, signPayload(t, completedPayload))

		assert.NoError(t, err)
		assert.Equal(t, provider.EventCheckoutCompleted, event.Type)
		assert.Equal(t, "evt_test_1", event.ID)
		assert.Equal(t, "cs_test_1", event.SessionID)
		assert.Equal(t, "pi_test_1", event.PaymentIntentID)
		assert.Equal(t, "cus_test_1", event.CustomerID)
		assert.Equal(t, "donation", event.Metadata["kind"])
	})

	t.Run("tampered payload is rejected", func(t *testing.T) {
		header := signPayload(t, completedPayload)
		tampered := append([]byte{}, completedPayload...)
		tampered[len(tampered)-2] = ' '

		_, err := p.ParseWebhook(tampered, header)

		assert.ErrorIs(t, err, provider.ErrInvalidSignature)
	})

	t.Run("missing signature header is rejected", func(t *testing.T) {
		_, err := p.ParseWebhook(completedPayload, "")
		assert.ErrorIs(t, err, provider.ErrInvalidSignature)
	})

	t.Run("expired session maps to the expiry event", func(t *testing.T) {
		payload := []byte(`{
			"id": "evt_test_2",
			"type": "checkout.session.expired",
			"created": 1700000000,
			"data": {"object": {"id": "cs_test_2", "object": "checkout.session"}}
		}`)

		event, err := p.ParseWebhook(payload, signPayload(t, payload))

		assert.NoError(t, err)
		assert.Equal(t, provider.EventCheckoutExpired, event.Type)
		assert.Equal(t, "cs_test_2", event.SessionID)
	})

	t.Run("failed payment intent carries the intent id", func(t *testing.T) {
		payload := []byte(`{
			"id": "evt_test_3",
			"type": "payment_intent.payment_failed",
			"created": 1700000000,
			"data": {"object": {"id": "pi_test_3", "object": "payment_intent", "metadata": {"record_id": "x"}}}
		}`)

		event, err := p.ParseWebhook(payload, signPayload(t, payload))

		assert.NoError(t, err)
		assert.Equal(t, provider.EventPaymentFailed, event.Type)
		assert.Equal(t, "pi_test_3", event.PaymentIntentID)
	})

	t.Run("unrelated event types come back ignored", func(t *testing.T) {
		payload := []byte(`{
			"id": "evt_test_4",
			"type": "invoice.created",
			"created": 1700000000,
			"data": {"object": {"id": "in_test_1", "object": "invoice"}}
		}`)

		event, err := p.ParseWebhook(payload, signPayload(t, payload))

		assert.NoError(t, err)
		assert.Equal(t, provider.EventIgnored, event.Type)
		assert.Equal(t, "invoice.created", event.ProviderType)
	})
}
