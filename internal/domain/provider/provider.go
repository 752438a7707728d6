package provider

import (
	"context"
	"errors"
	"time"
)

// ErrInvalidSignature is returned by ParseWebhook when the callback
// cannot be authenticated against the shared webhook secret.
var ErrInvalidSignature = errors.New("webhook signature verification failed")

// EventType is the provider-agnostic classification of a webhook event.
// Only the allow-listed types drive state transitions; everything else
// is EventIgnored and acknowledged as a no-op.
type EventType string

const (
	EventCheckoutCompleted  EventType = "checkout_completed"
	EventCheckoutExpired    EventType = "checkout_expired"
	EventPaymentFailed      EventType = "payment_failed"
	EventAsyncPaymentFailed EventType = "async_payment_failed"
	EventIgnored            EventType = "ignored"
)

// CheckoutSessionParams describes a hosted checkout session request.
type CheckoutSessionParams struct {
	Description   string
	AmountCents   int64 // per unit, smallest currency unit
	Currency      string
	Quantity      int64
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

// CheckoutSession is the provider's view of a hosted checkout session.
type CheckoutSession struct {
	ID              string
	URL             string
	PaymentIntentID string
	CustomerID      string
	Status          string
	PaymentStatus   string
}

// WebhookEvent is a verified, classified provider callback.
type WebhookEvent struct {
	ID              string            `json:"id"`
	Type            EventType         `json:"type"`
	ProviderType    string            `json:"provider_type"`
	SessionID       string            `json:"session_id,omitempty"`
	PaymentIntentID string            `json:"payment_intent_id,omitempty"`
	CustomerID      string            `json:"customer_id,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

// CheckoutProvider is the port to the external payment provider. The
// implementation owns an explicitly constructed API client; nothing in
// this service touches provider globals.
type CheckoutProvider interface {
	// CreateCheckoutSession requests a hosted checkout session.
	CreateCheckoutSession(ctx context.Context, params *CheckoutSessionParams) (*CheckoutSession, error)

	// GetCheckoutSession fetches the current session state by id.
	GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error)

	// ParseWebhook verifies the signature over the raw payload bytes
	// and classifies the event. Returns ErrInvalidSignature when the
	// payload cannot be authenticated.
	ParseWebhook(payload []byte, signature string) (*WebhookEvent, error)
}
