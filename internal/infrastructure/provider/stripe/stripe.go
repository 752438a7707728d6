package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
	"go.uber.org/zap"

	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/domain/provider"
)

// Provider implements the CheckoutProvider port against Stripe hosted
// checkout. The API client is constructed here and injected wherever
// needed; the package-global stripe.Key is never set.
type Provider struct {
	api           *client.API
	webhookSecret string
	logger        *zap.Logger
}

// NewProvider creates a new Stripe provider
func NewProvider(secretKey, webhookSecret string, logger *zap.Logger) *Provider {
	return &Provider{
		api:           client.New(secretKey, nil),
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

// CreateCheckoutSession opens a hosted checkout session.
func (p *Provider) CreateCheckoutSession(ctx context.Context, params *provider.CheckoutSessionParams) (*provider.CheckoutSession, error) {
	sessionParams := &stripe.CheckoutSessionParams{
		Params: stripe.Params{
			Context: ctx,
		},
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(params.Currency),
					UnitAmount: stripe.Int64(params.AmountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(params.Description),
					},
				},
				Quantity: stripe.Int64(params.Quantity),
			},
		},
		SuccessURL:    stripe.String(params.SuccessURL),
		CancelURL:     stripe.String(params.CancelURL),
		CustomerEmail: stripe.String(params.CustomerEmail),
	}
	for k, v := range params.Metadata {
		sessionParams.AddMetadata(k, v)
	}

	s, err := p.api.CheckoutSessions.New(sessionParams)
	if err != nil {
		p.logger.Error("Stripe checkout session creation failed", zap.Error(err))
		return nil, fmt.Errorf("stripe checkout session creation failed: %w", err)
	}

	return mapSession(s), nil
}

// GetCheckoutSession fetches the current state of a session.
func (p *Provider) GetCheckoutSession(ctx context.Context, sessionID string) (*provider.CheckoutSession, error) {
	s, err := p.api.CheckoutSessions.Get(sessionID, &stripe.CheckoutSessionParams{
		Params: stripe.Params{
			Context: ctx,
		},
	})
	if err != nil {
		p.logger.Error("Stripe checkout session lookup failed",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return nil, fmt.Errorf("stripe checkout session lookup failed: %w", err)
	}

	return mapSession(s), nil
}

// ParseWebhook authenticates the raw payload against the signing
// secret and classifies the event. Only the allow-listed event types
// map to transitions; everything else comes back as EventIgnored.
func (p *Provider) ParseWebhook(payload []byte, signature string) (*provider.WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(
		payload,
		signature,
		p.webhookSecret,
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", provider.ErrInvalidSignature, err)
	}

	out := &provider.WebhookEvent{
		ID:           event.ID,
		Type:         provider.EventIgnored,
		ProviderType: string(event.Type),
		CreatedAt:    time.Unix(event.Created, 0),
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		out.Type = provider.EventCheckoutCompleted
		if err := p.fillFromSession(event.Data.Raw, out); err != nil {
			return nil, err
		}
	case stripe.EventTypeCheckoutSessionExpired:
		out.Type = provider.EventCheckoutExpired
		if err := p.fillFromSession(event.Data.Raw, out); err != nil {
			return nil, err
		}
	case stripe.EventTypeCheckoutSessionAsyncPaymentFailed:
		out.Type = provider.EventAsyncPaymentFailed
		if err := p.fillFromSession(event.Data.Raw, out); err != nil {
			return nil, err
		}
	case stripe.EventTypePaymentIntentPaymentFailed:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return nil, fmt.Errorf("failed to parse payment intent event: %w", err)
		}
		out.Type = provider.EventPaymentFailed
		out.PaymentIntentID = intent.ID
		out.Metadata = intent.Metadata
	}

	return out, nil
}

func (p *Provider) fillFromSession(raw json.RawMessage, out *provider.WebhookEvent) error {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return fmt.Errorf("failed to parse checkout session event: %w", err)
	}

	out.SessionID = session.ID
	out.Metadata = session.Metadata
	if session.PaymentIntent != nil {
		out.PaymentIntentID = session.PaymentIntent.ID
	}
	if session.Customer != nil {
		out.CustomerID = session.Customer.ID
	}
	return nil
}

func mapSession(s *stripe.CheckoutSession) *provider.CheckoutSession {
	out := &provider.CheckoutSession{
		ID:            s.ID,
		URL:           s.URL,
		Status:        string(s.Status),
		PaymentStatus: string(s.PaymentStatus),
	}
	if s.PaymentIntent != nil {
		out.PaymentIntentID = s.PaymentIntent.ID
	}
	if s.Customer != nil {
		out.CustomerID = s.Customer.ID
	}
	return out
}
