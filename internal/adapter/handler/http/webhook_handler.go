package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/domain/provider"
	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/usecase"
)

type WebhookHandler struct {
	logger    *zap.Logger
	checkout  provider.CheckoutProvider
	reconcile *usecase.ReconcileService
}

func NewWebhookHandler(logger *zap.Logger, checkout provider.CheckoutProvider, reconcile *usecase.ReconcileService) *WebhookHandler {
	return &WebhookHandler{
		logger:    logger,
		checkout:  checkout,
		reconcile: reconcile,
	}
}

// HandleWebhook verifies and applies one provider callback. The body
// must stay raw: the signature is computed over the exact bytes, and
// any re-serialization would invalidate it.
func (h *WebhookHandler) HandleWebhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		h.logger.Error("Error reading webhook request body", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Error reading request body"})
	}

	sig := c.Request().Header.Get("Stripe-Signature")

	event, err := h.checkout.ParseWebhook(body, sig)
	if err != nil {
		if errors.Is(err, provider.ErrInvalidSignature) {
			// Anyone can POST here; a bad signature is the forgery
			// boundary and never touches state.
			h.logger.Warn("Webhook signature verification failed",
				zap.String("remote_ip", c.RealIP()),
				zap.Error(err))
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "Webhook signature verification failed",
			})
		}
		h.logger.Error("Error parsing webhook payload", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Error parsing webhook"})
	}

	h.logger.Info("Webhook event received",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("provider_type", event.ProviderType))

	if err := h.reconcile.Process(c.Request().Context(), event); err != nil {
		// A 500 asks the provider to redeliver.
		h.logger.Error("Webhook event processing failed",
			zap.String("event_id", event.ID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error processing webhook"})
	}

	return c.JSON(http.StatusOK, echo.Map{"received": true})
}
