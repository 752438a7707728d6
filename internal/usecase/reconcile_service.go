package usecase

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	adapterRepo "github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/adapter/repository"
	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/domain/model"
	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/domain/provider"
	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/domain/repository"
)

const retryBatchSize = 50

// fulfiller decouples the reconciler from the side-effect applier.
type fulfiller interface {
	Apply(ctx context.Context, record *model.PaymentRecord) error
}

// ReconcileService maps verified provider events back onto local
// payment records and applies the state machine. Events arrive
// at-least-once and unordered; every transition here is a conditional
// update, so reapplying an event is always safe.
type ReconcileService struct {
	records repository.PaymentRecordRepository
	events  adapterRepo.WebhookEventRepository
	fulfill fulfiller
	logger  *zap.Logger
}

// NewReconcileService creates a new ReconcileService
func NewReconcileService(
	records repository.PaymentRecordRepository,
	events adapterRepo.WebhookEventRepository,
	fulfill fulfiller,
	logger *zap.Logger,
) *ReconcileService {
	return &ReconcileService{
		records: records,
		events:  events,
		fulfill: fulfill,
		logger:  logger,
	}
}

// Process journals and applies one verified webhook event. A non-nil
// error tells the HTTP handler to answer 500, which the provider reads
// as "retry me"; the event is also queued for the scheduled replay in
// case the provider gives up first.
func (s *ReconcileService) Process(ctx context.Context, event *provider.WebhookEvent) error {
	if event.Type == provider.EventIgnored {
		// Acknowledged as a no-op so the provider does not retry
		// event types this system never handles.
		s.logger.Debug("Ignoring unhandled webhook event type",
			zap.String("event_id", event.ID),
			zap.String("provider_type", event.ProviderType))
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	inserted, err := s.events.SaveEvent(ctx, event.ID, string(event.Type), data, event.CreatedAt)
	if err != nil {
		return err
	}
	if !inserted {
		existing, err := s.events.GetEvent(ctx, event.ID)
		if err == nil && existing != nil && existing.Status == model.WebhookStatusCompleted {
			s.logger.Info("Duplicate webhook event already processed",
				zap.String("event_id", event.ID),
				zap.String("event_type", string(event.Type)))
			return nil
		}
		// Journaled but not completed: fall through and reapply. The
		// conditional transitions make reapplication harmless.
	}

	if err := s.applyEvent(ctx, event); err != nil {
		if markErr := s.events.MarkFailed(ctx, event.ID, err); markErr != nil {
			s.logger.Error("Failed to queue webhook event for retry",
				zap.String("event_id", event.ID),
				zap.Error(markErr))
		}
		return err
	}

	return s.events.MarkProcessed(ctx, event.ID)
}

// RetryFailed replays journaled events that did not process cleanly.
// Triggered on a schedule; re-runnable at any time.
func (s *ReconcileService) RetryFailed(ctx context.Context) (int, error) {
	events, err := s.events.GetRetryableEvents(ctx, retryBatchSize)
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, stored := range events {
		data, err := json.Marshal(stored.Data)
		if err != nil {
			s.logger.Error("Failed to decode journaled webhook event",
				zap.String("event_id", stored.ProviderEventID),
				zap.Error(err))
			continue
		}
		var event provider.WebhookEvent
		if err := json.Unmarshal(data, &event); err != nil {
			s.logger.Error("Failed to decode journaled webhook event",
				zap.String("event_id", stored.ProviderEventID),
				zap.Error(err))
			continue
		}

		if err := s.applyEvent(ctx, &event); err != nil {
			s.logger.Warn("Webhook event replay failed",
				zap.String("event_id", event.ID),
				zap.Int("attempts", stored.ProcessingAttempts),
				zap.Error(err))
			if markErr := s.events.MarkFailed(ctx, event.ID, err); markErr != nil {
				s.logger.Error("Failed to reschedule webhook event",
					zap.String("event_id", event.ID),
					zap.Error(markErr))
			}
			continue
		}

		if err := s.events.MarkProcessed(ctx, event.ID); err != nil {
			s.logger.Error("Failed to mark replayed webhook event processed",
				zap.String("event_id", event.ID),
				zap.Error(err))
			continue
		}
		processed++
	}

	return processed, nil
}

func (s *ReconcileService) applyEvent(ctx context.Context, event *provider.WebhookEvent) error {
	switch event.Type {
	case provider.EventCheckoutCompleted:
		return s.handleCompleted(ctx, event)
	case provider.EventCheckoutExpired:
		return s.handleFailure(ctx, event, "checkout session expired")
	case provider.EventPaymentFailed:
		return s.handleFailure(ctx, event, "payment failed")
	case provider.EventAsyncPaymentFailed:
		return s.handleFailure(ctx, event, "asynchronous payment failed")
	default:
		s.logger.Debug("Ignoring unhandled webhook event type",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)))
		return nil
	}
}

func (s *ReconcileService) handleCompleted(ctx context.Context, event *provider.WebhookEvent) error {
	record, err := s.locateRecord(ctx, event)
	if err != nil {
		return err
	}
	if record == nil {
		// Acknowledge so the provider stops retrying a record this
		// system no longer recognizes.
		s.logger.Warn("No payment record found for completed event",
			zap.String("event_id", event.ID),
			zap.String("session_id", event.SessionID))
		return nil
	}

	// Records recovered through the metadata fallback may still be
	// inside the initiator's two-write window; attach the session id
	// now that it is known.
	if record.ProviderSessionID == nil && event.SessionID != "" {
		if err := s.records.AttachProviderSession(ctx, record.ID, event.SessionID); err != nil {
			return err
		}
		record.ProviderSessionID = &event.SessionID
	}

	applied, err := s.records.MarkCompleted(ctx, record.ID, event.PaymentIntentID, event.CustomerID, time.Now())
	if err != nil {
		return err
	}
	if !applied {
		fresh, err := s.records.GetByPublicID(ctx, record.PublicID)
		if err != nil {
			return err
		}
		if fresh == nil || fresh.Status != model.StatusCompleted {
			// The record reached failed first (user cancel or expiry
			// sweep). Completion events that lose that race are stale
			// and do not resurrect the record.
			s.logger.Warn("Completed event for terminal record ignored",
				zap.String("event_id", event.ID),
				zap.String("record_id", record.PublicID.String()))
			return nil
		}
		record = fresh
	} else {
		record.Status = model.StatusCompleted
	}

	// The fulfillment claim keeps replays from double-applying side
	// effects: only the caller that wins the claim runs them.
	claimed, err := s.records.ClaimFulfillment(ctx, record.ID, time.Now())
	if err != nil {
		return err
	}
	if !claimed {
		s.logger.Debug("Side effects already applied",
			zap.String("record_id", record.PublicID.String()))
		return nil
	}

	if err := s.fulfill.Apply(ctx, record); err != nil {
		// The completed status stands; money received is the ground
		// truth. Release the claim so the replay job can retry the
		// side effects.
		s.logger.Error("Side effects failed for completed payment",
			zap.String("record_id", record.PublicID.String()),
			zap.Error(err))
		if relErr := s.records.ReleaseFulfillment(ctx, record.ID); relErr != nil {
			s.logger.Error("Failed to release fulfillment claim",
				zap.String("record_id", record.PublicID.String()),
				zap.Error(relErr))
		}
		return err
	}

	s.logger.Info("Payment completed",
		zap.String("event_id", event.ID),
		zap.String("record_id", record.PublicID.String()),
		zap.String("kind", string(record.Kind)))
	return nil
}

func (s *ReconcileService) handleFailure(ctx context.Context, event *provider.WebhookEvent, reason string) error {
	record, err := s.locateRecord(ctx, event)
	if err != nil {
		return err
	}
	if record == nil {
		s.logger.Warn("No payment record found for failure event",
			zap.String("event_id", event.ID),
			zap.String("session_id", event.SessionID),
			zap.String("payment_intent_id", event.PaymentIntentID))
		return nil
	}

	applied, err := s.records.MarkFailed(ctx, record.ID, reason)
	if err != nil {
		return err
	}
	if !applied {
		// Completion is terminal and wins any race with a failure
		// event; an already-failed record is a duplicate delivery.
		s.logger.Info("Failure event for terminal record ignored",
			zap.String("event_id", event.ID),
			zap.String("record_id", record.PublicID.String()))
		return nil
	}

	s.logger.Info("Payment marked failed",
		zap.String("event_id", event.ID),
		zap.String("record_id", record.PublicID.String()),
		zap.String("reason", reason))
	return nil
}

// locateRecord resolves an event to a record: session id first, then
// payment intent id, then the embedded checkout metadata. The metadata
// path exists for the window between record creation and session id
// attachment.
func (s *ReconcileService) locateRecord(ctx context.Context, event *provider.WebhookEvent) (*model.PaymentRecord, error) {
	if event.SessionID != "" {
		record, err := s.records.GetByProviderSessionID(ctx, event.SessionID)
		if err != nil || record != nil {
			return record, err
		}
	}

	if event.PaymentIntentID != "" {
		record, err := s.records.GetByProviderPaymentIntentID(ctx, event.PaymentIntentID)
		if err != nil || record != nil {
			return record, err
		}
	}

	if len(event.Metadata) > 0 {
		meta, err := provider.MetadataFromMap(event.Metadata)
		if err != nil {
			s.logger.Warn("Webhook event carries malformed checkout metadata",
				zap.String("event_id", event.ID),
				zap.Error(err))
			return nil, nil
		}
		return s.records.GetByPublicID(ctx, meta.RecordID)
	}

	return nil, nil
}
