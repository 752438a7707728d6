package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/domain/model"
)

// WebhookEventRepository journals verified provider events and drives
// the out-of-band retry of failed ones.
type WebhookEventRepository interface {
	// SaveEvent inserts the event, deduplicating on the provider event
	// id. Returns false when the event was already journaled.
	SaveEvent(ctx context.Context, eventID, eventType string, data json.RawMessage, providerCreatedAt time.Time) (bool, error)
	GetEvent(ctx context.Context, eventID string) (*model.ProviderWebhookEvent, error)
	MarkProcessed(ctx context.Context, eventID string) error
	MarkFailed(ctx context.Context, eventID string, err error) error
	GetRetryableEvents(ctx context.Context, limit int) ([]*model.ProviderWebhookEvent, error)
}

type webhookEventRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewWebhookEventRepository creates a new webhook event repository
func NewWebhookEventRepository(db *gorm.DB, logger *zap.Logger) WebhookEventRepository {
	return &webhookEventRepository{
		db:     db,
		logger: logger,
	}
}

func (r *webhookEventRepository) SaveEvent(ctx context.Context, eventID, eventType string, data json.RawMessage, providerCreatedAt time.Time) (bool, error) {
	var eventData model.JSONB
	if err := json.Unmarshal(data, &eventData); err != nil {
		return false, fmt.Errorf("failed to encode webhook event data: %w", err)
	}

	event := &model.ProviderWebhookEvent{
		ProviderEventID:   eventID,
		EventType:         eventType,
		Status:            model.WebhookStatusPending,
		Data:              eventData,
		ProviderCreatedAt: &providerCreatedAt,
	}

	// Duplicate deliveries hit the unique provider event id.
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(event)

	if result.Error != nil {
		r.logger.Error("Failed to save webhook event",
			zap.String("event_id", eventID),
			zap.String("event_type", eventType),
			zap.Error(result.Error))
		return false, fmt.Errorf("failed to save webhook event: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

func (r *webhookEventRepository) GetEvent(ctx context.Context, eventID string) (*model.ProviderWebhookEvent, error) {
	var event model.ProviderWebhookEvent

	err := r.db.WithContext(ctx).
		Where("provider_event_id = ?", eventID).
		First(&event).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get webhook event",
			zap.String("event_id", eventID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get webhook event: %w", err)
	}

	return &event, nil
}

func (r *webhookEventRepository) MarkProcessed(ctx context.Context, eventID string) error {
	now := time.Now()

	result := r.db.WithContext(ctx).
		Model(&model.ProviderWebhookEvent{}).
		Where("provider_event_id = ?", eventID).
		Updates(map[string]interface{}{
			"status":       model.WebhookStatusCompleted,
			"processed_at": &now,
		})

	if result.Error != nil {
		r.logger.Error("Failed to mark webhook event as processed",
			zap.String("event_id", eventID),
			zap.Error(result.Error))
		return fmt.Errorf("failed to mark webhook event as processed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("webhook event not found: %s", eventID)
	}

	return nil
}

func (r *webhookEventRepository) MarkFailed(ctx context.Context, eventID string, cause error) error {
	var event model.ProviderWebhookEvent
	if err := r.db.WithContext(ctx).
		Where("provider_event_id = ?", eventID).
		First(&event).Error; err != nil {
		r.logger.Error("Failed to get webhook event for failure update",
			zap.String("event_id", eventID),
			zap.Error(err))
		return fmt.Errorf("failed to get webhook event: %w", err)
	}

	// Exponential backoff: 5, 10, 20, 40 minutes, capped at 24 hours.
	attempts := event.ProcessingAttempts + 1
	retryMinutes := 5 * (1 << attempts)
	if retryMinutes > 1440 {
		retryMinutes = 1440
	}
	nextRetry := time.Now().Add(time.Duration(retryMinutes) * time.Minute)

	errorMsg := cause.Error()

	result := r.db.WithContext(ctx).
		Model(&model.ProviderWebhookEvent{}).
		Where("provider_event_id = ?", eventID).
		Updates(map[string]interface{}{
			"status":              model.WebhookStatusFailed,
			"processing_attempts": attempts,
			"last_error":          &errorMsg,
			"next_retry_at":       &nextRetry,
		})

	if result.Error != nil {
		r.logger.Error("Failed to mark webhook event as failed",
			zap.String("event_id", eventID),
			zap.Error(result.Error))
		return fmt.Errorf("failed to mark webhook event as failed: %w", result.Error)
	}

	return nil
}

func (r *webhookEventRepository) GetRetryableEvents(ctx context.Context, limit int) ([]*model.ProviderWebhookEvent, error) {
	var events []*model.ProviderWebhookEvent

	query := r.db.WithContext(ctx).
		Where("status IN (?, ?) AND (next_retry_at IS NULL OR next_retry_at <= ?)",
			model.WebhookStatusPending,
			model.WebhookStatusFailed,
			time.Now()).
		Order("created_at ASC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&events).Error; err != nil {
		r.logger.Error("Failed to get retryable webhook events", zap.Error(err))
		return nil, fmt.Errorf("failed to get retryable webhook events: %w", err)
	}

	return events, nil
}
