package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/domain/model"
	domainRepo "github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/domain/repository"
)

type paymentRecordRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewPaymentRecordRepository creates a new payment record repository
func NewPaymentRecordRepository(db *gorm.DB, logger *zap.Logger) domainRepo.PaymentRecordRepository {
	return &paymentRecordRepository{
		db:     db,
		logger: logger,
	}
}

func (r *paymentRecordRepository) Create(ctx context.Context, record *model.PaymentRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		r.logger.Error("Failed to create payment record",
			zap.String("kind", string(record.Kind)),
			zap.String("email", record.Email),
			zap.Error(err))
		return fmt.Errorf("failed to create payment record: %w", err)
	}
	return nil
}

func (r *paymentRecordRepository) AttachProviderSession(ctx context.Context, id int64, sessionID string) error {
	result := r.db.WithContext(ctx).
		Model(&model.PaymentRecord{}).
		Where("id = ?", id).
		Update("provider_session_id", sessionID)

	if result.Error != nil {
		r.logger.Error("Failed to attach provider session",
			zap.Int64("record_id", id),
			zap.String("session_id", sessionID),
			zap.Error(result.Error))
		return fmt.Errorf("failed to attach provider session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("payment record not found: %d", id)
	}
	return nil
}

func (r *paymentRecordRepository) GetByPublicID(ctx context.Context, publicID uuid.UUID) (*model.PaymentRecord, error) {
	return r.getOne(ctx, "public_id = ?", publicID)
}

func (r *paymentRecordRepository) GetByProviderSessionID(ctx context.Context, sessionID string) (*model.PaymentRecord, error) {
	return r.getOne(ctx, "provider_session_id = ?", sessionID)
}

func (r *paymentRecordRepository) GetByProviderPaymentIntentID(ctx context.Context, paymentIntentID string) (*model.PaymentRecord, error) {
	return r.getOne(ctx, "provider_payment_intent_id = ?", paymentIntentID)
}

func (r *paymentRecordRepository) getOne(ctx context.Context, query string, arg interface{}) (*model.PaymentRecord, error) {
	var record model.PaymentRecord

	err := r.db.WithContext(ctx).Where(query, arg).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get payment record", zap.Error(err))
		return nil, fmt.Errorf("failed to get payment record: %w", err)
	}

	return &record, nil
}

// MarkCompleted applies the pending → completed transition. The status
// predicate in the WHERE clause is the idempotency guard: a duplicate
// or stale event affects zero rows.
func (r *paymentRecordRepository) MarkCompleted(ctx context.Context, id int64, paymentIntentID, customerID string, completedAt time.Time) (bool, error) {
	updates := map[string]interface{}{
		"status":       model.StatusCompleted,
		"completed_at": completedAt,
		"updated_at":   time.Now(),
	}
	if paymentIntentID != "" {
		updates["provider_payment_intent_id"] = paymentIntentID
	}
	if customerID != "" {
		updates["provider_customer_id"] = customerID
	}

	result := r.db.WithContext(ctx).
		Model(&model.PaymentRecord{}).
		Where("id = ? AND status = ?", id, model.StatusPending).
		Updates(updates)

	if result.Error != nil {
		r.logger.Error("Failed to mark payment record completed",
			zap.Int64("record_id", id),
			zap.Error(result.Error))
		return false, fmt.Errorf("failed to mark payment record completed: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

func (r *paymentRecordRepository) MarkFailed(ctx context.Context, id int64, reason string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.PaymentRecord{}).
		Where("id = ? AND status = ?", id, model.StatusPending).
		Updates(map[string]interface{}{
			"status":          model.StatusFailed,
			"failure_message": reason,
			"updated_at":      time.Now(),
		})

	if result.Error != nil {
		r.logger.Error("Failed to mark payment record failed",
			zap.Int64("record_id", id),
			zap.Error(result.Error))
		return false, fmt.Errorf("failed to mark payment record failed: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

func (r *paymentRecordRepository) ClaimFulfillment(ctx context.Context, id int64, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.PaymentRecord{}).
		Where("id = ? AND status = ? AND fulfilled_at IS NULL", id, model.StatusCompleted).
		Update("fulfilled_at", at)

	if result.Error != nil {
		r.logger.Error("Failed to claim fulfillment",
			zap.Int64("record_id", id),
			zap.Error(result.Error))
		return false, fmt.Errorf("failed to claim fulfillment: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

func (r *paymentRecordRepository) ReleaseFulfillment(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).
		Model(&model.PaymentRecord{}).
		Where("id = ?", id).
		Update("fulfilled_at", nil)

	if result.Error != nil {
		r.logger.Error("Failed to release fulfillment claim",
			zap.Int64("record_id", id),
			zap.Error(result.Error))
		return fmt.Errorf("failed to release fulfillment claim: %w", result.Error)
	}

	return nil
}

func (r *paymentRecordRepository) ExpirePending(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.PaymentRecord{}).
		Where("status = ? AND created_at < ?", model.StatusPending, cutoff).
		Updates(map[string]interface{}{
			"status":          model.StatusFailed,
			"failure_message": "expired: no completed payment received",
			"updated_at":      time.Now(),
		})

	if result.Error != nil {
		r.logger.Error("Failed to expire pending payment records", zap.Error(result.Error))
		return 0, fmt.Errorf("failed to expire pending payment records: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func (r *paymentRecordRepository) PurgeStale(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status IN (?, ?) AND created_at < ?", model.StatusPending, model.StatusFailed, cutoff).
		Delete(&model.PaymentRecord{})

	if result.Error != nil {
		r.logger.Error("Failed to purge stale payment records", zap.Error(result.Error))
		return 0, fmt.Errorf("failed to purge stale payment records: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func (r *paymentRecordRepository) List(ctx context.Context, filter domainRepo.RecordListFilter) ([]*model.PaymentRecord, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.PaymentRecord{})
	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count payment records: %w", err)
	}

	var records []*model.PaymentRecord
	err := query.
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&records).Error
	if err != nil {
		r.logger.Error("Failed to list payment records", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list payment records: %w", err)
	}

	return records, total, nil
}

func (r *paymentRecordRepository) Stats(ctx context.Context) (*domainRepo.RecordStats, error) {
	stats := &domainRepo.RecordStats{
		CountByStatus:   make(map[model.PaymentStatus]int64),
		CompletedByKind: make(map[model.PaymentKind]int64),
		CompletedAmount: decimal.Zero,
	}

	type statusRow struct {
		Status model.PaymentStatus
		Count  int64
	}
	var byStatus []statusRow
	err := r.db.WithContext(ctx).
		Model(&model.PaymentRecord{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&byStatus).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate record statuses: %w", err)
	}
	for _, row := range byStatus {
		stats.CountByStatus[row.Status] = row.Count
		stats.TotalRecords += row.Count
	}

	type kindRow struct {
		Kind   model.PaymentKind
		Count  int64
		Amount decimal.Decimal
	}
	var byKind []kindRow
	err = r.db.WithContext(ctx).
		Model(&model.PaymentRecord{}).
		Select("kind, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount").
		Where("status = ?", model.StatusCompleted).
		Group("kind").
		Scan(&byKind).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate completed records: %w", err)
	}
	for _, row := range byKind {
		stats.CompletedByKind[row.Kind] = row.Count
		stats.CompletedAmount = stats.CompletedAmount.Add(row.Amount)
	}

	return stats, nil
}
