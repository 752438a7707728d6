package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/config"
	domainErrors "github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/domain/errors"
	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/domain/model"
	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/domain/repository"
)

// LifecycleService handles user-initiated cancellation and the
// time-based sweeps over abandoned records.
type LifecycleService struct {
	records       repository.PaymentRecordRepository
	pendingExpiry time.Duration
	retention     time.Duration
	logger        *zap.Logger
}

// NewLifecycleService creates a new LifecycleService
func NewLifecycleService(records repository.PaymentRecordRepository, payments config.PaymentsConfig, logger *zap.Logger) *LifecycleService {
	return &LifecycleService{
		records:       records,
		pendingExpiry: payments.PendingExpiry,
		retention:     payments.Retention,
		logger:        logger,
	}
}

// Cancel fails a still-pending record and reports the current state.
// Calling it on a terminal record is a no-op; a completed payment is
// never overwritten.
func (s *LifecycleService) Cancel(ctx context.Context, publicID uuid.UUID) (*model.PaymentRecord, error) {
	record, err := s.records.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domainErrors.NewNotFoundError("payment record", publicID.String())
	}

	if record.Status != model.StatusPending {
		return record, nil
	}

	applied, err := s.records.MarkFailed(ctx, record.ID, "canceled by user")
	if err != nil {
		return nil, err
	}
	if applied {
		s.logger.Info("Payment record canceled",
			zap.String("record_id", publicID.String()),
			zap.String("kind", string(record.Kind)))
	}

	// Re-read: a concurrent webhook may have won the race, and the
	// caller gets whatever state stuck.
	return s.records.GetByPublicID(ctx, publicID)
}

// SweepResult reports one cleanup run.
type SweepResult struct {
	Expired int64 `json:"expired"`
	Purged  int64 `json:"purged"`
}

// Sweep fails pending records older than the expiry threshold (the
// safety net for missed webhooks) and deletes pending/failed records
// past the retention window. Re-runnable; the sweep never touches
// inventory or membership state because nothing it fails was ever
// completed.
func (s *LifecycleService) Sweep(ctx context.Context) (*SweepResult, error) {
	now := time.Now()

	expired, err := s.records.ExpirePending(ctx, now.Add(-s.pendingExpiry))
	if err != nil {
		return nil, err
	}

	purged, err := s.records.PurgeStale(ctx, now.Add(-s.retention))
	if err != nil {
		return nil, err
	}

	if expired > 0 || purged > 0 {
		s.logger.Info("Payment record sweep finished",
			zap.Int64("expired", expired),
			zap.Int64("purged", purged))
	}

	return &SweepResult{Expired: expired, Purged: purged}, nil
}
