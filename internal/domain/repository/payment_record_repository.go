package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/domain/model"
)

// RecordListFilter narrows admin listings over payment records.
type RecordListFilter struct {
	Kind   model.PaymentKind
	Status model.PaymentStatus
	Limit  int
	Offset int
}

// RecordStats aggregates completed payments for reporting.
type RecordStats struct {
	TotalRecords    int64                         `json:"total_records"`
	CountByStatus   map[model.PaymentStatus]int64 `json:"count_by_status"`
	CompletedByKind map[model.PaymentKind]int64   `json:"completed_by_kind"`
	CompletedAmount decimal.Decimal               `json:"completed_amount"`
}

// PaymentRecordRepository persists payment records. All status
// transitions are conditional updates: they apply only when the current
// status is the expected predecessor, and report whether they applied.
// That guard is the subsystem's idempotency mechanism; every caller
// must go through it.
type PaymentRecordRepository interface {
	Create(ctx context.Context, record *model.PaymentRecord) error

	// AttachProviderSession stores the session id once the hosted
	// session exists (the second write of the checkout flow).
	AttachProviderSession(ctx context.Context, id int64, sessionID string) error

	GetByPublicID(ctx context.Context, publicID uuid.UUID) (*model.PaymentRecord, error)
	GetByProviderSessionID(ctx context.Context, sessionID string) (*model.PaymentRecord, error)
	GetByProviderPaymentIntentID(ctx context.Context, paymentIntentID string) (*model.PaymentRecord, error)

	// MarkCompleted transitions pending → completed, storing the
	// provider correlation ids and the completion time. Returns false
	// when the record was not pending.
	MarkCompleted(ctx context.Context, id int64, paymentIntentID, customerID string, completedAt time.Time) (bool, error)

	// MarkFailed transitions pending → failed. Returns false when the
	// record was not pending; a completed record is never overwritten.
	MarkFailed(ctx context.Context, id int64, reason string) (bool, error)

	// ClaimFulfillment marks a completed record as fulfilled. Returns
	// false when the record is not completed or was already claimed.
	ClaimFulfillment(ctx context.Context, id int64, at time.Time) (bool, error)

	// ReleaseFulfillment clears the fulfillment claim after a failed
	// side-effect application so a replay can retry it.
	ReleaseFulfillment(ctx context.Context, id int64) error

	// ExpirePending bulk-fails pending records created before cutoff.
	ExpirePending(ctx context.Context, cutoff time.Time) (int64, error)

	// PurgeStale deletes pending/failed records created before cutoff
	// (the retention policy; completed records are kept).
	PurgeStale(ctx context.Context, cutoff time.Time) (int64, error)

	List(ctx context.Context, filter RecordListFilter) ([]*model.PaymentRecord, int64, error)
	Stats(ctx context.Context) (*RecordStats, error)
}
