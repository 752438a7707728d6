package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/config"
	domainErrors "github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/domain/errors"
	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/domain/model"
	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/usecase"
)

func newLifecycleService(records *MockPaymentRecordRepository) *usecase.LifecycleService {
	return usecase.NewLifecycleService(records, config.PaymentsConfig{
		PendingExpiry: 24 * time.Hour,
		Retention:     7 * 24 * time.Hour,
	}, zap.NewNop())
}

func TestLifecycleService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("cancels a pending record", func(t *testing.T) {
		records := new(MockPaymentRecordRepository)
		service := newLifecycleService(records)

		publicID := uuid.New()
		pending := &model.PaymentRecord{ID: 1, PublicID: publicID, Status: model.StatusPending}
		failed := &model.PaymentRecord{ID: 1, PublicID: publicID, Status: model.StatusFailed}

		records.On("GetByPublicID", ctx, publicID).Return(pending, nil).Once()
		records.On("MarkFailed", ctx, int64(1), "canceled by user").Return(true, nil)
		records.On("GetByPublicID", ctx, publicID).Return(failed, nil).Once()

		result, err := service.Cancel(ctx, publicID)

		assert.NoError(t, err)
		assert.Equal(t, model.StatusFailed, result.Status)
		records.AssertExpectations(t)
	})

	t.Run("cancel after completion is a no-op", func(t *testing.T) {
		records := new(MockPaymentRecordRepository)
		service := newLifecycleService(records)

		publicID := uuid.New()
		completed := &model.PaymentRecord{ID: 1, PublicID: publicID, Status: model.StatusCompleted}

		records.On("GetByPublicID", ctx, publicID).Return(completed, nil)

		result, err := service.Cancel(ctx, publicID)

		assert.NoError(t, err)
		assert.Equal(t, model.StatusCompleted, result.Status)
		records.AssertNotCalled(t, "MarkFailed", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown record", func(t *testing.T) {
		records := new(MockPaymentRecordRepository)
		service := newLifecycleService(records)

		publicID := uuid.New()
		records.On("GetByPublicID", ctx, publicID).Return(nil, nil)

		_, err := service.Cancel(ctx, publicID)

		assert.True(t, domainErrors.IsNotFound(err))
	})
}

func TestLifecycleService_Sweep(t *testing.T) {
	ctx := context.Background()

	t.Run("expires stale pending records and purges past retention", func(t *testing.T) {
		records := new(MockPaymentRecordRepository)
		service := newLifecycleService(records)

		records.On("ExpirePending", ctx, mock.MatchedBy(func(cutoff time.Time) bool {
			want := time.Now().Add(-24 * time.Hour)
			return cutoff.Sub(want).Abs() < time.Minute
		})).Return(int64(3), nil)
		records.On("PurgeStale", ctx, mock.MatchedBy(func(cutoff time.Time) bool {
			want := time.Now().Add(-7 * 24 * time.Hour)
			return cutoff.Sub(want).Abs() < time.Minute
		})).Return(int64(5), nil)

		result, err := service.Sweep(ctx)

		assert.NoError(t, err)
		assert.Equal(t, int64(3), result.Expired)
		assert.Equal(t, int64(5), result.Purged)
		records.AssertExpectations(t)
	})
}
