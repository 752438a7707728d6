package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/domain/model"
)

// Migrate runs database migrations
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	err := db.AutoMigrate(
		&model.PaymentRecord{},
		&model.Product{},
		&model.Member{},
		&model.ProviderWebhookEvent{},
	)
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	if err := createCustomIndexes(db); err != nil {
		logger.Error("Failed to create custom indexes", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// createCustomIndexes creates partial indexes that GORM tags cannot express
func createCustomIndexes(db *gorm.DB) error {
	// One payment record per provider session. Partial so the index
	// skips records still inside the create-then-attach window.
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS unique_payment_record_provider_session ON payment_records (provider_session_id) WHERE provider_session_id IS NOT NULL`).Error; err != nil {
		return err
	}

	// Retry scan for the webhook event journal
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_webhook_events_retryable ON provider_webhook_events (next_retry_at) WHERE status = 'failed'`).Error; err != nil {
		return err
	}

	// Expiry sweep over stale pending records
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_payment_records_pending_created ON payment_records (created_at) WHERE status = 'pending'`).Error; err != nil {
		return err
	}

	return nil
}
