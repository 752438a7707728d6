package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/domain/model"
	domainRepo "github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/domain/repository"
)

type memberRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *gorm.DB, logger *zap.Logger) domainRepo.MemberRepository {
	return &memberRepository{
		db:     db,
		logger: logger,
	}
}

func (r *memberRepository) GetByID(ctx context.Context, id int64) (*model.Member, error) {
	var member model.Member

	err := r.db.WithContext(ctx).First(&member, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get member",
			zap.Int64("member_id", id),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return &member, nil
}

func (r *memberRepository) RecordInitialPayment(ctx context.Context, memberID int64, entry model.PaymentHistoryEntry, joinedAt, renewalDate time.Time) error {
	return r.applyPayment(ctx, memberID, entry, map[string]interface{}{
		"status":                  model.MemberStatusActive,
		"joined_at":               joinedAt,
		"membership_renewal_date": renewalDate,
	})
}

func (r *memberRepository) RecordRenewalPayment(ctx context.Context, memberID int64, entry model.PaymentHistoryEntry, renewalDate time.Time) error {
	return r.applyPayment(ctx, memberID, entry, map[string]interface{}{
		"membership_renewal_date": renewalDate,
		"renewal_reminder_sent":   false,
	})
}

// applyPayment appends the history entry and updates last-payment
// fields inside a transaction; the history read-append is the only
// read-modify-write in the service and must not race with itself.
func (r *memberRepository) applyPayment(ctx context.Context, memberID int64, entry model.PaymentHistoryEntry, extra map[string]interface{}) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var member model.Member
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&member, memberID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("member not found: %d", memberID)
			}
			return err
		}

		history := append(member.PaymentHistory, entry)

		updates := map[string]interface{}{
			"payment_history":     history,
			"last_payment_date":   entry.Date,
			"last_payment_amount": entry.Amount,
			"updated_at":          time.Now(),
		}
		for k, v := range extra {
			updates[k] = v
		}

		return tx.Model(&model.Member{}).Where("id = ?", memberID).Updates(updates).Error
	})

	if err != nil {
		r.logger.Error("Failed to record membership payment",
			zap.Int64("member_id", memberID),
			zap.String("type", entry.Type),
			zap.Error(err))
		return fmt.Errorf("failed to record membership payment: %w", err)
	}

	return nil
}

func (r *memberRepository) DueForRenewalReminder(ctx context.Context, cutoff time.Time) ([]*model.Member, error) {
	var members []*model.Member

	err := r.db.WithContext(ctx).
		Where("status = ? AND renewal_reminder_sent = ? AND membership_renewal_date IS NOT NULL AND membership_renewal_date <= ?",
			model.MemberStatusActive, false, cutoff).
		Order("membership_renewal_date ASC").
		Find(&members).Error
	if err != nil {
		r.logger.Error("Failed to query members due for renewal reminder", zap.Error(err))
		return nil, fmt.Errorf("failed to query members due for renewal reminder: %w", err)
	}

	return members, nil
}

func (r *memberRepository) SetRenewalReminderSent(ctx context.Context, memberID int64, sent bool) error {
	result := r.db.WithContext(ctx).
		Model(&model.Member{}).
		Where("id = ?", memberID).
		Update("renewal_reminder_sent", sent)

	if result.Error != nil {
		r.logger.Error("Failed to update renewal reminder flag",
			zap.Int64("member_id", memberID),
			zap.Error(result.Error))
		return fmt.Errorf("failed to update renewal reminder flag: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("member not found: %d", memberID)
	}

	return nil
}
