package repository

import (
	"context"
	"time"

	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/domain/model"
)

// MemberRepository applies membership payment effects and feeds the
// renewal reminder sweep.
type MemberRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Member, error)

	// RecordInitialPayment activates the member, sets the join date,
	// anchors the renewal date, appends the history entry, and updates
	// the last-payment fields.
	RecordInitialPayment(ctx context.Context, memberID int64, entry model.PaymentHistoryEntry, joinedAt, renewalDate time.Time) error

	// RecordRenewalPayment moves the renewal date forward (anchored on
	// the previous renewal date, not on the payment time), appends the
	// history entry, updates last-payment fields, and resets the
	// reminder flag for the next cycle.
	RecordRenewalPayment(ctx context.Context, memberID int64, entry model.PaymentHistoryEntry, renewalDate time.Time) error

	// DueForRenewalReminder returns active members whose renewal date
	// falls on or before cutoff and who have not been reminded yet.
	DueForRenewalReminder(ctx context.Context, cutoff time.Time) ([]*model.Member, error)

	SetRenewalReminderSent(ctx context.Context, memberID int64, sent bool) error
}
