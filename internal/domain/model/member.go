package model

import (
	"database/sql/driver"
	"time"

	"github.com/shopspring/decimal"
)

// MemberStatus is the membership lifecycle owned by the member CRUD;
// this service only moves approved members to active on a completed
// initial payment.
type MemberStatus string

const (
	MemberStatusPending  MemberStatus = "pending"
	MemberStatusApproved MemberStatus = "approved"
	MemberStatusActive   MemberStatus = "active"
)

// PaymentHistoryEntry is one completed membership payment.
type PaymentHistoryEntry struct {
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"`
	SessionID string          `json:"session_id"`
	Type      string          `json:"type"` // initial | renewal
}

const (
	PaymentTypeInitial = "initial"
	PaymentTypeRenewal = "renewal"
)

// PaymentHistory is the append-only list of completed payments.
type PaymentHistory []PaymentHistoryEntry

// Value implements driver.Valuer interface
func (h PaymentHistory) Value() (driver.Value, error) {
	if h == nil {
		return jsonbValue(PaymentHistory{})
	}
	return jsonbValue(h)
}

// Scan implements sql.Scanner interface
func (h *PaymentHistory) Scan(src interface{}) error {
	return jsonbScan(src, h)
}

// Member carries the payment-relevant subset of the club member entity.
type Member struct {
	ID     int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	Name   string       `gorm:"size:255;not null" json:"name"`
	Email  string       `gorm:"size:255;not null;index" json:"email"`
	Status MemberStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`

	JoinedAt              *time.Time       `json:"joined_at,omitempty"`
	MembershipRenewalDate *time.Time       `gorm:"index" json:"membership_renewal_date,omitempty"`
	LastPaymentDate       *time.Time       `json:"last_payment_date,omitempty"`
	LastPaymentAmount     *decimal.Decimal `gorm:"type:decimal(10,2)" json:"last_payment_amount,omitempty"`
	PaymentHistory        PaymentHistory   `gorm:"type:jsonb;default:'[]'" json:"payment_history"`
	RenewalReminderSent   bool             `gorm:"default:false" json:"renewal_reminder_sent"`

	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Member) TableName() string {
	return "members"
}
