package model

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentKind discriminates the three payment record variants.
type PaymentKind string

const (
	KindDonation   PaymentKind = "donation"
	KindOrder      PaymentKind = "order"
	KindMembership PaymentKind = "membership"
)

// Valid reports whether k is a known kind.
func (k PaymentKind) Valid() bool {
	switch k {
	case KindDonation, KindOrder, KindMembership:
		return true
	}
	return false
}

// PaymentStatus is the lifecycle status of a payment record.
type PaymentStatus string

const (
	StatusPending   PaymentStatus = "pending"
	StatusCompleted PaymentStatus = "completed"
	StatusFailed    PaymentStatus = "failed"
	StatusRefunded  PaymentStatus = "refunded"
)

// Scan implements sql.Scanner interface
func (s *PaymentStatus) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*s = PaymentStatus(v)
	case []byte:
		*s = PaymentStatus(v)
	default:
		*s = StatusPending
	}
	return nil
}

// Value implements driver.Valuer interface
func (s PaymentStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// Terminal reports whether no further transition is permitted in the
// reconciliation subsystem. Refunds are driven out-of-band from a
// completed record.
func (s PaymentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusRefunded
}

// CanTransitionTo enforces the record state machine: pending may move to
// completed or failed; completed may move to refunded; everything else
// is frozen.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusCompleted || next == StatusFailed
	case StatusCompleted:
		return next == StatusRefunded
	}
	return false
}

// PaymentRecord is a monetary transaction tracked through the hosted
// checkout flow: a donation, a shop order, or a membership payment. The
// three variants share one table and one state machine; kind-specific
// fields are nullable.
type PaymentRecord struct {
	ID       int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	PublicID uuid.UUID     `gorm:"column:public_id;type:uuid;not null;uniqueIndex" json:"public_id"`
	Kind     PaymentKind   `gorm:"size:20;not null;index" json:"kind"`
	Status   PaymentStatus `gorm:"size:50;not null;default:'pending';index" json:"status"`

	Name  string  `gorm:"size:255;not null" json:"name"`
	Email string  `gorm:"size:255;not null" json:"email"`
	Phone *string `gorm:"size:50" json:"phone,omitempty"`

	Amount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`

	// Order fields: product reference plus a price snapshot taken at
	// purchase time. Later catalog price changes must not affect the
	// record.
	ProductID   *int64           `gorm:"index" json:"product_id,omitempty"`
	ProductName *string          `gorm:"size:255" json:"product_name,omitempty"`
	UnitPrice   *decimal.Decimal `gorm:"type:decimal(10,2)" json:"unit_price,omitempty"`
	Quantity    int              `gorm:"default:0" json:"quantity,omitempty"`

	// Membership fields.
	MemberID  *int64 `gorm:"index" json:"member_id,omitempty"`
	IsRenewal bool   `gorm:"default:false" json:"is_renewal"`

	// Provider correlation. The session id is absent until the hosted
	// session has been created, hence the sparse unique index (created
	// in migration, not by tag).
	ProviderSessionID       *string `gorm:"column:provider_session_id;size:255" json:"provider_session_id,omitempty"`
	ProviderPaymentIntentID *string `gorm:"column:provider_payment_intent_id;size:255;index" json:"provider_payment_intent_id,omitempty"`
	ProviderCustomerID      *string `gorm:"column:provider_customer_id;size:255" json:"provider_customer_id,omitempty"`

	FailureMessage *string `json:"failure_message,omitempty"`

	// FulfilledAt is set once side effects (inventory, membership) have
	// been applied for a completed record. It is the claim that keeps
	// event replays from applying them twice.
	FulfilledAt *time.Time `json:"fulfilled_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"default:now();index" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (PaymentRecord) TableName() string {
	return "payment_records"
}

// JSONB stores arbitrary JSON payloads.
type JSONB map[string]interface{}

// Value implements driver.Valuer interface
func (j JSONB) Value() (driver.Value, error) {
	return jsonbValue(j)
}

// Scan implements sql.Scanner interface
func (j *JSONB) Scan(src interface{}) error {
	return jsonbScan(src, j)
}
