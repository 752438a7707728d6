package errors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidationError is returned when checkout input fails validation
// before any record is written.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError is returned when a referenced entity does not exist.
type NotFoundError struct {
	Entity string
	Ref    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.Ref)
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(entity, ref string) *NotFoundError {
	return &NotFoundError{Entity: entity, Ref: ref}
}

// InsufficientInventoryError is returned when a purchase exceeds
// available stock and backorders are disallowed.
type InsufficientInventoryError struct {
	ProductID int64
	Requested int
	Available int
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient inventory for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// NewInsufficientInventoryError creates a new InsufficientInventoryError
func NewInsufficientInventoryError(productID int64, requested, available int) *InsufficientInventoryError {
	return &InsufficientInventoryError{ProductID: productID, Requested: requested, Available: available}
}

// MinimumAmountError is returned when a donation is below the minimum.
type MinimumAmountError struct {
	Amount  decimal.Decimal
	Minimum decimal.Decimal
}

func (e *MinimumAmountError) Error() string {
	return fmt.Sprintf("amount %s is below the minimum of %s", e.Amount.String(), e.Minimum.String())
}

// NewMinimumAmountError creates a new MinimumAmountError
func NewMinimumAmountError(amount, minimum decimal.Decimal) *MinimumAmountError {
	return &MinimumAmountError{Amount: amount, Minimum: minimum}
}

// ProviderError wraps a failure from the external payment provider.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("payment provider %s failed: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError creates a new ProviderError
func NewProviderError(op string, err error) *ProviderError {
	return &ProviderError{Op: op, Err: err}
}

// IsClientError reports whether err should map to a 4xx response.
func IsClientError(err error) bool {
	var ve *ValidationError
	var nf *NotFoundError
	var ii *InsufficientInventoryError
	var ma *MinimumAmountError
	return errors.As(err, &ve) || errors.As(err, &nf) || errors.As(err, &ii) || errors.As(err, &ma)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
