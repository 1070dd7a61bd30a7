package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Error kinds. Every error returned by a ledger operation matches exactly one
// of these through errors.Is; handlers map them to HTTP status codes.
var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrMissingPrice      = errors.New("no price configured")
	ErrOverpayment       = errors.New("overpayment rejected")
	ErrStorage           = errors.New("storage error")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(field, reason string) error { return &ValidationError{Field: field, Reason: reason} }

// NotFoundError names the missing entity.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// InsufficientStockError carries the stock seen inside the booking transaction.
type InsufficientStockError struct {
	ProductID uint
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: available %d, requested %d",
		e.ProductID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// MissingPriceError is returned when a product is booked without a positive price.
type MissingPriceError struct {
	ProductID uint
	Name      string
}

func (e *MissingPriceError) Error() string {
	return fmt.Sprintf("no price configured for product %q", e.Name)
}

func (e *MissingPriceError) Is(target error) bool { return target == ErrMissingPrice }

// OverpaymentError carries the attempted amount and the open balance at the time.
type OverpaymentError struct {
	InvoiceID   uint
	Amount      decimal.Decimal
	OpenBalance decimal.Decimal
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("payment %s exceeds open balance %s of invoice %d",
		e.Amount.StringFixed(2), e.OpenBalance.StringFixed(2), e.InvoiceID)
}

func (e *OverpaymentError) Is(target error) bool { return target == ErrOverpayment }

// StorageError wraps a failing query with the operation name.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// storageErr wraps err unless it is nil or already a domain error.
func storageErr(op string, err error) error {
	if err == nil || isDomainError(err) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// lookupErr turns gorm.ErrRecordNotFound into a NotFoundError for entity/id.
func lookupErr(op, entity string, id uint, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return storageErr(op, err)
}

func isDomainError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrMissingPrice) ||
		errors.Is(err, ErrOverpayment) ||
		errors.Is(err, ErrStorage)
}
