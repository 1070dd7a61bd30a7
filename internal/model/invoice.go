package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is derived from the payments recorded against an invoice.
type InvoiceStatus string

const (
	InvoiceOpen    InvoiceStatus = "open"
	InvoicePartial InvoiceStatus = "partial"
	InvoicePaid    InvoiceStatus = "paid"
)

// Invoice is issued exactly once per delivery, in the same transaction.
// Total is fixed at creation. Status is a stored copy of the value derived
// from Total and the invoice's payments.
type Invoice struct {
	ID         uint            `gorm:"primaryKey"`
	DeliveryID uint            `gorm:"uniqueIndex;not null"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IssuedAt   time.Time       `gorm:"type:date;index;not null"`
	DueAt      time.Time       `gorm:"type:date;not null"`
	Status     InvoiceStatus   `gorm:"type:varchar(10);not null;default:'open'"`

	Delivery *Delivery `gorm:"foreignKey:DeliveryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// Overdue reports whether the invoice is unpaid past its due date.
func (i *Invoice) Overdue(today time.Time) bool {
	return i.Status != InvoicePaid && today.After(i.DueAt)
}
