package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod: "cash" | "bank" | "card"
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentBank PaymentMethod = "bank"
	PaymentCard PaymentMethod = "card"
)

// Valid reports whether m is one of the accepted methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentBank, PaymentCard:
		return true
	}
	return false
}

// Payment is an amount received against one invoice.
// Payments are never edited; they disappear only with their delivery.
type Payment struct {
	ID        uint            `gorm:"primaryKey"`
	InvoiceID uint            `gorm:"index;not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaidAt    time.Time       `gorm:"type:date;not null"`
	Method    PaymentMethod   `gorm:"type:varchar(10);not null;default:'cash'"`
	Note      string

	Invoice *Invoice `gorm:"foreignKey:InvoiceID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}
