package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Delivery is a single product line shipped to a customer.
// UnitPrice is captured at booking time so later price changes never touch
// the value of historical invoices.
type Delivery struct {
	ID         uint            `gorm:"primaryKey"`
	Date       time.Time       `gorm:"type:date;index;not null"`
	CustomerID uint            `gorm:"index;not null"`
	ProductID  uint            `gorm:"index;not null"`
	Quantity   int             `gorm:"not null"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Note       string

	Customer *Customer `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Product  *Product  `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// LineTotal is quantity × captured unit price.
func (d *Delivery) LineTotal() decimal.Decimal {
	return d.UnitPrice.Mul(decimal.NewFromInt(int64(d.Quantity)))
}
