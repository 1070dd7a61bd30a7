package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseCategory: "wage" | "storage" | "transport" | "advertising" | "site-fee"
type ExpenseCategory string

const (
	ExpenseWage        ExpenseCategory = "wage"
	ExpenseStorage     ExpenseCategory = "storage"
	ExpenseTransport   ExpenseCategory = "transport"
	ExpenseAdvertising ExpenseCategory = "advertising"
	// ExpenseSiteFee is the shelf fee charged by a supermarket; it may carry a customer.
	ExpenseSiteFee ExpenseCategory = "site-fee"
)

// ExpenseCategories lists every accepted category in display order.
var ExpenseCategories = []ExpenseCategory{
	ExpenseWage, ExpenseStorage, ExpenseTransport, ExpenseAdvertising, ExpenseSiteFee,
}

// Valid reports whether c is a known category.
func (c ExpenseCategory) Valid() bool {
	for _, known := range ExpenseCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Expense is an independent cost entry; it never interacts with invoices.
type Expense struct {
	ID         uint            `gorm:"primaryKey"`
	Date       time.Time       `gorm:"type:date;index;not null"`
	Category   ExpenseCategory `gorm:"type:varchar(20);index;not null"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CustomerID *uint           `gorm:"index"`
	Note       string
	CreatedAt  time.Time

	Customer *Customer `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}
