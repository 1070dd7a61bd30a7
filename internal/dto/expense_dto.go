package dto

import "github.com/shopspring/decimal"

// ExpenseFilter is bound from query string of GET /v1/expenses and /v1/expenses/summary.
type ExpenseFilter struct {
	Period   string `form:"period"   validate:"omitempty,oneof=30 90 365 all"`
	Category string `form:"category" validate:"omitempty,oneof=wage storage transport advertising site-fee"`
}

type CreateExpenseRequest struct {
	Date     string          `json:"date"        validate:"omitempty,datetime=2006-01-02"`
	Category string          `json:"category"    validate:"required,oneof=wage storage transport advertising site-fee"`
	Amount   decimal.Decimal `json:"amount"      validate:"gt=0"`
	// CustomerID is only accepted for site-fee expenses
	CustomerID *uint  `json:"customer_id"`
	Note       string `json:"note"        validate:"max=500"`
}

type ExpenseResponse struct {
	ID           uint            `json:"id"`
	Date         string          `json:"date"`
	Category     string          `json:"category"`
	Amount       decimal.Decimal `json:"amount"`
	CustomerID   *uint           `json:"customer_id"`
	CustomerName string          `json:"customer_name,omitempty"`
	Note         string          `json:"note"`
}

type CategorySumResponse struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

type ExpenseSummaryResponse struct {
	Period     string                `json:"period"`
	Total      decimal.Decimal       `json:"total"`
	Categories []CategorySumResponse `json:"categories"`
}
