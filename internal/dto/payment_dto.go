package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"gt=0"`
	Date   string          `json:"date"   validate:"omitempty,datetime=2006-01-02"` // empty = today
	Method string          `json:"method" validate:"omitempty,oneof=cash bank card"` // empty = cash
	Note   string          `json:"note"   validate:"max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PaymentResponse struct {
	ID        uint            `json:"id"`
	InvoiceID uint            `json:"invoice_id"`
	Amount    decimal.Decimal `json:"amount"`
	PaidAt    string          `json:"paid_at"`
	Method    string          `json:"method"`
	Note      string          `json:"note"`
}

// RecordPaymentResponse carries the invoice state after the payment committed.
type RecordPaymentResponse struct {
	Payment       PaymentResponse `json:"payment"`
	InvoiceStatus string          `json:"invoice_status"`
	OpenBalance   decimal.Decimal `json:"open_balance"`
}
