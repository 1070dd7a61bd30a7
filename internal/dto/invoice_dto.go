package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// InvoiceFilter is bound from query string of GET /v1/invoices.
type InvoiceFilter struct {
	CustomerID uint   `form:"customer_id"`
	Status     string `form:"status" validate:"omitempty,oneof=open partial paid"`
	Period     string `form:"period" validate:"omitempty,oneof=30 90 365 all"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SendInvoiceRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type InvoiceResponse struct {
	ID           uint            `json:"id"`
	DeliveryID   uint            `json:"delivery_id"`
	CustomerID   uint            `json:"customer_id,omitempty"`
	CustomerName string          `json:"customer_name,omitempty"`
	ProductName  string          `json:"product_name,omitempty"`
	Quantity     int             `json:"quantity,omitempty"`
	Total        decimal.Decimal `json:"total"`
	Paid         decimal.Decimal `json:"paid"`
	Open         decimal.Decimal `json:"open"`
	IssuedAt     string          `json:"issued_at"`
	DueAt        string          `json:"due_at"`
	Status       string          `json:"status"`
	Overdue      bool            `json:"overdue"`
}

// InvoiceStatusResponse compares the stored status with a fresh derivation.
type InvoiceStatusResponse struct {
	InvoiceID  uint            `json:"invoice_id"`
	Total      decimal.Decimal `json:"total"`
	Paid       decimal.Decimal `json:"paid"`
	Stored     string          `json:"stored"`
	Derived    string          `json:"derived"`
	Consistent bool            `json:"consistent"`
}

type RecomputeResponse struct {
	Checked int `json:"checked"`
	Changed int `json:"changed"`
}

type SendInvoiceResponse struct {
	InvoiceID uint   `json:"invoice_id"`
	Email     string `json:"email"`
	Sent      bool   `json:"sent"`
}
