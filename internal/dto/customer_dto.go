package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateCustomerRequest struct {
	Name    string `json:"name"    validate:"required,min=1,max=200"`
	Address string `json:"address" validate:"max=300"`
	Contact string `json:"contact" validate:"max=200"`
	// Terms defaults to 30 days when omitted
	Terms *int `json:"terms" validate:"omitempty,min=0,max=365"`
}

type UpdateCustomerRequest struct {
	Name    string `json:"name"    validate:"required,min=1,max=200"`
	Address string `json:"address" validate:"max=300"`
	Contact string `json:"contact" validate:"max=200"`
	Terms   int    `json:"terms"   validate:"min=0,max=365"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CustomerResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	Contact   string `json:"contact"`
	Terms     int    `json:"terms"`
	CreatedAt string `json:"created_at"`
}

type ProductDeliveredResponse struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Value       decimal.Decimal `json:"value"`
}

// CustomerSummaryResponse is the balance and delivery history of one customer.
type CustomerSummaryResponse struct {
	Customer          CustomerResponse           `json:"customer"`
	Invoiced          decimal.Decimal            `json:"invoiced"`
	Paid              decimal.Decimal            `json:"paid"`
	Open              decimal.Decimal            `json:"open"`
	DeliveredQuantity int                        `json:"delivered_quantity"`
	DeliveredValue    decimal.Decimal            `json:"delivered_value"`
	Products          []ProductDeliveredResponse `json:"products"`
}
