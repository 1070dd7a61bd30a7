package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type BookDeliveryRequest struct {
	CustomerID uint   `json:"customer_id" validate:"required"`
	ProductID  uint   `json:"product_id"  validate:"required"`
	Quantity   int    `json:"quantity"    validate:"required,min=1"`
	Date       string `json:"date"        validate:"omitempty,datetime=2006-01-02"` // empty = today
	Note       string `json:"note"        validate:"max=500"`
}

// DeliveryLineRequest is one product line of a batch. Quantity 0 lines are skipped.
type DeliveryLineRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity"   validate:"min=0"`
}

type BookDeliveriesRequest struct {
	CustomerID uint                  `json:"customer_id" validate:"required"`
	Date       string                `json:"date"        validate:"omitempty,datetime=2006-01-02"`
	Note       string                `json:"note"        validate:"max=500"`
	Lines      []DeliveryLineRequest `json:"lines"       validate:"required,min=1,max=100,dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DeliveryResponse struct {
	ID           uint             `json:"id"`
	Date         string           `json:"date"`
	CustomerID   uint             `json:"customer_id"`
	CustomerName string           `json:"customer_name,omitempty"`
	ProductID    uint             `json:"product_id"`
	ProductName  string           `json:"product_name,omitempty"`
	Quantity     int              `json:"quantity"`
	UnitPrice    decimal.Decimal  `json:"unit_price"`
	LineTotal    decimal.Decimal  `json:"line_total"`
	Note         string           `json:"note"`
	Invoice      *InvoiceResponse `json:"invoice,omitempty"`
}

// DeliveryListItem is a row of GET /v1/deliveries.
type DeliveryListItem struct {
	ID            uint            `json:"id"`
	Date          string          `json:"date"`
	CustomerID    uint            `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	ProductID     uint            `json:"product_id"`
	ProductName   string          `json:"product_name"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Note          string          `json:"note"`
	InvoiceID     uint            `json:"invoice_id"`
	InvoiceStatus string          `json:"invoice_status"`
}

type DeliveryBatchResponse struct {
	Deliveries []DeliveryResponse `json:"deliveries"`
	Total      decimal.Decimal    `json:"total"`
}

type DeleteDeliveryResponse struct {
	DeliveryID      uint  `json:"delivery_id"`
	InvoiceID       uint  `json:"invoice_id"`
	ProductID       uint  `json:"product_id"`
	RestoredStock   int   `json:"restored_stock"`
	PaymentsDeleted int64 `json:"payments_deleted"`
}
