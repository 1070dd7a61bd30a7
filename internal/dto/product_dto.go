package dto

import "github.com/shopspring/decimal"

// DateLayout is the wire format of every calendar date in the API.
const DateLayout = "2006-01-02"

// ─── Filter / List ──────────────────────────────────────────────────────────

// ProductFilter is bound from query string of GET /v1/products.
type ProductFilter struct {
	Name     string `form:"name"`
	LowStock bool   `form:"low_stock"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CreateProductRequest sets the initial stock. Afterwards stock only moves
// through deliveries.
type CreateProductRequest struct {
	Name     string          `json:"name"      validate:"required,min=1,max=200"`
	SKU      string          `json:"sku"       validate:"required,min=1,max=64"`
	Price    decimal.Decimal `json:"price"     validate:"min=0"`
	Stock    int             `json:"stock"     validate:"min=0"`
	MinStock int             `json:"min_stock" validate:"min=0"`
}

type UpdateProductRequest struct {
	Name     string          `json:"name"      validate:"required,min=1,max=200"`
	SKU      string          `json:"sku"       validate:"required,min=1,max=64"`
	Price    decimal.Decimal `json:"price"     validate:"min=0"`
	MinStock int             `json:"min_stock" validate:"min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID        uint            `json:"id"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	MinStock  int             `json:"min_stock"`
	LowStock  bool            `json:"low_stock"`
	CreatedAt string          `json:"created_at"`
}
