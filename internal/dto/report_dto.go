package dto

import "github.com/shopspring/decimal"

// PeriodQuery is bound from ?period= on report endpoints. Empty means 30 days.
type PeriodQuery struct {
	Period string `form:"period" validate:"omitempty,oneof=30 90 365 all"`
}

type RevenueResponse struct {
	Period string          `json:"period"`
	Since  *string         `json:"since"`
	Total  decimal.Decimal `json:"total"`
}

type CustomerRevenueResponse struct {
	CustomerID   uint            `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	Revenue      decimal.Decimal `json:"revenue"`
}
