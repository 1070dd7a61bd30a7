package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a stocked article sold by the carton.
// Stock only moves through delivery booking and delivery deletion.
type Product struct {
	ID        uint            `gorm:"primaryKey"`
	Name      string          `gorm:"index;not null"`
	SKU       string          `gorm:"column:sku;uniqueIndex;not null"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Stock     int             `gorm:"not null;default:0"`
	MinStock  int             `gorm:"not null;default:0"`
	CreatedAt time.Time
}

// HasPrice reports whether a sale price is configured.
func (p *Product) HasPrice() bool { return p.Price.IsPositive() }

// LowStock reports whether stock reached the warning threshold.
func (p *Product) LowStock() bool { return p.Stock <= p.MinStock }
