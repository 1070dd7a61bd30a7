package repository

import (
	"context"
	"time"

	"adetta/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DeliveryRow is a delivery joined with its customer, product and invoice.
type DeliveryRow struct {
	ID            uint
	Date          time.Time
	CustomerID    uint
	CustomerName  string
	ProductID     uint
	ProductName   string
	Quantity      int
	UnitPrice     decimal.Decimal
	Note          string
	InvoiceID     uint
	InvoiceStatus model.InvoiceStatus
}

type DeliveryRepository interface {
	FindByID(ctx context.Context, id uint) (*model.Delivery, error)
	ListRecent(ctx context.Context, limit int) ([]DeliveryRow, error)

	// Used inside transactions; callers pass the tx instance
	CreateTx(tx *gorm.DB, d *model.Delivery) error
	FindByIDTx(tx *gorm.DB, id uint) (*model.Delivery, error)
	DeleteTx(tx *gorm.DB, id uint) error

	DB() *gorm.DB
}

type deliveryRepo struct{ db *gorm.DB }

func NewDeliveryRepository(db *gorm.DB) DeliveryRepository { return &deliveryRepo{db: db} }

func (r *deliveryRepo) DB() *gorm.DB { return r.db }

func (r *deliveryRepo) CreateTx(tx *gorm.DB, d *model.Delivery) error {
	return tx.Omit("Customer", "Product").Create(d).Error
}

func (r *deliveryRepo) FindByID(ctx context.Context, id uint) (*model.Delivery, error) {
	var d model.Delivery
	err := r.db.WithContext(ctx).Preload("Customer").Preload("Product").First(&d, id).Error
	return &d, err
}

func (r *deliveryRepo) FindByIDTx(tx *gorm.DB, id uint) (*model.Delivery, error) {
	var d model.Delivery
	err := tx.First(&d, id).Error
	return &d, err
}

func (r *deliveryRepo) DeleteTx(tx *gorm.DB, id uint) error {
	return tx.Delete(&model.Delivery{}, id).Error
}

// ListRecent returns the newest deliveries first.
func (r *deliveryRepo) ListRecent(ctx context.Context, limit int) ([]DeliveryRow, error) {
	if limit < 1 || limit > 500 {
		limit = 50
	}
	var rows []DeliveryRow
	err := r.db.WithContext(ctx).
		Table("deliveries AS d").
		Select(`d.id, d.date, d.customer_id, c.name AS customer_name,
			d.product_id, p.name AS product_name, d.quantity, d.unit_price, d.note,
			COALESCE(i.id, 0) AS invoice_id, COALESCE(i.status, '') AS invoice_status`).
		Joins("JOIN customers c ON c.id = d.customer_id").
		Joins("JOIN products p ON p.id = d.product_id").
		Joins("LEFT JOIN invoices i ON i.delivery_id = d.id").
		Order("d.date DESC").Order("d.id DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
