package repository

import (
	"context"
	"time"

	"adetta/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InvoiceFilter narrows invoice listings. Zero values mean "any".
type InvoiceFilter struct {
	CustomerID uint
	Status     model.InvoiceStatus
	Since      *time.Time
}

// InvoiceRow is an invoice joined with the delivery it was issued for.
type InvoiceRow struct {
	ID           uint
	DeliveryID   uint
	CustomerID   uint
	CustomerName string
	ProductName  string
	Quantity     int
	Total        decimal.Decimal
	IssuedAt     time.Time
	DueAt        time.Time
	Status       model.InvoiceStatus
}

type InvoiceRepository interface {
	FindByID(ctx context.Context, id uint) (*model.Invoice, error)
	List(ctx context.Context, filter InvoiceFilter) ([]InvoiceRow, error)
	ListIDs(ctx context.Context) ([]uint, error)

	// Used inside transactions; callers pass the tx instance
	CreateTx(tx *gorm.DB, inv *model.Invoice) error
	FindByIDTx(tx *gorm.DB, id uint) (*model.Invoice, error)
	FindByIDForUpdateTx(tx *gorm.DB, id uint) (*model.Invoice, error)
	FindByDeliveryIDTx(tx *gorm.DB, deliveryID uint) (*model.Invoice, error)
	UpdateStatusTx(tx *gorm.DB, id uint, status model.InvoiceStatus) error
	DeleteTx(tx *gorm.DB, id uint) error

	DB() *gorm.DB
}

type invoiceRepo struct{ db *gorm.DB }

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository { return &invoiceRepo{db: db} }

func (r *invoiceRepo) DB() *gorm.DB { return r.db }

func (r *invoiceRepo) CreateTx(tx *gorm.DB, inv *model.Invoice) error {
	return tx.Omit("Delivery").Create(inv).Error
}

func (r *invoiceRepo) FindByID(ctx context.Context, id uint) (*model.Invoice, error) {
	var inv model.Invoice
	err := r.db.WithContext(ctx).
		Preload("Delivery.Customer").Preload("Delivery.Product").
		First(&inv, id).Error
	return &inv, err
}

func (r *invoiceRepo) FindByIDTx(tx *gorm.DB, id uint) (*model.Invoice, error) {
	var inv model.Invoice
	err := tx.First(&inv, id).Error
	return &inv, err
}

func (r *invoiceRepo) FindByIDForUpdateTx(tx *gorm.DB, id uint) (*model.Invoice, error) {
	var inv model.Invoice
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&inv, id).Error
	return &inv, err
}

func (r *invoiceRepo) FindByDeliveryIDTx(tx *gorm.DB, deliveryID uint) (*model.Invoice, error) {
	var inv model.Invoice
	err := tx.Where("delivery_id = ?", deliveryID).First(&inv).Error
	return &inv, err
}

func (r *invoiceRepo) UpdateStatusTx(tx *gorm.DB, id uint, status model.InvoiceStatus) error {
	return tx.Model(&model.Invoice{}).Where("id = ?", id).Update("status", status).Error
}

func (r *invoiceRepo) DeleteTx(tx *gorm.DB, id uint) error {
	return tx.Delete(&model.Invoice{}, id).Error
}

func (r *invoiceRepo) ListIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&model.Invoice{}).Order("id ASC").Pluck("id", &ids).Error
	return ids, err
}

func (r *invoiceRepo) List(ctx context.Context, filter InvoiceFilter) ([]InvoiceRow, error) {
	q := r.db.WithContext(ctx).
		Table("invoices AS i").
		Select(`i.id, i.delivery_id, d.customer_id, c.name AS customer_name,
			p.name AS product_name, d.quantity, i.total, i.issued_at, i.due_at, i.status`).
		Joins("JOIN deliveries d ON d.id = i.delivery_id").
		Joins("JOIN customers c ON c.id = d.customer_id").
		Joins("JOIN products p ON p.id = d.product_id")

	if filter.CustomerID != 0 {
		q = q.Where("d.customer_id = ?", filter.CustomerID)
	}
	if filter.Status != "" {
		q = q.Where("i.status = ?", filter.Status)
	}
	if filter.Since != nil {
		q = q.Where("i.issued_at >= ?", *filter.Since)
	}

	var rows []InvoiceRow
	err := q.Order("i.issued_at DESC").Order("i.id DESC").Scan(&rows).Error
	return rows, err
}
