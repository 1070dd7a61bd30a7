package repository

import (
	"context"

	"adetta/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentRepository stores payments. Sums are accumulated in decimal
// arithmetic on the Go side; SQLite SUM over decimal columns yields floats.
type PaymentRepository interface {
	ListByInvoice(ctx context.Context, invoiceID uint) ([]model.Payment, error)
	SumByInvoice(ctx context.Context, invoiceID uint) (decimal.Decimal, error)
	SumByInvoices(ctx context.Context, invoiceIDs []uint) (map[uint]decimal.Decimal, error)

	// Used inside transactions; callers pass the tx instance
	CreateTx(tx *gorm.DB, p *model.Payment) error
	ListByInvoiceTx(tx *gorm.DB, invoiceID uint) ([]model.Payment, error)
	SumByInvoiceTx(tx *gorm.DB, invoiceID uint) (decimal.Decimal, error)
	DeleteByInvoiceTx(tx *gorm.DB, invoiceID uint) (int64, error)
}

type paymentRepo struct{ db *gorm.DB }

func NewPaymentRepository(db *gorm.DB) PaymentRepository { return &paymentRepo{db: db} }

func (r *paymentRepo) CreateTx(tx *gorm.DB, p *model.Payment) error {
	return tx.Omit("Invoice").Create(p).Error
}

func (r *paymentRepo) ListByInvoice(ctx context.Context, invoiceID uint) ([]model.Payment, error) {
	return r.ListByInvoiceTx(r.db.WithContext(ctx), invoiceID)
}

func (r *paymentRepo) ListByInvoiceTx(tx *gorm.DB, invoiceID uint) ([]model.Payment, error) {
	var payments []model.Payment
	err := tx.Where("invoice_id = ?", invoiceID).
		Order("paid_at ASC").Order("id ASC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepo) SumByInvoice(ctx context.Context, invoiceID uint) (decimal.Decimal, error) {
	return r.SumByInvoiceTx(r.db.WithContext(ctx), invoiceID)
}

func (r *paymentRepo) SumByInvoiceTx(tx *gorm.DB, invoiceID uint) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	if err := tx.Model(&model.Payment{}).Where("invoice_id = ?", invoiceID).
		Pluck("amount", &amounts).Error; err != nil {
		return decimal.Zero, err
	}
	return sum(amounts), nil
}

func (r *paymentRepo) SumByInvoices(ctx context.Context, invoiceIDs []uint) (map[uint]decimal.Decimal, error) {
	out := make(map[uint]decimal.Decimal, len(invoiceIDs))
	if len(invoiceIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		InvoiceID uint
		Amount    decimal.Decimal
	}
	if err := r.db.WithContext(ctx).Model(&model.Payment{}).
		Select("invoice_id, amount").
		Where("invoice_id IN ?", invoiceIDs).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.InvoiceID] = out[row.InvoiceID].Add(row.Amount)
	}
	return out, nil
}

func (r *paymentRepo) DeleteByInvoiceTx(tx *gorm.DB, invoiceID uint) (int64, error) {
	res := tx.Where("invoice_id = ?", invoiceID).Delete(&model.Payment{})
	return res.RowsAffected, res.Error
}

func sum(values []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
