package repository

import (
	"context"
	"sort"
	"time"

	"adetta/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CustomerRevenue is the invoiced total of one customer.
type CustomerRevenue struct {
	CustomerID   uint
	CustomerName string
	Revenue      decimal.Decimal
}

// ProductDelivered is the delivered quantity and value of one product.
type ProductDelivered struct {
	ProductID   uint
	ProductName string
	Quantity    int
	Value       decimal.Decimal
}

// CustomerBalance aggregates the invoices of one customer.
type CustomerBalance struct {
	Invoiced decimal.Decimal
	Paid     decimal.Decimal
}

// ReportRepository runs the read-only aggregations behind the dashboard.
// Rows are summed with decimal arithmetic after loading.
type ReportRepository interface {
	LowStock(ctx context.Context) ([]model.Product, error)
	RevenueSince(ctx context.Context, since *time.Time) (decimal.Decimal, error)
	RevenueByCustomer(ctx context.Context, since *time.Time) ([]CustomerRevenue, error)
	CustomerBalance(ctx context.Context, customerID uint) (CustomerBalance, error)
	DeliveredByProduct(ctx context.Context, customerID uint) ([]ProductDelivered, error)
}

type reportRepo struct{ db *gorm.DB }

func NewReportRepository(db *gorm.DB) ReportRepository { return &reportRepo{db: db} }

func (r *reportRepo) LowStock(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("stock <= min_stock").
		Order("stock ASC").Order("name ASC").
		Find(&products).Error
	return products, err
}

func (r *reportRepo) RevenueSince(ctx context.Context, since *time.Time) (decimal.Decimal, error) {
	q := r.db.WithContext(ctx).Model(&model.Invoice{})
	if since != nil {
		q = q.Where("issued_at >= ?", *since)
	}
	var totals []decimal.Decimal
	if err := q.Pluck("total", &totals).Error; err != nil {
		return decimal.Zero, err
	}
	return sum(totals), nil
}

func (r *reportRepo) RevenueByCustomer(ctx context.Context, since *time.Time) ([]CustomerRevenue, error) {
	q := r.db.WithContext(ctx).
		Table("invoices AS i").
		Select("c.id AS customer_id, c.name AS customer_name, i.total").
		Joins("JOIN deliveries d ON d.id = i.delivery_id").
		Joins("JOIN customers c ON c.id = d.customer_id")
	if since != nil {
		q = q.Where("i.issued_at >= ?", *since)
	}
	var rows []struct {
		CustomerID   uint
		CustomerName string
		Total        decimal.Decimal
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}

	index := make(map[uint]int)
	var out []CustomerRevenue
	for _, row := range rows {
		i, ok := index[row.CustomerID]
		if !ok {
			i = len(out)
			index[row.CustomerID] = i
			out = append(out, CustomerRevenue{CustomerID: row.CustomerID, CustomerName: row.CustomerName})
		}
		out[i].Revenue = out[i].Revenue.Add(row.Total)
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Revenue.Equal(out[b].Revenue) {
			return out[a].CustomerName < out[b].CustomerName
		}
		return out[a].Revenue.GreaterThan(out[b].Revenue)
	})
	return out, nil
}

func (r *reportRepo) CustomerBalance(ctx context.Context, customerID uint) (CustomerBalance, error) {
	bal := CustomerBalance{Invoiced: decimal.Zero, Paid: decimal.Zero}

	var totals []decimal.Decimal
	if err := r.db.WithContext(ctx).
		Table("invoices AS i").
		Joins("JOIN deliveries d ON d.id = i.delivery_id").
		Where("d.customer_id = ?", customerID).
		Pluck("i.total", &totals).Error; err != nil {
		return bal, err
	}
	bal.Invoiced = sum(totals)

	var amounts []decimal.Decimal
	if err := r.db.WithContext(ctx).
		Table("payments AS pay").
		Joins("JOIN invoices i ON i.id = pay.invoice_id").
		Joins("JOIN deliveries d ON d.id = i.delivery_id").
		Where("d.customer_id = ?", customerID).
		Pluck("pay.amount", &amounts).Error; err != nil {
		return bal, err
	}
	bal.Paid = sum(amounts)
	return bal, nil
}

// DeliveredByProduct groups a customer's deliveries per product, largest quantity first.
func (r *reportRepo) DeliveredByProduct(ctx context.Context, customerID uint) ([]ProductDelivered, error) {
	var rows []struct {
		ProductID   uint
		ProductName string
		Quantity    int
		UnitPrice   decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Table("deliveries AS d").
		Select("d.product_id, p.name AS product_name, d.quantity, d.unit_price").
		Joins("JOIN products p ON p.id = d.product_id").
		Where("d.customer_id = ?", customerID).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	index := make(map[uint]int)
	var out []ProductDelivered
	for _, row := range rows {
		i, ok := index[row.ProductID]
		if !ok {
			i = len(out)
			index[row.ProductID] = i
			out = append(out, ProductDelivered{ProductID: row.ProductID, ProductName: row.ProductName})
		}
		out[i].Quantity += row.Quantity
		out[i].Value = out[i].Value.Add(row.UnitPrice.Mul(decimal.NewFromInt(int64(row.Quantity))))
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Quantity > out[b].Quantity })
	return out, nil
}
