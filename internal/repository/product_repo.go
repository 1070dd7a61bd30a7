package repository

import (
	"context"
	"strings"

	"adetta/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductFilter narrows product listings.
type ProductFilter struct {
	Name     string // substring match
	LowStock bool   // only stock <= min_stock
}

// ProductRepository defines the data access contract for products.
// Stock is never written through Update: only the *StockTx methods move it,
// and only inside a ledger transaction.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	FindBySKU(ctx context.Context, sku string) (*model.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]model.Product, error)
	Update(ctx context.Context, p *model.Product) error

	// Used inside transactions; callers pass the tx instance
	FindByIDForUpdateTx(tx *gorm.DB, id uint) (*model.Product, error)
	// DecrementStockTx subtracts qty only if enough stock remains.
	// ok is false when the guard rejected the update.
	DecrementStockTx(tx *gorm.DB, id uint, qty int) (ok bool, err error)
	IncrementStockTx(tx *gorm.DB, id uint, qty int) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) DB() *gorm.DB { return r.db }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *productRepo) FindBySKU(ctx context.Context, sku string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&p).Error
	return &p, err
}

func (r *productRepo) List(ctx context.Context, filter ProductFilter) ([]model.Product, error) {
	q := r.db.WithContext(ctx).Model(&model.Product{})
	if filter.Name != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Name)+"%")
	}
	if filter.LowStock {
		q = q.Where("stock <= min_stock")
	}
	var products []model.Product
	err := q.Order("name ASC").Order("id ASC").Find(&products).Error
	return products, err
}

// Update writes the catalog columns. Stock is deliberately not among them.
func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"name":      p.Name,
			"sku":       p.SKU,
			"price":     p.Price,
			"min_stock": p.MinStock,
		}).Error
}

// FindByIDForUpdateTx reads the product with a row lock. SQLite has no row
// locks; its dialector drops the clause and the write transaction serialises instead.
func (r *productRepo) FindByIDForUpdateTx(tx *gorm.DB, id uint) (*model.Product, error) {
	var p model.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, id).Error
	return &p, err
}

func (r *productRepo) DecrementStockTx(tx *gorm.DB, id uint, qty int) (bool, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *productRepo) IncrementStockTx(tx *gorm.DB, id uint, qty int) error {
	return tx.Model(&model.Product{}).Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", qty)).Error
}
