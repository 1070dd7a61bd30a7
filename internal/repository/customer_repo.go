package repository

import (
	"context"
	"strings"

	"adetta/internal/model"

	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(ctx context.Context, c *model.Customer) error
	FindByID(ctx context.Context, id uint) (*model.Customer, error)
	List(ctx context.Context, name string) ([]model.Customer, error)
	Update(ctx context.Context, c *model.Customer) error

	FindByIDTx(tx *gorm.DB, id uint) (*model.Customer, error)
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) CustomerRepository { return &customerRepo{db: db} }

func (r *customerRepo) Create(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *customerRepo) FindByID(ctx context.Context, id uint) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *customerRepo) FindByIDTx(tx *gorm.DB, id uint) (*model.Customer, error) {
	var c model.Customer
	err := tx.First(&c, id).Error
	return &c, err
}

func (r *customerRepo) List(ctx context.Context, name string) ([]model.Customer, error) {
	q := r.db.WithContext(ctx).Model(&model.Customer{})
	if name != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	var customers []model.Customer
	err := q.Order("name ASC").Order("id ASC").Find(&customers).Error
	return customers, err
}

func (r *customerRepo) Update(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Model(&model.Customer{}).Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"name":    c.Name,
			"address": c.Address,
			"contact": c.Contact,
			"terms":   c.Terms,
		}).Error
}
