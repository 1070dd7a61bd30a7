package repository

import (
	"context"
	"sort"
	"time"

	"adetta/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ExpenseFilter defines filters for listing expenses.
type ExpenseFilter struct {
	Since    *time.Time
	Category model.ExpenseCategory
}

// CategorySum is the total spent in one expense category.
type CategorySum struct {
	Category model.ExpenseCategory
	Total    decimal.Decimal
}

type ExpenseRepository interface {
	Create(ctx context.Context, e *model.Expense) error
	List(ctx context.Context, filter ExpenseFilter) ([]model.Expense, error)
	SumByCategory(ctx context.Context, since *time.Time) ([]CategorySum, error)
}

type expenseRepo struct{ db *gorm.DB }

func NewExpenseRepository(db *gorm.DB) ExpenseRepository { return &expenseRepo{db: db} }

func (r *expenseRepo) Create(ctx context.Context, e *model.Expense) error {
	return r.db.WithContext(ctx).Omit("Customer").Create(e).Error
}

func (r *expenseRepo) List(ctx context.Context, filter ExpenseFilter) ([]model.Expense, error) {
	q := r.db.WithContext(ctx).Model(&model.Expense{}).Preload("Customer")
	if filter.Since != nil {
		q = q.Where("date >= ?", *filter.Since)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	var expenses []model.Expense
	err := q.Order("date DESC").Order("id DESC").Find(&expenses).Error
	return expenses, err
}

// SumByCategory returns per-category totals, largest first.
func (r *expenseRepo) SumByCategory(ctx context.Context, since *time.Time) ([]CategorySum, error) {
	q := r.db.WithContext(ctx).Model(&model.Expense{}).Select("category, amount")
	if since != nil {
		q = q.Where("date >= ?", *since)
	}
	var rows []struct {
		Category model.ExpenseCategory
		Amount   decimal.Decimal
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}

	totals := make(map[model.ExpenseCategory]decimal.Decimal)
	for _, row := range rows {
		totals[row.Category] = totals[row.Category].Add(row.Amount)
	}
	out := make([]CategorySum, 0, len(totals))
	for _, c := range model.ExpenseCategories {
		if t, ok := totals[c]; ok {
			out = append(out, CategorySum{Category: c, Total: t})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total.GreaterThan(out[j].Total) })
	return out, nil
}
