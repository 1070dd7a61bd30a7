package service

import (
	"context"

	"adetta/internal/cache"
	"adetta/internal/dto"
	"adetta/internal/model"
	"adetta/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ExpenseService books costs. Expenses never touch stock or invoices.
type ExpenseService interface {
	Create(ctx context.Context, req dto.CreateExpenseRequest) (*dto.ExpenseResponse, error)
	List(ctx context.Context, filter dto.ExpenseFilter) ([]dto.ExpenseResponse, error)
	Summary(ctx context.Context, period string) (*dto.ExpenseSummaryResponse, error)
}

type expenseService struct {
	repo      repository.ExpenseRepository
	customers repository.CustomerRepository
	cache     cache.Cache
}

func NewExpenseService(repo repository.ExpenseRepository, customers repository.CustomerRepository, c cache.Cache) ExpenseService {
	return &expenseService{repo: repo, customers: customers, cache: c}
}

func (s *expenseService) Create(ctx context.Context, req dto.CreateExpenseRequest) (*dto.ExpenseResponse, error) {
	category := model.ExpenseCategory(req.Category)
	if !category.Valid() {
		return nil, invalid("category", "unknown category")
	}
	if err := checkAmount("amount", req.Amount); err != nil {
		return nil, err
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}

	var customer *model.Customer
	if req.CustomerID != nil {
		if category != model.ExpenseSiteFee {
			return nil, invalid("customer_id", "only site-fee expenses reference a customer")
		}
		if customer, err = s.customers.FindByID(ctx, *req.CustomerID); err != nil {
			return nil, lookupErr("load customer", "customer", *req.CustomerID, err)
		}
	}

	e := &model.Expense{
		Date:       date,
		Category:   category,
		Amount:     req.Amount,
		CustomerID: req.CustomerID,
		Note:       req.Note,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, storageErr("create expense", err)
	}
	e.Customer = customer
	cache.Invalidate(ctx, s.cache)
	log.Info().
		Uint("expense_id", e.ID).
		Str("category", string(e.Category)).
		Str("amount", e.Amount.StringFixed(2)).
		Msg("expense recorded")

	resp := expenseToResponse(e)
	return &resp, nil
}

func (s *expenseService) List(ctx context.Context, filter dto.ExpenseFilter) ([]dto.ExpenseResponse, error) {
	since, period, err := periodSince(filter.Period)
	if err != nil {
		return nil, err
	}
	category := model.ExpenseCategory(filter.Category)
	if category != "" && !category.Valid() {
		return nil, invalid("category", "unknown category")
	}

	key := "expenses:" + period + ":" + filter.Category
	return cache.Fetch(ctx, s.cache, key, func() ([]dto.ExpenseResponse, error) {
		expenses, err := s.repo.List(ctx, repository.ExpenseFilter{Since: since, Category: category})
		if err != nil {
			return nil, storageErr("list expenses", err)
		}
		out := make([]dto.ExpenseResponse, 0, len(expenses))
		for i := range expenses {
			out = append(out, expenseToResponse(&expenses[i]))
		}
		return out, nil
	})
}

func (s *expenseService) Summary(ctx context.Context, period string) (*dto.ExpenseSummaryResponse, error) {
	since, period, err := periodSince(period)
	if err != nil {
		return nil, err
	}
	return cache.Fetch(ctx, s.cache, "expenses:summary:"+period, func() (*dto.ExpenseSummaryResponse, error) {
		sums, err := s.repo.SumByCategory(ctx, since)
		if err != nil {
			return nil, storageErr("sum expenses", err)
		}
		resp := &dto.ExpenseSummaryResponse{
			Period:     period,
			Total:      decimal.Zero,
			Categories: make([]dto.CategorySumResponse, 0, len(sums)),
		}
		for _, cs := range sums {
			resp.Total = resp.Total.Add(cs.Total)
			resp.Categories = append(resp.Categories, dto.CategorySumResponse{
				Category: string(cs.Category),
				Total:    cs.Total,
			})
		}
		return resp, nil
	})
}

func expenseToResponse(e *model.Expense) dto.ExpenseResponse {
	resp := dto.ExpenseResponse{
		ID:         e.ID,
		Date:       formatDate(e.Date),
		Category:   string(e.Category),
		Amount:     e.Amount,
		CustomerID: e.CustomerID,
		Note:       e.Note,
	}
	if e.Customer != nil {
		resp.CustomerName = e.Customer.Name
	}
	return resp
}
