package service

import (
	"context"
	"strings"

	"adetta/internal/cache"
	"adetta/internal/dto"
	"adetta/internal/model"
	"adetta/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type CustomerService interface {
	Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	Get(ctx context.Context, id uint) (*dto.CustomerResponse, error)
	List(ctx context.Context, name string) ([]dto.CustomerResponse, error)
	Update(ctx context.Context, id uint, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error)
	Summary(ctx context.Context, id uint) (*dto.CustomerSummaryResponse, error)
}

type customerService struct {
	repo    repository.CustomerRepository
	reports repository.ReportRepository
	cache   cache.Cache
}

func NewCustomerService(repo repository.CustomerRepository, reports repository.ReportRepository, c cache.Cache) CustomerService {
	return &customerService{repo: repo, reports: reports, cache: c}
}

func (s *customerService) Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("name", "required")
	}
	terms := model.DefaultTermsDays
	if req.Terms != nil {
		terms = *req.Terms
	}
	if terms < 0 {
		return nil, invalid("terms", "must not be negative")
	}

	c := &model.Customer{
		Name:    name,
		Address: strings.TrimSpace(req.Address),
		Contact: strings.TrimSpace(req.Contact),
		Terms:   terms,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, storageErr("create customer", err)
	}
	cache.Invalidate(ctx, s.cache)
	log.Info().Uint("customer_id", c.ID).Int("terms", c.Terms).Msg("customer created")

	resp := customerToResponse(c)
	return &resp, nil
}

func (s *customerService) Get(ctx context.Context, id uint) (*dto.CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr("load customer", "customer", id, err)
	}
	resp := customerToResponse(c)
	return &resp, nil
}

func (s *customerService) List(ctx context.Context, name string) ([]dto.CustomerResponse, error) {
	customers, err := s.repo.List(ctx, name)
	if err != nil {
		return nil, storageErr("list customers", err)
	}
	out := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		out = append(out, customerToResponse(&customers[i]))
	}
	return out, nil
}

// Update never touches existing invoices: due dates are fixed at issue time.
func (s *customerService) Update(ctx context.Context, id uint, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("name", "required")
	}
	if req.Terms < 0 {
		return nil, invalid("terms", "must not be negative")
	}
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr("load customer", "customer", id, err)
	}
	c.Name = name
	c.Address = strings.TrimSpace(req.Address)
	c.Contact = strings.TrimSpace(req.Contact)
	c.Terms = req.Terms
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, storageErr("update customer", err)
	}
	cache.Invalidate(ctx, s.cache)

	resp := customerToResponse(c)
	return &resp, nil
}

// Summary returns what the customer was invoiced, has paid and still owes,
// plus the delivered goods per product.
func (s *customerService) Summary(ctx context.Context, id uint) (*dto.CustomerSummaryResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr("load customer", "customer", id, err)
	}

	key := "customers:summary:" + uintKey(id)
	return cache.Fetch(ctx, s.cache, key, func() (*dto.CustomerSummaryResponse, error) {
		bal, err := s.reports.CustomerBalance(ctx, id)
		if err != nil {
			return nil, storageErr("customer balance", err)
		}
		delivered, err := s.reports.DeliveredByProduct(ctx, id)
		if err != nil {
			return nil, storageErr("delivered by product", err)
		}

		resp := &dto.CustomerSummaryResponse{
			Customer:       customerToResponse(c),
			Invoiced:       bal.Invoiced,
			Paid:           bal.Paid,
			Open:           bal.Invoiced.Sub(bal.Paid),
			DeliveredValue: decimal.Zero,
			Products:       make([]dto.ProductDeliveredResponse, 0, len(delivered)),
		}
		for _, d := range delivered {
			resp.DeliveredQuantity += d.Quantity
			resp.DeliveredValue = resp.DeliveredValue.Add(d.Value)
			resp.Products = append(resp.Products, dto.ProductDeliveredResponse{
				ProductID:   d.ProductID,
				ProductName: d.ProductName,
				Quantity:    d.Quantity,
				Value:       d.Value,
			})
		}
		return resp, nil
	})
}

func customerToResponse(c *model.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Address:   c.Address,
		Contact:   c.Contact,
		Terms:     c.Terms,
		CreatedAt: formatTimestamp(c.CreatedAt),
	}
}
