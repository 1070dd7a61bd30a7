package service

import (
	"context"

	"adetta/internal/cache"
	"adetta/internal/dto"
	"adetta/internal/repository"
)

// ReportService serves the dashboard projections. Every result goes through
// the query cache; ledger writes invalidate it.
type ReportService interface {
	LowStock(ctx context.Context) ([]dto.ProductResponse, error)
	Revenue(ctx context.Context, period string) (*dto.RevenueResponse, error)
	RevenueByCustomer(ctx context.Context, period string) ([]dto.CustomerRevenueResponse, error)
}

type reportService struct {
	repo  repository.ReportRepository
	cache cache.Cache
}

func NewReportService(repo repository.ReportRepository, c cache.Cache) ReportService {
	return &reportService{repo: repo, cache: c}
}

func (s *reportService) LowStock(ctx context.Context) ([]dto.ProductResponse, error) {
	return cache.Fetch(ctx, s.cache, "reports:low-stock", func() ([]dto.ProductResponse, error) {
		products, err := s.repo.LowStock(ctx)
		if err != nil {
			return nil, storageErr("low stock", err)
		}
		out := make([]dto.ProductResponse, 0, len(products))
		for i := range products {
			out = append(out, productToResponse(&products[i]))
		}
		return out, nil
	})
}

func (s *reportService) Revenue(ctx context.Context, period string) (*dto.RevenueResponse, error) {
	since, period, err := periodSince(period)
	if err != nil {
		return nil, err
	}
	return cache.Fetch(ctx, s.cache, "reports:revenue:"+period, func() (*dto.RevenueResponse, error) {
		total, err := s.repo.RevenueSince(ctx, since)
		if err != nil {
			return nil, storageErr("revenue", err)
		}
		resp := &dto.RevenueResponse{Period: period, Total: total}
		if since != nil {
			d := formatDate(*since)
			resp.Since = &d
		}
		return resp, nil
	})
}

func (s *reportService) RevenueByCustomer(ctx context.Context, period string) ([]dto.CustomerRevenueResponse, error) {
	since, period, err := periodSince(period)
	if err != nil {
		return nil, err
	}
	return cache.Fetch(ctx, s.cache, "reports:revenue-by-customer:"+period, func() ([]dto.CustomerRevenueResponse, error) {
		rows, err := s.repo.RevenueByCustomer(ctx, since)
		if err != nil {
			return nil, storageErr("revenue by customer", err)
		}
		out := make([]dto.CustomerRevenueResponse, 0, len(rows))
		for _, r := range rows {
			out = append(out, dto.CustomerRevenueResponse{
				CustomerID:   r.CustomerID,
				CustomerName: r.CustomerName,
				Revenue:      r.Revenue,
			})
		}
		return out, nil
	})
}
