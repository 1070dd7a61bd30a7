package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"adetta/internal/cache"
	"adetta/internal/dto"
	"adetta/internal/model"
	"adetta/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, id uint) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]dto.ProductResponse, error)
	Update(ctx context.Context, id uint, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
}

type productService struct {
	repo  repository.ProductRepository
	cache cache.Cache
}

func NewProductService(repo repository.ProductRepository, c cache.Cache) ProductService {
	return &productService{repo: repo, cache: c}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name, sku := strings.TrimSpace(req.Name), strings.TrimSpace(req.SKU)
	if name == "" {
		return nil, invalid("name", "required")
	}
	if sku == "" {
		return nil, invalid("sku", "required")
	}
	if err := checkPrice("price", req.Price); err != nil {
		return nil, err
	}
	if req.Stock < 0 {
		return nil, invalid("stock", "must not be negative")
	}
	if req.MinStock < 0 {
		return nil, invalid("min_stock", "must not be negative")
	}
	if err := s.ensureSKUFree(ctx, sku, 0); err != nil {
		return nil, err
	}

	p := &model.Product{
		Name:     name,
		SKU:      sku,
		Price:    req.Price,
		Stock:    req.Stock,
		MinStock: req.MinStock,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, storageErr("create product", err)
	}
	cache.Invalidate(ctx, s.cache)
	log.Info().Uint("product_id", p.ID).Str("sku", p.SKU).Int("stock", p.Stock).Msg("product created")

	resp := productToResponse(p)
	return &resp, nil
}

func (s *productService) Get(ctx context.Context, id uint) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr("load product", "product", id, err)
	}
	resp := productToResponse(p)
	return &resp, nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) ([]dto.ProductResponse, error) {
	key := fmt.Sprintf("products:%s:%t", strings.ToLower(filter.Name), filter.LowStock)
	return cache.Fetch(ctx, s.cache, key, func() ([]dto.ProductResponse, error) {
		products, err := s.repo.List(ctx, repository.ProductFilter{Name: filter.Name, LowStock: filter.LowStock})
		if err != nil {
			return nil, storageErr("list products", err)
		}
		out := make([]dto.ProductResponse, 0, len(products))
		for i := range products {
			out = append(out, productToResponse(&products[i]))
		}
		return out, nil
	})
}

// Update changes catalog data only. Stock is owned by the delivery ledger.
func (s *productService) Update(ctx context.Context, id uint, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	name, sku := strings.TrimSpace(req.Name), strings.TrimSpace(req.SKU)
	if name == "" {
		return nil, invalid("name", "required")
	}
	if sku == "" {
		return nil, invalid("sku", "required")
	}
	if err := checkPrice("price", req.Price); err != nil {
		return nil, err
	}
	if req.MinStock < 0 {
		return nil, invalid("min_stock", "must not be negative")
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr("load product", "product", id, err)
	}
	if err := s.ensureSKUFree(ctx, sku, id); err != nil {
		return nil, err
	}

	p.Name, p.SKU, p.Price, p.MinStock = name, sku, req.Price, req.MinStock
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, storageErr("update product", err)
	}
	cache.Invalidate(ctx, s.cache)
	log.Info().Uint("product_id", id).Str("price", p.Price.StringFixed(2)).Msg("product updated")

	resp := productToResponse(p)
	return &resp, nil
}

func (s *productService) ensureSKUFree(ctx context.Context, sku string, selfID uint) error {
	existing, err := s.repo.FindBySKU(ctx, sku)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	case err != nil:
		return storageErr("find product by sku", err)
	case existing.ID != selfID:
		return invalid("sku", "already in use")
	}
	return nil
}

func productToResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		SKU:       p.SKU,
		Price:     p.Price,
		Stock:     p.Stock,
		MinStock:  p.MinStock,
		LowStock:  p.LowStock(),
		CreatedAt: formatTimestamp(p.CreatedAt),
	}
}
