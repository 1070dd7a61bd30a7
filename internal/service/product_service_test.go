package service

import (
	"context"
	"testing"

	"adetta/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductCreate_RejectsDuplicateSKU(t *testing.T) {
	env := newLedgerEnv(t)
	env.product(t, "OIL-1L", "8.50", 10)

	_, err := env.productSvc.Create(context.Background(), dto.CreateProductRequest{
		Name: "Another oil", SKU: " OIL-1L ", Price: dec("9.00"),
	})

	require.ErrorIs(t, err, ErrValidation)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "sku", verr.Field)
}

func TestProductCreate_Validation(t *testing.T) {
	env := newLedgerEnv(t)

	cases := []struct {
		name string
		req  dto.CreateProductRequest
	}{
		{"blank name", dto.CreateProductRequest{Name: "  ", SKU: "A"}},
		{"blank sku", dto.CreateProductRequest{Name: "A", SKU: ""}},
		{"negative price", dto.CreateProductRequest{Name: "A", SKU: "A", Price: dec("-1")}},
		{"sub-cent price", dto.CreateProductRequest{Name: "A", SKU: "A", Price: dec("1.999")}},
		{"negative stock", dto.CreateProductRequest{Name: "A", SKU: "A", Stock: -1}},
		{"negative min stock", dto.CreateProductRequest{Name: "A", SKU: "A", MinStock: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.productSvc.Create(context.Background(), tc.req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestProductUpdate_KeepsStockAndAllowsOwnSKU(t *testing.T) {
	env := newLedgerEnv(t)
	ctx := context.Background()
	p := env.product(t, "OIL-1L", "8.50", 10)
	other := env.product(t, "HON-500", "6.20", 3)

	resp, err := env.productSvc.Update(ctx, p.ID, dto.UpdateProductRequest{
		Name: "Olive oil 1L", SKU: "OIL-1L", Price: dec("9.10"), MinStock: 12,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, resp.Stock)
	assert.True(t, resp.LowStock)
	assert.True(t, resp.Price.Equal(dec("9.10")))

	_, err = env.productSvc.Update(ctx, p.ID, dto.UpdateProductRequest{Name: "x", SKU: other.SKU})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.productSvc.Update(ctx, 404, dto.UpdateProductRequest{Name: "x", SKU: "NEW"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductList_FiltersAndSeesNewRows(t *testing.T) {
	env := newLedgerEnv(t)
	ctx := context.Background()
	env.product(t, "OIL-1L", "8.50", 10)

	all, err := env.productSvc.List(ctx, dto.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)

	env.product(t, "HON-500", "6.20", 0)

	all, err = env.productSvc.List(ctx, dto.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2, "create invalidates the cached list")

	low, err := env.productSvc.List(ctx, dto.ProductFilter{LowStock: true})
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "HON-500", low[0].SKU)

	named, err := env.productSvc.List(ctx, dto.ProductFilter{Name: "oil"})
	require.NoError(t, err)
	require.Len(t, named, 1)
	assert.Equal(t, "OIL-1L", named[0].SKU)
}
