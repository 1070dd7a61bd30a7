// seed loads a small demo catalog: products, customers, a few deliveries
// with their invoices and one partial payment.
// Usage: go run ./cmd/seed   (uses DATABASE_URL like the server)
package main

import (
	"context"
	"os"
	"time"

	"adetta/internal/cache"
	"adetta/internal/config"
	"adetta/internal/dto"
	"adetta/internal/infra"
	"adetta/internal/repository"
	"adetta/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL, cfg.DBDebug)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}

	ctx := context.Background()
	nop := cache.Nop{}

	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	products := service.NewProductService(productRepo, nop)
	customers := service.NewCustomerService(customerRepo, repository.NewReportRepository(db), nop)
	status := service.NewStatusEngine(invoiceRepo, paymentRepo, nop)
	ledger := service.NewStockLedger(
		repository.NewDeliveryRepository(db), productRepo, customerRepo, invoiceRepo, paymentRepo,
		service.NewInvoiceGenerator(invoiceRepo), status, nop,
	)
	payments := service.NewPaymentLedger(invoiceRepo, paymentRepo, status, nop, cfg.Tolerance())

	catalog := []dto.CreateProductRequest{
		{Name: "Olive oil 1L", SKU: "OIL-1L", Price: decimal.RequireFromString("8.50"), Stock: 120, MinStock: 20},
		{Name: "Honey 500g", SKU: "HON-500", Price: decimal.RequireFromString("6.20"), Stock: 80, MinStock: 15},
		{Name: "Dried figs 250g", SKU: "FIG-250", Price: decimal.RequireFromString("4.75"), Stock: 40, MinStock: 10},
	}
	var productIDs []uint
	for _, p := range catalog {
		resp, err := products.Create(ctx, p)
		if err != nil {
			log.Fatal().Err(err).Str("sku", p.SKU).Msg("create product")
		}
		productIDs = append(productIDs, resp.ID)
	}

	terms := 14
	shop, err := customers.Create(ctx, dto.CreateCustomerRequest{Name: "Corner Deli", Address: "12 Market St", Terms: &terms})
	if err != nil {
		log.Fatal().Err(err).Msg("create customer")
	}
	if _, err := customers.Create(ctx, dto.CreateCustomerRequest{Name: "Harbour Cafe", Contact: "cafe@example.com"}); err != nil {
		log.Fatal().Err(err).Msg("create customer")
	}

	batch, err := ledger.BookDeliveries(ctx, dto.BookDeliveriesRequest{
		CustomerID: shop.ID,
		Note:       "weekly order",
		Lines: []dto.DeliveryLineRequest{
			{ProductID: productIDs[0], Quantity: 12},
			{ProductID: productIDs[1], Quantity: 6},
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("book deliveries")
	}

	first := batch.Deliveries[0].Invoice
	if _, err := payments.RecordPayment(ctx, first.ID, dto.RecordPaymentRequest{
		Amount: decimal.RequireFromString("50.00"),
		Method: "bank",
	}); err != nil {
		log.Fatal().Err(err).Msg("record payment")
	}

	log.Info().
		Int("products", len(productIDs)).
		Int("deliveries", len(batch.Deliveries)).
		Str("batch_total", batch.Total.StringFixed(2)).
		Msg("demo data loaded")
}
