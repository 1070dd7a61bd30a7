package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"adetta/internal/cache"
	"adetta/internal/dto"
	"adetta/internal/infra"
	"adetta/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Test environment ──────────────────────────────────────────────────────────
// Every test gets its own in-memory SQLite database with foreign keys on and
// the full service graph wired the way the router wires it.

type ledgerEnv struct {
	db    *gorm.DB
	cache cache.Cache

	products   repository.ProductRepository
	customers  repository.CustomerRepository
	deliveries repository.DeliveryRepository
	invoices   repository.InvoiceRepository
	payments   repository.PaymentRepository

	productSvc  ProductService
	customerSvc CustomerService
	status      StatusEngine
	stock       StockLedger
	pay         PaymentLedger
	invoiceSvc  InvoiceService
	expenseSvc  ExpenseService
	reportSvc   ReportService
}

func newLedgerEnv(t *testing.T) *ledgerEnv {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := infra.NewDatabase("file:"+name+"?mode=memory&cache=shared", false)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	pinToday(t, time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC))

	qc := cache.NewMemory(time.Minute)
	env := &ledgerEnv{
		db:         db,
		cache:      qc,
		products:   repository.NewProductRepository(db),
		customers:  repository.NewCustomerRepository(db),
		deliveries: repository.NewDeliveryRepository(db),
		invoices:   repository.NewInvoiceRepository(db),
		payments:   repository.NewPaymentRepository(db),
	}
	reports := repository.NewReportRepository(db)

	env.productSvc = NewProductService(env.products, qc)
	env.customerSvc = NewCustomerService(env.customers, reports, qc)
	env.status = NewStatusEngine(env.invoices, env.payments, qc)
	env.stock = NewStockLedger(env.deliveries, env.products, env.customers, env.invoices, env.payments,
		NewInvoiceGenerator(env.invoices), env.status, qc)
	env.pay = NewPaymentLedger(env.invoices, env.payments, env.status, qc, decimal.New(1, -6))
	env.invoiceSvc = NewInvoiceService(env.invoices, env.payments, qc)
	env.expenseSvc = NewExpenseService(repository.NewExpenseRepository(db), env.customers, qc)
	env.reportSvc = NewReportService(reports, qc)
	return env
}

// pinToday fixes the service clock for the duration of the test.
func pinToday(t *testing.T, now time.Time) {
	t.Helper()
	prev := timeNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = prev })
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func (e *ledgerEnv) product(t *testing.T, sku, price string, stock int) *dto.ProductResponse {
	t.Helper()
	p, err := e.productSvc.Create(context.Background(), dto.CreateProductRequest{
		Name:  "Product " + sku,
		SKU:   sku,
		Price: dec(price),
		Stock: stock,
	})
	require.NoError(t, err)
	return p
}

func (e *ledgerEnv) customer(t *testing.T, name string, terms int) *dto.CustomerResponse {
	t.Helper()
	c, err := e.customerSvc.Create(context.Background(), dto.CreateCustomerRequest{Name: name, Terms: &terms})
	require.NoError(t, err)
	return c
}

func (e *ledgerEnv) book(t *testing.T, customerID, productID uint, qty int, date string) *dto.DeliveryResponse {
	t.Helper()
	d, err := e.stock.BookDelivery(context.Background(), dto.BookDeliveryRequest{
		CustomerID: customerID,
		ProductID:  productID,
		Quantity:   qty,
		Date:       date,
	})
	require.NoError(t, err)
	return d
}

func (e *ledgerEnv) stockOf(t *testing.T, productID uint) int {
	t.Helper()
	p, err := e.products.FindByID(context.Background(), productID)
	require.NoError(t, err)
	return p.Stock
}

func (e *ledgerEnv) count(t *testing.T, m any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(m).Count(&n).Error)
	return n
}

// requireStatusConsistent asserts the stored status equals a fresh derivation
// from the invoice total and its payment history.
func (e *ledgerEnv) requireStatusConsistent(t *testing.T, invoiceID uint) *dto.InvoiceStatusResponse {
	t.Helper()
	v, err := e.status.Verify(context.Background(), invoiceID)
	require.NoError(t, err)
	require.True(t, v.Consistent, "stored %s, derived %s", v.Stored, v.Derived)
	return v
}
