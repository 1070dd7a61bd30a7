package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"adetta/internal/cache"
	"adetta/internal/dto"
	"adetta/internal/model"
	"adetta/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockLedger is the only writer of product stock.
type StockLedger interface {
	BookDelivery(ctx context.Context, req dto.BookDeliveryRequest) (*dto.DeliveryResponse, error)
	BookDeliveries(ctx context.Context, req dto.BookDeliveriesRequest) (*dto.DeliveryBatchResponse, error)
	DeleteDelivery(ctx context.Context, id uint) (*dto.DeleteDeliveryResponse, error)
	ListRecent(ctx context.Context, limit int) ([]dto.DeliveryListItem, error)
}

type stockLedger struct {
	deliveries repository.DeliveryRepository
	products   repository.ProductRepository
	customers  repository.CustomerRepository
	invoices   repository.InvoiceRepository
	payments   repository.PaymentRepository
	generator  InvoiceGenerator
	status     StatusEngine
	cache      cache.Cache
}

func NewStockLedger(
	deliveries repository.DeliveryRepository,
	products repository.ProductRepository,
	customers repository.CustomerRepository,
	invoices repository.InvoiceRepository,
	payments repository.PaymentRepository,
	generator InvoiceGenerator,
	status StatusEngine,
	c cache.Cache,
) StockLedger {
	return &stockLedger{
		deliveries: deliveries,
		products:   products,
		customers:  customers,
		invoices:   invoices,
		payments:   payments,
		generator:  generator,
		status:     status,
		cache:      c,
	}
}

// bookedLine is one delivery with its invoice, as committed.
type bookedLine struct {
	delivery *model.Delivery
	product  *model.Product
	invoice  *model.Invoice
}

// ── BookDelivery ──────────────────────────────────────────────────────────────
// One transaction:
//   1. load customer (terms) and product with a row lock
//   2. reject missing price, then insufficient stock against the locked row
//   3. insert delivery, guarded stock decrement
//   4. issue the invoice and stamp its status
// The cache is invalidated only after commit.

func (s *stockLedger) BookDelivery(ctx context.Context, req dto.BookDeliveryRequest) (*dto.DeliveryResponse, error) {
	if req.Quantity <= 0 {
		return nil, invalid("quantity", "must be greater than zero")
	}
	if req.CustomerID == 0 {
		return nil, invalid("customer_id", "required")
	}
	if req.ProductID == 0 {
		return nil, invalid("product_id", "required")
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}

	var (
		customer *model.Customer
		line     bookedLine
	)
	err = runTx(ctx, s.deliveries.DB(), func(tx *gorm.DB) error {
		var err error
		if customer, err = s.customers.FindByIDTx(tx, req.CustomerID); err != nil {
			return lookupErr("load customer", "customer", req.CustomerID, err)
		}
		line, err = s.bookLineTx(tx, customer, req.ProductID, req.Quantity, date, req.Note)
		return err
	})
	if err != nil {
		return nil, storageErr("book delivery", err)
	}
	cache.Invalidate(ctx, s.cache)

	log.Info().
		Uint("delivery_id", line.delivery.ID).
		Uint("invoice_id", line.invoice.ID).
		Uint("product_id", line.product.ID).
		Int("quantity", line.delivery.Quantity).
		Str("total", line.invoice.Total.StringFixed(2)).
		Msg("delivery booked")

	resp := line.toResponse(customer)
	return &resp, nil
}

// BookDeliveries books several product lines for one customer atomically.
// Each line gets its own delivery and invoice.
func (s *stockLedger) BookDeliveries(ctx context.Context, req dto.BookDeliveriesRequest) (*dto.DeliveryBatchResponse, error) {
	if req.CustomerID == 0 {
		return nil, invalid("customer_id", "required")
	}
	var lines []dto.DeliveryLineRequest
	for _, l := range req.Lines {
		if l.Quantity < 0 {
			return nil, invalid("quantity", "must not be negative")
		}
		if l.Quantity == 0 {
			continue
		}
		if l.ProductID == 0 {
			return nil, invalid("product_id", "required")
		}
		lines = append(lines, l)
	}
	if len(lines) == 0 {
		return nil, invalid("lines", "at least one line with a quantity greater than zero")
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}

	var (
		customer *model.Customer
		booked   []bookedLine
	)
	err = runTx(ctx, s.deliveries.DB(), func(tx *gorm.DB) error {
		var err error
		if customer, err = s.customers.FindByIDTx(tx, req.CustomerID); err != nil {
			return lookupErr("load customer", "customer", req.CustomerID, err)
		}
		for _, l := range lines {
			line, err := s.bookLineTx(tx, customer, l.ProductID, l.Quantity, date, req.Note)
			if err != nil {
				return err
			}
			booked = append(booked, line)
		}
		return nil
	})
	if err != nil {
		return nil, storageErr("book deliveries", err)
	}
	cache.Invalidate(ctx, s.cache)

	resp := &dto.DeliveryBatchResponse{Total: decimal.Zero}
	for _, line := range booked {
		resp.Deliveries = append(resp.Deliveries, line.toResponse(customer))
		resp.Total = resp.Total.Add(line.invoice.Total)
	}
	log.Info().
		Uint("customer_id", customer.ID).
		Int("lines", len(booked)).
		Str("total", resp.Total.StringFixed(2)).
		Msg("delivery batch booked")
	return resp, nil
}

func (s *stockLedger) bookLineTx(tx *gorm.DB, customer *model.Customer, productID uint, qty int, date time.Time, note string) (bookedLine, error) {
	product, err := s.products.FindByIDForUpdateTx(tx, productID)
	if err != nil {
		return bookedLine{}, lookupErr("load product", "product", productID, err)
	}
	if !product.HasPrice() {
		return bookedLine{}, &MissingPriceError{ProductID: product.ID, Name: product.Name}
	}
	if qty > product.Stock {
		return bookedLine{}, &InsufficientStockError{ProductID: product.ID, Available: product.Stock, Requested: qty}
	}

	d := &model.Delivery{
		Date:       date,
		CustomerID: customer.ID,
		ProductID:  product.ID,
		Quantity:   qty,
		UnitPrice:  product.Price,
		Note:       note,
	}
	if err := s.deliveries.CreateTx(tx, d); err != nil {
		return bookedLine{}, storageErr("create delivery", err)
	}

	ok, err := s.products.DecrementStockTx(tx, product.ID, qty)
	if err != nil {
		return bookedLine{}, storageErr("decrement stock", err)
	}
	if !ok {
		// A concurrent writer got there between the read and the update.
		return bookedLine{}, &InsufficientStockError{ProductID: product.ID, Available: product.Stock, Requested: qty}
	}
	product.Stock -= qty

	inv, err := s.generator.GenerateTx(tx, d, customer.Terms)
	if err != nil {
		return bookedLine{}, err
	}
	status, err := s.status.RecomputeTx(tx, inv.ID)
	if err != nil {
		return bookedLine{}, err
	}
	inv.Status = status

	return bookedLine{delivery: d, product: product, invoice: inv}, nil
}

// ── DeleteDelivery ────────────────────────────────────────────────────────────
// Restores stock, then removes payments, invoice and delivery in foreign-key
// order, all in one transaction.

func (s *stockLedger) DeleteDelivery(ctx context.Context, id uint) (*dto.DeleteDeliveryResponse, error) {
	resp := &dto.DeleteDeliveryResponse{DeliveryID: id}
	err := runTx(ctx, s.deliveries.DB(), func(tx *gorm.DB) error {
		d, err := s.deliveries.FindByIDTx(tx, id)
		if err != nil {
			return lookupErr("load delivery", "delivery", id, err)
		}
		resp.ProductID = d.ProductID
		resp.RestoredStock = d.Quantity

		if err := s.products.IncrementStockTx(tx, d.ProductID, d.Quantity); err != nil {
			return storageErr("restore stock", err)
		}

		inv, err := s.invoices.FindByDeliveryIDTx(tx, d.ID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			// no invoice to remove
		case err != nil:
			return storageErr("load invoice", err)
		default:
			resp.InvoiceID = inv.ID
			if resp.PaymentsDeleted, err = s.payments.DeleteByInvoiceTx(tx, inv.ID); err != nil {
				return storageErr("delete payments", err)
			}
			if err := s.invoices.DeleteTx(tx, inv.ID); err != nil {
				return storageErr("delete invoice", err)
			}
		}

		if err := s.deliveries.DeleteTx(tx, d.ID); err != nil {
			return storageErr("delete delivery", err)
		}
		return nil
	})
	if err != nil {
		return nil, storageErr("delete delivery", err)
	}
	cache.Invalidate(ctx, s.cache)

	log.Info().
		Uint("delivery_id", id).
		Uint("invoice_id", resp.InvoiceID).
		Int("restored_stock", resp.RestoredStock).
		Int64("payments_deleted", resp.PaymentsDeleted).
		Msg("delivery deleted")
	return resp, nil
}

func (s *stockLedger) ListRecent(ctx context.Context, limit int) ([]dto.DeliveryListItem, error) {
	if limit < 1 || limit > 500 {
		limit = 50
	}
	key := "deliveries:recent:" + strconv.Itoa(limit)
	return cache.Fetch(ctx, s.cache, key, func() ([]dto.DeliveryListItem, error) {
		rows, err := s.deliveries.ListRecent(ctx, limit)
		if err != nil {
			return nil, storageErr("list deliveries", err)
		}
		out := make([]dto.DeliveryListItem, 0, len(rows))
		for _, r := range rows {
			out = append(out, dto.DeliveryListItem{
				ID:            r.ID,
				Date:          formatDate(r.Date),
				CustomerID:    r.CustomerID,
				CustomerName:  r.CustomerName,
				ProductID:     r.ProductID,
				ProductName:   r.ProductName,
				Quantity:      r.Quantity,
				UnitPrice:     r.UnitPrice,
				Note:          r.Note,
				InvoiceID:     r.InvoiceID,
				InvoiceStatus: string(r.InvoiceStatus),
			})
		}
		return out, nil
	})
}

func (l bookedLine) toResponse(customer *model.Customer) dto.DeliveryResponse {
	inv := invoiceToResponse(l.invoice, decimal.Zero)
	inv.CustomerID = customer.ID
	inv.CustomerName = customer.Name
	inv.ProductName = l.product.Name
	inv.Quantity = l.delivery.Quantity
	return dto.DeliveryResponse{
		ID:           l.delivery.ID,
		Date:         formatDate(l.delivery.Date),
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		ProductID:    l.product.ID,
		ProductName:  l.product.Name,
		Quantity:     l.delivery.Quantity,
		UnitPrice:    l.delivery.UnitPrice,
		LineTotal:    l.delivery.LineTotal(),
		Note:         l.delivery.Note,
		Invoice:      &inv,
	}
}
