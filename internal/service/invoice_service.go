package service

import (
	"context"
	"fmt"
	"time"

	"adetta/internal/cache"
	"adetta/internal/dto"
	"adetta/internal/model"
	"adetta/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvoiceGenerator issues the single invoice of a freshly booked delivery.
type InvoiceGenerator interface {
	GenerateTx(tx *gorm.DB, d *model.Delivery, termsDays int) (*model.Invoice, error)
}

type invoiceGenerator struct {
	invoices repository.InvoiceRepository
}

func NewInvoiceGenerator(invoices repository.InvoiceRepository) InvoiceGenerator {
	return &invoiceGenerator{invoices: invoices}
}

// GenerateTx must run in the booking transaction. The total is fixed here
// and never changes afterwards.
func (g *invoiceGenerator) GenerateTx(tx *gorm.DB, d *model.Delivery, termsDays int) (*model.Invoice, error) {
	if d.ID == 0 {
		return nil, invalid("delivery_id", "delivery must be stored before invoicing")
	}
	if termsDays < 0 {
		return nil, invalid("terms", "must not be negative")
	}
	inv := &model.Invoice{
		DeliveryID: d.ID,
		Total:      d.LineTotal(),
		IssuedAt:   d.Date,
		DueAt:      d.Date.AddDate(0, 0, termsDays),
		Status:     model.InvoiceOpen,
	}
	if err := g.invoices.CreateTx(tx, inv); err != nil {
		return nil, storageErr("create invoice", err)
	}
	return inv, nil
}

// InvoiceService serves the read side of invoices.
type InvoiceService interface {
	List(ctx context.Context, filter dto.InvoiceFilter) ([]dto.InvoiceResponse, error)
	Get(ctx context.Context, id uint) (*dto.InvoiceResponse, error)
}

type invoiceService struct {
	invoices repository.InvoiceRepository
	payments repository.PaymentRepository
	cache    cache.Cache
}

func NewInvoiceService(invoices repository.InvoiceRepository, payments repository.PaymentRepository, c cache.Cache) InvoiceService {
	return &invoiceService{invoices: invoices, payments: payments, cache: c}
}

func (s *invoiceService) List(ctx context.Context, filter dto.InvoiceFilter) ([]dto.InvoiceResponse, error) {
	var since *time.Time
	if filter.Period != "" {
		var err error
		if since, _, err = periodSince(filter.Period); err != nil {
			return nil, err
		}
	}
	status := model.InvoiceStatus(filter.Status)
	switch status {
	case "", model.InvoiceOpen, model.InvoicePartial, model.InvoicePaid:
	default:
		return nil, invalid("status", "expected open, partial or paid")
	}

	key := fmt.Sprintf("invoices:%d:%s:%s", filter.CustomerID, filter.Status, filter.Period)
	return cache.Fetch(ctx, s.cache, key, func() ([]dto.InvoiceResponse, error) {
		rows, err := s.invoices.List(ctx, repository.InvoiceFilter{
			CustomerID: filter.CustomerID,
			Status:     status,
			Since:      since,
		})
		if err != nil {
			return nil, storageErr("list invoices", err)
		}
		ids := make([]uint, len(rows))
		for i, r := range rows {
			ids[i] = r.ID
		}
		paid, err := s.payments.SumByInvoices(ctx, ids)
		if err != nil {
			return nil, storageErr("sum payments", err)
		}

		out := make([]dto.InvoiceResponse, 0, len(rows))
		for _, r := range rows {
			p := paid[r.ID]
			out = append(out, dto.InvoiceResponse{
				ID:           r.ID,
				DeliveryID:   r.DeliveryID,
				CustomerID:   r.CustomerID,
				CustomerName: r.CustomerName,
				ProductName:  r.ProductName,
				Quantity:     r.Quantity,
				Total:        r.Total,
				Paid:         p,
				Open:         r.Total.Sub(p),
				IssuedAt:     formatDate(r.IssuedAt),
				DueAt:        formatDate(r.DueAt),
				Status:       string(r.Status),
				Overdue:      r.Status != model.InvoicePaid && today().After(r.DueAt),
			})
		}
		return out, nil
	})
}

func (s *invoiceService) Get(ctx context.Context, id uint) (*dto.InvoiceResponse, error) {
	inv, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr("load invoice", "invoice", id, err)
	}
	paid, err := s.payments.SumByInvoice(ctx, id)
	if err != nil {
		return nil, storageErr("sum payments", err)
	}
	resp := invoiceToResponse(inv, paid)
	return &resp, nil
}

func invoiceToResponse(inv *model.Invoice, paid decimal.Decimal) dto.InvoiceResponse {
	resp := dto.InvoiceResponse{
		ID:         inv.ID,
		DeliveryID: inv.DeliveryID,
		Total:      inv.Total,
		Paid:       paid,
		Open:       inv.Total.Sub(paid),
		IssuedAt:   formatDate(inv.IssuedAt),
		DueAt:      formatDate(inv.DueAt),
		Status:     string(inv.Status),
		Overdue:    inv.Overdue(today()),
	}
	if d := inv.Delivery; d != nil {
		resp.CustomerID = d.CustomerID
		resp.Quantity = d.Quantity
		if d.Customer != nil {
			resp.CustomerName = d.Customer.Name
		}
		if d.Product != nil {
			resp.ProductName = d.Product.Name
		}
	}
	return resp
}
