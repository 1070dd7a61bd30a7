package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"adetta/internal/dto"
	"adetta/internal/infra"
	"adetta/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ErrMailUnavailable is returned when invoices cannot be mailed right now.
var ErrMailUnavailable = errors.New("mail delivery unavailable")

// InvoiceMailer is the outbound mail transport (infra.Mailer in production).
type InvoiceMailer interface {
	SendInvoice(ctx context.Context, to, subject, body, filename string, pdf []byte) error
}

// DocumentService renders invoice PDFs and mails them.
type DocumentService interface {
	RenderInvoice(ctx context.Context, invoiceID uint) (pdf []byte, filename string, err error)
	SendInvoice(ctx context.Context, invoiceID uint, req dto.SendInvoiceRequest) (*dto.SendInvoiceResponse, error)
}

type documentService struct {
	invoices     repository.InvoiceRepository
	payments     repository.PaymentRepository
	mailer       InvoiceMailer
	businessName string
}

func NewDocumentService(
	invoices repository.InvoiceRepository,
	payments repository.PaymentRepository,
	mailer InvoiceMailer,
	businessName string,
) DocumentService {
	return &documentService{invoices: invoices, payments: payments, mailer: mailer, businessName: businessName}
}

func (s *documentService) RenderInvoice(ctx context.Context, invoiceID uint) ([]byte, string, error) {
	inv, err := s.invoices.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, "", lookupErr("load invoice", "invoice", invoiceID, err)
	}
	payments, err := s.payments.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, "", storageErr("list payments", err)
	}

	doc := infra.InvoiceDocument{
		BusinessName: s.businessName,
		InvoiceID:    inv.ID,
		IssuedAt:     formatDate(inv.IssuedAt),
		DueAt:        formatDate(inv.DueAt),
		Status:       string(inv.Status),
		Total:        inv.Total,
	}
	if d := inv.Delivery; d != nil {
		doc.Quantity = d.Quantity
		doc.UnitPrice = d.UnitPrice
		if d.Customer != nil {
			doc.CustomerName = d.Customer.Name
			doc.CustomerAddress = d.Customer.Address
		}
		if d.Product != nil {
			doc.ProductName = d.Product.Name
			doc.SKU = d.Product.SKU
		}
	}
	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p.Amount)
		doc.Payments = append(doc.Payments, infra.InvoicePaymentLine{
			Date:   formatDate(p.PaidAt),
			Method: string(p.Method),
			Amount: p.Amount,
		})
	}
	doc.Paid = paid
	doc.Open = inv.Total.Sub(paid)

	var buf bytes.Buffer
	if err := infra.RenderInvoicePDF(&buf, doc); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), infra.InvoiceFileName(inv.ID), nil
}

func (s *documentService) SendInvoice(ctx context.Context, invoiceID uint, req dto.SendInvoiceRequest) (*dto.SendInvoiceResponse, error) {
	if req.Email == "" {
		return nil, invalid("email", "required")
	}
	pdf, filename, err := s.RenderInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	subject := fmt.Sprintf("%s invoice %06d", s.businessName, invoiceID)
	body := fmt.Sprintf("Please find attached invoice %06d.\n\n%s\n", invoiceID, s.businessName)
	if err := s.mailer.SendInvoice(ctx, req.Email, subject, body, filename, pdf); err != nil {
		log.Error().Err(err).Uint("invoice_id", invoiceID).Msg("invoice mail failed")
		return nil, fmt.Errorf("%w: %v", ErrMailUnavailable, err)
	}
	log.Info().Uint("invoice_id", invoiceID).Str("to", req.Email).Msg("invoice mailed")
	return &dto.SendInvoiceResponse{InvoiceID: invoiceID, Email: req.Email, Sent: true}, nil
}
