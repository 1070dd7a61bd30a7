package service

import (
	"context"

	"adetta/internal/cache"
	"adetta/internal/dto"
	"adetta/internal/model"
	"adetta/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentLedger records payments. There is no edit or refund operation:
// payments leave the ledger only together with their delivery.
type PaymentLedger interface {
	RecordPayment(ctx context.Context, invoiceID uint, req dto.RecordPaymentRequest) (*dto.RecordPaymentResponse, error)
	ListPayments(ctx context.Context, invoiceID uint) ([]dto.PaymentResponse, error)
}

type paymentLedger struct {
	invoices  repository.InvoiceRepository
	payments  repository.PaymentRepository
	status    StatusEngine
	cache     cache.Cache
	tolerance decimal.Decimal
}

// NewPaymentLedger builds the ledger. tolerance is the amount a payment may
// exceed the open balance by; negative values are treated as zero.
func NewPaymentLedger(
	invoices repository.InvoiceRepository,
	payments repository.PaymentRepository,
	status StatusEngine,
	c cache.Cache,
	tolerance decimal.Decimal,
) PaymentLedger {
	if tolerance.IsNegative() {
		tolerance = decimal.Zero
	}
	return &paymentLedger{invoices: invoices, payments: payments, status: status, cache: c, tolerance: tolerance}
}

// ── RecordPayment ─────────────────────────────────────────────────────────────
// The invoice row is locked before summing existing payments, so two payments
// against the same invoice cannot both pass the open-balance check.

func (s *paymentLedger) RecordPayment(ctx context.Context, invoiceID uint, req dto.RecordPaymentRequest) (*dto.RecordPaymentResponse, error) {
	if err := checkAmount("amount", req.Amount); err != nil {
		return nil, err
	}
	method := model.PaymentMethod(req.Method)
	if method == "" {
		method = model.PaymentCash
	}
	if !method.Valid() {
		return nil, invalid("method", "expected cash, bank or card")
	}
	paidAt, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}

	var (
		payment *model.Payment
		status  model.InvoiceStatus
		open    decimal.Decimal
	)
	err = runTx(ctx, s.invoices.DB(), func(tx *gorm.DB) error {
		inv, err := s.invoices.FindByIDForUpdateTx(tx, invoiceID)
		if err != nil {
			return lookupErr("load invoice", "invoice", invoiceID, err)
		}
		paid, err := s.payments.SumByInvoiceTx(tx, invoiceID)
		if err != nil {
			return storageErr("sum payments", err)
		}

		balance := inv.Total.Sub(paid)
		if req.Amount.GreaterThan(balance.Add(s.tolerance)) {
			return &OverpaymentError{InvoiceID: invoiceID, Amount: req.Amount, OpenBalance: balance}
		}

		payment = &model.Payment{
			InvoiceID: invoiceID,
			Amount:    req.Amount,
			PaidAt:    paidAt,
			Method:    method,
			Note:      req.Note,
		}
		if err := s.payments.CreateTx(tx, payment); err != nil {
			return storageErr("create payment", err)
		}
		if status, err = s.status.RecomputeTx(tx, invoiceID); err != nil {
			return err
		}
		open = balance.Sub(req.Amount)
		return nil
	})
	if err != nil {
		return nil, storageErr("record payment", err)
	}
	cache.Invalidate(ctx, s.cache)

	log.Info().
		Uint("payment_id", payment.ID).
		Uint("invoice_id", invoiceID).
		Str("amount", payment.Amount.StringFixed(2)).
		Str("method", string(method)).
		Str("status", string(status)).
		Msg("payment recorded")

	if open.IsNegative() {
		// only reachable within the tolerance
		open = decimal.Zero
	}
	return &dto.RecordPaymentResponse{
		Payment:       paymentToResponse(payment),
		InvoiceStatus: string(status),
		OpenBalance:   open,
	}, nil
}

func (s *paymentLedger) ListPayments(ctx context.Context, invoiceID uint) ([]dto.PaymentResponse, error) {
	if _, err := s.invoices.FindByID(ctx, invoiceID); err != nil {
		return nil, lookupErr("load invoice", "invoice", invoiceID, err)
	}
	payments, err := s.payments.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, storageErr("list payments", err)
	}
	out := make([]dto.PaymentResponse, 0, len(payments))
	for i := range payments {
		out = append(out, paymentToResponse(&payments[i]))
	}
	return out, nil
}

func paymentToResponse(p *model.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:        p.ID,
		InvoiceID: p.InvoiceID,
		Amount:    p.Amount,
		PaidAt:    formatDate(p.PaidAt),
		Method:    string(p.Method),
		Note:      p.Note,
	}
}
