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

// DeriveStatus is the single source of truth for invoice status.
// The comparisons are exact decimal comparisons.
func DeriveStatus(total, paid decimal.Decimal) model.InvoiceStatus {
	switch {
	case paid.IsZero():
		return model.InvoiceOpen
	case paid.LessThan(total):
		return model.InvoicePartial
	default:
		return model.InvoicePaid
	}
}

// StatusEngine keeps the stored invoice status equal to DeriveStatus.
type StatusEngine interface {
	Recompute(ctx context.Context, invoiceID uint) (model.InvoiceStatus, error)
	// RecomputeTx is called by the ledgers inside their own transaction.
	RecomputeTx(tx *gorm.DB, invoiceID uint) (model.InvoiceStatus, error)
	// RecomputeAll sweeps every invoice. Targeted recomputes make it unnecessary
	// in normal operation; it exists for maintenance.
	RecomputeAll(ctx context.Context) (*dto.RecomputeResponse, error)
	Verify(ctx context.Context, invoiceID uint) (*dto.InvoiceStatusResponse, error)
}

type statusEngine struct {
	invoices repository.InvoiceRepository
	payments repository.PaymentRepository
	cache    cache.Cache
}

func NewStatusEngine(invoices repository.InvoiceRepository, payments repository.PaymentRepository, c cache.Cache) StatusEngine {
	return &statusEngine{invoices: invoices, payments: payments, cache: c}
}

func (s *statusEngine) Recompute(ctx context.Context, invoiceID uint) (model.InvoiceStatus, error) {
	var (
		status  model.InvoiceStatus
		changed bool
	)
	err := runTx(ctx, s.invoices.DB(), func(tx *gorm.DB) error {
		var err error
		status, changed, err = s.recomputeTx(tx, invoiceID)
		return err
	})
	if err != nil {
		return "", storageErr("recompute status", err)
	}
	if changed {
		cache.Invalidate(ctx, s.cache)
	}
	return status, nil
}

func (s *statusEngine) RecomputeTx(tx *gorm.DB, invoiceID uint) (model.InvoiceStatus, error) {
	status, _, err := s.recomputeTx(tx, invoiceID)
	return status, err
}

func (s *statusEngine) recomputeTx(tx *gorm.DB, invoiceID uint) (model.InvoiceStatus, bool, error) {
	inv, err := s.invoices.FindByIDForUpdateTx(tx, invoiceID)
	if err != nil {
		return "", false, lookupErr("load invoice", "invoice", invoiceID, err)
	}
	paid, err := s.payments.SumByInvoiceTx(tx, invoiceID)
	if err != nil {
		return "", false, storageErr("sum payments", err)
	}

	status := DeriveStatus(inv.Total, paid)
	if status == inv.Status {
		return status, false, nil
	}
	if err := s.invoices.UpdateStatusTx(tx, invoiceID, status); err != nil {
		return "", false, storageErr("update invoice status", err)
	}
	log.Info().
		Uint("invoice_id", invoiceID).
		Str("from", string(inv.Status)).
		Str("to", string(status)).
		Msg("invoice status changed")
	return status, true, nil
}

func (s *statusEngine) RecomputeAll(ctx context.Context) (*dto.RecomputeResponse, error) {
	ids, err := s.invoices.ListIDs(ctx)
	if err != nil {
		return nil, storageErr("list invoices", err)
	}

	resp := &dto.RecomputeResponse{}
	err = runTx(ctx, s.invoices.DB(), func(tx *gorm.DB) error {
		for _, id := range ids {
			_, changed, err := s.recomputeTx(tx, id)
			if err != nil {
				return err
			}
			resp.Checked++
			if changed {
				resp.Changed++
			}
		}
		return nil
	})
	if err != nil {
		return nil, storageErr("recompute all", err)
	}
	if resp.Changed > 0 {
		cache.Invalidate(ctx, s.cache)
	}
	log.Info().Int("checked", resp.Checked).Int("changed", resp.Changed).Msg("invoice status sweep")
	return resp, nil
}

func (s *statusEngine) Verify(ctx context.Context, invoiceID uint) (*dto.InvoiceStatusResponse, error) {
	inv, err := s.invoices.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, lookupErr("load invoice", "invoice", invoiceID, err)
	}
	payments, err := s.payments.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, storageErr("list payments", err)
	}
	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}
	derived := DeriveStatus(inv.Total, paid)
	return &dto.InvoiceStatusResponse{
		InvoiceID:  inv.ID,
		Total:      inv.Total,
		Paid:       paid,
		Stored:     string(inv.Status),
		Derived:    string(derived),
		Consistent: derived == inv.Status,
	}, nil
}
