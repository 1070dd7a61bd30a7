package infra

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderInvoicePDF(t *testing.T) {
	doc := InvoiceDocument{
		BusinessName: "Adetta",
		InvoiceID:    12,
		IssuedAt:     "2024-01-01",
		DueAt:        "2024-01-31",
		Status:       "partial",
		CustomerName: "Café Müller",
		ProductName:  "Olive oil 1L",
		SKU:          "OIL-1L",
		Quantity:     20,
		UnitPrice:    decimal.RequireFromString("10.00"),
		Total:        decimal.RequireFromString("200.00"),
		Paid:         decimal.RequireFromString("50.00"),
		Open:         decimal.RequireFromString("150.00"),
		Payments: []InvoicePaymentLine{
			{Date: "2024-01-10", Method: "bank", Amount: decimal.RequireFromString("50.00")},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderInvoicePDF(&buf, doc))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 500)
}

func TestInvoiceFileName(t *testing.T) {
	assert.Equal(t, "invoice_000012.pdf", InvoiceFileName(12))
}
