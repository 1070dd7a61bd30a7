package infra

// pdf.go renders an invoice as a single A4 page with go-pdf/fpdf:
//   - business header and invoice number
//   - customer block, issue and due dates
//   - the delivery line (product, quantity, unit price, total)
//   - payment history with paid and open amounts

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// InvoiceDocument is everything printed on an invoice.
type InvoiceDocument struct {
	BusinessName    string
	InvoiceID       uint
	IssuedAt        string
	DueAt           string
	Status          string
	CustomerName    string
	CustomerAddress string
	ProductName     string
	SKU             string
	Quantity        int
	UnitPrice       decimal.Decimal
	Total           decimal.Decimal
	Paid            decimal.Decimal
	Open            decimal.Decimal
	Payments        []InvoicePaymentLine
}

type InvoicePaymentLine struct {
	Date   string
	Method string
	Amount decimal.Decimal
}

// InvoiceFileName is the attachment and download name of an invoice PDF.
func InvoiceFileName(id uint) string { return fmt.Sprintf("invoice_%06d.pdf", id) }

// RenderInvoicePDF writes the invoice to w.
func RenderInvoicePDF(w io.Writer, doc InvoiceDocument) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 40

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(contentW, 10, tr(doc.BusinessName), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Invoice No. %06d", doc.InvoiceID), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// ── Customer / dates ─────────────────────────────────────────────────────
	half := contentW / 2
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(half, 5, "Bill to", "", 0, "L", false, 0, "")
	pdf.CellFormat(half, 5, "Issued "+doc.IssuedAt, "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(half, 5, tr(doc.CustomerName), "", 0, "L", false, 0, "")
	pdf.CellFormat(half, 5, "Due "+doc.DueAt, "", 1, "R", false, 0, "")
	if doc.CustomerAddress != "" {
		pdf.CellFormat(half, 5, tr(doc.CustomerAddress), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	// ── Line ─────────────────────────────────────────────────────────────────
	cols := []float64{contentW * 0.46, contentW * 0.14, contentW * 0.2, contentW * 0.2}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(235, 235, 235)
	for i, h := range []string{"Product", "Qty", "Unit price", "Total"} {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(cols[i], 7, h, "B", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	name := doc.ProductName
	if doc.SKU != "" {
		name += " (" + doc.SKU + ")"
	}
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(cols[0], 7, tr(name), "", 0, "L", false, 0, "")
	pdf.CellFormat(cols[1], 7, fmt.Sprintf("%d", doc.Quantity), "", 0, "R", false, 0, "")
	pdf.CellFormat(cols[2], 7, doc.UnitPrice.StringFixed(2), "", 0, "R", false, 0, "")
	pdf.CellFormat(cols[3], 7, doc.Total.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.Ln(2)
	pdf.Line(20, pdf.GetY(), pageW-20, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(cols[0]+cols[1]+cols[2], 7, "Total", "", 0, "R", false, 0, "")
	pdf.CellFormat(cols[3], 7, doc.Total.StringFixed(2), "", 1, "R", false, 0, "")

	// ── Payments ─────────────────────────────────────────────────────────────
	if len(doc.Payments) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(contentW, 6, "Payments", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, p := range doc.Payments {
			pdf.CellFormat(cols[0], 6, p.Date, "", 0, "L", false, 0, "")
			pdf.CellFormat(cols[1]+cols[2], 6, p.Method, "", 0, "L", false, 0, "")
			pdf.CellFormat(cols[3], 6, p.Amount.StringFixed(2), "", 1, "R", false, 0, "")
		}
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(cols[0]+cols[1]+cols[2], 6, "Paid", "", 0, "R", false, 0, "")
	pdf.CellFormat(cols[3], 6, doc.Paid.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(cols[0]+cols[1]+cols[2], 6, "Open", "", 0, "R", false, 0, "")
	pdf.CellFormat(cols[3], 6, doc.Open.StringFixed(2), "", 1, "R", false, 0, "")

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(contentW, 5, "Status: "+doc.Status, "", 1, "L", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: render invoice %d: %w", doc.InvoiceID, err)
	}
	return nil
}
