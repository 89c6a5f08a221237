package infra

// pdf.go: invoice PDF generation using go-pdf/fpdf. Produces an A4
// document with the issuing business header, customer block, item table,
// discount/GST breakdown and payment summary. The output file is saved
// to storagePath/invoice_{invoiceNo}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"gammacrm/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GenerateInvoicePDF renders one invoice and returns the absolute path
// to the generated file.
func GenerateInvoicePDF(inv *model.Invoice, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("invoice_%s.pdf", inv.InvoiceNo)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(contentW, 10, string(inv.Business), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 5, "Tax Invoice", "", 1, "L", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW/2, 6, "Invoice "+inv.InvoiceNo, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW/2, 6, inv.CreatedAt.Format("02 Jan 2006"), "", 1, "R", false, 0, "")
	pdf.Ln(2)

	// ── Customer block ───────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 5, "Billed to", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 5, inv.CustomerName, "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, inv.CustomerPhone, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// ── Item table ───────────────────────────────────────────────────────────
	colType := contentW * 0.14
	colName := contentW * 0.42
	colQty := contentW * 0.10
	colPrice := contentW * 0.17
	colAmount := contentW * 0.17

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(colType, 6, "Type", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colName, 6, "Description", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colQty, 6, "Qty", "B", 0, "C", false, 0, "")
	pdf.CellFormat(colPrice, 6, "Price", "B", 0, "R", false, 0, "")
	pdf.CellFormat(colAmount, 6, "Amount", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range inv.Items {
		name := item.Name
		if item.Warranty != nil {
			name += " (" + *item.Warranty + ")"
		}
		if len(name) > 48 {
			name = name[:45] + "..."
		}
		amount := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		pdf.CellFormat(colType, 6, item.Type, "", 0, "L", false, 0, "")
		pdf.CellFormat(colName, 6, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(colQty, 6, fmt.Sprintf("%d", item.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(colPrice, 6, item.Price.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(colAmount, 6, amount.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ───────────────────────────────────────────────────────────────
	labelW := colType + colName + colQty
	valueW := colPrice + colAmount

	totalsRow := func(label, value string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 9)
		pdf.CellFormat(labelW, 5, label, "", 0, "R", false, 0, "")
		pdf.CellFormat(valueW, 5, value, "", 1, "R", false, 0, "")
	}

	totalsRow("Subtotal", inv.Subtotal.StringFixed(2), false)
	if !inv.LaborCharge.IsZero() {
		totalsRow("Labor", inv.LaborCharge.StringFixed(2), false)
	}
	if !inv.Discount.IsZero() {
		totalsRow("Discount", "-"+inv.Discount.StringFixed(2), false)
	}
	if !inv.GSTAmount.IsZero() {
		totalsRow(fmt.Sprintf("GST (%s%%)", inv.GSTPercent.StringFixed(0)), inv.GSTAmount.StringFixed(2), false)
	}
	totalsRow("TOTAL", inv.TotalAmount.StringFixed(2), true)

	// ── Payments ─────────────────────────────────────────────────────────────
	if len(inv.Payments) > 0 {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(contentW, 5, "Payments", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		paid := decimal.Zero
		for _, p := range inv.Payments {
			paid = paid.Add(p.Amount)
			pdf.CellFormat(labelW, 5, p.PaidAt.Format("02 Jan 2006")+"  ("+p.Method+")", "", 0, "R", false, 0, "")
			pdf.CellFormat(valueW, 5, p.Amount.StringFixed(2), "", 1, "R", false, 0, "")
		}
		totalsRow("Balance due", inv.TotalAmount.Sub(paid).StringFixed(2), true)
	}

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 4, "Thank you for your business.", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", filePath, err)
	}
	return filePath, nil
}
