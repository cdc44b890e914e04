package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfMargin     = 12.0
	pdfRowHeight  = 7.0
	pdfHeaderSize = 10.0
	pdfCellSize   = 9.0
	pdfTitleSize  = 14.0
	pdfMinColW    = 18.0
)

// WritePDF renders the table as a paginated PDF. Column widths are
// measured from the content, header rows repeat on every page, and wide
// tables switch to landscape so the columns stay readable.
func WritePDF(w io.Writer, table Table) error {
	orientation := "P"
	if table.Wide {
		orientation = "L"
	}

	pdf := gofpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()
	usableW := pageW - 2*pdfMargin

	widths := columnWidths(pdf, table, usableW)

	pdf.SetFont("Helvetica", "B", pdfTitleSize)
	pdf.CellFormat(usableW, 10, table.Title, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	writeHeader := func() {
		pdf.SetFont("Helvetica", "B", pdfHeaderSize)
		pdf.SetFillColor(230, 230, 230)
		for i, col := range table.Columns {
			pdf.CellFormat(widths[i], pdfRowHeight, col, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", pdfCellSize)
	}
	writeHeader()

	for _, row := range table.Rows {
		if pdf.GetY()+pdfRowHeight > pageH-pdfMargin {
			pdf.AddPage()
			writeHeader()
		}
		for i := range table.Columns {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			pdf.CellFormat(widths[i], pdfRowHeight, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf export: %w", err)
	}
	return nil
}

// columnWidths sizes each column by its widest cell, then scales the set
// to fill the usable page width.
func columnWidths(pdf *gofpdf.Fpdf, table Table, usable float64) []float64 {
	pdf.SetFont("Helvetica", "B", pdfHeaderSize)
	widths := make([]float64, len(table.Columns))
	for i, col := range table.Columns {
		widths[i] = pdf.GetStringWidth(col) + 4
	}

	pdf.SetFont("Helvetica", "", pdfCellSize)
	for _, row := range table.Rows {
		for i := range widths {
			if i >= len(row) {
				continue
			}
			if w := pdf.GetStringWidth(row[i]) + 4; w > widths[i] {
				widths[i] = w
			}
		}
	}

	var total float64
	for i := range widths {
		if widths[i] < pdfMinColW {
			widths[i] = pdfMinColW
		}
		total += widths[i]
	}
	if total == 0 {
		return widths
	}
	scale := usable / total
	for i := range widths {
		widths[i] *= scale
	}
	return widths
}
