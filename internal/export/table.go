package export

import (
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

// Table is tabular data rendered server-side.
type Table struct {
	Title       string
	GeneratedAt time.Time
	Columns     []string
	Rows        [][]string
}

const (
	margin     = 12.0
	rowHeight  = 7.0
	fontFamily = "Helvetica"
	ellipsis   = "..."
)

// RenderTable writes t as an A4 PDF. The header row is repeated on every page
// and cells too wide for their column are truncated.
func RenderTable(w io.Writer, t Table) error {
	pdf := tableDocument(t)
	if pdf.Err() {
		return pdf.Error()
	}
	return pdf.Output(w)
}

func tableDocument(t Table) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", pageSize, "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, margin)
	pdf.SetTitle(t.Title, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, pageH := pdf.GetPageSize()
	usable := pageW - 2*margin
	colW := usable
	if len(t.Columns) > 0 {
		colW = usable / float64(len(t.Columns))
	}

	header := func() {
		pdf.SetFont(fontFamily, "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for _, col := range t.Columns {
			pdf.CellFormat(colW, rowHeight, tr(fit(pdf, col, colW)), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont(fontFamily, "", 9)
	}

	pdf.AddPage()
	pdf.SetFont(fontFamily, "B", 14)
	pdf.CellFormat(usable, 10, tr(t.Title), "", 1, "L", false, 0, "")
	if !t.GeneratedAt.IsZero() {
		pdf.SetFont(fontFamily, "", 9)
		pdf.CellFormat(usable, 6, "Generated "+t.GeneratedAt.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)
	header()

	if len(t.Rows) == 0 {
		pdf.CellFormat(usable, rowHeight, "No records.", "1", 1, "C", false, 0, "")
		return pdf
	}
	for _, row := range t.Rows {
		if pdf.GetY()+rowHeight > pageH-margin {
			pdf.AddPage()
			header()
		}
		for i := range t.Columns {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			pdf.CellFormat(colW, rowHeight, tr(fit(pdf, cell, colW)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	return pdf
}

// fit shortens s until it fits in a cell of width w.
func fit(pdf *fpdf.Fpdf, s string, w float64) string {
	s = strings.Join(strings.Fields(s), " ")
	limit := w - 2*pdf.GetCellMargin()
	if pdf.GetStringWidth(s) <= limit {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+ellipsis) > limit {
		r = r[:len(r)-1]
	}
	return string(r) + ellipsis
}
