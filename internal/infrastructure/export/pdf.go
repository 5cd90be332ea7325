package export

import (
	"bytes"
	_ "embed"
	"fmt"
	"math"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// DejaVu Sans Condensed as distributed with gofpdf; it covers the rupee sign.
var (
	//go:embed fonts/DejaVuSansCondensed.ttf
	bundledFontRegular []byte
	//go:embed fonts/DejaVuSansCondensed-Bold.ttf
	bundledFontBold []byte
)

// Page geometry in millimetres (A4 landscape)
const (
	pdfMarginLeft   = 10.0
	pdfMarginTop    = 12.0
	pdfMarginRight  = 10.0
	pdfMarginBottom = 16.0
	pdfFooterOffset = 10.0

	pdfLineHeight   = 5.0
	pdfCellPadding  = 1.5
	pdfHeaderHeight = 8.0
	pdfBodyFontSize = 9.0

	pdfCoreFont = "Helvetica"
	pdfUTF8Font = "ReportSans"
)

// PDFOptions controls the print renderer
type PDFOptions struct {
	// FontPath replaces the bundled font with another UTF-8 TrueType font
	FontPath string
	// CoreFont switches to the built-in Helvetica. Text is then limited to
	// Windows-1252 and FontPath is ignored.
	CoreFont bool
	// Compress deflates page streams
	Compress bool
}

type pdfWriter struct {
	pdf    *gofpdf.Fpdf
	table  *Table
	family string
	utf8   bool
	tr     func(string) string
	pageH  float64
	width  float64
}

// renderPDF lays t out as a landscape table. The header row is repeated on
// every page. A row that does not fit moves to the next page; a row taller
// than a whole page is continued across pages instead.
// Page numbers are written in a second pass once the page count is known.
func renderPDF(t *Table, f Formatter, opts PDFOptions) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pdfMarginLeft, pdfMarginTop, pdfMarginRight)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(opts.Compress)
	pdf.SetTitle(t.Title, true)
	pdf.SetCreator("LearnHub Back Office", true)

	w := &pdfWriter{pdf: pdf, table: t, family: pdfUTF8Font, utf8: true}
	w.tr = func(s string) string { return s }
	switch {
	case opts.CoreFont:
		w.family, w.utf8 = pdfCoreFont, false
		w.tr = pdf.UnicodeTranslatorFromDescriptor("")
	case opts.FontPath != "":
		pdf.AddUTF8Font(pdfUTF8Font, "", opts.FontPath)
		pdf.AddUTF8Font(pdfUTF8Font, "B", opts.FontPath)
	default:
		pdf.AddUTF8FontFromBytes(pdfUTF8Font, "", bundledFontRegular)
		pdf.AddUTF8FontFromBytes(pdfUTF8Font, "B", bundledFontBold)
	}
	if pdf.Err() {
		return nil, fmt.Errorf("load font: %w", pdf.Error())
	}

	pageW, pageH := pdf.GetPageSize()
	w.pageH = pageH
	w.width = pageW - pdfMarginLeft - pdfMarginRight

	pdf.AddPage()
	w.titleBlock()
	w.header()

	if len(t.Rows) == 0 {
		w.emptyRow()
	}
	for _, cells := range t.Rows {
		w.row(cells)
	}
	w.summary(f)
	w.pageNumbers()

	if pdf.Err() {
		return nil, fmt.Errorf("render pdf: %w", pdf.Error())
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (w *pdfWriter) titleBlock() {
	w.pdf.SetFont(w.family, "B", 14)
	w.pdf.CellFormat(0, 8, w.tr(w.table.Title), "", 1, "L", false, 0, "")
	if w.table.Subtitle != "" {
		w.pdf.SetFont(w.family, "", 10)
		w.pdf.CellFormat(0, 6, w.tr(w.table.Subtitle), "", 1, "L", false, 0, "")
	}
	w.pdf.Ln(3)
}

func (w *pdfWriter) header() {
	pdf := w.pdf
	pdf.SetFont(w.family, "B", pdfBodyFontSize)
	pdf.SetFillColor(221, 235, 247)
	x, y := pdfMarginLeft, pdf.GetY()
	for _, col := range w.table.Columns {
		pdf.SetXY(x, y)
		pdf.CellFormat(col.Width, pdfHeaderHeight, w.tr(col.Header), "1", 0, "C", true, 0, "")
		x += col.Width
	}
	pdf.SetXY(pdfMarginLeft, y+pdfHeaderHeight)
	pdf.SetFont(w.family, "", pdfBodyFontSize)
}

// fits reports whether h more millimetres fit above the bottom margin
func (w *pdfWriter) fits(h float64) bool {
	return w.pdf.GetY()+h <= w.pageH-pdfMarginBottom
}

// bodyHeight is the space below the header of a fresh page
func (w *pdfWriter) bodyHeight() float64 {
	return w.pageH - pdfMarginBottom - pdfMarginTop - pdfHeaderHeight
}

// linesLeft is how many text lines of a row still fit on the current page
func (w *pdfWriter) linesLeft() int {
	free := w.pageH - pdfMarginBottom - w.pdf.GetY() - 2*pdfCellPadding
	return int(math.Floor(free/pdfLineHeight + 1e-9))
}

func rowHeight(lines int) float64 {
	return float64(lines)*pdfLineHeight + 2*pdfCellPadding
}

func (w *pdfWriter) newPage() {
	w.pdf.AddPage()
	w.header()
}

func (w *pdfWriter) row(cells []Cell) {
	cols := w.table.Columns

	lines := make([][]string, len(cols))
	maxLines := 1
	for i, col := range cols {
		text := ""
		if i < len(cells) {
			text = cells[i].Text
		}
		lines[i] = w.split(text, col.Width-2*pdfCellPadding)
		maxLines = max(maxLines, len(lines[i]))
	}

	h := rowHeight(maxLines)
	if !w.fits(h) && h <= w.bodyHeight() {
		w.newPage()
	}

	for from := 0; from < maxLines; {
		free := w.linesLeft()
		if free < 1 {
			w.newPage()
			free = max(w.linesLeft(), 1)
		}
		to := min(from+free, maxLines)
		w.segment(lines, from, to)
		from = to
		if from < maxLines {
			w.newPage()
		}
	}
}

// segment draws lines [from, to) of every cell as one bordered band
func (w *pdfWriter) segment(lines [][]string, from, to int) {
	pdf := w.pdf
	h := rowHeight(to - from)
	x, y := pdfMarginLeft, pdf.GetY()
	for i, col := range w.table.Columns {
		pdf.Rect(x, y, col.Width, h, "D")
		for j := from; j < to && j < len(lines[i]); j++ {
			pdf.SetXY(x+pdfCellPadding, y+pdfCellPadding+float64(j-from)*pdfLineHeight)
			pdf.CellFormat(col.Width-2*pdfCellPadding, pdfLineHeight, lines[i][j], "", 0, string(col.Align), false, 0, "")
		}
		x += col.Width
	}
	pdf.SetXY(pdfMarginLeft, y+h)
}

func (w *pdfWriter) emptyRow() {
	text := w.table.Empty
	if text == "" {
		text = "No records found"
	}
	h := pdfLineHeight + 2*pdfCellPadding
	w.pdf.SetFont(w.family, "", pdfBodyFontSize)
	w.pdf.CellFormat(w.table.TotalWidth(), h, w.tr(text), "1", 1, "C", false, 0, "")
}

// split wraps text to width, keeping explicit line breaks
func (w *pdfWriter) split(text string, width float64) []string {
	var out []string
	for _, para := range strings.Split(text, "\n") {
		switch {
		case para == "":
			out = append(out, "")
		case w.utf8:
			out = append(out, w.pdf.SplitText(para, width)...)
		default:
			for _, l := range w.pdf.SplitLines([]byte(w.tr(para)), width) {
				out = append(out, string(l))
			}
		}
	}
	return out
}

func (w *pdfWriter) summary(f Formatter) {
	if len(w.table.Summary) == 0 {
		return
	}
	pdf := w.pdf
	const lineH = 6.0
	pdf.Ln(4)
	if !w.fits(lineH * float64(len(w.table.Summary))) {
		pdf.AddPage()
	}
	pdf.SetFont(w.family, "B", 10)
	for _, line := range w.table.Summary {
		pdf.SetX(pdfMarginLeft)
		pdf.CellFormat(w.width, lineH, w.tr(line.Text(f)), "", 1, "R", false, 0, "")
	}
}

func (w *pdfWriter) pageNumbers() {
	pdf := w.pdf
	n := pdf.PageCount()
	for i := 1; i <= n; i++ {
		pdf.SetPage(i)
		// toggling the size forces the font to be re-selected on this page
		pdf.SetFontSize(pdfBodyFontSize)
		pdf.SetFont(w.family, "", 8)
		pdf.SetXY(pdfMarginLeft, w.pageH-pdfFooterOffset)
		pdf.CellFormat(w.width, 5, fmt.Sprintf("Page %d of %d", i, n), "", 0, "C", false, 0, "")
	}
}
