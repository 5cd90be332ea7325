package export

import (
	"fmt"
	"time"

	"github.com/learnhub/backoffice/internal/domain/report"
)

// Config configures the document renderer
type Config struct {
	CurrencySymbol string
	Location       *time.Location
	PDF            PDFOptions
}

// Renderer turns assembled reports into spreadsheet or PDF documents
type Renderer struct {
	formatter Formatter
	pdf       PDFOptions
}

// NewRenderer creates a renderer
func NewRenderer(cfg Config) *Renderer {
	return &Renderer{
		formatter: NewFormatter(cfg.CurrencySymbol, cfg.Location),
		pdf:       cfg.PDF,
	}
}

// formatterFor picks the currency text that the format can display
func (r *Renderer) formatterFor(format Format) Formatter {
	if format == FormatPDF && r.pdf.CoreFont && r.formatter.Symbol() == DefaultCurrencySymbol {
		return r.formatter.withSymbol(coreFontCurrency)
	}
	return r.formatter
}

func (r *Renderer) render(kind report.Kind, rng report.DateRange, format Format, t *Table, f Formatter) (*Document, error) {
	var (
		content []byte
		err     error
	)
	switch format {
	case FormatExcel:
		content, err = renderSpreadsheet(t, f)
	case FormatPDF:
		content, err = renderPDF(t, f, r.pdf)
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return &Document{
		Format:   format,
		Filename: FileName(kind, rng, format),
		Content:  content,
	}, nil
}

// CourseSales renders the admin course sales report
func (r *Renderer) CourseSales(rep *report.Report[report.CourseSaleRow], format Format) (*Document, error) {
	f := r.formatterFor(format)
	t := courseSalesSheet(rep, f)
	if format == FormatPDF {
		t = courseSalesPrint(rep, f)
	}
	return r.render(rep.Kind, rep.Range, format, t, f)
}

// MembershipSales renders the admin membership sales report
func (r *Renderer) MembershipSales(rep *report.Report[report.MembershipSaleRow], format Format) (*Document, error) {
	f := r.formatterFor(format)
	return r.render(rep.Kind, rep.Range, format, membershipSalesTable(rep, f, format == FormatPDF), f)
}

// StudentCourses renders a student's course purchase history
func (r *Renderer) StudentCourses(rep *report.Report[report.StudentCourseRow], format Format) (*Document, error) {
	f := r.formatterFor(format)
	t := studentCoursesSheet(rep, f)
	if format == FormatPDF {
		t = studentCoursesPrint(rep, f)
	}
	return r.render(rep.Kind, rep.Range, format, t, f)
}

// StudentSlots renders a student's slot bookings
func (r *Renderer) StudentSlots(rep *report.Report[report.StudentSlotRow], format Format) (*Document, error) {
	f := r.formatterFor(format)
	return r.render(rep.Kind, rep.Range, format, studentSlotsTable(rep, f, format == FormatPDF), f)
}
