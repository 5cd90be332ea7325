// Package export renders assembled reports into downloadable documents.
//
// Two formats are supported: Office Open XML spreadsheets (excelize) and
// landscape PDF tables (gofpdf). Every document is built completely in memory
// so callers can fail the request before any byte reaches the client.
package export

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/learnhub/backoffice/internal/domain/report"
	"github.com/learnhub/backoffice/internal/domain/shared"
)

// Format is a downloadable document format
type Format string

const (
	FormatExcel Format = "excel"
	FormatPDF   Format = "pdf"
)

// Formats lists the supported export formats
var Formats = []Format{FormatExcel, FormatPDF}

// ParseFormat validates a raw format value
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f.IsValid() {
		return f, nil
	}
	return "", shared.NewValidationError("Invalid export format")
}

// IsValid reports whether the format is supported
func (f Format) IsValid() bool {
	return f == FormatExcel || f == FormatPDF
}

// ContentType is the MIME type sent with the document
func (f Format) ContentType() string {
	switch f {
	case FormatExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// Extension is the file extension without the dot
func (f Format) Extension() string {
	switch f {
	case FormatExcel:
		return "xlsx"
	case FormatPDF:
		return "pdf"
	default:
		return "bin"
	}
}

// Document is a finished export ready to be streamed
type Document struct {
	Format   Format
	Filename string
	Content  []byte
}

// ContentType is the MIME type of the document
func (d *Document) ContentType() string {
	return d.Format.ContentType()
}

// Size is the document length in bytes
func (d *Document) Size() int {
	return len(d.Content)
}

// WriteTo implements io.WriterTo
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	return bytes.NewReader(d.Content).WriteTo(w)
}

// FileName builds "<kind>-<start>-<end>.<ext>" using the range's calendar days
func FileName(kind report.Kind, rng report.DateRange, format Format) string {
	return fmt.Sprintf("%s-%s-%s.%s",
		kind.Slug(),
		rng.Start.Format(report.DateLayout),
		rng.End.Format(report.DateLayout),
		format.Extension(),
	)
}
