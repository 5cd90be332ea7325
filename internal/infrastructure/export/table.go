package export

import "github.com/shopspring/decimal"

// Alignment of a column's content
type Alignment string

const (
	AlignLeft   Alignment = "L"
	AlignCenter Alignment = "C"
	AlignRight  Alignment = "R"
)

// Column describes one table column. Width is in millimetres on the printed
// page and in characters in a spreadsheet.
type Column struct {
	Header string
	Width  float64
	Align  Alignment
	Money  bool
}

// Cell is a single table value. Amount is set on money cells so spreadsheets
// can store a number instead of display text.
type Cell struct {
	Text   string
	Amount *decimal.Decimal
}

// TextCell builds a plain text cell
func TextCell(s string) Cell {
	return Cell{Text: s}
}

// MoneyCell builds a money cell with its formatted text
func MoneyCell(f Formatter, d decimal.Decimal) Cell {
	amount := d
	return Cell{Text: f.Money(d), Amount: &amount}
}

// OptionalMoneyCell builds a money cell that may be empty
func OptionalMoneyCell(f Formatter, d *decimal.Decimal) Cell {
	if d == nil {
		return Cell{Text: "-"}
	}
	return MoneyCell(f, *d)
}

// SummaryLine is one entry of the totals block under the table
type SummaryLine struct {
	Label  string
	Amount *decimal.Decimal
	Count  *int64
}

// Text renders the line as "Label: value"
func (s SummaryLine) Text(f Formatter) string {
	switch {
	case s.Amount != nil:
		return s.Label + ": " + f.Money(*s.Amount)
	case s.Count != nil:
		return s.Label + ": " + f.Count(*s.Count)
	default:
		return s.Label
	}
}

func amountLine(label string, d decimal.Decimal) SummaryLine {
	return SummaryLine{Label: label, Amount: &d}
}

func countLine(label string, n int64) SummaryLine {
	return SummaryLine{Label: label, Count: &n}
}

// Table is the format-independent layout of a report document
type Table struct {
	Title    string
	Subtitle string
	Columns  []Column
	Rows     [][]Cell
	Summary  []SummaryLine
	// Empty is printed in place of rows when there are none
	Empty string
}

// TotalWidth is the sum of the column widths
func (t *Table) TotalWidth() float64 {
	var w float64
	for _, c := range t.Columns {
		w += c.Width
	}
	return w
}
