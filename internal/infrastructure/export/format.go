package export

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultCurrencySymbol prefixes every formatted amount
const DefaultCurrencySymbol = "₹"

// coreFontCurrency replaces symbols the PDF core fonts cannot encode
const coreFontCurrency = "Rs."

const (
	dateLayout     = "02 Jan 2006"
	dateTimeLayout = "02 Jan 2006 15:04"
	timeLayout     = "15:04"
)

// Formatter turns report values into display strings
type Formatter struct {
	symbol  string
	printer *message.Printer
	loc     *time.Location
}

// NewFormatter creates a formatter. Dates are shown in loc.
func NewFormatter(symbol string, loc *time.Location) Formatter {
	if symbol == "" {
		symbol = DefaultCurrencySymbol
	}
	if loc == nil {
		loc = time.UTC
	}
	return Formatter{
		symbol:  symbol,
		printer: message.NewPrinter(language.English),
		loc:     loc,
	}
}

// withSymbol returns a copy using a different currency symbol
func (f Formatter) withSymbol(symbol string) Formatter {
	f.symbol = symbol
	return f
}

// Symbol is the currency prefix in use
func (f Formatter) Symbol() string {
	return f.symbol
}

// Money renders d with two decimals and thousands separators, e.g. ₹1,234.50
func (f Formatter) Money(d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	return sign + f.symbol + f.printer.Sprintf("%.2f", d.InexactFloat64())
}

// OptionalMoney renders a nullable amount, "-" when absent
func (f Formatter) OptionalMoney(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return f.Money(*d)
}

// Count renders an integer with thousands separators
func (f Formatter) Count(n int64) string {
	return f.printer.Sprintf("%d", n)
}

func (f Formatter) Date(t time.Time) string {
	return t.In(f.loc).Format(dateLayout)
}

func (f Formatter) DateTime(t time.Time) string {
	return t.In(f.loc).Format(dateTimeLayout)
}

// Interval renders a slot as "20 Jan 2024 09:00 - 10:00", repeating the date
// only when the slot crosses midnight
func (f Formatter) Interval(start, end time.Time) string {
	start, end = start.In(f.loc), end.In(f.loc)
	if start.YearDay() == end.YearDay() && start.Year() == end.Year() {
		return start.Format(dateTimeLayout) + " - " + end.Format(timeLayout)
	}
	return start.Format(dateTimeLayout) + " - " + end.Format(dateTimeLayout)
}

// Period renders the report range, e.g. "01 Jan 2024 - 31 Jan 2024"
func (f Formatter) Period(start, end time.Time) string {
	return f.Date(start) + " - " + f.Date(end)
}

// ShortID is the first block of a UUID, upper-cased, for narrow print columns
func ShortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		id = id[:i]
	}
	return strings.ToUpper(id)
}

// Coupon renders an optional coupon code
func Coupon(code *string) string {
	if code == nil || *code == "" {
		return "-"
	}
	return *code
}
