package persistence

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/learnhub/backoffice/internal/domain/report"
	"github.com/shopspring/decimal"
)

// facetQuery describes a report query that returns one window of rows together
// with aggregates over every row that matched the filter.
type facetQuery struct {
	// filtered is the SELECT producing one row per reportable record
	filtered string
	args     []any
	// totals must yield total_items, total_admin_share and total_revenue
	totals string
	// columns of filtered returned for each page row, in scan order
	columns []string
	// orderBy lists filtered columns with direction, e.g. "created_at DESC"
	orderBy []string
	window  report.Window
}

// build renders the query. The totals CTE is left-joined to the page so an
// empty page still yields exactly one row carrying the aggregates.
func (q facetQuery) build() (string, []any) {
	var sb strings.Builder
	args := append([]any{}, q.args...)

	sb.WriteString("WITH filtered AS (")
	sb.WriteString(q.filtered)
	sb.WriteString("), totals AS (SELECT ")
	sb.WriteString(q.totals)
	sb.WriteString(" FROM filtered), page AS (SELECT * FROM filtered ORDER BY ")
	sb.WriteString(strings.Join(q.orderBy, ", "))
	if !q.window.Unbounded() {
		sb.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, q.window.Limit, q.window.Offset)
	}
	sb.WriteString(") SELECT totals.total_items, totals.total_admin_share, totals.total_revenue")
	for _, col := range q.columns {
		sb.WriteString(", page.")
		sb.WriteString(col)
	}
	sb.WriteString(" FROM totals LEFT JOIN page ON 1 = 1 ORDER BY ")
	outer := make([]string, len(q.orderBy))
	for i, o := range q.orderBy {
		outer[i] = "page." + o
	}
	sb.WriteString(strings.Join(outer, ", "))

	return sb.String(), args
}

// facetTotals receives the aggregate columns of every facet row
type facetTotals struct {
	Items      int64
	AdminShare decimal.Decimal
	Revenue    decimal.Decimal
}

func (t *facetTotals) dest() []any {
	return []any{&t.Items, &t.AdminShare, &t.Revenue}
}

func (t facetTotals) aggregates() report.Aggregates {
	return report.Aggregates{Count: t.Items, AdminShare: t.AdminShare, Revenue: t.Revenue}
}

// timestampLayouts are the text encodings SQLite drivers use for datetime columns
var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// nullTime scans timestamps that may arrive as time.Time or as text, and may be NULL.
// Column values computed inside CTEs lose their declared type on SQLite.
type nullTime struct {
	Time  time.Time
	Valid bool
}

// Scan implements sql.Scanner
func (t *nullTime) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		t.Time, t.Valid = time.Time{}, false
		return nil
	case time.Time:
		t.Time, t.Valid = v, true
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	}
	return fmt.Errorf("cannot scan %T into timestamp", value)
}

// Value implements driver.Valuer
func (t nullTime) Value() (driver.Value, error) {
	if !t.Valid {
		return nil, nil
	}
	return t.Time, nil
}

func (t *nullTime) parse(s string) error {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time, t.Valid = parsed, true
			return nil
		}
	}
	return fmt.Errorf("cannot parse timestamp %q", s)
}

// orPlaceholder substitutes a display value for missing reference data
func orPlaceholder(s *string, placeholder string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return placeholder
	}
	return *s
}
