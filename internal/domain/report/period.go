package report

import (
	"strings"
	"time"

	"github.com/learnhub/backoffice/internal/domain/shared"
)

// FilterType selects how a report period is derived
type FilterType string

const (
	FilterDaily   FilterType = "daily"
	FilterWeekly  FilterType = "weekly"
	FilterMonthly FilterType = "monthly"
	FilterYearly  FilterType = "yearly"
	FilterCustom  FilterType = "custom"
)

// FilterTypes lists every accepted filter type in display order
var FilterTypes = []FilterType{FilterDaily, FilterWeekly, FilterMonthly, FilterYearly, FilterCustom}

// DateLayout is the calendar date format accepted for custom ranges
const DateLayout = "2006-01-02"

const endOfDayNanos = 999 * int(time.Millisecond)

// ParseFilterType validates a raw filter type value
func ParseFilterType(s string) (FilterType, error) {
	ft := FilterType(strings.ToLower(strings.TrimSpace(s)))
	if ft.IsValid() {
		return ft, nil
	}
	return "", shared.NewValidationError("Invalid filter type")
}

// IsValid reports whether the filter type is one of the supported values
func (t FilterType) IsValid() bool {
	for _, ft := range FilterTypes {
		if t == ft {
			return true
		}
	}
	return false
}

// DateRange is an inclusive interval [Start, End] with millisecond precision.
// Start is the first instant of its day and End the last millisecond of its day.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls within the inclusive range
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// IsEmpty reports whether the range cannot contain any instant
func (r DateRange) IsEmpty() bool {
	return r.Start.After(r.End)
}

// UTC returns the same interval expressed in UTC
func (r DateRange) UTC() DateRange {
	return DateRange{Start: r.Start.UTC(), End: r.End.UTC()}
}

// Label renders the range as "2006-01-02_2006-01-02" for file names
func (r DateRange) Label() string {
	return r.Start.Format(DateLayout) + "_" + r.End.Format(DateLayout)
}

// StartOfDay returns 00:00:00.000 of t's calendar day in loc
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// EndOfDay returns 23:59:59.999 of t's calendar day in loc
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, endOfDayNanos, loc)
}

// ResolveRange turns a filter type and optional custom dates into a concrete range.
// Calendar arithmetic happens in now's location; weeks start on Sunday.
// Custom ranges are not reordered: a start after the end yields an empty range.
func ResolveRange(filterType FilterType, startDate, endDate string, now time.Time) (DateRange, error) {
	loc := now.Location()

	switch filterType {
	case FilterDaily:
		return DateRange{Start: StartOfDay(now, loc), End: EndOfDay(now, loc)}, nil

	case FilterWeekly:
		first := now.AddDate(0, 0, -int(now.Weekday()))
		last := time.Date(first.Year(), first.Month(), first.Day()+6, 0, 0, 0, 0, loc)
		return DateRange{Start: StartOfDay(first, loc), End: EndOfDay(last, loc)}, nil

	case FilterMonthly:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		// day 0 of the next month is the last day of this one
		last := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, loc)
		return DateRange{Start: first, End: EndOfDay(last, loc)}, nil

	case FilterYearly:
		first := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, loc)
		last := time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, loc)
		return DateRange{Start: first, End: EndOfDay(last, loc)}, nil

	case FilterCustom:
		if strings.TrimSpace(startDate) == "" || strings.TrimSpace(endDate) == "" {
			return DateRange{}, shared.NewValidationError("Custom filter requires startDate and endDate")
		}
		start, err := ParseDate(startDate, loc)
		if err != nil {
			return DateRange{}, err
		}
		end, err := ParseDate(endDate, loc)
		if err != nil {
			return DateRange{}, err
		}
		return DateRange{Start: StartOfDay(start, loc), End: EndOfDay(end, loc)}, nil
	}

	return DateRange{}, shared.NewValidationError("Invalid filter type")
}

// ParseDate accepts a calendar date (2006-01-02) or an RFC 3339 timestamp.
// Timestamps are converted to loc before their calendar day is taken.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}
	return time.Time{}, shared.NewValidationError("Invalid date format, use YYYY-MM-DD: " + s)
}
