package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DashboardMetrics is the admin landing page summary
type DashboardMetrics struct {
	Year                   int             `json:"year"`
	TotalStudents          int64           `json:"totalStudents"`
	TotalInstructors       int64           `json:"totalInstructors"`
	TotalCourses           int64           `json:"totalCourses"`
	TotalOrders            int64           `json:"totalOrders"`
	TotalCourseRevenue     decimal.Decimal `json:"totalCourseRevenue"`
	TotalAdminRevenue      decimal.Decimal `json:"totalAdminRevenue"`
	TotalMembershipRevenue decimal.Decimal `json:"totalMembershipRevenue"`
	TotalMembershipSales   int64           `json:"totalMembershipSales"`
	CourseSales            []MonthlyPoint  `json:"courseSales"`
	MembershipSales        []MonthlyPoint  `json:"membershipSales"`
}

// MonthlyPoint is one calendar month of a yearly series
type MonthlyPoint struct {
	Month  int             `json:"month"`
	Label  string          `json:"label"`
	Count  int64           `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// SalePoint is a single dated sale amount used to build monthly series
type SalePoint struct {
	At     time.Time
	Amount decimal.Decimal
}

// PlatformCounts are the scalar dashboard counters
type PlatformCounts struct {
	Students    int64
	Instructors int64
	Courses     int64
}

// RevenueTotals summarize successful sales of one product line
type RevenueTotals struct {
	Count      int64
	Revenue    decimal.Decimal
	AdminShare decimal.Decimal
}

// DashboardRepository reads the figures behind the admin dashboard
type DashboardRepository interface {
	CountPlatform(ctx context.Context) (*PlatformCounts, error)
	CourseRevenue(ctx context.Context) (*RevenueTotals, error)
	MembershipRevenue(ctx context.Context) (*RevenueTotals, error)
	CourseSalePoints(ctx context.Context, rng DateRange) ([]SalePoint, error)
	MembershipSalePoints(ctx context.Context, rng DateRange) ([]SalePoint, error)
}

// BucketByMonth folds sale points into twelve calendar-month buckets of year.
// Months are decided in loc, and points outside the year are ignored.
func BucketByMonth(points []SalePoint, year int, loc *time.Location) []MonthlyPoint {
	buckets := make([]MonthlyPoint, 12)
	for i := range buckets {
		m := time.Month(i + 1)
		buckets[i] = MonthlyPoint{Month: int(m), Label: m.String()[:3], Amount: decimal.Zero}
	}
	for _, p := range points {
		at := p.At.In(loc)
		if at.Year() != year {
			continue
		}
		b := &buckets[int(at.Month())-1]
		b.Count++
		b.Amount = b.Amount.Add(p.Amount)
	}
	return buckets
}
