package persistence

import (
	"context"

	"github.com/learnhub/backoffice/internal/domain/report"
	"github.com/learnhub/backoffice/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormDashboardRepository implements report.DashboardRepository using GORM
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewGormDashboardRepository creates a new GormDashboardRepository
func NewGormDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// CountPlatform counts students, instructors and courses
func (r *GormDashboardRepository) CountPlatform(ctx context.Context) (*report.PlatformCounts, error) {
	var result struct {
		Students    int64
		Instructors int64
		Courses     int64
	}

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			(SELECT COUNT(*) FROM users WHERE role = ?) AS students,
			(SELECT COUNT(*) FROM users WHERE role = ?) AS instructors,
			(SELECT COUNT(*) FROM courses) AS courses`,
		models.RoleStudent, models.RoleInstructor,
	).Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return &report.PlatformCounts{
		Students:    result.Students,
		Instructors: result.Instructors,
		Courses:     result.Courses,
	}, nil
}

// CourseRevenue sums all successful course orders
func (r *GormDashboardRepository) CourseRevenue(ctx context.Context) (*report.RevenueTotals, error) {
	var result struct {
		Count      int64
		Revenue    decimal.Decimal
		AdminShare decimal.Decimal
	}

	err := r.db.WithContext(ctx).Table("orders o").
		Select(`
			COUNT(DISTINCT o.id) AS count,
			COALESCE(SUM(oi.discounted_price), 0) AS revenue,
			COALESCE(SUM(oi.admin_share), 0) AS admin_share
		`).
		Joins("LEFT JOIN order_items oi ON oi.order_id = o.id").
		Where("o.payment_status = ?", report.PaymentStatusSuccess).
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return &report.RevenueTotals{Count: result.Count, Revenue: result.Revenue, AdminShare: result.AdminShare}, nil
}

// MembershipRevenue sums all successful membership purchases
func (r *GormDashboardRepository) MembershipRevenue(ctx context.Context) (*report.RevenueTotals, error) {
	var result struct {
		Count   int64
		Revenue decimal.Decimal
	}

	err := r.db.WithContext(ctx).Table("membership_orders").
		Select("COUNT(*) AS count, COALESCE(SUM(price), 0) AS revenue").
		Where("payment_status = ?", report.PaymentStatusSuccess).
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return &report.RevenueTotals{Count: result.Count, Revenue: result.Revenue, AdminShare: result.Revenue}, nil
}

// CourseSalePoints returns one point per successful course order in the range
func (r *GormDashboardRepository) CourseSalePoints(ctx context.Context, rng report.DateRange) ([]report.SalePoint, error) {
	return r.salePoints(ctx, `
		SELECT o.created_at, COALESCE(SUM(oi.discounted_price), 0) AS amount
		FROM orders o
		LEFT JOIN order_items oi ON oi.order_id = o.id
		WHERE o.payment_status = ? AND o.created_at BETWEEN ? AND ?
		GROUP BY o.id, o.created_at`, rng)
}

// MembershipSalePoints returns one point per successful membership purchase in the range
func (r *GormDashboardRepository) MembershipSalePoints(ctx context.Context, rng report.DateRange) ([]report.SalePoint, error) {
	return r.salePoints(ctx, `
		SELECT created_at, price AS amount
		FROM membership_orders
		WHERE payment_status = ? AND created_at BETWEEN ? AND ?`, rng)
}

func (r *GormDashboardRepository) salePoints(ctx context.Context, query string, rng report.DateRange) ([]report.SalePoint, error) {
	rows, err := r.db.WithContext(ctx).
		Raw(query, report.PaymentStatusSuccess, rng.Start.UTC(), rng.End.UTC()).
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := []report.SalePoint{}
	for rows.Next() {
		var (
			at     nullTime
			amount decimal.NullDecimal
		)
		if err := rows.Scan(&at, &amount); err != nil {
			return nil, err
		}
		if !at.Valid {
			continue
		}
		points = append(points, report.SalePoint{At: at.Time, Amount: amount.Decimal})
	}
	return points, rows.Err()
}

var _ report.DashboardRepository = (*GormDashboardRepository)(nil)
