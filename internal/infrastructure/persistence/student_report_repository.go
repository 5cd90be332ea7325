package persistence

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/learnhub/backoffice/internal/domain/report"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormStudentReportRepository implements report.StudentReportRepository using GORM
type GormStudentReportRepository struct {
	db *gorm.DB
}

// NewGormStudentReportRepository creates a new GormStudentReportRepository
func NewGormStudentReportRepository(db *gorm.DB) *GormStudentReportRepository {
	return &GormStudentReportRepository{db: db}
}

// FetchStudentCourses returns the student's successful course orders in the range
func (r *GormStudentReportRepository) FetchStudentCourses(ctx context.Context, studentID uuid.UUID, q report.Query) (*report.Page[report.StudentCourseRow], error) {
	fq := facetQuery{
		filtered: `
			SELECT o.id, o.created_at, o.coupon_code, o.discount_amount,
				COALESCE(SUM(COALESCE(oi.offer_price, oi.list_price)), 0) AS original_price,
				COALESCE(SUM(oi.discounted_price), 0) AS final_price
			FROM orders o
			LEFT JOIN order_items oi ON oi.order_id = o.id
			WHERE o.user_id = ? AND o.payment_status = ? AND o.created_at BETWEEN ? AND ?
			GROUP BY o.id, o.created_at, o.coupon_code, o.discount_amount`,
		args: []any{studentID, report.PaymentStatusSuccess, q.Range.Start.UTC(), q.Range.End.UTC()},
		totals: `COUNT(*) AS total_items,
			0 AS total_admin_share,
			COALESCE(SUM(final_price), 0) AS total_revenue`,
		columns: []string{"id", "created_at", "coupon_code", "discount_amount", "original_price", "final_price"},
		orderBy: []string{"created_at DESC", "id DESC"},
		window:  q.Window,
	}

	query, args := fq.build()
	rows, err := r.db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		totals facetTotals
		result []report.StudentCourseRow
		ids    []uuid.UUID
	)
	for rows.Next() {
		var (
			id        uuid.NullUUID
			createdAt nullTime
			coupon    sql.NullString
			discount  decimal.NullDecimal
			original  decimal.NullDecimal
			final     decimal.NullDecimal
		)
		dest := append(totals.dest(), &id, &createdAt, &coupon, &discount, &original, &final)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		if !id.Valid {
			continue
		}
		result = append(result, report.StudentCourseRow{
			OrderID:        id.UUID,
			Date:           createdAt.Time,
			Courses:        []report.StudentCourseItem{},
			OriginalPrice:  original.Decimal,
			CouponCode:     nullString(coupon),
			CouponDiscount: discount.Decimal,
			FinalPrice:     final.Decimal,
		})
		ids = append(ids, id.UUID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	items, err := fetchLineItems(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range result {
		for _, item := range items[result[i].OrderID] {
			price := item.ListPrice
			if item.OfferPrice.Valid {
				price = item.OfferPrice.Decimal
			}
			result[i].Courses = append(result[i].Courses, report.StudentCourseItem{
				CourseName:     orPlaceholder(item.CourseName, report.UnknownCourse),
				InstructorName: orPlaceholder(item.InstructorName, report.UnknownInstructor),
				Price:          price,
			})
		}
	}

	return &report.Page[report.StudentCourseRow]{Rows: nonNil(result), Aggregates: totals.aggregates()}, nil
}

// FetchStudentSlots returns the student's paid slot bookings in the range
func (r *GormStudentReportRepository) FetchStudentSlots(ctx context.Context, studentID uuid.UUID, q report.Query) (*report.Page[report.StudentSlotRow], error) {
	fq := facetQuery{
		filtered: `
			SELECT b.id, b.created_at, b.price, b.status,
				s.starts_at, s.ends_at, u.name AS instructor_name
			FROM bookings b
			LEFT JOIN slots s ON s.id = b.slot_id
			LEFT JOIN users u ON u.id = s.instructor_id
			WHERE b.student_id = ? AND b.payment_status = ? AND b.created_at BETWEEN ? AND ?`,
		args: []any{studentID, report.PaymentStatusSuccess, q.Range.Start.UTC(), q.Range.End.UTC()},
		totals: `COUNT(*) AS total_items,
			0 AS total_admin_share,
			COALESCE(SUM(price), 0) AS total_revenue`,
		columns: []string{"id", "created_at", "price", "status", "starts_at", "ends_at", "instructor_name"},
		orderBy: []string{"created_at DESC", "id DESC"},
		window:  q.Window,
	}

	query, args := fq.build()
	rows, err := r.db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		totals facetTotals
		result []report.StudentSlotRow
	)
	for rows.Next() {
		var (
			id         uuid.NullUUID
			createdAt  nullTime
			price      decimal.NullDecimal
			status     sql.NullString
			startsAt   nullTime
			endsAt     nullTime
			instructor sql.NullString
		)
		dest := append(totals.dest(), &id, &createdAt, &price, &status, &startsAt, &endsAt, &instructor)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		if !id.Valid {
			continue
		}
		result = append(result, report.StudentSlotRow{
			BookingID:      id.UUID,
			BookedAt:       createdAt.Time,
			SlotStart:      startsAt.Time,
			SlotEnd:        endsAt.Time,
			InstructorName: orPlaceholder(nullString(instructor), report.UnknownInstructor),
			Price:          price.Decimal,
			Status:         status.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &report.Page[report.StudentSlotRow]{Rows: nonNil(result), Aggregates: totals.aggregates()}, nil
}

var _ report.StudentReportRepository = (*GormStudentReportRepository)(nil)
