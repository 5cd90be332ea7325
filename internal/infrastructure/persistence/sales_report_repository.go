package persistence

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/learnhub/backoffice/internal/domain/report"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormSalesReportRepository implements report.SalesReportRepository using GORM
type GormSalesReportRepository struct {
	db *gorm.DB
}

// NewGormSalesReportRepository creates a new GormSalesReportRepository
func NewGormSalesReportRepository(db *gorm.DB) *GormSalesReportRepository {
	return &GormSalesReportRepository{db: db}
}

// FetchCourseSales returns successful course orders in the range, newest first,
// each with its line items in purchase order.
func (r *GormSalesReportRepository) FetchCourseSales(ctx context.Context, q report.Query) (*report.Page[report.CourseSaleRow], error) {
	fq := facetQuery{
		filtered: `
			SELECT o.id, o.created_at, o.coupon_code, o.discount_amount,
				COALESCE(SUM(oi.discounted_price), 0) AS order_total_price,
				COALESCE(SUM(oi.admin_share), 0) AS order_admin_share
			FROM orders o
			LEFT JOIN order_items oi ON oi.order_id = o.id
			WHERE o.payment_status = ? AND o.created_at BETWEEN ? AND ?
			GROUP BY o.id, o.created_at, o.coupon_code, o.discount_amount`,
		args: []any{report.PaymentStatusSuccess, q.Range.Start.UTC(), q.Range.End.UTC()},
		totals: `COUNT(*) AS total_items,
			COALESCE(SUM(order_admin_share), 0) AS total_admin_share,
			COALESCE(SUM(order_total_price), 0) AS total_revenue`,
		columns: []string{"id", "created_at", "coupon_code", "discount_amount", "order_total_price", "order_admin_share"},
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
		result []report.CourseSaleRow
		ids    []uuid.UUID
	)
	for rows.Next() {
		var (
			id         uuid.NullUUID
			createdAt  nullTime
			coupon     sql.NullString
			discount   decimal.NullDecimal
			orderPrice decimal.NullDecimal
			orderShare decimal.NullDecimal
		)
		dest := append(totals.dest(), &id, &createdAt, &coupon, &discount, &orderPrice, &orderShare)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		if !id.Valid {
			continue
		}

		row := report.CourseSaleRow{
			OrderID:              id.UUID,
			Date:                 createdAt.Time,
			OrderDiscountAmount:  discount.Decimal,
			OrderTotalPrice:      orderPrice.Decimal,
			OrderTotalAdminShare: orderShare.Decimal,
			CouponCode:           nullString(coupon),
			LineItems:            []report.CourseLineItem{},
		}
		result = append(result, row)
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
			result[i].LineItems = append(result[i].LineItems, report.CourseLineItem{
				CourseName:      orPlaceholder(item.CourseName, report.UnknownCourse),
				InstructorName:  orPlaceholder(item.InstructorName, report.UnknownInstructor),
				ListPrice:       item.ListPrice,
				OfferPrice:      item.offerPrice(),
				DiscountedPrice: item.DiscountedPrice,
				AdminShare:      item.AdminShare,
			})
		}
	}

	return &report.Page[report.CourseSaleRow]{Rows: nonNil(result), Aggregates: totals.aggregates()}, nil
}

// FetchMembershipSales returns successful membership purchases in the range, newest first
func (r *GormSalesReportRepository) FetchMembershipSales(ctx context.Context, q report.Query) (*report.Page[report.MembershipSaleRow], error) {
	fq := facetQuery{
		filtered: `
			SELECT mo.id, mo.created_at, mo.price, mp.name AS plan_name, u.name AS instructor_name
			FROM membership_orders mo
			LEFT JOIN membership_plans mp ON mp.id = mo.plan_id
			LEFT JOIN users u ON u.id = mo.instructor_id
			WHERE mo.payment_status = ? AND mo.created_at BETWEEN ? AND ?`,
		args: []any{report.PaymentStatusSuccess, q.Range.Start.UTC(), q.Range.End.UTC()},
		// membership revenue is platform revenue in full
		totals: `COUNT(*) AS total_items,
			COALESCE(SUM(price), 0) AS total_admin_share,
			COALESCE(SUM(price), 0) AS total_revenue`,
		columns: []string{"id", "created_at", "price", "plan_name", "instructor_name"},
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
		result []report.MembershipSaleRow
	)
	for rows.Next() {
		var (
			id         uuid.NullUUID
			createdAt  nullTime
			price      decimal.NullDecimal
			plan       sql.NullString
			instructor sql.NullString
		)
		dest := append(totals.dest(), &id, &createdAt, &price, &plan, &instructor)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		if !id.Valid {
			continue
		}
		result = append(result, report.MembershipSaleRow{
			OrderID:        id.UUID,
			Date:           createdAt.Time,
			PlanName:       orPlaceholder(nullString(plan), report.UnknownPlan),
			InstructorName: orPlaceholder(nullString(instructor), report.UnknownInstructor),
			Price:          price.Decimal,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &report.Page[report.MembershipSaleRow]{Rows: nonNil(result), Aggregates: totals.aggregates()}, nil
}

// lineItemRow is one order_items row joined with its course and instructor
type lineItemRow struct {
	OrderID         uuid.UUID
	CourseName      *string
	InstructorName  *string
	ListPrice       decimal.Decimal
	OfferPrice      decimal.NullDecimal
	DiscountedPrice decimal.Decimal
	AdminShare      decimal.Decimal
}

func (i lineItemRow) offerPrice() *decimal.Decimal {
	if !i.OfferPrice.Valid {
		return nil
	}
	p := i.OfferPrice.Decimal
	return &p
}

// fetchLineItems loads the items of the given orders keyed by order, each in purchase order
func fetchLineItems(ctx context.Context, db *gorm.DB, orderIDs []uuid.UUID) (map[uuid.UUID][]lineItemRow, error) {
	grouped := make(map[uuid.UUID][]lineItemRow, len(orderIDs))
	if len(orderIDs) == 0 {
		return grouped, nil
	}

	var items []lineItemRow
	err := db.WithContext(ctx).Table("order_items oi").
		Select(`oi.order_id, c.title AS course_name, u.name AS instructor_name,
			oi.list_price, oi.offer_price, oi.discounted_price, oi.admin_share`).
		Joins("LEFT JOIN courses c ON c.id = oi.course_id").
		Joins("LEFT JOIN users u ON u.id = c.instructor_id").
		Where("oi.order_id IN ?", orderIDs).
		Order("oi.order_id, oi.position").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		grouped[item.OrderID] = append(grouped[item.OrderID], item)
	}
	return grouped, nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}

var _ report.SalesReportRepository = (*GormSalesReportRepository)(nil)
