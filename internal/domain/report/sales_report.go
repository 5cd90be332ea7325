package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/learnhub/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Placeholders shown when referenced catalog data no longer exists
const (
	UnknownCourse     = "Course unavailable"
	UnknownPlan       = "Plan unavailable"
	UnknownInstructor = "Instructor unavailable"
)

// PaymentStatusSuccess is the only payment status counted by reports
const PaymentStatusSuccess = "success"

// Kind identifies one of the report shapes
type Kind string

const (
	KindCourseSales     Kind = "course_sales"
	KindMembershipSales Kind = "membership_sales"
	KindStudentCourses  Kind = "student_courses"
	KindStudentSlots    Kind = "student_slots"
)

// Title is the human readable report name used in documents
func (k Kind) Title() string {
	switch k {
	case KindCourseSales:
		return "Course Sales Report"
	case KindMembershipSales:
		return "Membership Sales Report"
	case KindStudentCourses:
		return "My Course Purchases"
	case KindStudentSlots:
		return "My Slot Bookings"
	default:
		return "Report"
	}
}

// Slug is the kebab-case name used for download file names
func (k Kind) Slug() string {
	switch k {
	case KindCourseSales:
		return "course-sales"
	case KindMembershipSales:
		return "membership-sales"
	case KindStudentCourses:
		return "course-purchases"
	case KindStudentSlots:
		return "slot-bookings"
	default:
		return "report"
	}
}

// CourseLineItem is one course within a purchase order
type CourseLineItem struct {
	CourseName      string           `json:"courseName"`
	InstructorName  string           `json:"instructorName"`
	ListPrice       decimal.Decimal  `json:"listPrice"`
	OfferPrice      *decimal.Decimal `json:"offerPrice,omitempty"`
	DiscountedPrice decimal.Decimal  `json:"discountedPrice"`
	AdminShare      decimal.Decimal  `json:"adminShare"`
}

// CourseSaleRow is a purchase order with its line items in purchase order.
// OrderTotalPrice and OrderTotalAdminShare are the sums over LineItems.
type CourseSaleRow struct {
	OrderID              uuid.UUID        `json:"orderId"`
	Date                 time.Time        `json:"date"`
	CouponCode           *string          `json:"couponCode,omitempty"`
	OrderDiscountAmount  decimal.Decimal  `json:"orderDiscountAmount"`
	OrderTotalPrice      decimal.Decimal  `json:"orderTotalPrice"`
	OrderTotalAdminShare decimal.Decimal  `json:"orderTotalAdminShare"`
	LineItems            []CourseLineItem `json:"lineItems"`
}

// CouponApplied reports whether the order used a coupon
func (r CourseSaleRow) CouponApplied() bool {
	return r.CouponCode != nil && *r.CouponCode != ""
}

// Validate checks that the order totals agree with the line items
func (r CourseSaleRow) Validate() error {
	price, share := decimal.Zero, decimal.Zero
	for _, item := range r.LineItems {
		price = price.Add(item.DiscountedPrice)
		share = share.Add(item.AdminShare)
	}
	if !price.Equal(r.OrderTotalPrice) || !share.Equal(r.OrderTotalAdminShare) {
		return &RowMismatchError{OrderID: r.OrderID}
	}
	return nil
}

// MembershipSaleRow is one instructor membership purchase
type MembershipSaleRow struct {
	OrderID        uuid.UUID       `json:"orderId"`
	Date           time.Time       `json:"date"`
	PlanName       string          `json:"planName"`
	InstructorName string          `json:"instructorName"`
	Price          decimal.Decimal `json:"price"`
}

// StudentCourseItem is one course within a student's order
type StudentCourseItem struct {
	CourseName     string          `json:"courseName"`
	InstructorName string          `json:"instructorName"`
	Price          decimal.Decimal `json:"price"`
}

// StudentCourseRow is one of a student's course orders.
// OriginalPrice is the sum of item list prices; FinalPrice is what was paid.
type StudentCourseRow struct {
	OrderID        uuid.UUID           `json:"orderId"`
	Date           time.Time           `json:"date"`
	Courses        []StudentCourseItem `json:"courses"`
	OriginalPrice  decimal.Decimal     `json:"originalPrice"`
	CouponCode     *string             `json:"couponCode,omitempty"`
	CouponDiscount decimal.Decimal     `json:"couponDiscount"`
	FinalPrice     decimal.Decimal     `json:"finalPrice"`
}

// CourseTitles lists the course names in purchase order
func (r StudentCourseRow) CourseTitles() []string {
	titles := make([]string, len(r.Courses))
	for i, c := range r.Courses {
		titles[i] = c.CourseName
	}
	return titles
}

// Validate checks that the original price agrees with the course list
func (r StudentCourseRow) Validate() error {
	sum := decimal.Zero
	for _, c := range r.Courses {
		sum = sum.Add(c.Price)
	}
	if !sum.Equal(r.OriginalPrice) {
		return &RowMismatchError{OrderID: r.OrderID}
	}
	return nil
}

// StudentSlotRow is one paid booking of an instructor slot
type StudentSlotRow struct {
	BookingID      uuid.UUID       `json:"bookingId"`
	BookedAt       time.Time       `json:"bookedAt"`
	SlotStart      time.Time       `json:"slotStart"`
	SlotEnd        time.Time       `json:"slotEnd"`
	InstructorName string          `json:"instructorName"`
	Price          decimal.Decimal `json:"price"`
	Status         string          `json:"status"`
}

// RowMismatchError reports an order whose totals disagree with its items
type RowMismatchError struct {
	OrderID uuid.UUID
}

func (e *RowMismatchError) Error() string {
	return "order " + e.OrderID.String() + " totals do not match its line items"
}

// Aggregates are computed over the whole filtered dataset, never just a page
type Aggregates struct {
	Count      int64
	AdminShare decimal.Decimal
	Revenue    decimal.Decimal
}

// Page is one window of rows plus the aggregates of the full result set
type Page[T any] struct {
	Rows       []T
	Aggregates Aggregates
}

// Query is what a report repository needs to fetch a window
type Query struct {
	Range  DateRange
	Window Window
}

// Totals are the report level figures shown alongside the rows
type Totals struct {
	TotalItems      int64           `json:"totalItems"`
	TotalPages      int             `json:"totalPages"`
	CurrentPage     int             `json:"currentPage"`
	Limit           int             `json:"limit"`
	TotalAdminShare decimal.Decimal `json:"totalAdminShare"`
	TotalRevenue    decimal.Decimal `json:"totalRevenue"`
	TotalSales      int64           `json:"totalSales"`
}

// Report is an assembled report of a single kind
type Report[T any] struct {
	Kind        Kind      `json:"kind"`
	Range       DateRange `json:"range"`
	Items       []T       `json:"items"`
	Totals      Totals    `json:"totals"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// Filter is the validated input of every report request
type Filter struct {
	Type       FilterType
	StartDate  string
	EndDate    string
	Pagination Pagination
}

// Validate rejects negative page numbers and page sizes. Zero values mean
// "not supplied" and are filled in later.
func (f Filter) Validate() error {
	if f.Pagination.Page < 0 {
		return shared.NewValidationError("page must be a positive integer")
	}
	if f.Pagination.Limit < 0 {
		return shared.NewValidationError("limit must be a positive integer")
	}
	return nil
}

// SalesReportRepository reads platform-wide sales for administrators
type SalesReportRepository interface {
	FetchCourseSales(ctx context.Context, q Query) (*Page[CourseSaleRow], error)
	FetchMembershipSales(ctx context.Context, q Query) (*Page[MembershipSaleRow], error)
}

// StudentReportRepository reads a single student's purchases
type StudentReportRepository interface {
	FetchStudentCourses(ctx context.Context, studentID uuid.UUID, q Query) (*Page[StudentCourseRow], error)
	FetchStudentSlots(ctx context.Context, studentID uuid.UUID, q Query) (*Page[StudentSlotRow], error)
}
