package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// User roles
const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

// Payment and booking statuses
const (
	PaymentPending = "pending"
	PaymentSuccess = "success"
	PaymentFailed  = "failed"

	BookingBooked    = "booked"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
)

// UserModel is a platform account: student, instructor or admin.
type UserModel struct {
	BaseModel
	Name  string `gorm:"type:varchar(200);not null"`
	Email string `gorm:"type:varchar(200);uniqueIndex"`
	Role  string `gorm:"type:varchar(20);not null;index"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// CategoryModel groups courses
type CategoryModel struct {
	BaseModel
	Name string `gorm:"type:varchar(120);not null"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// CourseModel is a course published by an instructor
type CourseModel struct {
	BaseModel
	Title        string           `gorm:"type:varchar(300);not null"`
	InstructorID uuid.UUID        `gorm:"type:uuid;not null;index"`
	CategoryID   *uuid.UUID       `gorm:"type:uuid"`
	Price        decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	OfferPrice   *decimal.Decimal `gorm:"type:decimal(12,2)"`
}

// TableName returns the table name for GORM
func (CourseModel) TableName() string {
	return "courses"
}

// OrderModel is a student's course purchase
type OrderModel struct {
	BaseModel
	UserID         uuid.UUID        `gorm:"type:uuid;not null;index"`
	CouponCode     *string          `gorm:"type:varchar(50)"`
	DiscountAmount decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	TotalPrice     decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	PaymentStatus  string           `gorm:"type:varchar(20);not null;index"`
	Items          []OrderItemModel `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel is one course inside an order. Position keeps purchase order.
type OrderItemModel struct {
	ID              uuid.UUID        `gorm:"type:uuid;primary_key"`
	OrderID         uuid.UUID        `gorm:"type:uuid;not null;index"`
	CourseID        uuid.UUID        `gorm:"type:uuid;not null"`
	Position        int              `gorm:"not null;default:0"`
	ListPrice       decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	OfferPrice      *decimal.Decimal `gorm:"type:decimal(12,2)"`
	DiscountedPrice decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	AdminShare      decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// BeforeCreate assigns an ID when the caller did not supply one
func (m *OrderItemModel) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// MembershipPlanModel is a subscription plan sold to instructors
type MembershipPlanModel struct {
	BaseModel
	Name           string          `gorm:"type:varchar(120);not null"`
	Price          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DurationMonths int             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (MembershipPlanModel) TableName() string {
	return "membership_plans"
}

// MembershipOrderModel is an instructor's membership purchase
type MembershipOrderModel struct {
	BaseModel
	InstructorID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	PlanID        uuid.UUID       `gorm:"type:uuid;not null"`
	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentStatus string          `gorm:"type:varchar(20);not null;index"`
}

// TableName returns the table name for GORM
func (MembershipOrderModel) TableName() string {
	return "membership_orders"
}

// SlotModel is a bookable one-to-one session offered by an instructor
type SlotModel struct {
	BaseModel
	InstructorID uuid.UUID       `gorm:"type:uuid;not null;index"`
	StartsAt     time.Time       `gorm:"not null"`
	EndsAt       time.Time       `gorm:"not null"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (SlotModel) TableName() string {
	return "slots"
}

// BookingModel is a student's reservation of a slot
type BookingModel struct {
	BaseModel
	SlotID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	StudentID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentStatus string          `gorm:"type:varchar(20);not null;index"`
	Status        string          `gorm:"type:varchar(20);not null;default:'booked'"`
}

// TableName returns the table name for GORM
func (BookingModel) TableName() string {
	return "bookings"
}

// All lists every model in dependency order for AutoMigrate
func All() []any {
	return []any{
		&UserModel{},
		&CategoryModel{},
		&CourseModel{},
		&OrderModel{},
		&OrderItemModel{},
		&MembershipPlanModel{},
		&MembershipOrderModel{},
		&SlotModel{},
		&BookingModel{},
	}
}
