package persistence

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/learnhub/backoffice/internal/domain/report"
	"github.com/learnhub/backoffice/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newReportTestDB opens an in-memory SQLite database with the marketplace schema
func newReportTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

type marketplaceFixture struct {
	t     *testing.T
	db    *gorm.DB
	users int
}

func newMarketplaceFixture(t *testing.T, db *gorm.DB) *marketplaceFixture {
	return &marketplaceFixture{t: t, db: db}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func strPtr(s string) *string {
	return &s
}

func (f *marketplaceFixture) user(name, role string) models.UserModel {
	f.users++
	u := models.UserModel{Name: name, Email: fmt.Sprintf("user%d@example.com", f.users), Role: role}
	require.NoError(f.t, f.db.Create(&u).Error)
	return u
}

func (f *marketplaceFixture) course(title string, instructorID uuid.UUID, price string, offer *decimal.Decimal) models.CourseModel {
	c := models.CourseModel{Title: title, InstructorID: instructorID, Price: dec(price), OfferPrice: offer}
	require.NoError(f.t, f.db.Create(&c).Error)
	return c
}

type itemSpec struct {
	courseID   uuid.UUID
	list       string
	offer      *decimal.Decimal
	discounted string
	share      string
}

func (f *marketplaceFixture) order(userID uuid.UUID, at time.Time, status string, coupon *string, discount string, items ...itemSpec) models.OrderModel {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(dec(it.discounted))
	}
	o := models.OrderModel{
		UserID:         userID,
		CouponCode:     coupon,
		DiscountAmount: dec(discount),
		TotalPrice:     total,
		PaymentStatus:  status,
	}
	o.CreatedAt = at.UTC()
	require.NoError(f.t, f.db.Create(&o).Error)

	for i, it := range items {
		item := models.OrderItemModel{
			OrderID:         o.ID,
			CourseID:        it.courseID,
			Position:        i,
			ListPrice:       dec(it.list),
			OfferPrice:      it.offer,
			DiscountedPrice: dec(it.discounted),
			AdminShare:      dec(it.share),
		}
		require.NoError(f.t, f.db.Create(&item).Error)
	}
	return o
}

func (f *marketplaceFixture) plan(name, price string) models.MembershipPlanModel {
	p := models.MembershipPlanModel{Name: name, Price: dec(price), DurationMonths: 1}
	require.NoError(f.t, f.db.Create(&p).Error)
	return p
}

func (f *marketplaceFixture) membership(instructorID, planID uuid.UUID, at time.Time, price, status string) models.MembershipOrderModel {
	m := models.MembershipOrderModel{InstructorID: instructorID, PlanID: planID, Price: dec(price), PaymentStatus: status}
	m.CreatedAt = at.UTC()
	require.NoError(f.t, f.db.Create(&m).Error)
	return m
}

func (f *marketplaceFixture) slot(instructorID uuid.UUID, start time.Time, price string) models.SlotModel {
	s := models.SlotModel{InstructorID: instructorID, StartsAt: start.UTC(), EndsAt: start.Add(time.Hour).UTC(), Price: dec(price)}
	require.NoError(f.t, f.db.Create(&s).Error)
	return s
}

func (f *marketplaceFixture) booking(slotID, studentID uuid.UUID, at time.Time, price, status string) models.BookingModel {
	b := models.BookingModel{SlotID: slotID, StudentID: studentID, Price: dec(price), PaymentStatus: status, Status: models.BookingBooked}
	b.CreatedAt = at.UTC()
	require.NoError(f.t, f.db.Create(&b).Error)
	return b
}

// january2024 covers the whole month in UTC
func january2024() report.DateRange {
	return report.DateRange{
		Start: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.January, 31, 23, 59, 59, 999_000_000, time.UTC),
	}
}

func jan(day, hour int) time.Time {
	return time.Date(2024, time.January, day, hour, 0, 0, 0, time.UTC)
}
