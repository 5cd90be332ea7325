package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/learnhub/backoffice/internal/domain/report"
	"github.com/learnhub/backoffice/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormStudentReportRepository_FetchStudentCourses(t *testing.T) {
	ctx := context.Background()
	db := newReportTestDB(t)
	f := newMarketplaceFixture(t, db)
	repo := NewGormStudentReportRepository(db)

	ada := f.user("Ada", models.RoleInstructor)
	sam := f.user("Sam", models.RoleStudent)
	other := f.user("Kim", models.RoleStudent)
	goCourse := f.course("Go", ada.ID, "100", decPtr("80"))
	sqlCourse := f.course("SQL", ada.ID, "50", nil)

	order := f.order(sam.ID, jan(12, 10), models.PaymentSuccess, strPtr("SAVE10"), "13",
		itemSpec{courseID: goCourse.ID, list: "100", offer: decPtr("80"), discounted: "72", share: "14.5"},
		itemSpec{courseID: sqlCourse.ID, list: "50", discounted: "45", share: "9"},
	)
	f.order(sam.ID, jan(13, 10), models.PaymentFailed, nil, "0",
		itemSpec{courseID: sqlCourse.ID, list: "50", discounted: "50", share: "10"})
	f.order(other.ID, jan(14, 10), models.PaymentSuccess, nil, "0",
		itemSpec{courseID: sqlCourse.ID, list: "50", discounted: "50", share: "10"})

	page, err := repo.FetchStudentCourses(ctx, sam.ID, report.Query{Range: january2024()})
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)

	row := page.Rows[0]
	assert.Equal(t, order.ID, row.OrderID)
	assert.Equal(t, []string{"Go", "SQL"}, row.CourseTitles())
	assert.True(t, dec("80").Equal(row.Courses[0].Price))
	assert.True(t, dec("50").Equal(row.Courses[1].Price))
	assert.True(t, dec("130").Equal(row.OriginalPrice))
	assert.True(t, dec("13").Equal(row.CouponDiscount))
	assert.True(t, dec("117").Equal(row.FinalPrice))
	assert.Equal(t, "SAVE10", *row.CouponCode)
	assert.NoError(t, row.Validate())

	assert.Equal(t, int64(1), page.Aggregates.Count)
	assert.True(t, dec("117").Equal(page.Aggregates.Revenue))

	t.Run("student without orders", func(t *testing.T) {
		page, err := repo.FetchStudentCourses(ctx, uuid.New(), report.Query{Range: january2024()})
		require.NoError(t, err)
		assert.Empty(t, page.Rows)
		assert.Equal(t, int64(0), page.Aggregates.Count)
	})

	t.Run("inverted range", func(t *testing.T) {
		rng := january2024()
		rng.Start, rng.End = rng.End, rng.Start

		page, err := repo.FetchStudentCourses(ctx, sam.ID, report.Query{Range: rng})
		require.NoError(t, err)
		assert.Empty(t, page.Rows)
		assert.Equal(t, int64(0), page.Aggregates.Count)
		assert.True(t, page.Aggregates.Revenue.IsZero())
	})
}

func TestGormStudentReportRepository_FetchStudentSlots(t *testing.T) {
	ctx := context.Background()
	db := newReportTestDB(t)
	f := newMarketplaceFixture(t, db)
	repo := NewGormStudentReportRepository(db)

	ada := f.user("Ada", models.RoleInstructor)
	sam := f.user("Sam", models.RoleStudent)

	morning := f.slot(ada.ID, jan(20, 9), "40")
	orphan := f.slot(uuid.New(), jan(21, 9), "60")

	first := f.booking(morning.ID, sam.ID, jan(10, 8), "40", models.PaymentSuccess)
	second := f.booking(orphan.ID, sam.ID, jan(11, 8), "60", models.PaymentSuccess)
	f.booking(morning.ID, sam.ID, jan(12, 8), "40", models.PaymentFailed)
	f.booking(morning.ID, uuid.New(), jan(12, 9), "40", models.PaymentSuccess)

	page, err := repo.FetchStudentSlots(ctx, sam.ID, report.Query{
		Range:  january2024(),
		Window: report.Pagination{Page: 1, Limit: 10}.Window(),
	})
	require.NoError(t, err)
	require.Len(t, page.Rows, 2)

	assert.Equal(t, second.ID, page.Rows[0].BookingID)
	assert.Equal(t, report.UnknownInstructor, page.Rows[0].InstructorName)
	assert.Equal(t, first.ID, page.Rows[1].BookingID)
	assert.Equal(t, "Ada", page.Rows[1].InstructorName)
	assert.True(t, page.Rows[1].SlotStart.Equal(jan(20, 9)))
	assert.True(t, page.Rows[1].SlotEnd.Equal(jan(20, 10)))
	assert.Equal(t, models.BookingBooked, page.Rows[1].Status)

	assert.Equal(t, int64(2), page.Aggregates.Count)
	assert.True(t, dec("100").Equal(page.Aggregates.Revenue))

	t.Run("inverted range", func(t *testing.T) {
		rng := january2024()
		rng.Start, rng.End = rng.End, rng.Start

		page, err := repo.FetchStudentSlots(ctx, sam.ID, report.Query{Range: rng})
		require.NoError(t, err)
		assert.Empty(t, page.Rows)
		assert.Equal(t, int64(0), page.Aggregates.Count)
		assert.True(t, page.Aggregates.Revenue.IsZero())
	})
}
