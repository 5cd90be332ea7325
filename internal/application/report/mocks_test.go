package report

import (
	"context"

	"github.com/google/uuid"
	"github.com/learnhub/backoffice/internal/domain/report"
	"github.com/learnhub/backoffice/internal/infrastructure/export"
	"github.com/stretchr/testify/mock"
)

// MockSalesReportRepository is a mock implementation of report.SalesReportRepository
type MockSalesReportRepository struct {
	mock.Mock
}

func (m *MockSalesReportRepository) FetchCourseSales(ctx context.Context, q report.Query) (*report.Page[report.CourseSaleRow], error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Page[report.CourseSaleRow]), args.Error(1)
}

func (m *MockSalesReportRepository) FetchMembershipSales(ctx context.Context, q report.Query) (*report.Page[report.MembershipSaleRow], error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Page[report.MembershipSaleRow]), args.Error(1)
}

// MockStudentReportRepository is a mock implementation of report.StudentReportRepository
type MockStudentReportRepository struct {
	mock.Mock
}

func (m *MockStudentReportRepository) FetchStudentCourses(ctx context.Context, studentID uuid.UUID, q report.Query) (*report.Page[report.StudentCourseRow], error) {
	args := m.Called(ctx, studentID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Page[report.StudentCourseRow]), args.Error(1)
}

func (m *MockStudentReportRepository) FetchStudentSlots(ctx context.Context, studentID uuid.UUID, q report.Query) (*report.Page[report.StudentSlotRow], error) {
	args := m.Called(ctx, studentID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Page[report.StudentSlotRow]), args.Error(1)
}

// MockDashboardRepository is a mock implementation of report.DashboardRepository
type MockDashboardRepository struct {
	mock.Mock
}

func (m *MockDashboardRepository) CountPlatform(ctx context.Context) (*report.PlatformCounts, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.PlatformCounts), args.Error(1)
}

func (m *MockDashboardRepository) CourseRevenue(ctx context.Context) (*report.RevenueTotals, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.RevenueTotals), args.Error(1)
}

func (m *MockDashboardRepository) MembershipRevenue(ctx context.Context) (*report.RevenueTotals, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.RevenueTotals), args.Error(1)
}

func (m *MockDashboardRepository) CourseSalePoints(ctx context.Context, rng report.DateRange) ([]report.SalePoint, error) {
	args := m.Called(ctx, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.SalePoint), args.Error(1)
}

func (m *MockDashboardRepository) MembershipSalePoints(ctx context.Context, rng report.DateRange) ([]report.SalePoint, error) {
	args := m.Called(ctx, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.SalePoint), args.Error(1)
}

// MockDocumentRenderer is a mock implementation of DocumentRenderer
type MockDocumentRenderer struct {
	mock.Mock
}

func (m *MockDocumentRenderer) CourseSales(rep *report.Report[report.CourseSaleRow], format export.Format) (*export.Document, error) {
	args := m.Called(rep, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*export.Document), args.Error(1)
}

func (m *MockDocumentRenderer) MembershipSales(rep *report.Report[report.MembershipSaleRow], format export.Format) (*export.Document, error) {
	args := m.Called(rep, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*export.Document), args.Error(1)
}

func (m *MockDocumentRenderer) StudentCourses(rep *report.Report[report.StudentCourseRow], format export.Format) (*export.Document, error) {
	args := m.Called(rep, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*export.Document), args.Error(1)
}

func (m *MockDocumentRenderer) StudentSlots(rep *report.Report[report.StudentSlotRow], format export.Format) (*export.Document, error) {
	args := m.Called(rep, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*export.Document), args.Error(1)
}
