package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/learnhub/backoffice/internal/domain/report"
	"github.com/learnhub/backoffice/internal/domain/shared"
	"github.com/learnhub/backoffice/internal/infrastructure/logger"
	"github.com/learnhub/backoffice/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Settings are the report defaults taken from configuration
type Settings struct {
	// Location is the calendar used to resolve periods
	Location        *time.Location
	DefaultPageSize int
}

// Option customizes a service
type Option func(*options)

type options struct {
	now     func() time.Time
	metrics *telemetry.ReportMetrics
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithMetrics records build and export outcomes
func WithMetrics(m *telemetry.ReportMetrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ReportService assembles the paginated reports shown on screen and exported
type ReportService struct {
	sales    report.SalesReportRepository
	students report.StudentReportRepository
	settings Settings
	opts     options
	logger   *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	sales report.SalesReportRepository,
	students report.StudentReportRepository,
	settings Settings,
	logger *zap.Logger,
	opts ...Option,
) *ReportService {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	if settings.DefaultPageSize <= 0 {
		settings.DefaultPageSize = report.DefaultLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		sales:    sales,
		students: students,
		settings: settings,
		opts:     buildOptions(opts),
		logger:   logger,
	}
}

// fetchFunc loads one window of a report together with its full-range aggregates
type fetchFunc[T any] func(ctx context.Context, q report.Query) (*report.Page[T], error)

// buildMode selects how a missing page request is treated
type buildMode int

const (
	// onScreen always paginates, falling back to the default page size
	onScreen buildMode = iota
	// forExport returns the whole range unless a page or limit was requested
	forExport
)

// assemble is the single pagination and totals path shared by every report kind
func assemble[T any](ctx context.Context, s *ReportService, kind report.Kind, filter report.Filter, mode buildMode, fetch fetchFunc[T]) (*report.Report[T], error) {
	started := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "build",
		telemetry.WithAttribute(telemetry.SpanAttrReportKind, string(kind)))
	defer span.End()

	if err := filter.Validate(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	now := s.opts.now().In(s.settings.Location)
	rng, err := report.ResolveRange(filter.Type, filter.StartDate, filter.EndDate, now)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	pagination := filter.Pagination
	if mode == onScreen || pagination.IsSet() {
		pagination = pagination.Normalize(s.settings.DefaultPageSize)
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrRangeStart, rng.Start.Format(time.RFC3339),
		telemetry.SpanAttrRangeEnd, rng.End.Format(time.RFC3339),
		telemetry.SpanAttrPage, pagination.Page,
		telemetry.SpanAttrLimit, pagination.Limit,
	)

	page, err := fetch(ctx, report.Query{Range: rng, Window: pagination.Window()})
	if err != nil {
		telemetry.RecordError(span, err)
		s.opts.metrics.ObserveBuild(string(kind), time.Since(started), err)
		logger.WithLogger(ctx, s.logger).Error("Failed to load report data",
			zap.String("kind", string(kind)),
			zap.Time("range_start", rng.Start),
			zap.Time("range_end", rng.End),
			zap.Error(err),
		)
		return nil, shared.NewQueryError(err)
	}

	rows := page.Rows
	if rows == nil {
		rows = []T{}
	}
	currentPage := pagination.Page
	if currentPage <= 0 {
		currentPage = report.DefaultPage
	}
	agg := page.Aggregates
	result := &report.Report[T]{
		Kind:  kind,
		Range: rng,
		Items: rows,
		Totals: report.Totals{
			TotalItems:      agg.Count,
			TotalPages:      report.PageCount(agg.Count, pagination.Limit),
			CurrentPage:     currentPage,
			Limit:           pagination.Limit,
			TotalAdminShare: agg.AdminShare,
			TotalRevenue:    agg.Revenue,
			TotalSales:      agg.Count,
		},
		GeneratedAt: now,
	}

	elapsed := time.Since(started)
	s.opts.metrics.ObserveBuild(string(kind), elapsed, nil)
	telemetry.SetAttributes(span, telemetry.SpanAttrTotalItems, agg.Count)
	telemetry.SetOK(span)
	logger.WithLogger(ctx, s.logger).Info("Report built",
		zap.String("kind", string(kind)),
		zap.Time("range_start", rng.Start),
		zap.Time("range_end", rng.End),
		zap.Int("rows", len(rows)),
		zap.Int64("total_items", agg.Count),
		zap.Duration("elapsed", elapsed),
	)
	return result, nil
}

// CourseSales returns the platform-wide course sales report
func (s *ReportService) CourseSales(ctx context.Context, filter report.Filter) (*report.Report[report.CourseSaleRow], error) {
	return s.courseSales(ctx, filter, onScreen)
}

// MembershipSales returns the instructor membership sales report
func (s *ReportService) MembershipSales(ctx context.Context, filter report.Filter) (*report.Report[report.MembershipSaleRow], error) {
	return s.membershipSales(ctx, filter, onScreen)
}

// StudentCourses returns the course purchases of one student
func (s *ReportService) StudentCourses(ctx context.Context, studentID uuid.UUID, filter report.Filter) (*report.Report[report.StudentCourseRow], error) {
	return s.studentCourses(ctx, studentID, filter, onScreen)
}

// StudentSlots returns the slot bookings of one student
func (s *ReportService) StudentSlots(ctx context.Context, studentID uuid.UUID, filter report.Filter) (*report.Report[report.StudentSlotRow], error) {
	return s.studentSlots(ctx, studentID, filter, onScreen)
}

func (s *ReportService) courseSales(ctx context.Context, filter report.Filter, mode buildMode) (*report.Report[report.CourseSaleRow], error) {
	return assemble(ctx, s, report.KindCourseSales, filter, mode, s.sales.FetchCourseSales)
}

func (s *ReportService) membershipSales(ctx context.Context, filter report.Filter, mode buildMode) (*report.Report[report.MembershipSaleRow], error) {
	return assemble(ctx, s, report.KindMembershipSales, filter, mode, s.sales.FetchMembershipSales)
}

func (s *ReportService) studentCourses(ctx context.Context, studentID uuid.UUID, filter report.Filter, mode buildMode) (*report.Report[report.StudentCourseRow], error) {
	if studentID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	return assemble(ctx, s, report.KindStudentCourses, filter, mode,
		func(ctx context.Context, q report.Query) (*report.Page[report.StudentCourseRow], error) {
			return s.students.FetchStudentCourses(ctx, studentID, q)
		})
}

func (s *ReportService) studentSlots(ctx context.Context, studentID uuid.UUID, filter report.Filter, mode buildMode) (*report.Report[report.StudentSlotRow], error) {
	if studentID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	return assemble(ctx, s, report.KindStudentSlots, filter, mode,
		func(ctx context.Context, q report.Query) (*report.Page[report.StudentSlotRow], error) {
			return s.students.FetchStudentSlots(ctx, studentID, q)
		})
}
