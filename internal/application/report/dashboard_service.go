package report

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/learnhub/backoffice/internal/domain/report"
	"github.com/learnhub/backoffice/internal/domain/shared"
	"github.com/learnhub/backoffice/internal/infrastructure/logger"
	"github.com/learnhub/backoffice/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MetricsCache stores computed dashboard metrics
type MetricsCache interface {
	BuildKey(ctx context.Context, parts ...string) (string, error)
	FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) (bool, error)
	Bump(ctx context.Context) error
}

// DashboardService computes the admin dashboard
type DashboardService struct {
	repo   report.DashboardRepository
	cache  MetricsCache
	loc    *time.Location
	opts   options
	logger *zap.Logger
}

// NewDashboardService creates a new DashboardService. cache may be nil.
func NewDashboardService(repo report.DashboardRepository, cache MetricsCache, loc *time.Location, logger *zap.Logger, opts ...Option) *DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		repo:   repo,
		cache:  cache,
		loc:    loc,
		opts:   buildOptions(opts),
		logger: logger,
	}
}

// Metrics returns the dashboard for the current year. refresh drops every
// cached dashboard before computing. Cache failures fall back to the database.
func (s *DashboardService) Metrics(ctx context.Context, refresh bool) (*report.DashboardMetrics, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "dashboard", "metrics")
	defer span.End()

	now := s.opts.now().In(s.loc)
	if s.cache == nil {
		return s.compute(ctx, now)
	}

	if refresh {
		if err := s.cache.Bump(ctx); err != nil {
			logger.WithLogger(ctx, s.logger).Warn("Failed to invalidate dashboard cache", zap.Error(err))
		}
	}

	key, err := s.cache.BuildKey(ctx, "dashboard", strconv.Itoa(now.Year()))
	if err != nil {
		logger.WithLogger(ctx, s.logger).Warn("Dashboard cache unavailable", zap.Error(err))
		return s.compute(ctx, now)
	}

	var metrics report.DashboardMetrics
	hit, err := s.cache.FetchJSON(ctx, key, &metrics, func(ctx context.Context) (any, error) {
		return s.compute(ctx, now)
	})
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			telemetry.RecordError(span, err)
			return nil, err
		}
		logger.WithLogger(ctx, s.logger).Warn("Dashboard cache unavailable", zap.String("key", key), zap.Error(err))
		return s.compute(ctx, now)
	}
	s.opts.metrics.ObserveCache(hit)
	telemetry.SetAttributes(span, "dashboard.cache_hit", hit)
	telemetry.SetOK(span)
	return &metrics, nil
}

// compute runs every dashboard query concurrently
func (s *DashboardService) compute(ctx context.Context, now time.Time) (*report.DashboardMetrics, error) {
	year, err := report.ResolveRange(report.FilterYearly, "", "", now)
	if err != nil {
		return nil, err
	}

	var (
		counts           *report.PlatformCounts
		courses          *report.RevenueTotals
		memberships      *report.RevenueTotals
		coursePoints     []report.SalePoint
		membershipPoints []report.SalePoint
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		counts, err = s.repo.CountPlatform(gctx)
		return err
	})
	g.Go(func() (err error) {
		courses, err = s.repo.CourseRevenue(gctx)
		return err
	})
	g.Go(func() (err error) {
		memberships, err = s.repo.MembershipRevenue(gctx)
		return err
	})
	g.Go(func() (err error) {
		coursePoints, err = s.repo.CourseSalePoints(gctx, year)
		return err
	})
	g.Go(func() (err error) {
		membershipPoints, err = s.repo.MembershipSalePoints(gctx, year)
		return err
	})
	if err := g.Wait(); err != nil {
		logger.WithLogger(ctx, s.logger).Error("Failed to load dashboard metrics", zap.Error(err))
		return nil, shared.NewQueryError(err)
	}

	return &report.DashboardMetrics{
		Year:                   now.Year(),
		TotalStudents:          counts.Students,
		TotalInstructors:       counts.Instructors,
		TotalCourses:           counts.Courses,
		TotalOrders:            courses.Count,
		TotalCourseRevenue:     courses.Revenue,
		TotalAdminRevenue:      courses.AdminShare,
		TotalMembershipRevenue: memberships.Revenue,
		TotalMembershipSales:   memberships.Count,
		CourseSales:            report.BucketByMonth(coursePoints, now.Year(), s.loc),
		MembershipSales:        report.BucketByMonth(membershipPoints, now.Year(), s.loc),
	}, nil
}
