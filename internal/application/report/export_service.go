package report

import (
	"context"

	"github.com/google/uuid"
	"github.com/learnhub/backoffice/internal/domain/report"
	"github.com/learnhub/backoffice/internal/domain/shared"
	"github.com/learnhub/backoffice/internal/infrastructure/export"
	"github.com/learnhub/backoffice/internal/infrastructure/logger"
	"github.com/learnhub/backoffice/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// DocumentRenderer produces export documents for each report kind
type DocumentRenderer interface {
	CourseSales(rep *report.Report[report.CourseSaleRow], format export.Format) (*export.Document, error)
	MembershipSales(rep *report.Report[report.MembershipSaleRow], format export.Format) (*export.Document, error)
	StudentCourses(rep *report.Report[report.StudentCourseRow], format export.Format) (*export.Document, error)
	StudentSlots(rep *report.Report[report.StudentSlotRow], format export.Format) (*export.Document, error)
}

// ExportService builds a report and renders it into a complete document.
// Nothing is returned until the document is finished, so a failed render
// never leaves a half-written download.
type ExportService struct {
	reports  *ReportService
	renderer DocumentRenderer
	opts     options
	logger   *zap.Logger
}

// NewExportService creates a new ExportService
func NewExportService(reports *ReportService, renderer DocumentRenderer, logger *zap.Logger, opts ...Option) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		reports:  reports,
		renderer: renderer,
		opts:     buildOptions(opts),
		logger:   logger,
	}
}

// exportReport validates rows, renders and records the outcome
func exportReport[T any](
	ctx context.Context,
	s *ExportService,
	rep *report.Report[T],
	format export.Format,
	validate func(T) error,
	render func(*report.Report[T], export.Format) (*export.Document, error),
) (*export.Document, error) {
	_, span := telemetry.StartServiceSpan(ctx, "report", "render",
		telemetry.WithAttribute(telemetry.SpanAttrReportKind, string(rep.Kind)),
		telemetry.WithAttribute(telemetry.SpanAttrFormat, string(format)))
	defer span.End()

	fail := func(err error) (*export.Document, error) {
		telemetry.RecordError(span, err)
		s.opts.metrics.ObserveExport(string(rep.Kind), string(format), err)
		logger.WithLogger(ctx, s.logger).Error("Failed to render report",
			zap.String("kind", string(rep.Kind)),
			zap.String("format", string(format)),
			zap.Error(err),
		)
		return nil, shared.NewRenderError(err)
	}

	if validate != nil {
		for _, row := range rep.Items {
			if err := validate(row); err != nil {
				return fail(err)
			}
		}
	}

	doc, err := render(rep, format)
	if err != nil {
		return fail(err)
	}

	s.opts.metrics.ObserveExport(string(rep.Kind), string(format), nil)
	telemetry.SetAttributes(span, telemetry.SpanAttrDocumentLen, doc.Size())
	telemetry.SetOK(span)
	logger.WithLogger(ctx, s.logger).Info("Report exported",
		zap.String("kind", string(rep.Kind)),
		zap.String("format", string(format)),
		zap.String("filename", doc.Filename),
		zap.Int("bytes", doc.Size()),
	)
	return doc, nil
}

func checkFormat(format export.Format) error {
	if !format.IsValid() {
		return shared.NewValidationError("Invalid export format")
	}
	return nil
}

// CourseSales exports the course sales report
func (s *ExportService) CourseSales(ctx context.Context, filter report.Filter, format export.Format) (*export.Document, error) {
	if err := checkFormat(format); err != nil {
		return nil, err
	}
	rep, err := s.reports.courseSales(ctx, filter, forExport)
	if err != nil {
		return nil, err
	}
	return exportReport(ctx, s, rep, format, report.CourseSaleRow.Validate, s.renderer.CourseSales)
}

// MembershipSales exports the membership sales report
func (s *ExportService) MembershipSales(ctx context.Context, filter report.Filter, format export.Format) (*export.Document, error) {
	if err := checkFormat(format); err != nil {
		return nil, err
	}
	rep, err := s.reports.membershipSales(ctx, filter, forExport)
	if err != nil {
		return nil, err
	}
	return exportReport(ctx, s, rep, format, nil, s.renderer.MembershipSales)
}

// StudentCourses exports a student's course purchases
func (s *ExportService) StudentCourses(ctx context.Context, studentID uuid.UUID, filter report.Filter, format export.Format) (*export.Document, error) {
	if err := checkFormat(format); err != nil {
		return nil, err
	}
	rep, err := s.reports.studentCourses(ctx, studentID, filter, forExport)
	if err != nil {
		return nil, err
	}
	return exportReport(ctx, s, rep, format, report.StudentCourseRow.Validate, s.renderer.StudentCourses)
}

// StudentSlots exports a student's slot bookings
func (s *ExportService) StudentSlots(ctx context.Context, studentID uuid.UUID, filter report.Filter, format export.Format) (*export.Document, error) {
	if err := checkFormat(format); err != nil {
		return nil, err
	}
	rep, err := s.reports.studentSlots(ctx, studentID, filter, forExport)
	if err != nil {
		return nil, err
	}
	return exportReport(ctx, s, rep, format, nil, s.renderer.StudentSlots)
}
