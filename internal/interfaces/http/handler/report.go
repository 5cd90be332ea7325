package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/learnhub/backoffice/internal/domain/report"
	"github.com/learnhub/backoffice/internal/infrastructure/export"
	"github.com/learnhub/backoffice/internal/interfaces/http/dto"
	"github.com/learnhub/backoffice/internal/interfaces/http/middleware"
)

// ReportReader assembles on-screen reports
type ReportReader interface {
	CourseSales(ctx context.Context, filter report.Filter) (*report.Report[report.CourseSaleRow], error)
	MembershipSales(ctx context.Context, filter report.Filter) (*report.Report[report.MembershipSaleRow], error)
	StudentCourses(ctx context.Context, studentID uuid.UUID, filter report.Filter) (*report.Report[report.StudentCourseRow], error)
	StudentSlots(ctx context.Context, studentID uuid.UUID, filter report.Filter) (*report.Report[report.StudentSlotRow], error)
}

// ReportExporter renders reports into finished documents
type ReportExporter interface {
	CourseSales(ctx context.Context, filter report.Filter, format export.Format) (*export.Document, error)
	MembershipSales(ctx context.Context, filter report.Filter, format export.Format) (*export.Document, error)
	StudentCourses(ctx context.Context, studentID uuid.UUID, filter report.Filter, format export.Format) (*export.Document, error)
	StudentSlots(ctx context.Context, studentID uuid.UUID, filter report.Filter, format export.Format) (*export.Document, error)
}

// ReportHandler serves the admin and student report endpoints
type ReportHandler struct {
	BaseHandler
	reports     ReportReader
	exports     ReportExporter
	maxPageSize int
}

// NewReportHandler creates a new ReportHandler. maxPageSize caps the limit
// parameter; zero leaves it uncapped.
func NewReportHandler(reports ReportReader, exports ReportExporter, maxPageSize int) *ReportHandler {
	return &ReportHandler{
		reports:     reports,
		exports:     exports,
		maxPageSize: maxPageSize,
	}
}

// bindReportQuery binds q and applies the page size cap
func (h *ReportHandler) bindReportQuery(c *gin.Context, q *dto.ReportQuery) bool {
	if !h.BindQuery(c, q) {
		return false
	}
	return h.checkLimit(c, q.Limit)
}

func (h *ReportHandler) bindExportQuery(c *gin.Context, q *dto.ExportQuery) bool {
	if !h.BindQuery(c, q) {
		return false
	}
	return h.checkLimit(c, q.Limit)
}

func (h *ReportHandler) checkLimit(c *gin.Context, limit int) bool {
	if h.maxPageSize > 0 && limit > h.maxPageSize {
		h.ValidationError(c, "limit must be at most "+strconv.Itoa(h.maxPageSize))
		return false
	}
	return true
}

// studentID returns the authenticated student, or writes 401
func (h *ReportHandler) studentID(c *gin.Context) (uuid.UUID, bool) {
	id := middleware.GetJWTUserID(c)
	if id == uuid.Nil {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, false
	}
	return id, true
}

// CourseSales godoc
// @Summary      Course sales report
// @Description  Paid course orders in the period with their line items, admin share and revenue totals
// @Tags         admin-reports
// @Produce      json
// @Param        type query string true "Period filter" Enums(daily, weekly, monthly, yearly, custom)
// @Param        startDate query string false "Start date for custom periods (YYYY-MM-DD)"
// @Param        endDate query string false "End date for custom periods (YYYY-MM-DD)"
// @Param        page query int false "Page number" minimum(1) default(1)
// @Param        limit query int false "Page size" minimum(1) default(10)
// @Success      200 {object} dto.CourseSalesResponse
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/reports/course-sales [get]
func (h *ReportHandler) CourseSales(c *gin.Context) {
	var q dto.ReportQuery
	if !h.bindReportQuery(c, &q) {
		return
	}

	rep, err := h.reports.CourseSales(c.Request.Context(), q.Filter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCourseSalesResponse(rep))
}

// ExportCourseSales godoc
// @Summary      Export course sales report
// @Description  Download the course sales report as a spreadsheet or PDF. Without page or limit the whole period is exported
// @Tags         admin-reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet,application/pdf
// @Param        type query string true "Period filter" Enums(daily, weekly, monthly, yearly, custom)
// @Param        startDate query string false "Start date for custom periods (YYYY-MM-DD)"
// @Param        endDate query string false "End date for custom periods (YYYY-MM-DD)"
// @Param        page query int false "Page number" minimum(1) default(1)
// @Param        limit query int false "Page size" minimum(1) default(10)
// @Param        format query string true "Document format" Enums(excel, pdf)
// @Success      200 {file} binary
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/reports/course-sales/export [get]
func (h *ReportHandler) ExportCourseSales(c *gin.Context) {
	var q dto.ExportQuery
	if !h.bindExportQuery(c, &q) {
		return
	}

	doc, err := h.exports.CourseSales(c.Request.Context(), q.Filter(), q.DocumentFormat())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SendDocument(c, doc)
}

// MembershipSales godoc
// @Summary      Membership sales report
// @Description  Paid membership purchases in the period with revenue and sales count
// @Tags         admin-reports
// @Produce      json
// @Param        type query string true "Period filter" Enums(daily, weekly, monthly, yearly, custom)
// @Param        startDate query string false "Start date for custom periods (YYYY-MM-DD)"
// @Param        endDate query string false "End date for custom periods (YYYY-MM-DD)"
// @Param        page query int false "Page number" minimum(1) default(1)
// @Param        limit query int false "Page size" minimum(1) default(10)
// @Success      200 {object} dto.MembershipSalesResponse
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/reports/membership-sales [get]
func (h *ReportHandler) MembershipSales(c *gin.Context) {
	var q dto.ReportQuery
	if !h.bindReportQuery(c, &q) {
		return
	}

	rep, err := h.reports.MembershipSales(c.Request.Context(), q.Filter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewMembershipSalesResponse(rep))
}

// ExportMembershipSales godoc
// @Summary      Export membership sales report
// @Description  Download the membership sales report as a spreadsheet or PDF
// @Tags         admin-reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet,application/pdf
// @Param        type query string true "Period filter" Enums(daily, weekly, monthly, yearly, custom)
// @Param        startDate query string false "Start date for custom periods (YYYY-MM-DD)"
// @Param        endDate query string false "End date for custom periods (YYYY-MM-DD)"
// @Param        page query int false "Page number" minimum(1) default(1)
// @Param        limit query int false "Page size" minimum(1) default(10)
// @Param        format query string true "Document format" Enums(excel, pdf)
// @Success      200 {file} binary
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/reports/membership-sales/export [get]
func (h *ReportHandler) ExportMembershipSales(c *gin.Context) {
	var q dto.ExportQuery
	if !h.bindExportQuery(c, &q) {
		return
	}

	doc, err := h.exports.MembershipSales(c.Request.Context(), q.Filter(), q.DocumentFormat())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SendDocument(c, doc)
}

// StudentCourses godoc
// @Summary      My course purchases
// @Description  Course orders of the authenticated student with the total spent
// @Tags         student-reports
// @Produce      json
// @Param        type query string true "Period filter" Enums(daily, weekly, monthly, yearly, custom)
// @Param        startDate query string false "Start date for custom periods (YYYY-MM-DD)"
// @Param        endDate query string false "End date for custom periods (YYYY-MM-DD)"
// @Param        page query int false "Page number" minimum(1) default(1)
// @Param        limit query int false "Page size" minimum(1) default(10)
// @Success      200 {object} dto.StudentReportResponse[report.StudentCourseRow]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /student/reports/courses [get]
func (h *ReportHandler) StudentCourses(c *gin.Context) {
	studentID, ok := h.studentID(c)
	if !ok {
		return
	}
	var q dto.ReportQuery
	if !h.bindReportQuery(c, &q) {
		return
	}

	rep, err := h.reports.StudentCourses(c.Request.Context(), studentID, q.Filter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewStudentReportResponse(rep))
}

// ExportStudentCourses godoc
// @Summary      Export my course purchases
// @Description  Download the authenticated student's course purchases as a spreadsheet or PDF
// @Tags         student-reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet,application/pdf
// @Param        type query string true "Period filter" Enums(daily, weekly, monthly, yearly, custom)
// @Param        startDate query string false "Start date for custom periods (YYYY-MM-DD)"
// @Param        endDate query string false "End date for custom periods (YYYY-MM-DD)"
// @Param        page query int false "Page number" minimum(1) default(1)
// @Param        limit query int false "Page size" minimum(1) default(10)
// @Param        format query string true "Document format" Enums(excel, pdf)
// @Success      200 {file} binary
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /student/reports/courses/export [get]
func (h *ReportHandler) ExportStudentCourses(c *gin.Context) {
	studentID, ok := h.studentID(c)
	if !ok {
		return
	}
	var q dto.ExportQuery
	if !h.bindExportQuery(c, &q) {
		return
	}

	doc, err := h.exports.StudentCourses(c.Request.Context(), studentID, q.Filter(), q.DocumentFormat())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SendDocument(c, doc)
}

// StudentSlots godoc
// @Summary      My slot bookings
// @Description  Paid slot bookings of the authenticated student with the total spent
// @Tags         student-reports
// @Produce      json
// @Param        type query string true "Period filter" Enums(daily, weekly, monthly, yearly, custom)
// @Param        startDate query string false "Start date for custom periods (YYYY-MM-DD)"
// @Param        endDate query string false "End date for custom periods (YYYY-MM-DD)"
// @Param        page query int false "Page number" minimum(1) default(1)
// @Param        limit query int false "Page size" minimum(1) default(10)
// @Success      200 {object} dto.StudentReportResponse[report.StudentSlotRow]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /student/reports/slots [get]
func (h *ReportHandler) StudentSlots(c *gin.Context) {
	studentID, ok := h.studentID(c)
	if !ok {
		return
	}
	var q dto.ReportQuery
	if !h.bindReportQuery(c, &q) {
		return
	}

	rep, err := h.reports.StudentSlots(c.Request.Context(), studentID, q.Filter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewStudentReportResponse(rep))
}

// ExportStudentSlots godoc
// @Summary      Export my slot bookings
// @Description  Download the authenticated student's slot bookings as a spreadsheet or PDF
// @Tags         student-reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet,application/pdf
// @Param        type query string true "Period filter" Enums(daily, weekly, monthly, yearly, custom)
// @Param        startDate query string false "Start date for custom periods (YYYY-MM-DD)"
// @Param        endDate query string false "End date for custom periods (YYYY-MM-DD)"
// @Param        page query int false "Page number" minimum(1) default(1)
// @Param        limit query int false "Page size" minimum(1) default(10)
// @Param        format query string true "Document format" Enums(excel, pdf)
// @Success      200 {file} binary
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /student/reports/slots/export [get]
func (h *ReportHandler) ExportStudentSlots(c *gin.Context) {
	studentID, ok := h.studentID(c)
	if !ok {
		return
	}
	var q dto.ExportQuery
	if !h.bindExportQuery(c, &q) {
		return
	}

	doc, err := h.exports.StudentSlots(c.Request.Context(), studentID, q.Filter(), q.DocumentFormat())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SendDocument(c, doc)
}
