package dto

import (
	"strings"

	"github.com/learnhub/backoffice/internal/domain/report"
	"github.com/learnhub/backoffice/internal/infrastructure/export"
	"github.com/shopspring/decimal"
)

// ReportQuery are the query parameters shared by every report endpoint
type ReportQuery struct {
	Type      string `form:"type" binding:"required,report_type"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	Limit     int    `form:"limit" binding:"omitempty,min=1"`
}

// Filter converts the query into the report filter. Type has already been
// checked by the report_type tag.
func (q ReportQuery) Filter() report.Filter {
	return report.Filter{
		Type:      report.FilterType(strings.ToLower(strings.TrimSpace(q.Type))),
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		Pagination: report.Pagination{
			Page:  q.Page,
			Limit: q.Limit,
		},
	}
}

// ExportQuery adds the document format to a report query
type ExportQuery struct {
	ReportQuery
	Format string `form:"format" binding:"required,export_format"`
}

// DocumentFormat returns the requested format. Format has already been
// checked by the export_format tag.
func (q ExportQuery) DocumentFormat() export.Format {
	f, _ := export.ParseFormat(q.Format)
	return f
}

// DashboardQuery controls dashboard caching
type DashboardQuery struct {
	// Refresh bypasses the cached metrics
	Refresh bool `form:"refresh"`
}

// PageInfo is the pagination block of every report response
type PageInfo struct {
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
}

func pageInfo(t report.Totals) PageInfo {
	return PageInfo{
		TotalItems:  t.TotalItems,
		TotalPages:  t.TotalPages,
		CurrentPage: t.CurrentPage,
	}
}

// CourseSalesResponse is the admin course sales report
type CourseSalesResponse struct {
	Success      bool                   `json:"success"`
	Data         []report.CourseSaleRow `json:"data"`
	AdminShare   decimal.Decimal        `json:"adminShare"`
	TotalRevenue decimal.Decimal        `json:"totalRevenue"`
	PageInfo
}

// NewCourseSalesResponse creates the response for rep
func NewCourseSalesResponse(rep *report.Report[report.CourseSaleRow]) CourseSalesResponse {
	return CourseSalesResponse{
		Success:      true,
		Data:         rep.Items,
		AdminShare:   rep.Totals.TotalAdminShare,
		TotalRevenue: rep.Totals.TotalRevenue,
		PageInfo:     pageInfo(rep.Totals),
	}
}

// MembershipSalesResponse is the admin membership sales report
type MembershipSalesResponse struct {
	Success      bool                       `json:"success"`
	Data         []report.MembershipSaleRow `json:"data"`
	TotalRevenue decimal.Decimal            `json:"totalRevenue"`
	TotalSales   int64                      `json:"totalSales"`
	PageInfo
}

// NewMembershipSalesResponse creates the response for rep
func NewMembershipSalesResponse(rep *report.Report[report.MembershipSaleRow]) MembershipSalesResponse {
	return MembershipSalesResponse{
		Success:      true,
		Data:         rep.Items,
		TotalRevenue: rep.Totals.TotalRevenue,
		TotalSales:   rep.Totals.TotalSales,
		PageInfo:     pageInfo(rep.Totals),
	}
}

// StudentReportResponse is a student's own course or slot report
type StudentReportResponse[T any] struct {
	Success    bool            `json:"success"`
	Data       []T             `json:"data"`
	TotalSpent decimal.Decimal `json:"totalSpent"`
	PageInfo
}

// NewStudentReportResponse creates the response for rep
func NewStudentReportResponse[T any](rep *report.Report[T]) StudentReportResponse[T] {
	return StudentReportResponse[T]{
		Success:    true,
		Data:       rep.Items,
		TotalSpent: rep.Totals.TotalRevenue,
		PageInfo:   pageInfo(rep.Totals),
	}
}
