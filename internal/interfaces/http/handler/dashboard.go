package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/learnhub/backoffice/internal/domain/report"
	"github.com/learnhub/backoffice/internal/interfaces/http/dto"
)

// DashboardProvider computes the admin dashboard metrics
type DashboardProvider interface {
	Metrics(ctx context.Context, refresh bool) (*report.DashboardMetrics, error)
}

// DashboardHandler serves the admin landing page metrics
type DashboardHandler struct {
	BaseHandler
	dashboard DashboardProvider
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboard DashboardProvider) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Metrics godoc
// @Summary      Admin dashboard metrics
// @Description  Platform counters and monthly course and membership sales for the current year
// @Tags         admin-dashboard
// @Produce      json
// @Param        refresh query bool false "Recompute instead of serving cached metrics"
// @Success      200 {object} dto.Response{data=report.DashboardMetrics}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/dashboard [get]
func (h *DashboardHandler) Metrics(c *gin.Context) {
	var q dto.DashboardQuery
	if !h.BindQuery(c, &q) {
		return
	}

	metrics, err := h.dashboard.Metrics(c.Request.Context(), q.Refresh)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, metrics)
}
