package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/learnhub/backoffice/internal/domain/report"
	"github.com/learnhub/backoffice/internal/domain/shared"
	"github.com/learnhub/backoffice/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockDashboard struct {
	mock.Mock
}

func (m *mockDashboard) Metrics(ctx context.Context, refresh bool) (*report.DashboardMetrics, error) {
	args := m.Called(ctx, refresh)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.DashboardMetrics), args.Error(1)
}

func newDashboardRouter(h *DashboardHandler) *gin.Engine {
	r := gin.New()
	r.GET("/admin/dashboard", h.Metrics)
	return r
}

func TestDashboardHandler_Metrics(t *testing.T) {
	svc := new(mockDashboard)
	r := newDashboardRouter(NewDashboardHandler(svc))

	metrics := &report.DashboardMetrics{
		Year:               2024,
		TotalStudents:      120,
		TotalCourseRevenue: d("45000"),
	}
	svc.On("Metrics", mock.Anything, false).Return(metrics, nil).Once()
	svc.On("Metrics", mock.Anything, true).Return(metrics, nil).Once()

	w := get(r, "/admin/dashboard")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `true`, jsonField(t, w, "success"))
	assert.Contains(t, jsonField(t, w, "data"), `"totalStudents":120`)

	w = get(r, "/admin/dashboard?refresh=true")
	require.Equal(t, http.StatusOK, w.Code)

	svc.AssertExpectations(t)
}

func TestDashboardHandler_Errors(t *testing.T) {
	t.Run("bad refresh flag", func(t *testing.T) {
		svc := new(mockDashboard)
		w := get(newDashboardRouter(NewDashboardHandler(svc)), "/admin/dashboard?refresh=maybe")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, svc.Calls)
	})

	t.Run("query failure", func(t *testing.T) {
		svc := new(mockDashboard)
		svc.On("Metrics", mock.Anything, false).Return(nil, shared.NewQueryError(errors.New("timeout")))

		w := get(newDashboardRouter(NewDashboardHandler(svc)), "/admin/dashboard")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, dto.ErrCodeQueryFailed, decodeError(t, w).Code)
	})
}
