package telemetry

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportMetrics_ObserveBuild(t *testing.T) {
	m := NewReportMetrics()

	m.ObserveBuild("course_sales", 120*time.Millisecond, nil)
	m.ObserveBuild("course_sales", 80*time.Millisecond, nil)
	m.ObserveBuild("course_sales", 10*time.Millisecond, errors.New("db down"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.builds.WithLabelValues("course_sales", StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.builds.WithLabelValues("course_sales", StatusError)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.buildDuration))
}

func TestReportMetrics_ObserveExportAndCache(t *testing.T) {
	m := NewReportMetrics()

	m.ObserveExport("membership_sales", "pdf", nil)
	m.ObserveExport("membership_sales", "excel", errors.New("render"))
	m.ObserveCache(true)
	m.ObserveCache(false)
	m.ObserveCache(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.exports.WithLabelValues("membership_sales", "pdf", StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.exports.WithLabelValues("membership_sales", "excel", StatusError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("miss")))
}

func TestReportMetrics_ObserveRequest(t *testing.T) {
	m := NewReportMetrics()

	m.ObserveRequest(http.MethodGet, "/api/v1/admin/dashboard", http.StatusOK, 20*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/api/v1/admin/dashboard", http.StatusOK, 30*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/api/v1/admin/dashboard", http.StatusInternalServerError, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/v1/admin/dashboard", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/v1/admin/dashboard", "500")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.latency))
}

func TestReportMetrics_NilReceiver(t *testing.T) {
	var m *ReportMetrics

	assert.NotPanics(t, func() {
		m.ObserveBuild("course_sales", time.Second, nil)
		m.ObserveExport("course_sales", "pdf", nil)
		m.ObserveCache(true)
	})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestReportMetrics_Handler(t *testing.T) {
	m := NewReportMetrics()
	m.ObserveBuild("student_slots", time.Millisecond, nil)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `learnhub_report_builds_total{kind="student_slots",status="success"} 1`)
	assert.Contains(t, string(body), "learnhub_report_build_duration_seconds_bucket")
}

func TestReportMetrics_RegisterDB(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m := NewReportMetrics()
	require.NoError(t, m.RegisterDB(db, "learnhub"))
	assert.Error(t, m.RegisterDB(db, "learnhub"), "duplicate collectors are rejected")

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	found := false
	for _, f := range families {
		if strings.HasPrefix(f.GetName(), "go_sql_") {
			found = true
		}
	}
	assert.True(t, found)

	var nilMetrics *ReportMetrics
	assert.NoError(t, nilMetrics.RegisterDB(db, "learnhub"))
}
