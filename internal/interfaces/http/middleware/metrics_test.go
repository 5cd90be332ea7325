package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type observed struct {
	method string
	route  string
	code   int
}

type recordingObserver struct {
	mu    sync.Mutex
	calls []observed
}

func (r *recordingObserver) ObserveRequest(method, route string, code int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, observed{method, route, code})
}

func TestHTTPMetrics(t *testing.T) {
	obs := &recordingObserver{}
	router := gin.New()
	router.Use(HTTPMetrics(obs))
	router.GET("/reports/:kind", func(c *gin.Context) { c.Status(http.StatusAccepted) })

	for _, path := range []string{"/reports/course-sales", "/nope"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	require.Len(t, obs.calls, 2)
	assert.Equal(t, observed{"GET", "/reports/:kind", http.StatusAccepted}, obs.calls[0])
	assert.Equal(t, observed{"GET", unmatchedRoute, http.StatusNotFound}, obs.calls[1])
}
