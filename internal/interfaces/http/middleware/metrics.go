package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// unmatchedRoute labels requests that hit no route, keeping label cardinality bounded
const unmatchedRoute = "unmatched"

// RequestObserver records served requests
type RequestObserver interface {
	ObserveRequest(method, route string, code int, elapsed time.Duration)
}

// HTTPMetrics records count and latency of every request by route pattern
func HTTPMetrics(observer RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		observer.ObserveRequest(c.Request.Method, getRoutePattern(c), c.Writer.Status(), time.Since(start))
	}
}

func getRoutePattern(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return unmatchedRoute
}
