package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/commercekit/server/internal/shared/metrics"
)

// Metrics returns a middleware that records request counts, latency
// and in-flight gauge. The route pattern is used as the path label so
// parameterized routes do not explode cardinality.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		m.HTTPRequestsInFlight.Inc()
		start := time.Now()
		c.Next()
		m.HTTPRequestsInFlight.Dec()

		m.RecordHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
