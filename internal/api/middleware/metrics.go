package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/coinfolio/coinfolio_service/pkg/metrics"
)

// Metrics records per-request Prometheus counters and latency. The
// route template is used as the endpoint label so path parameters do
// not explode cardinality.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		metrics.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
		).Inc()

		metrics.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(time.Since(start).Seconds())
	}
}
