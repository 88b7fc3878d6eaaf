package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/youngtech-edu/records-api/internal/service"
)

// Metrics records per-request duration and counts. Routes are labeled by
// template so /graphql stays a single series regardless of the operations
// executed inside it.
func Metrics(metrics *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metrics == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
