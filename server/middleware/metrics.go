package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/slideshow/observability"
)

// Metrics records request count and duration per route template. Unmatched
// requests are grouped under "unmatched" to keep cardinality bounded.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RecordRequest(c.Request.Context(), c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
