package endpoint

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/slideshow/component"
)

// Readiness answers 503 while any component is unhealthy.
func Readiness(checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if checker != nil {
			for _, h := range checker(c.Request.Context()) {
				if h.Status == component.StatusUnhealthy {
					c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "component": h.Name, "message": h.Message})
					return
				}
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
