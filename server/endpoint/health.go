package endpoint

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/slideshow/component"
	"github.com/kbukum/slideshow/observability"
)

// HealthChecker returns health status for registered components.
type HealthChecker func(ctx context.Context) []component.Health

// ServiceInfo identifies the running service in endpoint responses.
type ServiceInfo struct {
	Name        string
	Version     string
	Environment string
}

// Health aggregates component health. Any unhealthy component makes the
// service down and the response 503; degraded components still answer 200.
func Health(info ServiceInfo, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		sh := observability.NewServiceHealth(info.Name, info.Version)
		if checker != nil {
			for _, h := range checker(c.Request.Context()) {
				sh.AddComponent(h)
			}
		}

		status := http.StatusOK
		if sh.Status == observability.HealthStatusDown {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, sh)
	}
}
