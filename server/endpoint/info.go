package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/slideshow/component"
	"github.com/kbukum/slideshow/version"
)

var startTime = time.Now()

// Describer lists the components that describe themselves.
type Describer func() []component.Description

// Info reports service identity, build information, uptime and the
// configured components.
func Info(info ServiceInfo, describer Describer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var components []gin.H
		if describer != nil {
			for _, d := range describer() {
				components = append(components, gin.H{"name": d.Name, "type": d.Type, "details": d.Details})
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"service":     info.Name,
			"version":     info.Version,
			"environment": info.Environment,
			"build":       version.Get(),
			"uptime":      time.Since(startTime).Round(time.Second).String(),
			"components":  components,
		})
	}
}
