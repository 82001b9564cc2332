package endpoint

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/speakeralign/component"
)

// StatusOK is reported when every component is healthy.
const StatusOK = "ok"

// HealthChecker returns health status for registered components.
type HealthChecker func(ctx context.Context) []component.Health

// Health returns a handler reporting {"status": "ok"} plus component
// statuses. An unhealthy component turns the answer into a 503.
func Health(serviceName string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		components := []component.Health{}
		if checker != nil {
			if got := checker(c.Request.Context()); got != nil {
				components = got
			}
		}

		overall := component.Overall(components)
		status := StatusOK
		if overall != component.StatusHealthy {
			status = string(overall)
		}

		httpStatus := http.StatusOK
		if overall == component.StatusUnhealthy {
			httpStatus = http.StatusServiceUnavailable
		}

		c.JSON(httpStatus, gin.H{
			"status":     status,
			"service":    serviceName,
			"components": components,
		})
	}
}
