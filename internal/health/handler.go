package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Probe paths.
const (
	LivenessPath  = "/healthz"
	ReadinessPath = "/readyz"
)

// LivenessHandler returns a handler for liveness probes.
func (c *Checker) LivenessHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, c.Health())
	}
}

// ReadinessHandler returns a handler for readiness probes. Unhealthy
// services answer 503; degraded services still answer 200.
func (c *Checker) ReadinessHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		response := c.Readiness()

		statusCode := http.StatusOK
		if response.Status == StatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}
		ctx.JSON(statusCode, response)
	}
}

// RegisterRoutes registers the probe routes on a Gin engine.
func (c *Checker) RegisterRoutes(engine *gin.Engine) {
	engine.GET(LivenessPath, c.LivenessHandler())
	engine.GET(ReadinessPath, c.ReadinessHandler())
}
