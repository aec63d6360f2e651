package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"anoa.com/dispatchhub/internal/modules/monitor"
)

type HealthHandler struct {
	monitor *monitor.Monitor
}

func NewHealthHandler(m *monitor.Monitor) *HealthHandler {
	return &HealthHandler{monitor: m}
}

// Health is the liveness probe. It never touches the sampler.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// DetailedHealth reports resource usage and classifies the host.
func (h *HealthHandler) DetailedHealth(c *gin.Context) {
	metrics, err := h.monitor.Metrics(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "failed to read host metrics",
		})
		return
	}

	status := monitor.Status(metrics)
	code := http.StatusOK
	if status != monitor.StatusHealthy {
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":  status,
		"metrics": metrics,
	})
}
