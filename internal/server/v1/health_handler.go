package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v4/mem"
)

// MemoryStats reports host memory. It is swapped out in tests.
type MemoryStats func(ctx context.Context) (*mem.VirtualMemoryStat, error)

type HealthHandler struct {
	startTime time.Time
	memory    MemoryStats
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		startTime: time.Now(),
		memory:    mem.VirtualMemoryWithContext,
	}
}

// Health returns the health status, uptime and host memory usage.
//
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	body := gin.H{
		"status":         "healthy",
		"uptime":         time.Since(h.startTime).Round(time.Second).String(),
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
		"time":           time.Now().UTC().Format(time.RFC3339),
	}

	// memory figures are best effort; the probe stays green without them
	if vm, err := h.memory(c.Request.Context()); err == nil {
		body["memory"] = gin.H{
			"total_bytes":     vm.Total,
			"used_bytes":      vm.Used,
			"available_bytes": vm.Available,
			"used_percent":    vm.UsedPercent,
		}
	}

	c.JSON(http.StatusOK, body)
}
