package handlers

import (
	"os"
	"time"

	"github.com/AkarshanGhosh/Rail-Web-Server/pkg/database"
	"github.com/AkarshanGhosh/Rail-Web-Server/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/process"
)

// HealthHandler serves the liveness endpoint.
type HealthHandler struct {
	startedAt time.Time
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{startedAt: time.Now()}
}

// CheckHealth godoc
// @Summary      Health check
// @Description  Returns service status, uptime and process memory usage
// @Tags         system
// @Produce      json
// @Success      200  {object}  utils.Response
// @Router       /health [get]
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	status := map[string]interface{}{
		"status":    "up",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "Rail Web Server",
		"version":   "1.0.0",
		"uptime":    int(time.Since(h.startedAt).Seconds()),
	}

	status["database"] = "connected"
	if db := database.GetDB(); db != nil {
		if sqlDB, err := db.DB(); err != nil || sqlDB.Ping() != nil {
			status["database"] = "disconnected"
		}
	} else {
		status["database"] = "disconnected"
	}

	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mem, err := proc.MemoryInfo(); err == nil {
			status["memory"] = map[string]interface{}{
				"rss_mb": mem.RSS / 1024 / 1024,
				"vms_mb": mem.VMS / 1024 / 1024,
			}
		}
	}

	utils.Success(c, status)
}
