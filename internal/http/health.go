package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	db      Pinger
	tasks   TaskQueue
	cache   CacheMaintainer
	version string
}

func NewHealthController(db Pinger, tasks TaskQueue, cache CacheMaintainer, version string) *HealthController {
	return &HealthController{
		db:      db,
		tasks:   tasks,
		cache:   cache,
		version: version,
	}
}

// Status reports 503 when the database or task queue cannot be reached.
// The cache check is informational only.
func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
	}

	if h.tasks != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		err := h.tasks.Ping(ctx)
		cancel()
		if err != nil {
			checks["tasks"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["tasks"] = "ok"
		}
	} else {
		checks["tasks"] = "disabled"
	}

	if h.cache != nil {
		stats := h.cache.Stats()
		checks["cache"] = "ok (" + strconv.Itoa(stats.ItemCount) + " items)"
	} else {
		checks["cache"] = "not configured"
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
