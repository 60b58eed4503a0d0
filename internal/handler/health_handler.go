package handler

import (
	"context"
	"net/http"
	"time"

	"hrms-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Pinger checks connectivity to a backing store
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	pingDB Pinger
}

func NewHealthHandler(pingDB Pinger) *HealthHandler {
	return &HealthHandler{pingDB: pingDB}
}

// Health reports that the process is serving
func (h *HealthHandler) Health(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{
		"status": "ok",
		"time":   time.Now().UTC(),
	})
}

// PingDB checks the relational database
func (h *HealthHandler) PingDB(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.pingDB(ctx); err != nil {
		utils.CodedErrorResponse(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unreachable")
		return
	}
	utils.SuccessResponse(c, gin.H{"db": "ok"})
}
