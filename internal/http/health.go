package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pinger is the minimal database surface the health check needs.
type Pinger interface {
	Ping() error
}

type HealthController struct {
	db      Pinger
	version string
}

func NewHealthController(db Pinger, version string) *HealthController {
	return &HealthController{db: db, version: version}
}

// Status reports service and database health.
// GET /health
func (hc *HealthController) Status(c *gin.Context) {
	overall, dbStatus := "ok", "ok"
	status := http.StatusOK
	if err := hc.db.Ping(); err != nil {
		overall, dbStatus = "degraded", "unavailable"
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"status":   overall,
		"version":  hc.version,
		"database": dbStatus,
	})
}
