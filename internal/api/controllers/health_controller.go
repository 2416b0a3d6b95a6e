package controllers

import (
	"context"
	"net/http"
	"time"

	"aitravel/pkg/logger"
	"aitravel/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Pinger is anything the health check can probe besides the database.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	db     *gorm.DB
	extras map[string]Pinger
}

func NewHealthController(db *gorm.DB, extras map[string]Pinger) *HealthController {
	return &HealthController{db: db, extras: extras}
}

// Health godoc
// @Summary Liveness and dependency check
// @Tags Health
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 503 {object} utils.APIResponse
// @Router /health [get]
func (h *HealthController) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{"database": "ok"}
	healthy := true

	if err := h.pingDB(ctx); err != nil {
		logger.Log.Warnw("health check failed", "dependency", "database", "error", err)
		checks["database"] = "unavailable"
		healthy = false
	}
	for name, p := range h.extras {
		checks[name] = "ok"
		if err := p.Ping(ctx); err != nil {
			logger.Log.Warnw("health check failed", "dependency", name, "error", err)
			checks[name] = "unavailable"
			healthy = false
		}
	}

	if !healthy {
		c.JSON(http.StatusServiceUnavailable, utils.APIResponse{
			Success: false,
			Data:    checks,
			Error:   "Service unavailable",
		})
		return
	}
	utils.RespondSuccess(c, checks, "ok")
}

func (h *HealthController) pingDB(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
