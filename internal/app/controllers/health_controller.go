package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yigit/erpconsole/internal/pkg/apperrors"
)

// HealthChecker reports backend reachability
type HealthChecker interface {
	Health(ctx context.Context) (string, error)
}

// HealthController serves the liveness endpoint
type HealthController struct {
	checker HealthChecker
}

// NewHealthController creates a new HealthController
func NewHealthController(checker HealthChecker) *HealthController {
	return &HealthController{checker: checker}
}

// Health reports whether the backend answers
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{} "Backend reachable"
// @Failure 503 {object} map[string]interface{} "Backend unreachable"
// @Router /healthz [get]
func (hc *HealthController) Health(ctx *gin.Context) {
	banner, err := hc.checker.Health(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "degraded",
			"error":     apperrors.Classify(err),
			"timestamp": time.Now(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"backend":   banner,
		"timestamp": time.Now(),
	})
}
