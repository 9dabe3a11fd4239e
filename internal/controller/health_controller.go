package controller

import (
	"brainbee_backend/internal/store"
	"brainbee_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	store *store.ResilientStore
}

func NewHealthController(st *store.ResilientStore) *HealthController {
	return &HealthController{store: st}
}

// @Summary 健康检查
// @Description 检查服务与存储状态；远端不可用不算不健康，只是降级
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	status := c.store.Status(ctx.Request.Context())

	remote := "disabled"
	if status.RemoteEnabled {
		remote = "down"
		if status.RemoteAvailable {
			remote = "up"
		}
	}

	util.Success(ctx, gin.H{
		"status": "ok",
		"components": gin.H{
			"remote_store":   remote,
			"fallback_store": status.FallbackType,
		},
	})
}
