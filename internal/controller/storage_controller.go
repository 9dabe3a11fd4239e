package controller

import (
	"net/http"

	"brainbee_backend/internal/config"
	"brainbee_backend/internal/store"
	"brainbee_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// StorageController exposes the store diagnostic and the retention
// maintenance trigger.
type StorageController struct {
	store *store.ResilientStore
	cfg   *config.Config
}

func NewStorageController(st *store.ResilientStore, cfg *config.Config) *StorageController {
	return &StorageController{store: st, cfg: cfg}
}

// @Summary 存储状态
// @Description 本地与远端存储的会话数量和可用性
// @Produce json
// @Router /storage_status [get]
func (c *StorageController) StorageStatus(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.store.Status(ctx.Request.Context()))
}

// @Summary 清理过期记录
// @Description 删除超过保留窗口的远端会话与反馈对象
// @Produce json
// @Router /cleanup [post]
func (c *StorageController) Cleanup(ctx *gin.Context) {
	deleted, err := c.store.Cleanup(ctx.Request.Context(), c.cfg.Session.Retention())
	if err != nil {
		util.ClientError(ctx, http.StatusBadGateway, "cleanup incomplete: remote store unavailable")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
