package controller

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"retail_sync_v1_202608/internal/service"

	"github.com/gin-gonic/gin"
)

// 一轮同步的最长预算，超时后已提交的部分保留，下一轮补齐
const syncBudget = 60 * time.Second

// SyncController 同步控制器
type SyncController struct {
	syncSvc *service.SyncService
}

// NewSyncController 创建同步控制器
func NewSyncController(syncSvc *service.SyncService) *SyncController {
	return &SyncController{syncSvc: syncSvc}
}

// ==================== Handler 实现 ====================

// TriggerSync 触发一轮完整 B2B 同步
// @Summary 手动触发 B2B 全门市同步
// @Tags Sync
// @Success 200 {object} map[string]interface{}
// @Failure 429 {object} map[string]interface{} "限流中"
// @Router /api/v1/sync/b2b [post]
func (c *SyncController) TriggerSync(ctx *gin.Context) {
	runCtx, cancel := context.WithTimeout(ctx.Request.Context(), syncBudget)
	defer cancel()

	run, err := c.syncSvc.SyncAll(runCtx)
	if err != nil {
		respondError(ctx, http.StatusInternalServerError, err)
		return
	}

	respondOK(ctx, run)
}

// PushBatch 接收外部系统推送的预抓取批次
// @Summary 推送式同步 (静态共享密钥鉴权)
// @Tags Sync
// @Param batch body service.PushedBatch true "预抓取批次"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/v1/sync/push [post]
func (c *SyncController) PushBatch(ctx *gin.Context) {
	var batch service.PushedBatch
	if err := ctx.ShouldBindJSON(&batch); err != nil {
		respondError(ctx, http.StatusBadRequest, err)
		return
	}

	run, err := c.syncSvc.SyncPushedBatch(ctx.Request.Context(), &batch)
	if err != nil {
		respondError(ctx, http.StatusInternalServerError, err)
		return
	}

	respondOK(ctx, run)
}

// ListRuns 查询同步历史
// @Summary 同步执行记录列表
// @Tags Sync
// @Param type query string false "同步类型 (b2b_pull / b2b_push)"
// @Param limit query int false "笔数上限"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/sync/runs [get]
func (c *SyncController) ListRuns(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.Query("limit"))

	runs, err := c.syncSvc.ListRuns(ctx.Request.Context(), ctx.Query("type"), limit)
	if err != nil {
		respondError(ctx, http.StatusInternalServerError, err)
		return
	}

	respondOK(ctx, runs)
}
