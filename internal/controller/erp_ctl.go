package controller

import (
	"errors"
	"net/http"

	"retail_sync_v1_202608/internal/service"

	"github.com/gin-gonic/gin"
)

// ErpController 旧 ERP 操作控制器
type ErpController struct {
	erpSvc *service.ErpService
}

// NewErpController 创建 ERP 控制器
func NewErpController(erpSvc *service.ErpService) *ErpController {
	return &ErpController{erpSvc: erpSvc}
}

// ==================== Handler 实现 ====================

// LookupMember 依电话查询会员
// @Summary ERP 会员查询
// @Tags ERP
// @Param phone query string true "会员电话"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/erp/members [get]
func (c *ErpController) LookupMember(ctx *gin.Context) {
	phone := ctx.Query("phone")
	if phone == "" {
		respondError(ctx, http.StatusBadRequest, errors.New("缺少 phone 参数"))
		return
	}

	member, err := c.erpSvc.LookupMember(ctx.Request.Context(), phone)
	if err != nil {
		respondError(ctx, erpErrorStatus(err), err)
		return
	}

	// 查无会员是正常结果
	respondOK(ctx, gin.H{
		"found":  member != nil,
		"member": member,
	})
}

// CreateRepair 在 ERP 建立维修单
// @Summary ERP 维修单建立
// @Tags ERP
// @Param request body service.RepairOrderRequest true "维修单内容"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/erp/repairs [post]
func (c *ErpController) CreateRepair(ctx *gin.Context) {
	var req service.RepairOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, err)
		return
	}

	orderNo, outcome, err := c.erpSvc.CreateRepairOrder(ctx.Request.Context(), &req)
	if err != nil {
		respondError(ctx, erpErrorStatus(err), err)
		return
	}

	// ERP 没有结构化成功回传，outcome 三态原样交给前台决策
	respondOK(ctx, gin.H{
		"order_no": orderNo,
		"outcome":  outcome.String(),
	})
}

// erpErrorStatus 把 ERP 错误映射到 HTTP 状态
func erpErrorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrErpNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, service.ErrErpUnavailable), errors.Is(err, service.ErrErpSessionRejected):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
