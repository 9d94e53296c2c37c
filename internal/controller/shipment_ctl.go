package controller

import (
	"errors"
	"net/http"
	"strconv"

	"retail_sync_v1_202608/internal/repository"
	"retail_sync_v1_202608/internal/service"

	"github.com/gin-gonic/gin"
)

// ShipmentController 出货单控制器
type ShipmentController struct {
	shipmentRepo repository.ShipmentRepository
	orderRepo    repository.OrderRepository
	matchSvc     *service.MatchService
}

// NewShipmentController 创建出货单控制器
func NewShipmentController(
	shipmentRepo repository.ShipmentRepository,
	orderRepo repository.OrderRepository,
	matchSvc *service.MatchService,
) *ShipmentController {
	return &ShipmentController{
		shipmentRepo: shipmentRepo,
		orderRepo:    orderRepo,
		matchSvc:     matchSvc,
	}
}

// ==================== Handler 实现 ====================

// ListShipments 查询已同步的出货单
// @Summary 出货单列表
// @Tags Shipment
// @Param store query string false "门市代码"
// @Param limit query int false "笔数上限"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/shipments [get]
func (c *ShipmentController) ListShipments(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.Query("limit"))

	shipments, err := c.shipmentRepo.List(ctx.Request.Context(), ctx.Query("store"), limit)
	if err != nil {
		respondError(ctx, http.StatusInternalServerError, err)
		return
	}

	respondOK(ctx, shipments)
}

// ListOrders 查询已同步的订单
// @Summary 订单列表
// @Tags Shipment
// @Param store query string false "门市代码"
// @Param limit query int false "笔数上限"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/orders [get]
func (c *ShipmentController) ListOrders(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.Query("limit"))

	orders, err := c.orderRepo.List(ctx.Request.Context(), ctx.Query("store"), limit)
	if err != nil {
		respondError(ctx, http.StatusInternalServerError, err)
		return
	}

	respondOK(ctx, orders)
}

// MatchShipment 对单一出货单执行商品比对
// @Summary 出货单逐行商品比对
// @Tags Shipment
// @Param shipment_no path string true "出货单号"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/shipments/{shipment_no}/match [get]
func (c *ShipmentController) MatchShipment(ctx *gin.Context) {
	shipmentNo := ctx.Param("shipment_no")

	result, err := c.matchSvc.MatchShipment(ctx.Request.Context(), shipmentNo)
	if err != nil {
		if errors.Is(err, service.ErrShipmentNotFound) {
			respondError(ctx, http.StatusNotFound, err)
			return
		}
		respondError(ctx, http.StatusInternalServerError, err)
		return
	}

	respondOK(ctx, result)
}
