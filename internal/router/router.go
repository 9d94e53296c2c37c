package router

import (
	"net/http"
	"time"

	"retail_sync_v1_202608/internal/config"
	"retail_sync_v1_202608/internal/controller"
	"retail_sync_v1_202608/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "retail_sync_v1_202608/docs"
)

// Controllers 控制器集合
type Controllers struct {
	Sync     *controller.SyncController
	Shipment *controller.ShipmentController
	Erp      *controller.ErpController
}

// SetupRouter 注册所有路由
func SetupRouter(cfg *config.Config, ctls *Controllers) *gin.Engine {
	r := gin.Default()

	// 1. 健康检查 & 指标
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 2. Swagger 文档路由
	// 访问 http://localhost:8080/swagger/index.html 即可查看
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 3. API 路由组
	api := r.Group("/api/v1")
	{
		// sync 同步组
		sync := api.Group("/sync")
		{
			// POST /api/v1/sync/b2b
			// 手动触发有冷却期，排程任务不走 HTTP 不受限
			sync.POST("/b2b", middleware.SyncRateLimit(time.Minute), ctls.Sync.TriggerSync)

			// POST /api/v1/sync/push
			// 外部系统推送预抓取批次，静态共享密钥鉴权
			sync.POST("/push", middleware.PushAuth(cfg.PushSyncSecret), ctls.Sync.PushBatch)

			// GET /api/v1/sync/runs
			sync.GET("/runs", ctls.Sync.ListRuns)
		}

		// shipment 出货单 / 订单查询
		api.GET("/shipments", ctls.Shipment.ListShipments)
		api.GET("/orders", ctls.Shipment.ListOrders)
		api.GET("/shipments/:shipment_no/match", ctls.Shipment.MatchShipment)

		// erp 旧 ERP 操作组
		erp := api.Group("/erp")
		{
			// GET /api/v1/erp/members?phone=
			erp.GET("/members", ctls.Erp.LookupMember)

			// POST /api/v1/erp/repairs
			erp.POST("/repairs", ctls.Erp.CreateRepair)
		}
	}

	return r
}
