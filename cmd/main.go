package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"retail_sync_v1_202608/internal/config"
	"retail_sync_v1_202608/internal/controller"
	"retail_sync_v1_202608/internal/model"
	"retail_sync_v1_202608/internal/repository"
	"retail_sync_v1_202608/internal/router"
	"retail_sync_v1_202608/internal/service"
	"retail_sync_v1_202608/internal/task"
	"retail_sync_v1_202608/pkg/database"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func main() {
	// 1. 加载配置
	cfg := config.Load()

	// 2. 初始化数据库
	db := initDatabase(cfg)

	// 3. 初始化依赖
	deps := initDependencies(cfg, db)

	// 4. 种子门市资料
	seedStores(cfg, deps.Repos.Store)

	// 5. 启动定时任务
	initTasks(cfg, deps)

	// 6. 初始化路由
	r := router.SetupRouter(cfg, deps.Controllers)

	// 7. 启动服务
	startServer(cfg, r)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Services    *Services
	Controllers *router.Controllers
}

// Repositories 仓库集合
type Repositories struct {
	Store    repository.StoreRepository
	Shipment repository.ShipmentRepository
	Order    repository.OrderRepository
	SyncRun  repository.SyncRunRepository
	Product  repository.ProductRepository
}

// Services 服务集合
type Services struct {
	Erp       *service.ErpService
	B2BAuth   *service.B2BAuthService
	B2BClient *service.B2BClientService
	Notify    *service.NotifyService
	Sync      *service.SyncService
	Match     *service.MatchService
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库
func initDatabase(cfg *config.Config) *gorm.DB {
	return database.InitDB(cfg.DatabaseDSN,
		// Store
		&model.Store{},
		// B2B
		&model.B2BShipment{}, &model.B2BOrder{}, &model.SyncRun{},
		// Product
		&model.Product{}, &model.StockLevel{},
	)
}

// initDependencies 初始化所有依赖
func initDependencies(cfg *config.Config, db *gorm.DB) *Dependencies {
	// -------- Repo 层 --------
	repos := initRepositories(db)

	// -------- 外部系统客户端 --------
	erpSvc := service.NewErpService(cfg.Erp)
	authSvc := service.NewB2BAuthService(cfg.B2B)
	clientSvc := service.NewB2BClientService(cfg.B2B, repos.Store)
	notifySvc := service.NewNotifyService(cfg.Notify)

	// -------- 业务服务 --------
	services := &Services{
		Erp:       erpSvc,
		B2BAuth:   authSvc,
		B2BClient: clientSvc,
		Notify:    notifySvc,
	}

	services.Sync = service.NewSyncService(
		repos.Shipment, repos.Order, repos.SyncRun,
		authSvc, clientSvc, notifySvc, cfg.Notify.Recipients,
	)
	services.Match = service.NewMatchService(
		repos.Product, repos.Shipment, authSvc, clientSvc,
	)

	// -------- Controller 层 --------
	controllers := initControllers(services, repos)

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Services:    services,
		Controllers: controllers,
	}
}

// initRepositories 初始化所有仓库
func initRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Store:    repository.NewStoreRepository(db),
		Shipment: repository.NewShipmentRepository(db),
		Order:    repository.NewOrderRepository(db),
		SyncRun:  repository.NewSyncRunRepository(db),
		Product:  repository.NewProductRepository(db),
	}
}

// initControllers 初始化所有控制器
func initControllers(svc *Services, repos *Repositories) *router.Controllers {
	return &router.Controllers{
		Sync:     controller.NewSyncController(svc.Sync),
		Shipment: controller.NewShipmentController(repos.Shipment, repos.Order, svc.Match),
		Erp:      controller.NewErpController(svc.Erp),
	}
}

// ==================== 门市种子 ====================

// seedStores 首次启动时依配置种入门市目录
// 格式: "T01:台北門市:1,T02:台中門市:2" (代码:名称:orgId)
func seedStores(cfg *config.Config, storeRepo repository.StoreRepository) {
	if cfg.StoreSeed == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := storeRepo.Count(ctx)
	if err != nil {
		log.Printf("警告: 门市数量查询失败，跳过种子: %v", err)
		return
	}
	if count > 0 {
		return
	}

	seeded := 0
	for _, entry := range strings.Split(cfg.StoreSeed, ",") {
		parts := strings.SplitN(strings.TrimSpace(entry), ":", 3)
		if len(parts) != 3 || parts[0] == "" {
			log.Printf("警告: 无效的门市种子条目，已跳过: %s", entry)
			continue
		}

		store := &model.Store{
			Code:     parts[0],
			Name:     parts[1],
			B2BOrgID: parts[2],
			Active:   true,
		}
		if err := storeRepo.Create(ctx, store); err != nil {
			log.Printf("警告: 门市 %s 种子失败: %v", store.Code, err)
			continue
		}
		seeded++
	}
	log.Printf("门市种子完成，共 %d 笔", seeded)
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务
func initTasks(cfg *config.Config, deps *Dependencies) {
	// B2B 全门市同步
	syncTask := task.NewSyncTask(deps.Services.Sync, cfg.SyncCron)
	syncTask.Start()

	log.Println("定时任务已启动")
}

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(cfg *config.Config, r *gin.Engine) {
	port := cfg.ServerPort
	if _, err := strconv.Atoi(port); err != nil {
		log.Fatalf("无效的端口配置: %s", port)
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Printf("服务启动在 :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")

	// 优雅关闭，最多等待 30 秒
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务强制关闭: %v", err)
	}

	log.Println("服务已退出")
}
