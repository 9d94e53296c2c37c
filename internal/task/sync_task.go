package task

import (
	"context"
	"log"
	"time"

	"retail_sync_v1_202608/internal/service"

	"github.com/robfig/cron/v3"
)

// 单轮排程同步的最长预算，超时留到下一轮补齐
const syncTaskBudget = 60 * time.Second

// SyncTask B2B 全门市定时同步任务
type SyncTask struct {
	SyncService *service.SyncService
	Cron        *cron.Cron

	spec string
}

// NewSyncTask 创建定时同步任务
// spec 为 cron 表达式 (支持秒级)，默认每 30 分钟一轮
func NewSyncTask(syncService *service.SyncService, spec string) *SyncTask {
	if spec == "" {
		spec = "0 */30 * * * *"
	}
	return &SyncTask{
		SyncService: syncService,
		Cron:        cron.New(cron.WithSeconds()), // 支持秒级控制
		spec:        spec,
	}
}

// Start 启动定时任务
func (t *SyncTask) Start() {
	// 首次执行
	go func() {
		log.Println("[Task] 服务启动，正在执行首次 B2B 同步...")
		t.runJob()
	}()

	// 定时策略
	_, err := t.Cron.AddFunc(t.spec, t.runJob)
	if err != nil {
		log.Fatalf("无法启动 B2B 同步定时任务: %v", err)
	}

	t.Cron.Start()
	log.Printf("B2B 同步任务已启动 (排程: %s)", t.spec)
}

// Stop 停止排程，等待执行中的任务结束
func (t *SyncTask) Stop() {
	<-t.Cron.Stop().Done()
}

// runJob 单轮同步
// 同步引擎自己落 SyncRun 记录并处理门市级失败，这里只管预算和日志
func (t *SyncTask) runJob() {
	ctx, cancel := context.WithTimeout(context.Background(), syncTaskBudget)
	defer cancel()

	run, err := t.SyncService.SyncAll(ctx)
	if err != nil {
		log.Printf("[Cron] 本轮 B2B 同步失败: %v", err)
		return
	}
	log.Printf("[Cron] 本轮 B2B 同步完成 trace=%s 共 %d 笔", run.TraceID, run.RecordCount)
}
