package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SyncRunsTotal 按类型与终态统计同步执行次数
	SyncRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "retail_sync_runs_total",
		Help: "Total number of synchronization runs by type and terminal status",
	}, []string{"sync_type", "status"})

	// RecordsSynced 按记录种类统计已合并的远端记录数
	RecordsSynced = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "retail_sync_records_total",
		Help: "Total number of remote records upserted",
	}, []string{"kind"})

	// NewShipmentsObserved 首次观测到的出货单数
	NewShipmentsObserved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "retail_sync_new_shipments_total",
		Help: "Total number of shipments observed for the first time",
	})

	// NotifyFailures 通知发送失败次数 (通知失败不影响同步结果)
	NotifyFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "retail_notify_failures_total",
		Help: "Total number of failed notification deliveries",
	})

	// ErpLogins ERP 重新登入次数，异常升高代表会话失效频繁
	ErpLogins = promauto.NewCounter(prometheus.CounterOpts{
		Name: "retail_erp_logins_total",
		Help: "Total number of ERP login attempts",
	})

	// B2BTokenRenewals B2B Token 实际换发次数 (快取命中不计)
	B2BTokenRenewals = promauto.NewCounter(prometheus.CounterOpts{
		Name: "retail_b2b_token_renewals_total",
		Help: "Total number of B2B access token renewals",
	})
)
