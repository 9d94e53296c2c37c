package model

import (
	"time"

	"gorm.io/datatypes"
)

// ==================== SyncRun 同步执行记录 ====================

// SyncRun 状态常量
const (
	SyncStatusRunning = "running"
	SyncStatusSuccess = "success"
	SyncStatusError   = "error"
)

// SyncRun 同步类型常量
const (
	SyncTypeB2BPull = "b2b_pull" // 主动拉取 B2B 入口网站
	SyncTypeB2BPush = "b2b_push" // 外部系统推送批次
)

// SyncRun 一次同步任务的审计记录 (只增不改语义，结束时落终态)
type SyncRun struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	TraceID  string `gorm:"size:36;index" json:"trace_id"`
	SyncType string `gorm:"size:32;index" json:"sync_type"`
	Status   string `gorm:"size:16;index" json:"status"`

	RecordCount int    `json:"record_count"`
	ErrorMsg    string `gorm:"type:text" json:"error_msg"`

	// 分门市执行结果 (PostgreSQL JSONB)
	// 终态只有 success/error 两种，门市级的局部失败记录在这里
	StoreOutcomes datatypes.JSON `gorm:"type:jsonb" json:"store_outcomes"`

	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (*SyncRun) TableName() string {
	return "sync_runs"
}

// StoreOutcome 单一门市在一次同步中的结果
type StoreOutcome struct {
	StoreCode string `json:"store_code"`
	Shipments int    `json:"shipments"`
	Orders    int    `json:"orders"`
	Error     string `json:"error,omitempty"`
}
