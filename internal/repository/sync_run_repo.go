package repository

import (
	"context"

	"retail_sync_v1_202608/internal/model"

	"gorm.io/gorm"
)

// ==================== SyncRunRepository 同步记录仓库 ====================

// SyncRunRepository 同步执行记录仓库接口
// 审计记录只增不删：Create 落起始记录，Finish 补终态
type SyncRunRepository interface {
	Create(ctx context.Context, run *model.SyncRun) error
	Finish(ctx context.Context, run *model.SyncRun) error
	List(ctx context.Context, syncType string, limit int) ([]model.SyncRun, error)
}

type syncRunRepository struct {
	db *gorm.DB
}

// NewSyncRunRepository 创建同步记录仓库
func NewSyncRunRepository(db *gorm.DB) SyncRunRepository {
	return &syncRunRepository{db: db}
}

func (r *syncRunRepository) Create(ctx context.Context, run *model.SyncRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *syncRunRepository) Finish(ctx context.Context, run *model.SyncRun) error {
	return r.db.WithContext(ctx).Model(run).Updates(map[string]interface{}{
		"status":         run.Status,
		"record_count":   run.RecordCount,
		"error_msg":      run.ErrorMsg,
		"store_outcomes": run.StoreOutcomes,
		"finished_at":    run.FinishedAt,
	}).Error
}

func (r *syncRunRepository) List(ctx context.Context, syncType string, limit int) ([]model.SyncRun, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	db := r.db.WithContext(ctx).Model(&model.SyncRun{})
	if syncType != "" {
		db = db.Where("sync_type = ?", syncType)
	}

	var runs []model.SyncRun
	err := db.Order("id DESC").Limit(limit).Find(&runs).Error
	return runs, err
}
