package repository

import (
	"context"
	"errors"

	"retail_sync_v1_202608/internal/model"

	"gorm.io/gorm"
)

// ==================== StoreRepository 门市仓库 ====================

// StoreRepository 门市仓库接口
type StoreRepository interface {
	ListActive(ctx context.Context) ([]model.Store, error)
	GetByCode(ctx context.Context, code string) (*model.Store, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, store *model.Store) error
}

type storeRepository struct {
	db *gorm.DB
}

// NewStoreRepository 创建门市仓库
func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) ListActive(ctx context.Context) ([]model.Store, error) {
	var stores []model.Store
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("code ASC").
		Find(&stores).Error
	return stores, err
}

func (r *storeRepository) GetByCode(ctx context.Context, code string) (*model.Store, error) {
	var store model.Store
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&store).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Store{}).Count(&count).Error
	return count, err
}

func (r *storeRepository) Create(ctx context.Context, store *model.Store) error {
	return r.db.WithContext(ctx).Create(store).Error
}
