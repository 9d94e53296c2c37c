package repository

import (
	"context"
	"errors"

	"retail_sync_v1_202608/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ==================== OrderRepository 订单仓库 ====================

// OrderRepository 订单仓库接口
type OrderRepository interface {
	// Upsert 以订单号为自然键做插入或合并更新，语义同出货单仓库
	Upsert(ctx context.Context, order *model.B2BOrder) error
	GetByOrderNo(ctx context.Context, orderNo string) (*model.B2BOrder, error)
	List(ctx context.Context, storeCode string, limit int) ([]model.B2BOrder, error)
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Upsert(ctx context.Context, order *model.B2BOrder) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "order_no"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"order_type": gorm.Expr("COALESCE(NULLIF(excluded.order_type, ''), b2b_orders.order_type)"),
			"order_date": gorm.Expr("COALESCE(excluded.order_date, b2b_orders.order_date)"),
			"status":     gorm.Expr("COALESCE(NULLIF(excluded.status, ''), b2b_orders.status)"),

			"total_amount": gorm.Expr("COALESCE(excluded.total_amount, b2b_orders.total_amount)"),
			"currency":     gorm.Expr("COALESCE(NULLIF(excluded.currency, ''), b2b_orders.currency)"),

			"store_code": gorm.Expr("COALESCE(NULLIF(excluded.store_code, ''), b2b_orders.store_code)"),
			"org_id":     gorm.Expr("COALESCE(NULLIF(excluded.org_id, ''), b2b_orders.org_id)"),

			"raw_data": gorm.Expr("COALESCE(excluded.raw_data, b2b_orders.raw_data)"),

			"last_synced_at": gorm.Expr("excluded.last_synced_at"),
			"updated_at":     gorm.Expr("excluded.updated_at"),
		}),
	}).Create(order).Error
}

func (r *orderRepository) GetByOrderNo(ctx context.Context, orderNo string) (*model.B2BOrder, error) {
	var order model.B2BOrder
	err := r.db.WithContext(ctx).Where("order_no = ?", orderNo).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, storeCode string, limit int) ([]model.B2BOrder, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	db := r.db.WithContext(ctx).Model(&model.B2BOrder{})
	if storeCode != "" {
		db = db.Where("store_code = ?", storeCode)
	}

	var orders []model.B2BOrder
	err := db.Order("id DESC").Limit(limit).Find(&orders).Error
	return orders, err
}
