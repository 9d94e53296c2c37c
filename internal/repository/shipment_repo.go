package repository

import (
	"context"
	"errors"

	"retail_sync_v1_202608/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ==================== ShipmentRepository 出货单仓库 ====================

// ShipmentRepository 出货单仓库接口
type ShipmentRepository interface {
	// Upsert 以出货单号为自然键做插入或合并更新
	// 合并语义：新值非空则覆盖，否则保留旧值 (COALESCE)，保证后抓的不完整数据不会抹掉已知栏位
	Upsert(ctx context.Context, shipment *model.B2BShipment) error
	ExistsByShipmentNo(ctx context.Context, shipmentNo string) (bool, error)
	GetByShipmentNo(ctx context.Context, shipmentNo string) (*model.B2BShipment, error)
	List(ctx context.Context, storeCode string, limit int) ([]model.B2BShipment, error)
}

type shipmentRepository struct {
	db *gorm.DB
}

// NewShipmentRepository 创建出货单仓库
func NewShipmentRepository(db *gorm.DB) ShipmentRepository {
	return &shipmentRepository{db: db}
}

func (r *shipmentRepository) Upsert(ctx context.Context, shipment *model.B2BShipment) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "shipment_no"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			// 空字符串视同缺值，NULLIF 把它转成 NULL 再交给 COALESCE
			"po_no":      gorm.Expr("COALESCE(NULLIF(excluded.po_no, ''), b2b_shipments.po_no)"),
			"ship_to":    gorm.Expr("COALESCE(NULLIF(excluded.ship_to, ''), b2b_shipments.ship_to)"),
			"order_type": gorm.Expr("COALESCE(NULLIF(excluded.order_type, ''), b2b_shipments.order_type)"),
			"ship_date":  gorm.Expr("COALESCE(excluded.ship_date, b2b_shipments.ship_date)"),

			"shipped_amount": gorm.Expr("COALESCE(excluded.shipped_amount, b2b_shipments.shipped_amount)"),
			"shipped_qty":    gorm.Expr("COALESCE(excluded.shipped_qty, b2b_shipments.shipped_qty)"),
			"tracking_no":    gorm.Expr("COALESCE(NULLIF(excluded.tracking_no, ''), b2b_shipments.tracking_no)"),
			"currency":       gorm.Expr("COALESCE(NULLIF(excluded.currency, ''), b2b_shipments.currency)"),

			"store_code": gorm.Expr("COALESCE(NULLIF(excluded.store_code, ''), b2b_shipments.store_code)"),
			"org_id":     gorm.Expr("COALESCE(NULLIF(excluded.org_id, ''), b2b_shipments.org_id)"),

			"raw_data": gorm.Expr("COALESCE(excluded.raw_data, b2b_shipments.raw_data)"),

			// first_synced_at 不在更新列表里，首见时间永远保留
			"last_synced_at": gorm.Expr("excluded.last_synced_at"),
			"updated_at":     gorm.Expr("excluded.updated_at"),
		}),
	}).Create(shipment).Error
}

func (r *shipmentRepository) ExistsByShipmentNo(ctx context.Context, shipmentNo string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.B2BShipment{}).
		Where("shipment_no = ?", shipmentNo).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *shipmentRepository) GetByShipmentNo(ctx context.Context, shipmentNo string) (*model.B2BShipment, error) {
	var shipment model.B2BShipment
	err := r.db.WithContext(ctx).Where("shipment_no = ?", shipmentNo).First(&shipment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &shipment, nil
}

func (r *shipmentRepository) List(ctx context.Context, storeCode string, limit int) ([]model.B2BShipment, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	db := r.db.WithContext(ctx).Model(&model.B2BShipment{})
	if storeCode != "" {
		db = db.Where("store_code = ?", storeCode)
	}

	var shipments []model.B2BShipment
	err := db.Order("ship_date DESC NULLS LAST").Limit(limit).Find(&shipments).Error
	return shipments, err
}
