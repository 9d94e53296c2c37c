package model

import (
	"time"

	"gorm.io/datatypes"
)

// ==================== B2BShipment 供应商出货单 ====================

// B2BShipment 从 B2B 入口网站同步的出货记录
// 自然键为远端出货单号，后续同步仅以非空新值覆盖旧值 (COALESCE 合并)
type B2BShipment struct {
	ID         int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ShipmentNo string `gorm:"size:64;uniqueIndex;not null" json:"shipment_no"`

	PONo      string     `gorm:"size:64" json:"po_no"`    // 采购单号
	ShipTo    string     `gorm:"size:128" json:"ship_to"` // 收货对象
	OrderType string     `gorm:"size:32" json:"order_type"`
	ShipDate  *time.Time `json:"ship_date"`

	ShippedAmount *float64 `json:"shipped_amount"` // 出货金额
	ShippedQty    *int     `json:"shipped_qty"`    // 出货数量
	TrackingNo    string   `gorm:"size:128" json:"tracking_no"`
	Currency      string   `gorm:"size:10" json:"currency"`

	// 归属门市
	StoreCode string `gorm:"size:16;index" json:"store_code"`
	OrgID     string `gorm:"size:32" json:"org_id"`

	// 远端原始数据 (PostgreSQL JSONB)
	RawData datatypes.JSON `gorm:"type:jsonb" json:"-"`

	FirstSyncedAt time.Time  `json:"first_synced_at"`
	LastSyncedAt  *time.Time `json:"last_synced_at"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (*B2BShipment) TableName() string {
	return "b2b_shipments"
}
