package model

import (
	"time"

	"gorm.io/datatypes"
)

// ==================== B2BOrder 供应商订单 ====================

// B2BOrder 从 B2B 入口网站同步的订单记录
// 合并语义与 B2BShipment 相同：自然键冲突时非空新值优先
type B2BOrder struct {
	ID      int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNo string `gorm:"size:64;uniqueIndex;not null" json:"order_no"`

	OrderType string     `gorm:"size:32" json:"order_type"`
	OrderDate *time.Time `json:"order_date"`
	Status    string     `gorm:"size:32;index" json:"status"`

	TotalAmount *float64 `json:"total_amount"`
	Currency    string   `gorm:"size:10" json:"currency"`

	StoreCode string `gorm:"size:16;index" json:"store_code"`
	OrgID     string `gorm:"size:32" json:"org_id"`

	RawData datatypes.JSON `gorm:"type:jsonb" json:"-"`

	FirstSyncedAt time.Time  `json:"first_synced_at"`
	LastSyncedAt  *time.Time `json:"last_synced_at"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (*B2BOrder) TableName() string {
	return "b2b_orders"
}
