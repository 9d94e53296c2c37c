package model

import (
	"time"
)

// ==================== Store 门市 ====================

// Store 门市 (对应 B2B 入口网站的子组织)
type Store struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Code      string `gorm:"size:16;uniqueIndex;not null" json:"code"` // 门市代码，亦为 ERP 端代码
	Name      string `gorm:"size:64;not null" json:"name"`
	B2BOrgID  string `gorm:"size:32;index" json:"b2b_org_id"` // 远端系统的组织 ID
	Active    bool   `gorm:"default:true" json:"active"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (*Store) TableName() string {
	return "stores"
}
