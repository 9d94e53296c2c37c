package model

import (
	"time"
)

// ==================== Product 本地商品档 ====================

// Product 本地库存商品
// Code 为供应商型录编号，是比对引擎的首要键
type Product struct {
	ID    int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Code  string  `gorm:"size:64;uniqueIndex;not null" json:"code"`
	Name  string  `gorm:"size:255;index" json:"name"`
	Price float64 `json:"price"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (*Product) TableName() string {
	return "products"
}

// ==================== StockLevel 门市库存 ====================

// StockLevel 单一商品在单一门市的现有库存
type StockLevel struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductCode string `gorm:"size:64;index;not null" json:"product_code"`
	StoreCode   string `gorm:"size:16;index;not null" json:"store_code"`
	Qty         int    `json:"qty"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (*StockLevel) TableName() string {
	return "stock_levels"
}

// ==================== 比对结果 (不落库) ====================

// StoreStock 分门市库存明细
type StoreStock struct {
	StoreCode string `json:"store_code"`
	StoreName string `json:"store_name"`
	Qty       int    `json:"qty"`
}

// MatchResult 单一供应商明细行的比对结果
// Matched=false 是正常业务结果 (待人工对账)，不是错误
type MatchResult struct {
	Matched      bool         `json:"matched"`
	Strategy     string       `json:"strategy,omitempty"` // exact / partial / fuzzy
	ProductID    int64        `json:"product_id,omitempty"`
	ProductCode  string       `json:"product_code,omitempty"`
	ProductName  string       `json:"product_name,omitempty"`
	ProductPrice float64      `json:"product_price,omitempty"`
	Stocks       []StoreStock `json:"stocks,omitempty"`
}
