package repository

import (
	"context"
	"errors"
	"strings"

	"retail_sync_v1_202608/internal/model"

	"gorm.io/gorm"
)

// ==================== ProductRepository 商品仓库 ====================

// ProductRepository 商品仓库接口
// 三个 Find 方法对应比对引擎的三级策略，查无结果一律回 (nil, nil)
type ProductRepository interface {
	// FindByCode 型号精确比对
	FindByCode(ctx context.Context, code string) (*model.Product, error)
	// FindByCodeContains 型号子串比对
	FindByCodeContains(ctx context.Context, code string) (*model.Product, error)
	// FindByNameTokens 名称模糊比对：所有 token 都必须是商品名的子串 (AND)
	FindByNameTokens(ctx context.Context, tokens []string) (*model.Product, error)
	// StockByStore 商品的分门市库存，按门市名称排序
	StockByStore(ctx context.Context, productCode string) ([]model.StoreStock, error)
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) FindByCode(ctx context.Context, code string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&product).Error
	return firstOrNil(&product, err)
}

func (r *productRepository) FindByCodeContains(ctx context.Context, code string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where(`code LIKE ? ESCAPE '\'`, "%"+escapeLike(code)+"%").
		First(&product).Error
	return firstOrNil(&product, err)
}

func (r *productRepository) FindByNameTokens(ctx context.Context, tokens []string) (*model.Product, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	db := r.db.WithContext(ctx).Model(&model.Product{})
	for _, token := range tokens {
		db = db.Where(`name LIKE ? ESCAPE '\'`, "%"+escapeLike(token)+"%")
	}

	var product model.Product
	err := db.First(&product).Error
	return firstOrNil(&product, err)
}

func (r *productRepository) StockByStore(ctx context.Context, productCode string) ([]model.StoreStock, error) {
	var stocks []model.StoreStock
	err := r.db.WithContext(ctx).
		Table("stock_levels").
		Select("stock_levels.store_code AS store_code, stores.name AS store_name, SUM(stock_levels.qty) AS qty").
		Joins("JOIN stores ON stores.code = stock_levels.store_code").
		Where("stock_levels.product_code = ?", productCode).
		Group("stock_levels.store_code, stores.name").
		Order("stores.name ASC").
		Scan(&stocks).Error
	return stocks, err
}

// firstOrNil 把 gorm 的查无记录转成业务上的 "没有比对结果"
func firstOrNil(product *model.Product, err error) (*model.Product, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

// escapeLike 转义 LIKE 通配符，避免型号里的 % / _ 被当作模式
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
