package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"retail_sync_v1_202608/internal/model"
	"retail_sync_v1_202608/internal/repository"
)

// ErrShipmentNotFound 本地查无该出货单
var ErrShipmentNotFound = errors.New("查无出货单")

// ==================== 依赖接口 ====================

// OrderDetailFetcher 单一订单明细抓取
type OrderDetailFetcher interface {
	FetchOrderDetail(ctx context.Context, token, orderNo, orgID string) (*B2BOrderDetail, error)
}

// ==================== 结果结构 ====================

// LineMatch 单一明细行与其比对结果
type LineMatch struct {
	Item   B2BLineItem       `json:"item"`
	Result model.MatchResult `json:"result"`
}

// ShipmentMatchResult 整张出货单的比对结果
// Available=false 代表上游明细暂不可得 (非 2xx)，不是错误
type ShipmentMatchResult struct {
	ShipmentNo string      `json:"shipment_no"`
	OrderNo    string      `json:"order_no"`
	Available  bool        `json:"available"`
	Lines      []LineMatch `json:"lines"`
}

// ==================== MatchService ====================

// MatchService 商品比对引擎
// 三级瀑布策略：型号精确 -> 型号子串 -> 名称 token 全中 (AND)
// 任一级命中即停，全部落空回报 unmatched (正常业务结果，待人工对账)
type MatchService struct {
	productRepo  repository.ProductRepository
	shipmentRepo repository.ShipmentRepository

	auth    TokenProvider
	fetcher OrderDetailFetcher
}

// NewMatchService 创建比对引擎
func NewMatchService(
	productRepo repository.ProductRepository,
	shipmentRepo repository.ShipmentRepository,
	auth TokenProvider,
	fetcher OrderDetailFetcher,
) *MatchService {
	return &MatchService{
		productRepo:  productRepo,
		shipmentRepo: shipmentRepo,
		auth:         auth,
		fetcher:      fetcher,
	}
}

// ==================== 出货单比对 ====================

// MatchShipment 对一张已同步的出货单执行逐行比对
// 流程：查本地出货单 -> 换 Token -> 抓订单明细 -> 逐行瀑布比对
func (s *MatchService) MatchShipment(ctx context.Context, shipmentNo string) (*ShipmentMatchResult, error) {
	shipment, err := s.shipmentRepo.GetByShipmentNo(ctx, shipmentNo)
	if err != nil {
		return nil, fmt.Errorf("查询出货单失败: %w", err)
	}
	if shipment == nil {
		return nil, fmt.Errorf("%w: %s", ErrShipmentNotFound, shipmentNo)
	}
	if shipment.PONo == "" {
		return nil, fmt.Errorf("出货单 %s 缺少采购单号，无法取得明细", shipmentNo)
	}

	token, err := s.auth.Authenticate(ctx)
	if err != nil {
		return nil, fmt.Errorf("B2B 鉴权失败: %w", err)
	}

	detail, err := s.fetcher.FetchOrderDetail(ctx, token, shipment.PONo, shipment.OrgID)
	if err != nil {
		return nil, err
	}

	result := &ShipmentMatchResult{
		ShipmentNo: shipmentNo,
		OrderNo:    shipment.PONo,
	}

	// 上游回非 2xx 时明细为 nil：回报不可用，让前台改走人工流程
	if detail == nil {
		return result, nil
	}
	result.Available = true

	for _, item := range detail.Items {
		match, err := s.MatchLineItem(ctx, &item)
		if err != nil {
			return nil, err
		}
		result.Lines = append(result.Lines, LineMatch{Item: item, Result: *match})
	}

	return result, nil
}

// ==================== 单行比对 ====================

// MatchLineItem 对单一供应商明细行执行瀑布比对
func (s *MatchService) MatchLineItem(ctx context.Context, item *B2BLineItem) (*model.MatchResult, error) {
	// 型录编号优先，缺失时退回泛用商品 ID
	key := item.CatalogRef
	if key == "" {
		key = item.ProductID
	}

	var (
		product  *model.Product
		strategy string
		err      error
	)

	// 1. 型号精确比对
	if key != "" {
		product, err = s.productRepo.FindByCode(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("型号精确比对失败: %w", err)
		}
		strategy = "exact"
	}

	// 2. 型号子串比对
	if product == nil && key != "" {
		product, err = s.productRepo.FindByCodeContains(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("型号子串比对失败: %w", err)
		}
		strategy = "partial"
	}

	// 3. 名称模糊比对：前三个长 token 全数命中才算
	if product == nil && item.ProductName != "" {
		tokens := nameTokens(item.ProductName)
		if len(tokens) > 0 {
			product, err = s.productRepo.FindByNameTokens(ctx, tokens)
			if err != nil {
				return nil, fmt.Errorf("名称模糊比对失败: %w", err)
			}
			strategy = "fuzzy"
		}
	}

	if product == nil {
		return &model.MatchResult{Matched: false}, nil
	}

	stocks, err := s.productRepo.StockByStore(ctx, product.Code)
	if err != nil {
		return nil, fmt.Errorf("查询分门市库存失败: %w", err)
	}

	return &model.MatchResult{
		Matched:      true,
		Strategy:     strategy,
		ProductID:    product.ID,
		ProductCode:  product.Code,
		ProductName:  product.Name,
		ProductPrice: product.Price,
		Stocks:       stocks,
	}, nil
}

// nameTokens 取商品名的前三个有效 token
// 先剥掉标点，只留长度大于 2 的 token
func nameTokens(name string) []string {
	fields := strings.FieldsFunc(name, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
	})

	tokens := make([]string, 0, 3)
	for _, field := range fields {
		if len([]rune(field)) <= 2 {
			continue
		}
		tokens = append(tokens, field)
		if len(tokens) == 3 {
			break
		}
	}
	return tokens
}
