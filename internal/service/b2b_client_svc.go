package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"retail_sync_v1_202608/internal/config"
	"retail_sync_v1_202608/internal/model"
	"retail_sync_v1_202608/internal/repository"
	"retail_sync_v1_202608/pkg/pacer"

	"github.com/go-resty/resty/v2"
)

// 入口网站以自定义头携带子组织范围
const b2bOrgHeader = "X-Org-Id"

// ==================== 远端数据结构 ====================

// B2BShipmentData 入口网站回传的出货记录
type B2BShipmentData struct {
	ShipmentNo   string   `json:"shipmentId"`
	PONo         string   `json:"poNumber"`
	ShipTo       string   `json:"shipTo"`
	OrderType    string   `json:"orderType"`
	ShipDate     string   `json:"shipDate"` // 2006-01-02
	ShippedTotal *float64 `json:"shippedTotal"`
	ShippedQty   *int     `json:"shippedQty"`
	TrackingNo   string   `json:"trackingNumber"`
	Currency     string   `json:"currency"`

	// 原始 JSON，落库当 raw_data
	Raw json.RawMessage `json:"-"`
	// 抓取后补上的归属
	StoreCode string `json:"-"`
	OrgID     string `json:"-"`
}

// B2BOrderData 入口网站回传的订单记录
type B2BOrderData struct {
	OrderNo     string   `json:"orderId"`
	OrderType   string   `json:"orderType"`
	OrderDate   string   `json:"orderDate"`
	Status      string   `json:"status"`
	TotalAmount *float64 `json:"totalAmount"`
	Currency    string   `json:"currency"`

	Raw       json.RawMessage `json:"-"`
	StoreCode string          `json:"-"`
	OrgID     string          `json:"-"`
}

// B2BLineItem 订单明细行 (比对引擎的输入)
type B2BLineItem struct {
	CatalogRef  string  `json:"catalogRef"` // 供应商型录编号
	ProductID   string  `json:"productId"`  // 泛用商品 ID (型录编号缺失时的后备键)
	ProductName string  `json:"productName"`
	Qty         int     `json:"qty"`
	UnitPrice   float64 `json:"unitPrice"`
	Amount      float64 `json:"amount"`
}

// B2BOrderDetail 单一订单的明细
type B2BOrderDetail struct {
	OrderNo string        `json:"orderId"`
	Items   []B2BLineItem `json:"items"`
}

// StoresData 全门市抓取结果
// 单一门市失败不会中断整体抓取，调用方要把结果视为尽力而为
type StoresData struct {
	Shipments []B2BShipmentData
	Orders    []B2BOrderData
	Outcomes  []model.StoreOutcome
}

// ==================== B2BClientService ====================

// B2BClientService B2B 入口网站数据客户端
// 所有抓取按门市 (组织) 范围进行，门市间与翻页间有固定节奏避免打爆上游
type B2BClientService struct {
	cfg       config.B2BConfig
	client    *resty.Client
	storeRepo repository.StoreRepository

	pagePacer  pacer.Pacer
	storePacer pacer.Pacer
}

// NewB2BClientService 创建数据客户端
func NewB2BClientService(cfg config.B2BConfig, storeRepo repository.StoreRepository) *B2BClientService {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 50
	}
	if cfg.PageInterval <= 0 {
		cfg.PageInterval = 200 * time.Millisecond
	}
	if cfg.StoreInterval <= 0 {
		cfg.StoreInterval = 500 * time.Millisecond
	}

	return &B2BClientService{
		cfg:        cfg,
		client:     resty.New().SetTimeout(30 * time.Second),
		storeRepo:  storeRepo,
		pagePacer:  pacer.NewFixedInterval(cfg.PageInterval),
		storePacer: pacer.NewFixedInterval(cfg.StoreInterval),
	}
}

// ==================== 出货单抓取 ====================

// FetchShipments 抓取单一组织的全部出货单，回应缺 shipments 字段时回空集合
func (s *B2BClientService) FetchShipments(ctx context.Context, token, orgID string) ([]B2BShipmentData, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader(b2bOrgHeader, orgID).
		Post(s.cfg.PortalBaseURL + "/api/shipments/query")
	if err != nil {
		return nil, fmt.Errorf("出货单查询失败: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("出货单查询回应异常: HTTP %d", resp.StatusCode())
	}

	var payload struct {
		Shipments []json.RawMessage `json:"shipments"`
	}
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("解析出货单回应失败: %w", err)
	}

	shipments := make([]B2BShipmentData, 0, len(payload.Shipments))
	for _, raw := range payload.Shipments {
		var data B2BShipmentData
		if err := json.Unmarshal(raw, &data); err != nil {
			log.Printf("[B2B] 出货记录解析失败，已跳过: %v", err)
			continue
		}
		data.Raw = raw
		shipments = append(shipments, data)
	}

	return shipments, nil
}

// ==================== 订单抓取 (分页) ====================

// FetchOrders 以 limit/offset 翻页抓取组织订单
// 任一页回应非 2xx 时静默终止翻页、回传已累积的部分结果
func (s *B2BClientService) FetchOrders(ctx context.Context, token, orgID string) ([]B2BOrderData, error) {
	var orders []B2BOrderData
	offset := 0
	total := -1

	for {
		resp, err := s.client.R().
			SetContext(ctx).
			SetAuthToken(token).
			SetHeader(b2bOrgHeader, orgID).
			SetQueryParams(map[string]string{
				"limit":  strconv.Itoa(s.cfg.PageSize),
				"offset": strconv.Itoa(offset),
			}).
			Get(s.cfg.PortalBaseURL + "/api/orders")
		if err != nil || !resp.IsSuccess() {
			// 部分结果优于全无：记录后终止翻页
			if err != nil {
				log.Printf("[B2B] 订单翻页请求失败 (offset=%d): %v", offset, err)
			} else {
				log.Printf("[B2B] 订单翻页回应异常 (offset=%d): HTTP %d", offset, resp.StatusCode())
			}
			return orders, nil
		}

		var payload struct {
			Total  int               `json:"total"`
			Orders []json.RawMessage `json:"orders"`
		}
		if err := json.Unmarshal(resp.Body(), &payload); err != nil {
			log.Printf("[B2B] 订单翻页解析失败 (offset=%d): %v", offset, err)
			return orders, nil
		}
		total = payload.Total

		for _, raw := range payload.Orders {
			var data B2BOrderData
			if err := json.Unmarshal(raw, &data); err != nil {
				log.Printf("[B2B] 订单记录解析失败，已跳过: %v", err)
				continue
			}
			data.Raw = raw
			orders = append(orders, data)
		}

		offset += len(payload.Orders)

		// 短页或已达服务端回报的总数即为最后一页
		if len(payload.Orders) < s.cfg.PageSize || (total >= 0 && len(orders) >= total) {
			return orders, nil
		}

		s.pagePacer.Wait(ctx)
		if ctx.Err() != nil {
			return orders, nil
		}
	}
}

// ==================== 订单明细 ====================

// FetchOrderDetail 抓取单一订单的明细行
// 非 2xx 回 (nil, nil)，调用方必须判空
func (s *B2BClientService) FetchOrderDetail(ctx context.Context, token, orderNo, orgID string) (*B2BOrderDetail, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader(b2bOrgHeader, orgID).
		Get(s.cfg.PortalBaseURL + "/api/orders/" + orderNo + "/items")
	if err != nil {
		return nil, fmt.Errorf("订单明细查询失败: %w", err)
	}
	if !resp.IsSuccess() {
		log.Printf("[B2B] 订单 %s 明细查询回应异常: HTTP %d", orderNo, resp.StatusCode())
		return nil, nil
	}

	var detail B2BOrderDetail
	if err := json.Unmarshal(resp.Body(), &detail); err != nil {
		return nil, fmt.Errorf("解析订单明细失败: %w", err)
	}

	return &detail, nil
}

// ==================== 全门市抓取 ====================

// FetchAllStoresData 顺序遍历所有启用门市抓取出货单与订单
// 刻意不并发：上游限流友善优先于吞吐。单一门市失败记入 Outcome 后继续
func (s *B2BClientService) FetchAllStoresData(ctx context.Context, token string) (*StoresData, error) {
	stores, err := s.storeRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("读取门市列表失败: %w", err)
	}

	result := &StoresData{}

	for i, store := range stores {
		if i > 0 {
			s.storePacer.Wait(ctx)
		}

		outcome := model.StoreOutcome{StoreCode: store.Code}

		shipments, err := s.FetchShipments(ctx, token, store.B2BOrgID)
		if err != nil {
			log.Printf("[B2B] 门市 %s 出货单抓取失败: %v", store.Code, err)
			outcome.Error = err.Error()
		} else {
			for j := range shipments {
				shipments[j].StoreCode = store.Code
				shipments[j].OrgID = store.B2BOrgID
			}
			result.Shipments = append(result.Shipments, shipments...)
			outcome.Shipments = len(shipments)
		}

		orders, err := s.FetchOrders(ctx, token, store.B2BOrgID)
		if err != nil {
			log.Printf("[B2B] 门市 %s 订单抓取失败: %v", store.Code, err)
			if outcome.Error == "" {
				outcome.Error = err.Error()
			}
		} else {
			for j := range orders {
				orders[j].StoreCode = store.Code
				orders[j].OrgID = store.B2BOrgID
			}
			result.Orders = append(result.Orders, orders...)
			outcome.Orders = len(orders)
		}

		result.Outcomes = append(result.Outcomes, outcome)
	}

	return result, nil
}

// SetPacers 覆写节奏器 (测试注入零等待)
func (s *B2BClientService) SetPacers(page, store pacer.Pacer) {
	s.pagePacer = page
	s.storePacer = store
}
