package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"retail_sync_v1_202608/internal/config"
	"retail_sync_v1_202608/internal/model"
	"retail_sync_v1_202608/internal/repository"
	"retail_sync_v1_202608/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ==================== 依赖接口 ====================

// TokenProvider 提供当前有效的 B2B Token
type TokenProvider interface {
	Authenticate(ctx context.Context) (string, error)
}

// StoresFetcher 全门市数据抓取
type StoresFetcher interface {
	FetchAllStoresData(ctx context.Context, token string) (*StoresData, error)
}

// ==================== SyncService ====================

// SyncService 同步引擎
// 每次调用产生一笔 SyncRun 审计记录；逐笔 upsert 独立提交，
// 中途崩溃留下的半同步状态由下一轮补齐 (幂等)
type SyncService struct {
	shipmentRepo repository.ShipmentRepository
	orderRepo    repository.OrderRepository
	syncRunRepo  repository.SyncRunRepository

	auth     TokenProvider
	fetcher  StoresFetcher
	notifier Notifier

	recipients []config.Recipient
	nowFn      func() time.Time
}

// NewSyncService 创建同步引擎
func NewSyncService(
	shipmentRepo repository.ShipmentRepository,
	orderRepo repository.OrderRepository,
	syncRunRepo repository.SyncRunRepository,
	auth TokenProvider,
	fetcher StoresFetcher,
	notifier Notifier,
	recipients []config.Recipient,
) *SyncService {
	return &SyncService{
		shipmentRepo: shipmentRepo,
		orderRepo:    orderRepo,
		syncRunRepo:  syncRunRepo,
		auth:         auth,
		fetcher:      fetcher,
		notifier:     notifier,
		recipients:   recipients,
		nowFn:        time.Now,
	}
}

// ==================== 主动拉取 ====================

// SyncAll 执行一轮完整同步：换 Token -> 全门市抓取 -> 合并落库 -> 通知新出货
// 终态只有 success / error；门市级的局部失败记在 StoreOutcomes
func (s *SyncService) SyncAll(ctx context.Context) (*model.SyncRun, error) {
	run := s.startRun(ctx, model.SyncTypeB2BPull)
	if run == nil {
		return nil, fmt.Errorf("无法建立同步记录")
	}

	token, err := s.auth.Authenticate(ctx)
	if err != nil {
		return s.finishError(ctx, run, fmt.Errorf("B2B 鉴权失败: %w", err))
	}

	data, err := s.fetcher.FetchAllStoresData(ctx, token)
	if err != nil {
		return s.finishError(ctx, run, fmt.Errorf("全门市抓取失败: %w", err))
	}

	if outcomes, err := json.Marshal(data.Outcomes); err == nil {
		run.StoreOutcomes = datatypes.JSON(outcomes)
	}

	count, newShipments, err := s.applyBatch(ctx, data.Shipments, data.Orders)
	if err != nil {
		return s.finishError(ctx, run, err)
	}

	s.notifyNewShipments(ctx, newShipments)

	return s.finishSuccess(ctx, run, count)
}

// ==================== 外部推送 ====================

// PushedBatch 外部系统推送的预抓取批次
type PushedBatch struct {
	Shipments     []B2BShipmentData `json:"shipments"`
	Orders        []B2BOrderData    `json:"orders"`
	PendingOrders []B2BOrderData    `json:"pendingOrders"`
}

// SyncPushedBatch 合并外部推送的批次，合并语义与主动拉取完全一致
// 鉴权 (静态共享密钥) 由路由层中间件负责
func (s *SyncService) SyncPushedBatch(ctx context.Context, batch *PushedBatch) (*model.SyncRun, error) {
	run := s.startRun(ctx, model.SyncTypeB2BPush)
	if run == nil {
		return nil, fmt.Errorf("无法建立同步记录")
	}

	orders := append([]B2BOrderData{}, batch.Orders...)
	for _, pending := range batch.PendingOrders {
		if pending.Status == "" {
			pending.Status = "pending"
		}
		orders = append(orders, pending)
	}

	count, newShipments, err := s.applyBatch(ctx, batch.Shipments, orders)
	if err != nil {
		return s.finishError(ctx, run, err)
	}

	s.notifyNewShipments(ctx, newShipments)

	return s.finishSuccess(ctx, run, count)
}

// ==================== 合并落库 ====================

// newShipmentInfo 首次观测到的出货单摘要 (拼通知文案用)
type newShipmentInfo struct {
	StoreCode  string
	ShipmentNo string
	PONo       string
	Amount     *float64
	Currency   string
}

// applyBatch 逐笔合并出货单与订单，回传落库笔数与新出货摘要
func (s *SyncService) applyBatch(ctx context.Context, shipments []B2BShipmentData, orders []B2BOrderData) (int, []newShipmentInfo, error) {
	count := 0
	var newShipments []newShipmentInfo

	for i := range shipments {
		data := &shipments[i]
		if data.ShipmentNo == "" {
			log.Printf("[Sync] 出货记录缺少单号，已跳过")
			continue
		}

		// 先查存在性：首见的出货单进通知清单
		exists, err := s.shipmentRepo.ExistsByShipmentNo(ctx, data.ShipmentNo)
		if err != nil {
			return count, newShipments, fmt.Errorf("出货单 %s 存在性检查失败: %w", data.ShipmentNo, err)
		}
		if !exists {
			newShipments = append(newShipments, newShipmentInfo{
				StoreCode:  data.StoreCode,
				ShipmentNo: data.ShipmentNo,
				PONo:       data.PONo,
				Amount:     data.ShippedTotal,
				Currency:   data.Currency,
			})
			metrics.NewShipmentsObserved.Inc()
		}

		if err := s.shipmentRepo.Upsert(ctx, s.shipmentFromRemote(data)); err != nil {
			return count, newShipments, fmt.Errorf("出货单 %s 落库失败: %w", data.ShipmentNo, err)
		}
		count++
		metrics.RecordsSynced.WithLabelValues("shipment").Inc()
	}

	for i := range orders {
		data := &orders[i]
		if data.OrderNo == "" {
			log.Printf("[Sync] 订单记录缺少单号，已跳过")
			continue
		}

		if err := s.orderRepo.Upsert(ctx, s.orderFromRemote(data)); err != nil {
			return count, newShipments, fmt.Errorf("订单 %s 落库失败: %w", data.OrderNo, err)
		}
		count++
		metrics.RecordsSynced.WithLabelValues("order").Inc()
	}

	return count, newShipments, nil
}

// shipmentFromRemote 远端出货记录转本地模型
func (s *SyncService) shipmentFromRemote(data *B2BShipmentData) *model.B2BShipment {
	now := s.nowFn()

	shipment := &model.B2BShipment{
		ShipmentNo:    data.ShipmentNo,
		PONo:          data.PONo,
		ShipTo:        data.ShipTo,
		OrderType:     data.OrderType,
		ShippedAmount: data.ShippedTotal,
		ShippedQty:    data.ShippedQty,
		TrackingNo:    data.TrackingNo,
		Currency:      data.Currency,
		StoreCode:     data.StoreCode,
		OrgID:         data.OrgID,
		FirstSyncedAt: now,
		LastSyncedAt:  &now,
	}

	if t, err := time.Parse("2006-01-02", data.ShipDate); err == nil {
		shipment.ShipDate = &t
	}

	if len(data.Raw) > 0 {
		shipment.RawData = datatypes.JSON(data.Raw)
	} else if raw, err := json.Marshal(data); err == nil {
		shipment.RawData = datatypes.JSON(raw)
	}

	return shipment
}

// orderFromRemote 远端订单记录转本地模型
func (s *SyncService) orderFromRemote(data *B2BOrderData) *model.B2BOrder {
	now := s.nowFn()

	order := &model.B2BOrder{
		OrderNo:       data.OrderNo,
		OrderType:     data.OrderType,
		Status:        data.Status,
		TotalAmount:   data.TotalAmount,
		Currency:      data.Currency,
		StoreCode:     data.StoreCode,
		OrgID:         data.OrgID,
		FirstSyncedAt: now,
		LastSyncedAt:  &now,
	}

	if t, err := time.Parse("2006-01-02", data.OrderDate); err == nil {
		order.OrderDate = &t
	}

	if len(data.Raw) > 0 {
		order.RawData = datatypes.JSON(data.Raw)
	} else if raw, err := json.Marshal(data); err == nil {
		order.RawData = datatypes.JSON(raw)
	}

	return order
}

// ==================== 通知 ====================

// notifyNewShipments 把本轮首见的出货单汇总成一则消息，逐收件人发送
// 每个收件人只收一则汇总，不是一单一则；发送失败只记 log
func (s *SyncService) notifyNewShipments(ctx context.Context, newShipments []newShipmentInfo) {
	if len(newShipments) == 0 || s.notifier == nil || len(s.recipients) == 0 {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "【新到貨通知】共 %d 筆出貨\n", len(newShipments))
	for _, info := range newShipments {
		fmt.Fprintf(&b, "・[%s] 出貨單 %s", info.StoreCode, info.ShipmentNo)
		if info.PONo != "" {
			fmt.Fprintf(&b, " / PO %s", info.PONo)
		}
		if info.Amount != nil {
			fmt.Fprintf(&b, " / 金額 %.2f %s", *info.Amount, info.Currency)
		}
		b.WriteString("\n")
	}
	text := b.String()

	for _, recipient := range s.recipients {
		if err := s.notifier.PushMessage(ctx, recipient, text); err != nil {
			metrics.NotifyFailures.Inc()
			log.Printf("[Sync] 通知发送失败 (%s:%s): %v", recipient.Channel, recipient.ID, err)
		}
	}
}

// ==================== SyncRun 记录 ====================

// startRun 落起始记录，失败时回 nil (调用方放弃本轮)
func (s *SyncService) startRun(ctx context.Context, syncType string) *model.SyncRun {
	run := &model.SyncRun{
		TraceID:   uuid.NewString(),
		SyncType:  syncType,
		Status:    model.SyncStatusRunning,
		StartedAt: s.nowFn(),
	}
	if err := s.syncRunRepo.Create(ctx, run); err != nil {
		log.Printf("[Sync] 建立同步记录失败: %v", err)
		return nil
	}
	return run
}

func (s *SyncService) finishSuccess(ctx context.Context, run *model.SyncRun, count int) (*model.SyncRun, error) {
	now := s.nowFn()
	run.Status = model.SyncStatusSuccess
	run.RecordCount = count
	run.FinishedAt = &now

	if err := s.syncRunRepo.Finish(context.WithoutCancel(ctx), run); err != nil {
		log.Printf("[Sync] 更新同步记录失败: %v", err)
	}
	metrics.SyncRunsTotal.WithLabelValues(run.SyncType, run.Status).Inc()

	log.Printf("[Sync] 同步完成 trace=%s 共 %d 笔", run.TraceID, count)
	return run, nil
}

func (s *SyncService) finishError(ctx context.Context, run *model.SyncRun, cause error) (*model.SyncRun, error) {
	now := s.nowFn()
	run.Status = model.SyncStatusError
	run.ErrorMsg = cause.Error()
	run.FinishedAt = &now

	if err := s.syncRunRepo.Finish(context.WithoutCancel(ctx), run); err != nil {
		log.Printf("[Sync] 更新同步记录失败: %v", err)
	}
	metrics.SyncRunsTotal.WithLabelValues(run.SyncType, run.Status).Inc()

	log.Printf("[Sync] 同步失败 trace=%s: %v", run.TraceID, cause)
	return run, cause
}

// ListRuns 查询同步历史
func (s *SyncService) ListRuns(ctx context.Context, syncType string, limit int) ([]model.SyncRun, error) {
	return s.syncRunRepo.List(ctx, syncType, limit)
}
