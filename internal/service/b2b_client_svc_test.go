package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"retail_sync_v1_202608/internal/config"
	"retail_sync_v1_202608/internal/model"
	"retail_sync_v1_202608/pkg/pacer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStoreRepo 固定门市列表的仓库替身
type fakeStoreRepo struct {
	stores []model.Store
}

func (f *fakeStoreRepo) ListActive(ctx context.Context) ([]model.Store, error) {
	return f.stores, nil
}
func (f *fakeStoreRepo) GetByCode(ctx context.Context, code string) (*model.Store, error) {
	return nil, nil
}
func (f *fakeStoreRepo) Count(ctx context.Context) (int64, error) { return int64(len(f.stores)), nil }
func (f *fakeStoreRepo) Create(ctx context.Context, store *model.Store) error { return nil }

func newTestB2BClient(baseURL string, stores []model.Store, pageSize int) *B2BClientService {
	svc := NewB2BClientService(config.B2BConfig{
		PortalBaseURL: baseURL,
		PageSize:      pageSize,
	}, &fakeStoreRepo{stores: stores})
	svc.SetPacers(pacer.NewNoop(), pacer.NewNoop())
	return svc
}

// ==================== 出货单抓取 ====================

func TestFetchShipments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/shipments/query", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "org-1", r.Header.Get(b2bOrgHeader))

		w.Write([]byte(`{"shipments":[
			{"shipmentId":"SH001","poNumber":"PO001","shippedTotal":1234.5,"extraField":"kept"},
			{"shipmentId":"SH002","trackingNumber":"TRK9"}
		]}`))
	}))
	defer srv.Close()

	svc := newTestB2BClient(srv.URL, nil, 50)
	shipments, err := svc.FetchShipments(context.Background(), "tok", "org-1")
	require.NoError(t, err)
	require.Len(t, shipments, 2)

	assert.Equal(t, "SH001", shipments[0].ShipmentNo)
	assert.Equal(t, "PO001", shipments[0].PONo)
	require.NotNil(t, shipments[0].ShippedTotal)
	assert.Equal(t, 1234.5, *shipments[0].ShippedTotal)
	// 上游多给的字段要原样留在 raw 里
	assert.Contains(t, string(shipments[0].Raw), "extraField")
	assert.Equal(t, "TRK9", shipments[1].TrackingNo)
}

func TestFetchShipments_EmptyField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 回应缺 shipments 字段时要回空集合，不是错误
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	svc := newTestB2BClient(srv.URL, nil, 50)
	shipments, err := svc.FetchShipments(context.Background(), "tok", "org-1")
	require.NoError(t, err)
	assert.Empty(t, shipments)
}

// ==================== 订单翻页 ====================

func TestFetchOrdersPagination(t *testing.T) {
	// 5 笔订单、页大小 2：应走 3 页 (2+2+1)，最后一页为短页
	total := 5
	var requests []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		requests = append(requests, fmt.Sprintf("%d/%d", offset, limit))

		var orders []json.RawMessage
		for i := offset; i < total && i < offset+limit; i++ {
			orders = append(orders, json.RawMessage(fmt.Sprintf(`{"orderId":"PO%03d"}`, i)))
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"total": total, "orders": orders})
	}))
	defer srv.Close()

	svc := newTestB2BClient(srv.URL, nil, 2)
	orders, err := svc.FetchOrders(context.Background(), "tok", "org-1")
	require.NoError(t, err)
	assert.Len(t, orders, 5)
	assert.Equal(t, []string{"0/2", "2/2", "4/2"}, requests)
	assert.Equal(t, "PO000", orders[0].OrderNo)
	assert.Equal(t, "PO004", orders[4].OrderNo)
}

func TestFetchOrdersPartialOnError(t *testing.T) {
	// 第二页回 500：保留第一页结果，静默终止翻页
	var page int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page++
		if page > 1 {
			http.Error(w, "upstream boom", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"total":4,"orders":[{"orderId":"PO001"},{"orderId":"PO002"}]}`))
	}))
	defer srv.Close()

	svc := newTestB2BClient(srv.URL, nil, 2)
	orders, err := svc.FetchOrders(context.Background(), "tok", "org-1")
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

// ==================== 订单明细 ====================

func TestFetchOrderDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders/PO001/items", r.URL.Path)
		w.Write([]byte(`{"orderId":"PO001","items":[
			{"catalogRef":"CAT-100","productName":"變頻冷氣","qty":2,"unitPrice":15000}
		]}`))
	}))
	defer srv.Close()

	svc := newTestB2BClient(srv.URL, nil, 50)
	detail, err := svc.FetchOrderDetail(context.Background(), "tok", "PO001", "org-1")
	require.NoError(t, err)
	require.NotNil(t, detail)
	require.Len(t, detail.Items, 1)
	assert.Equal(t, "CAT-100", detail.Items[0].CatalogRef)
	assert.Equal(t, 2, detail.Items[0].Qty)
}

func TestFetchOrderDetail_UpstreamRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not visible", http.StatusForbidden)
	}))
	defer srv.Close()

	svc := newTestB2BClient(srv.URL, nil, 50)
	detail, err := svc.FetchOrderDetail(context.Background(), "tok", "PO001", "org-1")
	require.NoError(t, err)
	assert.Nil(t, detail)
}

// ==================== 全门市抓取 ====================

func TestFetchAllStoresData_SingleStoreFailureContinues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// org-bad 一律回 500，其余正常
		if r.Header.Get(b2bOrgHeader) == "org-bad" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		switch r.URL.Path {
		case "/api/shipments/query":
			w.Write([]byte(`{"shipments":[{"shipmentId":"SH100"}]}`))
		case "/api/orders":
			w.Write([]byte(`{"total":1,"orders":[{"orderId":"PO100"}]}`))
		}
	}))
	defer srv.Close()

	stores := []model.Store{
		{Code: "T01", B2BOrgID: "org-1", Active: true},
		{Code: "T02", B2BOrgID: "org-bad", Active: true},
	}

	svc := newTestB2BClient(srv.URL, stores, 50)
	data, err := svc.FetchAllStoresData(context.Background(), "tok")
	require.NoError(t, err)

	// 正常门市的数据全数带回，归属已补上
	require.Len(t, data.Shipments, 1)
	assert.Equal(t, "T01", data.Shipments[0].StoreCode)
	assert.Equal(t, "org-1", data.Shipments[0].OrgID)
	require.Len(t, data.Orders, 1)
	assert.Equal(t, "T01", data.Orders[0].StoreCode)

	// 两个门市都要有 Outcome，失败门市带错误讯息
	require.Len(t, data.Outcomes, 2)
	assert.Equal(t, "T01", data.Outcomes[0].StoreCode)
	assert.Empty(t, data.Outcomes[0].Error)
	assert.Equal(t, 1, data.Outcomes[0].Shipments)
	assert.Equal(t, "T02", data.Outcomes[1].StoreCode)
	assert.NotEmpty(t, data.Outcomes[1].Error)
}
