package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	"canal_sync_v1_202608/internal/model"
	"canal_sync_v1_202608/internal/repository"
	"canal_sync_v1_202608/internal/sync"
	"canal_sync_v1_202608/pkg/canal"
)

func newOrderService(db *gorm.DB, serverURL string) *OrderService {
	orderRepo := repository.NewOrderRepository(db)
	client := canal.NewClient(serverURL, "app", "token")
	dispatcher := sync.NewDispatcher(client, repository.NewItemRepository(db), orderRepo)
	return NewOrderService(orderRepo, dispatcher)
}

// ==================== 创建（购物车阶段） ====================

func TestOrderCreate_NoSync(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	db := setupServiceTestDB(t)
	svc := newOrderService(db, server.URL)

	order := &model.Order{BuyerName: "Simon Xie"}
	if err := svc.Create(context.Background(), order); err != nil {
		t.Fatalf("创建订单失败: %v", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Errorf("购物车阶段不应出网, 调用次数 = %d", calls)
	}
}

// ==================== 下单 ====================

func TestOrderPlace(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(canal.OrderPayload{
			ID:        "O1",
			LineItems: []canal.LineItemPayload{{ID: "L1", VariantID: "V1", Quantity: 2}},
		})
	}))
	defer server.Close()

	db := setupServiceTestDB(t)
	svc := newOrderService(db, server.URL)
	ctx := context.Background()

	item := model.Item{Title: "A", Price: 10, CanalID: "R1", CanalVariantID: "V1"}
	db.Create(&item)
	addr := model.Address{StreetAddress: "123 Main St", Country: "US", Zip: "94105", AddressType: model.AddressTypeShipping}
	db.Create(&addr)
	order := model.Order{BuyerName: "Simon Xie", BuyerEmail: "simon.xie@shopcanal.com", ShippingAddressID: &addr.ID}
	db.Create(&order)
	db.Create(&model.OrderLine{OrderID: order.ID, ItemID: item.ID, Quantity: 2})

	placed, err := svc.Place(ctx, order.ID)
	if err != nil {
		t.Fatalf("下单失败: %v", err)
	}

	if !placed.Ordered || placed.OrderedAt == nil {
		t.Error("下单后应置 ordered/ordered_at")
	}
	if len(placed.RefCode) != 20 {
		t.Errorf("ref_code 应为 20 位: %s", placed.RefCode)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("远端调用次数 = %d, want 1", calls)
	}

	// 订单与订单行的 canal_id 都写回
	stored, _ := repository.NewOrderRepository(db).GetByID(ctx, order.ID)
	if stored.CanalID != "O1" {
		t.Errorf("订单 canal_id = %s, want O1", stored.CanalID)
	}
	if len(stored.Lines) != 1 || stored.Lines[0].CanalID != "L1" {
		t.Errorf("订单行 canal_id 未写回: %+v", stored.Lines)
	}
}

func TestOrderPlace_RemoteDownStillPlaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	db := setupServiceTestDB(t)
	svc := newOrderService(db, server.URL)
	ctx := context.Background()

	addr := model.Address{StreetAddress: "1 St", Country: "US", Zip: "10001", AddressType: model.AddressTypeShipping}
	db.Create(&addr)
	order := model.Order{BuyerName: "Simon Xie", ShippingAddressID: &addr.ID}
	db.Create(&order)

	// Canal 挂了，下单本身照样成功
	placed, err := svc.Place(ctx, order.ID)
	if err != nil {
		t.Fatalf("Canal 不可用不应导致下单失败: %v", err)
	}
	if !placed.Ordered {
		t.Error("下单标记未置位")
	}
	if placed.CanalID != "" {
		t.Errorf("同步失败时 canal_id 应为空, got %s", placed.CanalID)
	}
}
