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

func newItemService(db *gorm.DB, serverURL string) *ItemService {
	itemRepo := repository.NewItemRepository(db)
	client := canal.NewClient(serverURL, "app", "token")
	dispatcher := sync.NewDispatcher(client, itemRepo, repository.NewOrderRepository(db))
	return NewItemService(itemRepo, dispatcher)
}

// ==================== 创建 ====================

func TestItemCreate_SlugAndSync(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(canal.ProductPayload{
			ID:       "R1",
			Variants: []canal.VariantPayload{{ID: "V1"}},
		})
	}))
	defer server.Close()

	db := setupServiceTestDB(t)
	svc := newItemService(db, server.URL)
	ctx := context.Background()

	item := &model.Item{Title: "  Blue  Shirt ", Price: 19.99}
	if err := svc.Create(ctx, item); err != nil {
		t.Fatalf("创建商品失败: %v", err)
	}

	if item.Slug != "blue-shirt" {
		t.Errorf("slug = %s, want blue-shirt", item.Slug)
	}
	// 上行同步作为保存的副作用发生，远端 ID 已写回
	if item.CanalID != "R1" || item.CanalVariantID != "V1" {
		t.Errorf("远端 ID 未写回: %s / %s", item.CanalID, item.CanalVariantID)
	}
}

func TestItemCreate_ExplicitSlugKept(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(canal.ProductPayload{ID: "R1"})
	}))
	defer server.Close()

	db := setupServiceTestDB(t)
	svc := newItemService(db, server.URL)

	item := &model.Item{Title: "Blue Shirt", Slug: "custom-slug", Price: 1}
	if err := svc.Create(context.Background(), item); err != nil {
		t.Fatalf("创建商品失败: %v", err)
	}
	if item.Slug != "custom-slug" {
		t.Errorf("显式 slug 被覆盖: %s", item.Slug)
	}
}

func TestItemCreate_RemoteDownStillSucceeds(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	db := setupServiceTestDB(t)
	svc := newItemService(db, server.URL)
	ctx := context.Background()

	// Canal 不可用时本地创建照样成功
	item := &model.Item{Title: "Offline Shirt", Price: 5}
	if err := svc.Create(ctx, item); err != nil {
		t.Fatalf("Canal 不可用不应导致本地创建失败: %v", err)
	}

	var stored model.Item
	if err := db.First(&stored, item.ID).Error; err != nil {
		t.Fatalf("本地记录缺失: %v", err)
	}
	if stored.SyncStatus != model.SyncStatusFailed {
		t.Errorf("sync_status = %d, want %d", stored.SyncStatus, model.SyncStatusFailed)
	}
}

// ==================== 删除 ====================

func TestItemDelete(t *testing.T) {
	var deletes int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			atomic.AddInt32(&deletes, 1)
			if r.URL.Path != "/products/R1/" {
				t.Errorf("意外路径: %s", r.URL.Path)
			}
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	db := setupServiceTestDB(t)
	svc := newItemService(db, server.URL)
	ctx := context.Background()

	item := model.Item{Title: "Doomed", Price: 1, CanalID: "R1"}
	db.Create(&item)

	if err := svc.Delete(ctx, item.ID); err != nil {
		t.Fatalf("删除失败: %v", err)
	}
	if atomic.LoadInt32(&deletes) != 1 {
		t.Errorf("远端删除次数 = %d, want 1", deletes)
	}

	// 软删除后查不到
	if _, err := svc.GetDetail(ctx, item.ID); err == nil {
		t.Error("删除后不应能查到商品")
	}
}
