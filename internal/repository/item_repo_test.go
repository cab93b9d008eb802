package repository

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"canal_sync_v1_202608/internal/model"
)

func setupRepoTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	err = db.AutoMigrate(
		&model.Item{},
		&model.Address{}, &model.Order{}, &model.OrderLine{},
		&model.Fulfillment{}, &model.FulfillmentLine{},
	)
	if err != nil {
		t.Fatalf("自动建表失败: %v", err)
	}
	return db
}

// ==================== Upsert ====================

func TestItemUpsertByCanalID(t *testing.T) {
	repo := NewItemRepository(setupRepoTestDB(t))
	ctx := context.Background()

	// 不存在则创建
	item, err := repo.UpsertByCanalID(ctx, "R1", map[string]interface{}{
		"title": "First", "price": 10.0,
	})
	if err != nil {
		t.Fatalf("upsert 失败: %v", err)
	}
	if item.ID == 0 || item.Title != "First" {
		t.Errorf("创建结果不正确: %+v", item)
	}

	// 已存在则更新同一行
	again, err := repo.UpsertByCanalID(ctx, "R1", map[string]interface{}{
		"title": "Second", "price": 20.0,
	})
	if err != nil {
		t.Fatalf("二次 upsert 失败: %v", err)
	}
	if again.ID != item.ID {
		t.Errorf("upsert 创建了新行: %d != %d", again.ID, item.ID)
	}
	if again.Title != "Second" || again.Price != 20.0 {
		t.Errorf("更新未生效: %+v", again)
	}

	var count int64
	_ = repo.(*itemRepo).db.Model(&model.Item{}).Count(&count)
	if count != 1 {
		t.Errorf("商品行数 = %d, want 1", count)
	}
}

func TestItemUpsertByCanalID_EmptyKeyDoesNotHitOtherItems(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewItemRepository(db)
	ctx := context.Background()

	synced := model.Item{Title: "Synced", Price: 10, CanalID: "R1"}
	db.Create(&synced)

	item, err := repo.UpsertByCanalID(ctx, "", map[string]interface{}{
		"title": "Fresh", "price": 1.0,
	})
	if err != nil {
		t.Fatalf("upsert 失败: %v", err)
	}
	if item.ID == synced.ID {
		t.Fatal("空键命中了已同步的商品")
	}

	var stored model.Item
	db.First(&stored, synced.ID)
	if stored.Title != "Synced" {
		t.Errorf("已同步商品被改写: %+v", stored)
	}
}

// ==================== 同步查询 ====================

func TestItemDefaultSyncStatusPending(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewItemRepository(db)
	ctx := context.Background()

	item := &model.Item{Title: "Fresh", Price: 1}
	if err := repo.Create(ctx, item); err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	stored, _ := repo.GetByID(ctx, item.ID)
	if stored.SyncStatus != model.SyncStatusPending {
		t.Errorf("新建商品 sync_status = %d, want %d（未推送不等于已同步）",
			stored.SyncStatus, model.SyncStatusPending)
	}
}

func TestItemGetByCanalVariantID(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewItemRepository(db)
	ctx := context.Background()

	db.Create(&model.Item{Title: "A", Price: 1, CanalVariantID: "V1"})

	item, err := repo.GetByCanalVariantID(ctx, "V1")
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if item.Title != "A" {
		t.Errorf("title = %s", item.Title)
	}

	_, err = repo.GetByCanalVariantID(ctx, "V404")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("未知变体应返回 ErrRecordNotFound, got %v", err)
	}
}

func TestItemListBySyncStatus(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewItemRepository(db)
	ctx := context.Background()

	db.Create(&model.Item{Title: "ok", Price: 1, SyncStatus: model.SyncStatusSynced})
	db.Create(&model.Item{Title: "bad1", Price: 1, SyncStatus: model.SyncStatusFailed})
	db.Create(&model.Item{Title: "bad2", Price: 1, SyncStatus: model.SyncStatusFailed})

	failed, err := repo.ListBySyncStatus(ctx, model.SyncStatusFailed, 50)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(failed) != 2 {
		t.Errorf("失败商品数 = %d, want 2", len(failed))
	}

	// limit 生效
	limited, _ := repo.ListBySyncStatus(ctx, model.SyncStatusFailed, 1)
	if len(limited) != 1 {
		t.Errorf("限制后数量 = %d, want 1", len(limited))
	}
}

// ==================== 软删除 ====================

func TestItemDelete_SoftDelete(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewItemRepository(db)
	ctx := context.Background()

	item := &model.Item{Title: "Gone", Price: 1}
	if err := repo.Create(ctx, item); err != nil {
		t.Fatalf("创建失败: %v", err)
	}
	if err := repo.Delete(ctx, item.ID); err != nil {
		t.Fatalf("删除失败: %v", err)
	}

	if _, err := repo.GetByID(ctx, item.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("软删除后常规查询应查不到, got %v", err)
	}

	// 行还在，只是打了删除标记
	var count int64
	db.Unscoped().Model(&model.Item{}).Count(&count)
	if count != 1 {
		t.Errorf("软删除不应物理删除行, 行数 = %d", count)
	}
}

// ==================== 分页 ====================

func TestItemList_Pagination(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewItemRepository(db)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		db.Create(&model.Item{Title: "x", Price: 1})
	}

	items, total, err := repo.List(ctx, 2, 10)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if total != 25 {
		t.Errorf("total = %d, want 25", total)
	}
	if len(items) != 10 {
		t.Errorf("第二页数量 = %d, want 10", len(items))
	}

	last, _, _ := repo.List(ctx, 3, 10)
	if len(last) != 5 {
		t.Errorf("第三页数量 = %d, want 5", len(last))
	}
}
