package service

import (
	"context"
	"fmt"

	"canal_sync_v1_202608/internal/model"
	"canal_sync_v1_202608/internal/repository"
	"canal_sync_v1_202608/internal/sync"
	"canal_sync_v1_202608/pkg/utils"
)

// ==================== ItemService ====================

// ItemService 商品服务
// 本地写入提交后显式调用上行调度器，对应"保存后同步"的语义
type ItemService struct {
	itemRepo   repository.ItemRepository
	dispatcher *sync.Dispatcher
}

// NewItemService 创建商品服务
func NewItemService(itemRepo repository.ItemRepository, dispatcher *sync.Dispatcher) *ItemService {
	return &ItemService{itemRepo: itemRepo, dispatcher: dispatcher}
}

// Create 创建商品并触发上行同步
func (s *ItemService) Create(ctx context.Context, item *model.Item) error {
	if item.Slug == "" {
		item.Slug = utils.Slugify(item.Title)
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return fmt.Errorf("创建商品失败: %w", err)
	}
	s.dispatcher.ItemSaved(ctx, item)
	return nil
}

// Update 更新商品并触发上行同步
func (s *ItemService) Update(ctx context.Context, item *model.Item) error {
	if err := s.itemRepo.Update(ctx, item); err != nil {
		return fmt.Errorf("更新商品失败: %w", err)
	}
	s.dispatcher.ItemSaved(ctx, item)
	return nil
}

// Delete 删除商品并触发远端删除
func (s *ItemService) Delete(ctx context.Context, id int64) error {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("商品不存在: %w", err)
	}
	if err := s.itemRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("删除商品失败: %w", err)
	}
	s.dispatcher.ItemDeleted(ctx, item)
	return nil
}

// GetDetail 商品详情
func (s *ItemService) GetDetail(ctx context.Context, id int64) (*model.Item, error) {
	return s.itemRepo.GetByID(ctx, id)
}

// GetBySlug 按 slug 查商品
func (s *ItemService) GetBySlug(ctx context.Context, slug string) (*model.Item, error) {
	return s.itemRepo.GetBySlug(ctx, slug)
}

// List 商品列表
func (s *ItemService) List(ctx context.Context, page, pageSize int) ([]model.Item, int64, error) {
	return s.itemRepo.List(ctx, page, pageSize)
}
