package repository

import (
	"context"

	"gorm.io/gorm"

	"canal_sync_v1_202608/internal/model"
)

// ==================== 接口定义 ====================

// ItemRepository 商品仓储接口
type ItemRepository interface {
	// 基础 CRUD
	Create(ctx context.Context, item *model.Item) error
	GetByID(ctx context.Context, id int64) (*model.Item, error)
	GetBySlug(ctx context.Context, slug string) (*model.Item, error)
	Update(ctx context.Context, item *model.Item) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, page, pageSize int) ([]model.Item, int64, error)

	// Canal 同步查询
	GetByCanalID(ctx context.Context, canalID string) (*model.Item, error)
	GetByCanalVariantID(ctx context.Context, canalVariantID string) (*model.Item, error)
	ListBySyncStatus(ctx context.Context, status int, limit int) ([]model.Item, error)

	// update_or_create：按 canal_id 定位，不存在则创建
	UpsertByCanalID(ctx context.Context, canalID string, fields map[string]interface{}) (*model.Item, error)

	// 事务
	WithTx(tx *gorm.DB) ItemRepository
}

// ==================== 仓储实现 ====================

type itemRepo struct {
	db *gorm.DB
}

// NewItemRepository 创建商品仓储
func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepo{db: db}
}

func (r *itemRepo) Create(ctx context.Context, item *model.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *itemRepo) GetByID(ctx context.Context, id int64) (*model.Item, error) {
	var item model.Item
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) GetBySlug(ctx context.Context, slug string) (*model.Item, error) {
	var item model.Item
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) Update(ctx context.Context, item *model.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *itemRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.Item{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *itemRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Item{}, id).Error
}

func (r *itemRepo) List(ctx context.Context, page, pageSize int) ([]model.Item, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var items []model.Item
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Item{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("id desc").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&items).Error
	return items, total, err
}

func (r *itemRepo) GetByCanalID(ctx context.Context, canalID string) (*model.Item, error) {
	var item model.Item
	if err := r.db.WithContext(ctx).Where("canal_id = ?", canalID).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) GetByCanalVariantID(ctx context.Context, canalVariantID string) (*model.Item, error) {
	var item model.Item
	err := r.db.WithContext(ctx).
		Where("canal_variant_id = ?", canalVariantID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) ListBySyncStatus(ctx context.Context, status int, limit int) ([]model.Item, error) {
	var items []model.Item
	err := r.db.WithContext(ctx).
		Where("sync_status = ?", status).
		Order("updated_at asc").
		Limit(limit).
		Find(&items).Error
	return items, err
}

func (r *itemRepo) UpsertByCanalID(ctx context.Context, canalID string, fields map[string]interface{}) (*model.Item, error) {
	// map 条件：struct 条件会丢弃零值字段，空 canal_id 会退化成无条件 First
	var item model.Item
	err := r.db.WithContext(ctx).
		Where(map[string]interface{}{"canal_id": canalID}).
		Assign(fields).
		FirstOrCreate(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) WithTx(tx *gorm.DB) ItemRepository {
	return &itemRepo{db: tx}
}
