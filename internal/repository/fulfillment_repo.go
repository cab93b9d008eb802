package repository

import (
	"context"

	"gorm.io/gorm"

	"canal_sync_v1_202608/internal/model"
)

// ==================== 接口定义 ====================

// FulfillmentRepository 发货仓储接口
type FulfillmentRepository interface {
	// 发货单
	Create(ctx context.Context, fulfillment *model.Fulfillment) error
	GetByID(ctx context.Context, id int64) (*model.Fulfillment, error)
	GetByOrderID(ctx context.Context, orderID int64) (*model.Fulfillment, error)
	GetByCanalID(ctx context.Context, canalID string) (*model.Fulfillment, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	UpsertByCanalID(ctx context.Context, canalID string, fields map[string]interface{}) (*model.Fulfillment, error)

	// 发货行
	CreateLine(ctx context.Context, line *model.FulfillmentLine) error
	ListLinesByFulfillmentID(ctx context.Context, fulfillmentID int64) ([]model.FulfillmentLine, error)
	UpsertLineByCanalID(ctx context.Context, canalID string, fields map[string]interface{}) (*model.FulfillmentLine, error)

	// 事务
	WithTx(tx *gorm.DB) FulfillmentRepository
	Transaction(ctx context.Context, fn func(txRepo FulfillmentRepository) error) error
}

// ==================== 仓储实现 ====================

type fulfillmentRepo struct {
	db *gorm.DB
}

// NewFulfillmentRepository 创建发货仓储
func NewFulfillmentRepository(db *gorm.DB) FulfillmentRepository {
	return &fulfillmentRepo{db: db}
}

func (r *fulfillmentRepo) Create(ctx context.Context, fulfillment *model.Fulfillment) error {
	return r.db.WithContext(ctx).Create(fulfillment).Error
}

func (r *fulfillmentRepo) GetByID(ctx context.Context, id int64) (*model.Fulfillment, error) {
	var f model.Fulfillment
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("Lines.OrderLine").
		First(&f, id).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *fulfillmentRepo) GetByOrderID(ctx context.Context, orderID int64) (*model.Fulfillment, error) {
	var f model.Fulfillment
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("order_id = ?", orderID).
		First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *fulfillmentRepo) GetByCanalID(ctx context.Context, canalID string) (*model.Fulfillment, error) {
	var f model.Fulfillment
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("canal_id = ?", canalID).
		First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *fulfillmentRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.Fulfillment{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *fulfillmentRepo) UpsertByCanalID(ctx context.Context, canalID string, fields map[string]interface{}) (*model.Fulfillment, error) {
	// map 条件：struct 条件会丢弃零值字段，空 canal_id 会退化成无条件 First
	var f model.Fulfillment
	err := r.db.WithContext(ctx).
		Where(map[string]interface{}{"canal_id": canalID}).
		Assign(fields).
		FirstOrCreate(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ==================== 发货行 ====================

func (r *fulfillmentRepo) CreateLine(ctx context.Context, line *model.FulfillmentLine) error {
	return r.db.WithContext(ctx).Create(line).Error
}

func (r *fulfillmentRepo) ListLinesByFulfillmentID(ctx context.Context, fulfillmentID int64) ([]model.FulfillmentLine, error) {
	var lines []model.FulfillmentLine
	err := r.db.WithContext(ctx).
		Preload("OrderLine").
		Where("fulfillment_id = ?", fulfillmentID).
		Find(&lines).Error
	return lines, err
}

func (r *fulfillmentRepo) UpsertLineByCanalID(ctx context.Context, canalID string, fields map[string]interface{}) (*model.FulfillmentLine, error) {
	var line model.FulfillmentLine
	err := r.db.WithContext(ctx).
		Where(map[string]interface{}{"canal_id": canalID}).
		Assign(fields).
		FirstOrCreate(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// ==================== 事务 ====================

func (r *fulfillmentRepo) WithTx(tx *gorm.DB) FulfillmentRepository {
	return &fulfillmentRepo{db: tx}
}

func (r *fulfillmentRepo) Transaction(ctx context.Context, fn func(txRepo FulfillmentRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}
