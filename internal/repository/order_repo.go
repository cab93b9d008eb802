package repository

import (
	"context"

	"gorm.io/gorm"

	"canal_sync_v1_202608/internal/model"
)

// ==================== 接口定义 ====================

// OrderRepository 订单仓储接口
type OrderRepository interface {
	// 订单
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	GetByCanalID(ctx context.Context, canalID string) (*model.Order, error)
	Update(ctx context.Context, order *model.Order) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	List(ctx context.Context, page, pageSize int) ([]model.Order, int64, error)
	UpsertByCanalID(ctx context.Context, canalID string, fields map[string]interface{}) (*model.Order, error)

	// 订单行
	CreateLine(ctx context.Context, line *model.OrderLine) error
	GetLineByCanalID(ctx context.Context, canalID string) (*model.OrderLine, error)
	UpdateLineFields(ctx context.Context, id int64, fields map[string]interface{}) error
	ListLinesByOrderID(ctx context.Context, orderID int64) ([]model.OrderLine, error)
	UpsertLineByCanalID(ctx context.Context, canalID string, fields map[string]interface{}) (*model.OrderLine, error)

	// 地址
	GetOrCreateAddress(ctx context.Context, addr *model.Address) (*model.Address, error)

	// 事务
	WithTx(tx *gorm.DB) OrderRepository
	Transaction(ctx context.Context, fn func(txRepo OrderRepository) error) error
}

// ==================== 仓储实现 ====================

type orderRepo struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepo) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("Lines.Item").
		Preload("ShippingAddress").
		Preload("Fulfillment").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) GetByCanalID(ctx context.Context, canalID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("canal_id = ?", canalID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) Update(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

func (r *orderRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *orderRepo) List(ctx context.Context, page, pageSize int) ([]model.Order, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var orders []model.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Order{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Preload("Lines").
		Order("id desc").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&orders).Error
	return orders, total, err
}

func (r *orderRepo) UpsertByCanalID(ctx context.Context, canalID string, fields map[string]interface{}) (*model.Order, error) {
	// map 条件：struct 条件会丢弃零值字段，空 canal_id 会退化成无条件 First
	var order model.Order
	err := r.db.WithContext(ctx).
		Where(map[string]interface{}{"canal_id": canalID}).
		Assign(fields).
		FirstOrCreate(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ==================== 订单行 ====================

func (r *orderRepo) CreateLine(ctx context.Context, line *model.OrderLine) error {
	return r.db.WithContext(ctx).Create(line).Error
}

func (r *orderRepo) GetLineByCanalID(ctx context.Context, canalID string) (*model.OrderLine, error) {
	var line model.OrderLine
	err := r.db.WithContext(ctx).
		Where("canal_id = ?", canalID).
		First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *orderRepo) UpdateLineFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.OrderLine{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *orderRepo) ListLinesByOrderID(ctx context.Context, orderID int64) ([]model.OrderLine, error) {
	var lines []model.OrderLine
	err := r.db.WithContext(ctx).
		Preload("Item").
		Where("order_id = ?", orderID).
		Find(&lines).Error
	return lines, err
}

func (r *orderRepo) UpsertLineByCanalID(ctx context.Context, canalID string, fields map[string]interface{}) (*model.OrderLine, error) {
	var line model.OrderLine
	err := r.db.WithContext(ctx).
		Where(map[string]interface{}{"canal_id": canalID}).
		Assign(fields).
		FirstOrCreate(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// ==================== 地址 ====================

// GetOrCreateAddress 按字段定位地址，不存在则创建
// map 条件让空公寓号只匹配公寓号同样为空的行
func (r *orderRepo) GetOrCreateAddress(ctx context.Context, addr *model.Address) (*model.Address, error) {
	err := r.db.WithContext(ctx).
		Where(map[string]interface{}{
			"street_address":    addr.StreetAddress,
			"apartment_address": addr.ApartmentAddress,
			"country":           addr.Country,
			"zip":               addr.Zip,
			"address_type":      addr.AddressType,
		}).
		FirstOrCreate(addr).Error
	if err != nil {
		return nil, err
	}
	return addr, nil
}

// ==================== 事务 ====================

func (r *orderRepo) WithTx(tx *gorm.DB) OrderRepository {
	return &orderRepo{db: tx}
}

func (r *orderRepo) Transaction(ctx context.Context, fn func(txRepo OrderRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}
