package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"canal_sync_v1_202608/internal/model"
	"canal_sync_v1_202608/internal/repository"
	"canal_sync_v1_202608/internal/sync"
)

// ==================== OrderService ====================

// OrderService 订单服务
type OrderService struct {
	orderRepo  repository.OrderRepository
	dispatcher *sync.Dispatcher
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, dispatcher *sync.Dispatcher) *OrderService {
	return &OrderService{orderRepo: orderRepo, dispatcher: dispatcher}
}

// Create 创建订单（购物车阶段，ordered=false，不触发上行同步）
func (s *OrderService) Create(ctx context.Context, order *model.Order) error {
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return fmt.Errorf("创建订单失败: %w", err)
	}
	return nil
}

// Place 下单：置 ordered 标记、生成 ref_code，然后触发上行同步
func (s *OrderService) Place(ctx context.Context, orderID int64) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("订单不存在: %w", err)
	}

	now := time.Now()
	refCode := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:20])
	if err := s.orderRepo.UpdateFields(ctx, orderID, map[string]interface{}{
		"ordered":    true,
		"ordered_at": &now,
		"ref_code":   refCode,
	}); err != nil {
		return nil, fmt.Errorf("下单失败: %w", err)
	}
	order.Ordered = true
	order.OrderedAt = &now
	order.RefCode = refCode

	s.dispatcher.OrderSaved(ctx, order)
	return order, nil
}

// GetDetail 订单详情
func (s *OrderService) GetDetail(ctx context.Context, id int64) (*model.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

// List 订单列表
func (s *OrderService) List(ctx context.Context, page, pageSize int) ([]model.Order, int64, error) {
	return s.orderRepo.List(ctx, page, pageSize)
}
