package service

import (
	"context"
	"fmt"

	"canal_sync_v1_202608/internal/model"
	"canal_sync_v1_202608/internal/repository"
	"canal_sync_v1_202608/internal/sync"
	"canal_sync_v1_202608/pkg/canal"
	"canal_sync_v1_202608/pkg/utils"
)

// 固定的物流商/服务占位符，跟踪号是合成的
const (
	placeholderCarrier     = "USPS"
	placeholderTrackingURL = "https://tools.usps.com/go/TrackConfirmAction?tLabels="
)

// ==================== FulfillmentService ====================

// FulfillmentService 发货服务
// 与上行调度器不同，这里的远端错误直接抛给调用方：
// 发货是用户显式发起的操作，不是保存的附带副作用。
// 远端失败时不回滚已落库的发货单/发货行。
type FulfillmentService struct {
	fulfillmentRepo repository.FulfillmentRepository
	orderRepo       repository.OrderRepository
	client          *canal.Client
}

// NewFulfillmentService 创建发货服务
func NewFulfillmentService(
	fulfillmentRepo repository.FulfillmentRepository,
	orderRepo repository.OrderRepository,
	client *canal.Client,
) *FulfillmentService {
	return &FulfillmentService{
		fulfillmentRepo: fulfillmentRepo,
		orderRepo:       orderRepo,
		client:          client,
	}
}

// Fulfill 为订单创建发货单并同步推送到 Canal
// 不检查订单是否已有发货单，重复调用由调用方把关
func (s *FulfillmentService) Fulfill(ctx context.Context, orderID int64) (*model.Fulfillment, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("订单不存在: %w", err)
	}

	trackingNumber := utils.RandomTrackingNumber()
	fulfillment := &model.Fulfillment{
		OrderID:         order.ID,
		Order:           order,
		Status:          model.FulfillmentStatusPending,
		TrackingCompany: placeholderCarrier,
		TrackingNumber:  trackingNumber,
		TrackingURL:     placeholderTrackingURL + trackingNumber,
	}
	// 每个订单行一条发货行，全量发货
	for i := range order.Lines {
		line := &order.Lines[i]
		fulfillment.Lines = append(fulfillment.Lines, model.FulfillmentLine{
			OrderLineID: line.ID,
			OrderLine:   line,
			Quantity:    line.Quantity,
			CanalID:     line.CanalID,
		})
	}

	if err := s.fulfillmentRepo.Create(ctx, fulfillment); err != nil {
		return nil, fmt.Errorf("创建发货单失败: %w", err)
	}

	resp, err := s.client.CreateFulfillment(ctx, sync.FulfillmentToCanal(fulfillment))
	if err != nil {
		return nil, err
	}

	if err := s.fulfillmentRepo.UpdateFields(ctx, fulfillment.ID, map[string]interface{}{
		"canal_id": resp.ID,
	}); err != nil {
		return nil, fmt.Errorf("回写发货单 canal_id 失败: %w", err)
	}
	fulfillment.CanalID = resp.ID

	return fulfillment, nil
}

// GetByOrderID 查询订单的发货单
func (s *FulfillmentService) GetByOrderID(ctx context.Context, orderID int64) (*model.Fulfillment, error) {
	return s.fulfillmentRepo.GetByOrderID(ctx, orderID)
}
