package sync

import (
	"context"
	"log"
	"time"

	"canal_sync_v1_202608/internal/model"
	"canal_sync_v1_202608/internal/repository"
	"canal_sync_v1_202608/pkg/canal"
)

// ==================== 上行同步调度器 ====================

// Dispatcher 上行同步调度器
// 在本地写入提交之后由 service 层显式调用。
// ItemSaved / ItemDeleted / OrderSaved 是边界入口：任何错误在这里吞掉并记日志，
// 本地写入永远不会因为 Canal 不可用而失败；本地与远端可能因此暂时分叉，
// 由下一次保存或 ResyncTask 补偿。
// SyncItem / SyncOrder 返回错误，供重同步任务和测试使用。
type Dispatcher struct {
	client    *canal.Client
	itemRepo  repository.ItemRepository
	orderRepo repository.OrderRepository

	// 商品创建路径的重试参数
	createAttempts int
	retryMin       time.Duration
	retryMax       time.Duration
}

// NewDispatcher 创建上行同步调度器
func NewDispatcher(
	client *canal.Client,
	itemRepo repository.ItemRepository,
	orderRepo repository.OrderRepository,
) *Dispatcher {
	return &Dispatcher{
		client:         client,
		itemRepo:       itemRepo,
		orderRepo:      orderRepo,
		createAttempts: 3,
		retryMin:       1 * time.Second,
		retryMax:       3 * time.Second,
	}
}

// ==================== 商品 ====================

// ItemSaved 商品保存后触发，错误吞掉
func (d *Dispatcher) ItemSaved(ctx context.Context, item *model.Item) {
	if err := d.SyncItem(ctx, item); err != nil {
		log.Printf("[Sync] 商品上行同步失败 item_id=%d: %v", item.ID, err)
	}
}

// SyncItem 商品上行同步
// canal_id 为空走创建，否则走更新
func (d *Dispatcher) SyncItem(ctx context.Context, item *model.Item) error {
	// 来自 Canal 的记录不回推，防止回声循环
	if item.AddedFromCanal {
		return nil
	}

	var err error
	if item.CanalID == "" {
		err = d.createItem(ctx, item)
	} else {
		err = d.updateItem(ctx, item)
	}

	if err != nil {
		// 标记失败，等 ResyncTask 补偿
		if dbErr := d.itemRepo.UpdateFields(ctx, item.ID, map[string]interface{}{
			"sync_status": model.SyncStatusFailed,
			"sync_error":  truncate(err.Error(), 500),
		}); dbErr != nil {
			log.Printf("[Sync] 标记商品同步失败状态出错 item_id=%d: %v", item.ID, dbErr)
		}
		return err
	}
	return nil
}

// createItem POST /products/，带重试吸收瞬时故障，
// 成功后把远端商品 ID 和首个变体 ID 写回本地（第二次本地写入）
func (d *Dispatcher) createItem(ctx context.Context, item *model.Item) error {
	var resp *canal.ProductPayload
	err := canal.Retry(ctx, d.createAttempts, d.retryMin, d.retryMax, func() error {
		var callErr error
		resp, callErr = d.client.CreateProduct(ctx, ItemToCanal(item))
		return callErr
	})
	if err != nil {
		return err
	}

	fields := map[string]interface{}{
		"canal_id":    resp.ID,
		"sync_status": model.SyncStatusSynced,
		"sync_error":  "",
	}
	if len(resp.Variants) > 0 {
		fields["canal_variant_id"] = resp.Variants[0].ID
	}
	if err := d.itemRepo.UpdateFields(ctx, item.ID, fields); err != nil {
		return err
	}

	// 同步内存中的实例，调用方可能继续用它
	item.CanalID = resp.ID
	if len(resp.Variants) > 0 {
		item.CanalVariantID = resp.Variants[0].ID
	}
	item.SyncStatus = model.SyncStatusSynced
	item.SyncError = ""
	return nil
}

// updateItem PUT /products/{id}/；已知变体 ID 时再 PUT /variants/{id}/
// 两个调用相互独立，各自可能失败
func (d *Dispatcher) updateItem(ctx context.Context, item *model.Item) error {
	if err := d.client.UpdateProduct(ctx, item.CanalID, ItemToCanal(item)); err != nil {
		return err
	}
	if item.CanalVariantID != "" {
		if err := d.client.UpdateVariant(ctx, item.CanalVariantID, VariantToCanal(item)); err != nil {
			return err
		}
	}
	if err := d.itemRepo.UpdateFields(ctx, item.ID, map[string]interface{}{
		"sync_status": model.SyncStatusSynced,
		"sync_error":  "",
	}); err != nil {
		return err
	}
	item.SyncStatus = model.SyncStatusSynced
	item.SyncError = ""
	return nil
}

// ItemDeleted 商品删除后触发，错误吞掉
func (d *Dispatcher) ItemDeleted(ctx context.Context, item *model.Item) {
	if item.CanalID == "" {
		return
	}
	if err := d.client.DeleteProduct(ctx, item.CanalID); err != nil {
		log.Printf("[Sync] 商品远端删除失败 item_id=%d canal_id=%s: %v", item.ID, item.CanalID, err)
	}
}

// ==================== 订单 ====================

// OrderSaved 订单保存后触发，错误吞掉
func (d *Dispatcher) OrderSaved(ctx context.Context, order *model.Order) {
	if err := d.SyncOrder(ctx, order); err != nil {
		log.Printf("[Sync] 订单上行同步失败 order_id=%d: %v", order.ID, err)
	}
}

// SyncOrder 订单上行同步
// 只推已下单的订单；已推过的订单不再更新（订单上行方向不可变）
func (d *Dispatcher) SyncOrder(ctx context.Context, order *model.Order) error {
	if !order.Ordered {
		return nil
	}
	if order.CanalID != "" {
		return nil
	}

	body, err := OrderToCanal(order)
	if err != nil {
		return err
	}

	resp, err := d.client.CreateOrder(ctx, body)
	if err != nil {
		return err
	}

	if err := d.orderRepo.UpdateFields(ctx, order.ID, map[string]interface{}{
		"canal_id": resp.ID,
	}); err != nil {
		return err
	}
	order.CanalID = resp.ID

	// 把响应里每个行项目的 ID 写回对应的本地订单行，
	// 按商品的 canal_variant_id 匹配；同一商品占多行时全部写回
	for _, lineItem := range resp.LineItems {
		for i := range order.Lines {
			line := &order.Lines[i]
			if line.Item != nil && line.Item.CanalVariantID == lineItem.VariantID {
				if err := d.orderRepo.UpdateLineFields(ctx, line.ID, map[string]interface{}{
					"canal_id": lineItem.ID,
				}); err != nil {
					return err
				}
				line.CanalID = lineItem.ID
			}
		}
	}

	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
