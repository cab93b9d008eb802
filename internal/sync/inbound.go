package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"canal_sync_v1_202608/internal/model"
	"canal_sync_v1_202608/internal/repository"
	"canal_sync_v1_202608/pkg/canal"
)

// ==================== 下行 webhook 调度器 ====================

// HandlerFunc webhook 处理函数
type HandlerFunc func(ctx context.Context, payload []byte) error

// WebhookDispatcher 下行 webhook 调度器
// topic → handler 的注册表在构造时一次建好，之后只读，并发安全。
// 所有 handler 都按 payload 里的 canal id 做 update_or_create，
// Canal 按至少一次投递，重复投递必须幂等。
type WebhookDispatcher struct {
	handlers map[string]HandlerFunc

	itemRepo        repository.ItemRepository
	orderRepo       repository.OrderRepository
	fulfillmentRepo repository.FulfillmentRepository
}

// NewWebhookDispatcher 创建下行调度器并注册全部 topic
func NewWebhookDispatcher(
	itemRepo repository.ItemRepository,
	orderRepo repository.OrderRepository,
	fulfillmentRepo repository.FulfillmentRepository,
) *WebhookDispatcher {
	d := &WebhookDispatcher{
		handlers:        make(map[string]HandlerFunc),
		itemRepo:        itemRepo,
		orderRepo:       orderRepo,
		fulfillmentRepo: fulfillmentRepo,
	}
	d.register([]string{"product/create", "product/update"}, d.applyProduct)
	d.register([]string{"order/create", "order/update"}, d.applyOrder)
	d.register([]string{"fulfillment/create", "fulfillment/update"}, d.applyFulfillment)
	return d
}

func (d *WebhookDispatcher) register(topics []string, h HandlerFunc) {
	for _, topic := range topics {
		d.handlers[topic] = h
	}
}

// Dispatch 按 topic 路由到对应 handler
// 未注册的 topic 不报错，记日志后忽略，兼容 Canal 未来新增的事件类型
func (d *WebhookDispatcher) Dispatch(ctx context.Context, topic string, payload []byte) error {
	h, ok := d.handlers[topic]
	if !ok {
		log.Printf("[Webhook] 未知 topic，忽略: %s", topic)
		return nil
	}
	return h(ctx, payload)
}

// ==================== 商品 handler ====================

// applyProduct product/create, product/update
// 多变体的远端商品只取第一个变体（本地不支持多变体，有意为之），
// 落库的记录标记 added_from_canal，上行触发器不会再回推
func (d *WebhookDispatcher) applyProduct(ctx context.Context, payload []byte) error {
	var p canal.ProductPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("解析商品 payload 失败: %w", err)
	}
	if p.ID == "" {
		return &ValidationError{Msg: "商品 payload 缺少 id"}
	}
	if len(p.Variants) == 0 {
		return &ValidationError{Msg: "商品 payload 没有变体"}
	}

	price, err := strconv.ParseFloat(p.Variants[0].Price, 64)
	if err != nil {
		return fmt.Errorf("变体价格不合法 %q: %w", p.Variants[0].Price, err)
	}

	// 来自 Canal 的记录天然与远端一致，直接记为已同步
	_, err = d.itemRepo.UpsertByCanalID(ctx, p.ID, map[string]interface{}{
		"added_from_canal": true,
		"sync_status":      model.SyncStatusSynced,
		"title":            p.Title,
		"slug":             strings.ToLower(p.Title),
		"description":      p.BodyHTML,
		"image_url":        p.ImageSrc,
		"price":            price,
		"canal_variant_id": p.Variants[0].ID,
		"canal_raw_data":   datatypes.JSON(payload),
	})
	if err != nil {
		return fmt.Errorf("商品落库失败 canal_id=%s: %w", p.ID, err)
	}
	return nil
}

// ==================== 订单 handler ====================

// applyOrder order/create, order/update
// 行项目里的商品必须已经同步到本地，按 canal_variant_id 解析不到就报 NotFoundError，
// 让 Canal 重新投递（商品 webhook 到达后重试即可成功）
func (d *WebhookDispatcher) applyOrder(ctx context.Context, payload []byte) error {
	var p canal.OrderPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("解析订单 payload 失败: %w", err)
	}
	if p.ID == "" {
		return &ValidationError{Msg: "订单 payload 缺少 id"}
	}

	// 先解析全部行项目对应的本地商品，解析不到就整单失败，不留半截订单。
	// 行 id / variant_id 为空直接拒绝：空字符串作 upsert 键会命中任意未同步的行
	items := make([]*model.Item, len(p.LineItems))
	for i, lineItem := range p.LineItems {
		if lineItem.ID == "" {
			return &ValidationError{Msg: "订单行 payload 缺少 id"}
		}
		if lineItem.VariantID == "" {
			return &ValidationError{Msg: "订单行 payload 缺少 variant_id"}
		}
		item, err := d.itemRepo.GetByCanalVariantID(ctx, lineItem.VariantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "item", CanalID: lineItem.VariantID}
			}
			return fmt.Errorf("查询商品失败 canal_variant_id=%s: %w", lineItem.VariantID, err)
		}
		items[i] = item
	}

	// 收货地址：按字段定位，不存在则创建
	addr, err := d.orderRepo.GetOrCreateAddress(ctx, &model.Address{
		StreetAddress:    p.ShippingAddress.Address1,
		ApartmentAddress: p.ShippingAddress.Address2,
		Country:          p.ShippingAddress.CountryCode,
		Zip:              p.ShippingAddress.Zip,
		AddressType:      model.AddressTypeShipping,
	})
	if err != nil {
		return fmt.Errorf("地址落库失败: %w", err)
	}

	now := time.Now()
	order, err := d.orderRepo.UpsertByCanalID(ctx, p.ID, map[string]interface{}{
		"ordered":             true,
		"ordered_at":          &now,
		"buyer_name":          strings.TrimSpace(p.Customer.FirstName + " " + p.Customer.LastName),
		"buyer_email":         p.Customer.Email,
		"shipping_address_id": addr.ID,
		"canal_raw_data":      datatypes.JSON(payload),
	})
	if err != nil {
		return fmt.Errorf("订单落库失败 canal_id=%s: %w", p.ID, err)
	}

	for i, lineItem := range p.LineItems {
		_, err := d.orderRepo.UpsertLineByCanalID(ctx, lineItem.ID, map[string]interface{}{
			"order_id": order.ID,
			"item_id":  items[i].ID,
			"quantity": lineItem.Quantity,
			"ordered":  true,
		})
		if err != nil {
			return fmt.Errorf("订单行落库失败 canal_id=%s: %w", lineItem.ID, err)
		}
	}

	return nil
}

// ==================== 发货 handler ====================

// applyFulfillment fulfillment/create, fulfillment/update
// 父订单必须已存在本地（硬依赖），tracking_numbers/tracking_urls 只取第一个
func (d *WebhookDispatcher) applyFulfillment(ctx context.Context, payload []byte) error {
	var p canal.FulfillmentPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("解析发货 payload 失败: %w", err)
	}
	if p.ID == "" {
		return &ValidationError{Msg: "发货 payload 缺少 id"}
	}
	// 行 id 先整体校验，不给半截发货单留机会
	for _, lineItem := range p.LineItems {
		if lineItem.ID == "" {
			return &ValidationError{Msg: "发货行 payload 缺少 id"}
		}
	}

	order, err := d.orderRepo.GetByCanalID(ctx, p.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "order", CanalID: p.OrderID}
		}
		return fmt.Errorf("查询订单失败 canal_id=%s: %w", p.OrderID, err)
	}

	fields := map[string]interface{}{
		"order_id":         order.ID,
		"status":           p.Status,
		"tracking_company": p.TrackingCompany,
		"canal_raw_data":   datatypes.JSON(payload),
	}
	if len(p.TrackingNumbers) > 0 {
		fields["tracking_number"] = p.TrackingNumbers[0]
	}
	if len(p.TrackingURLs) > 0 {
		fields["tracking_url"] = p.TrackingURLs[0]
	}

	fulfillment, err := d.fulfillmentRepo.UpsertByCanalID(ctx, p.ID, fields)
	if err != nil {
		return fmt.Errorf("发货单落库失败 canal_id=%s: %w", p.ID, err)
	}

	for _, lineItem := range p.LineItems {
		orderLine, err := d.orderRepo.GetLineByCanalID(ctx, lineItem.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "order_line", CanalID: lineItem.ID}
			}
			return fmt.Errorf("查询订单行失败 canal_id=%s: %w", lineItem.ID, err)
		}
		_, err = d.fulfillmentRepo.UpsertLineByCanalID(ctx, lineItem.ID, map[string]interface{}{
			"fulfillment_id": fulfillment.ID,
			"order_line_id":  orderLine.ID,
			"quantity":       lineItem.Quantity,
		})
		if err != nil {
			return fmt.Errorf("发货行落库失败 canal_id=%s: %w", lineItem.ID, err)
		}
	}

	return nil
}
