package sync

import (
	"strconv"
	"strings"

	"canal_sync_v1_202608/internal/model"
)

// ==================== 字段映射规则 ====================

// FieldRule 单条上行字段映射规则
// Get 是绑定到实体实例的取值闭包，跨关联取值（如 订单行→商品→canal_variant_id）
// 直接写在闭包里，不做运行时反射
type FieldRule struct {
	RemoteKey string
	Get       func() interface{}
	Wrap      func(interface{}) interface{} // 可选的值变换，如把标量包装成单元素数组
}

// wrapList 把标量包装成单元素数组，发货单的 tracking_numbers/tracking_urls 需要
func wrapList(v interface{}) interface{} {
	return []interface{}{v}
}

// applyRules 按序执行映射规则，canalID 有值时额外注入 "id"
func applyRules(rules []FieldRule, canalID string) map[string]interface{} {
	out := make(map[string]interface{}, len(rules)+1)
	for _, r := range rules {
		v := r.Get()
		if r.Wrap != nil {
			v = r.Wrap(v)
		}
		out[r.RemoteKey] = v
	}
	if canalID != "" {
		out["id"] = canalID
	}
	return out
}

// ==================== 商品 ====================

func itemRules(item *model.Item) []FieldRule {
	return []FieldRule{
		{RemoteKey: "title", Get: func() interface{} { return item.Title }},
		{RemoteKey: "body_html", Get: func() interface{} { return item.Description }},
		{RemoteKey: "image_src", Get: func() interface{} { return item.ImageURL }},
	}
}

// ItemToCanal 商品 → Canal JSON
// 在基础映射之上追加常量 is_listed/status 对和内嵌变体数组
func ItemToCanal(item *model.Item) map[string]interface{} {
	out := applyRules(itemRules(item), item.CanalID)
	out["is_listed"] = true
	out["status"] = "active"
	out["variants"] = []interface{}{VariantToCanal(item)}
	return out
}

// VariantToCanal 商品的变体 JSON
// 本地不支持多变体，始终只有一个
func VariantToCanal(item *model.Item) map[string]interface{} {
	variant := map[string]interface{}{
		"price":              strconv.FormatFloat(item.Price, 'f', -1, 64),
		"title":              item.Category,
		"option1":            item.Category,
		"inventory_quantity": 10,
		"inventory_policy":   "continue",
	}
	if item.CanalVariantID != "" {
		variant["id"] = item.CanalVariantID
	}
	return variant
}

// ==================== 订单行 ====================

func orderLineRules(line *model.OrderLine) []FieldRule {
	return []FieldRule{
		// 跨关联取值：订单行 → 商品 → canal_variant_id
		{RemoteKey: "variant_id", Get: func() interface{} { return line.Item.CanalVariantID }},
		{RemoteKey: "quantity", Get: func() interface{} { return line.Quantity }},
	}
}

// OrderLineToCanal 订单行 → Canal line_item JSON
func OrderLineToCanal(line *model.OrderLine) map[string]interface{} {
	return applyRules(orderLineRules(line), line.CanalID)
}

// ==================== 订单 ====================

// OrderToCanal 订单 → Canal JSON
// 收货地址块和客户块是合成的，不是字段照搬；
// 没有收货地址的订单不能推到 Canal，直接报 ValidationError
func OrderToCanal(order *model.Order) (map[string]interface{}, error) {
	if order.ShippingAddress == nil {
		return nil, &ValidationError{Msg: "订单没有收货地址"}
	}

	// 订单自身没有逐字段映射，只有 id 注入
	out := applyRules(nil, order.CanalID)

	name := strings.TrimSpace(order.BuyerName)
	if name == "" {
		name = "Simon Xie"
	}

	shipping := map[string]interface{}{
		"name":     name,
		"address1": order.ShippingAddress.StreetAddress,
		// 本地地址没有城市/省份字段，占位
		"city":          "San Francisco",
		"province":      "California",
		"province_code": "CA",
		"country":       "United States",
		"country_code":  order.ShippingAddress.Country,
		"zip":           order.ShippingAddress.Zip,
		"phone":         "8322222222",
	}
	if order.ShippingAddress.ApartmentAddress != "" {
		shipping["address2"] = order.ShippingAddress.ApartmentAddress
	}
	out["shipping_address"] = shipping

	first, last := splitName(name)
	email := order.BuyerEmail
	if email == "" {
		email = "simon.xie@shopcanal.com"
	}
	out["customer"] = map[string]interface{}{
		"email":      email,
		"first_name": first,
		"last_name":  last,
	}

	lineItems := make([]interface{}, 0, len(order.Lines))
	for i := range order.Lines {
		lineItems = append(lineItems, OrderLineToCanal(&order.Lines[i]))
	}
	out["line_items"] = lineItems

	return out, nil
}

func splitName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// ==================== 发货单 ====================

func fulfillmentRules(f *model.Fulfillment) []FieldRule {
	return []FieldRule{
		{RemoteKey: "status", Get: func() interface{} { return f.Status }},
		{RemoteKey: "tracking_company", Get: func() interface{} { return f.TrackingCompany }},
		// Canal 侧是数组字段，本地只有单值，包装成单元素数组
		{RemoteKey: "tracking_numbers", Get: func() interface{} { return f.TrackingNumber }, Wrap: wrapList},
		{RemoteKey: "tracking_urls", Get: func() interface{} { return f.TrackingURL }, Wrap: wrapList},
	}
}

// FulfillmentToCanal 发货单 → Canal JSON
// line_items 的 id 取订单行在 Canal 侧的 ID
func FulfillmentToCanal(f *model.Fulfillment) map[string]interface{} {
	out := applyRules(fulfillmentRules(f), f.CanalID)
	if f.Order != nil && f.Order.CanalID != "" {
		out["order_id"] = f.Order.CanalID
	}

	lineItems := make([]interface{}, 0, len(f.Lines))
	for i := range f.Lines {
		line := &f.Lines[i]
		entry := map[string]interface{}{
			"quantity": line.Quantity,
		}
		if line.OrderLine != nil {
			entry["id"] = line.OrderLine.CanalID
		}
		lineItems = append(lineItems, entry)
	}
	out["line_items"] = lineItems

	return out
}
