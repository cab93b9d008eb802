package sync

import (
	"errors"
	"testing"

	"canal_sync_v1_202608/internal/model"
)

// ==================== 商品变换 ====================

func TestItemToCanal(t *testing.T) {
	item := &model.Item{
		Title:       "Blue Shirt",
		Category:    model.CategoryShirt,
		Description: "<p>A blue shirt</p>",
		ImageURL:    "https://img.example.com/shirt.png",
		Price:       19.99,
	}

	out := ItemToCanal(item)

	if out["title"] != "Blue Shirt" {
		t.Errorf("title = %v, want Blue Shirt", out["title"])
	}
	if out["body_html"] != "<p>A blue shirt</p>" {
		t.Errorf("body_html = %v", out["body_html"])
	}
	if out["image_src"] != "https://img.example.com/shirt.png" {
		t.Errorf("image_src = %v", out["image_src"])
	}
	if out["is_listed"] != true || out["status"] != "active" {
		t.Errorf("常量对不正确: is_listed=%v status=%v", out["is_listed"], out["status"])
	}
	// canal_id 未设置时不注入 id
	if _, ok := out["id"]; ok {
		t.Error("canal_id 为空时不应注入 id")
	}

	variants, ok := out["variants"].([]interface{})
	if !ok || len(variants) != 1 {
		t.Fatalf("variants 应为单元素数组, got %v", out["variants"])
	}
	variant := variants[0].(map[string]interface{})
	if variant["price"] != "19.99" {
		t.Errorf("变体价格 = %v, want 19.99", variant["price"])
	}
	if variant["title"] != model.CategoryShirt || variant["option1"] != model.CategoryShirt {
		t.Errorf("变体 title/option1 应为分类: %v / %v", variant["title"], variant["option1"])
	}
}

func TestItemToCanal_WithCanalID(t *testing.T) {
	item := &model.Item{
		Title:          "Synced Shirt",
		Price:          10,
		CanalID:        "R1",
		CanalVariantID: "V1",
	}

	out := ItemToCanal(item)
	if out["id"] != "R1" {
		t.Errorf("id = %v, want R1", out["id"])
	}
	variant := out["variants"].([]interface{})[0].(map[string]interface{})
	if variant["id"] != "V1" {
		t.Errorf("变体 id = %v, want V1", variant["id"])
	}
}

// ==================== 订单变换 ====================

func TestOrderToCanal(t *testing.T) {
	item1 := &model.Item{Title: "A", Price: 10, CanalVariantID: "V1"}
	item2 := &model.Item{Title: "B", Price: 20, CanalVariantID: "V2"}
	order := &model.Order{
		BuyerName:  "Simon Xie",
		BuyerEmail: "simon.xie@shopcanal.com",
		Ordered:    true,
		ShippingAddress: &model.Address{
			StreetAddress:    "123 Main St",
			ApartmentAddress: "Apt 4",
			Country:          "US",
			Zip:              "94105",
		},
		Lines: []model.OrderLine{
			{Item: item1, Quantity: 1},
			{Item: item2, Quantity: 3},
		},
	}

	out, err := OrderToCanal(order)
	if err != nil {
		t.Fatalf("订单变换失败: %v", err)
	}

	shipping := out["shipping_address"].(map[string]interface{})
	if shipping["address1"] != "123 Main St" {
		t.Errorf("address1 = %v", shipping["address1"])
	}
	if shipping["address2"] != "Apt 4" {
		t.Errorf("address2 = %v", shipping["address2"])
	}
	if shipping["country_code"] != "US" || shipping["zip"] != "94105" {
		t.Errorf("country_code/zip = %v/%v", shipping["country_code"], shipping["zip"])
	}

	customer := out["customer"].(map[string]interface{})
	if customer["email"] != "simon.xie@shopcanal.com" {
		t.Errorf("customer email = %v", customer["email"])
	}
	if customer["first_name"] != "Simon" || customer["last_name"] != "Xie" {
		t.Errorf("customer 姓名拆分不正确: %v %v", customer["first_name"], customer["last_name"])
	}

	// line_items 长度等于订单行数，variant_id 与对应商品一致
	lineItems := out["line_items"].([]interface{})
	if len(lineItems) != 2 {
		t.Fatalf("line_items 长度 = %d, want 2", len(lineItems))
	}
	first := lineItems[0].(map[string]interface{})
	second := lineItems[1].(map[string]interface{})
	if first["variant_id"] != "V1" || second["variant_id"] != "V2" {
		t.Errorf("variant_id 不匹配: %v / %v", first["variant_id"], second["variant_id"])
	}
	if first["quantity"] != 1 || second["quantity"] != 3 {
		t.Errorf("quantity 不匹配: %v / %v", first["quantity"], second["quantity"])
	}
}

func TestOrderToCanal_NoShippingAddress(t *testing.T) {
	order := &model.Order{Ordered: true}

	_, err := OrderToCanal(order)
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("应返回 ValidationError, got %v", err)
	}
}

func TestOrderToCanal_NoApartment(t *testing.T) {
	order := &model.Order{
		Ordered: true,
		ShippingAddress: &model.Address{
			StreetAddress: "1 Short St",
			Country:       "US",
			Zip:           "10001",
		},
	}

	out, err := OrderToCanal(order)
	if err != nil {
		t.Fatalf("订单变换失败: %v", err)
	}
	shipping := out["shipping_address"].(map[string]interface{})
	if _, ok := shipping["address2"]; ok {
		t.Error("没有公寓号时不应输出 address2")
	}
}

// ==================== 发货单变换 ====================

func TestFulfillmentToCanal(t *testing.T) {
	order := &model.Order{CanalID: "O1"}
	line := &model.OrderLine{CanalID: "L1", Quantity: 2}
	f := &model.Fulfillment{
		Order:           order,
		Status:          model.FulfillmentStatusPending,
		TrackingCompany: "USPS",
		TrackingNumber:  "1234567890",
		TrackingURL:     "https://track.example.com/1234567890",
		Lines: []model.FulfillmentLine{
			{OrderLine: line, Quantity: 2},
		},
	}

	out := FulfillmentToCanal(f)

	// 标量被包装成单元素数组
	numbers, ok := out["tracking_numbers"].([]interface{})
	if !ok || len(numbers) != 1 || numbers[0] != "1234567890" {
		t.Errorf("tracking_numbers = %v", out["tracking_numbers"])
	}
	urls, ok := out["tracking_urls"].([]interface{})
	if !ok || len(urls) != 1 {
		t.Errorf("tracking_urls = %v", out["tracking_urls"])
	}

	if out["order_id"] != "O1" {
		t.Errorf("order_id = %v, want O1", out["order_id"])
	}

	lineItems := out["line_items"].([]interface{})
	if len(lineItems) != 1 {
		t.Fatalf("line_items 长度 = %d, want 1", len(lineItems))
	}
	entry := lineItems[0].(map[string]interface{})
	if entry["id"] != "L1" || entry["quantity"] != 2 {
		t.Errorf("发货行 = %v", entry)
	}
}
