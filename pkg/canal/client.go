package canal

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client Canal 平台 API 客户端
// 统一封装标准头 (Accept, Content-Type) 和租户鉴权头 (X-CANAL-APP-ID, X-CANAL-APP-TOKEN)，
// 凭证在进程启动时读取一次，之后不变
type Client struct {
	http *resty.Client
}

// NewClient 创建 Canal 客户端
func NewClient(baseURL, appID, accessToken string) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second). // 统一业务超时
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetHeader("X-CANAL-APP-ID", appID).
		SetHeader("X-CANAL-APP-TOKEN", accessToken)

	return &Client{http: c}
}

// send 发送请求并检查状态码
// 非 2xx 统一返回 *APIError，携带原始响应体
func (c *Client) send(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("canal 请求失败: %w", err)
	}
	if resp.IsError() {
		return &APIError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	return nil
}

// ==================== 商品 ====================

// CreateProduct 创建远端商品
// POST /products/
func (c *Client) CreateProduct(ctx context.Context, body map[string]interface{}) (*ProductPayload, error) {
	out := &ProductPayload{}
	if err := c.send(ctx, http.MethodPost, "products/", body, out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateProduct 更新远端商品
// PUT /products/{id}/
func (c *Client) UpdateProduct(ctx context.Context, canalID string, body map[string]interface{}) error {
	return c.send(ctx, http.MethodPut, "products/"+canalID+"/", body, nil)
}

// DeleteProduct 删除远端商品
// DELETE /products/{id}/
func (c *Client) DeleteProduct(ctx context.Context, canalID string) error {
	return c.send(ctx, http.MethodDelete, "products/"+canalID+"/", nil, nil)
}

// UpdateVariant 更新远端变体
// PUT /variants/{id}/
func (c *Client) UpdateVariant(ctx context.Context, canalVariantID string, body map[string]interface{}) error {
	return c.send(ctx, http.MethodPut, "variants/"+canalVariantID+"/", body, nil)
}

// ==================== 订单 ====================

// CreateOrder 创建远端订单
// POST /orders/
func (c *Client) CreateOrder(ctx context.Context, body map[string]interface{}) (*OrderPayload, error) {
	out := &OrderPayload{}
	if err := c.send(ctx, http.MethodPost, "orders/", body, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ==================== 发货 ====================

// CreateFulfillment 创建远端发货单
// POST /fulfillments/
func (c *Client) CreateFulfillment(ctx context.Context, body map[string]interface{}) (*FulfillmentPayload, error) {
	out := &FulfillmentPayload{}
	if err := c.send(ctx, http.MethodPost, "fulfillments/", body, out); err != nil {
		return nil, err
	}
	return out, nil
}
