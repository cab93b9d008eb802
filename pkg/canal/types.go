package canal

// ==================== Canal 下行载荷类型 ====================
// webhook 的 payload 比上行映射表更丰富（嵌套数组、外部 ID），
// 所以下行方向使用独立的结构体，不复用字段映射表

// VariantPayload 变体
type VariantPayload struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	Price string `json:"price"`
}

// ProductPayload 商品
type ProductPayload struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	BodyHTML string           `json:"body_html"`
	ImageSrc string           `json:"image_src"`
	IsListed bool             `json:"is_listed,omitempty"`
	Status   string           `json:"status,omitempty"`
	Variants []VariantPayload `json:"variants"`
}

// AddressPayload 收货地址块
type AddressPayload struct {
	Name         string `json:"name"`
	Address1     string `json:"address1"`
	Address2     string `json:"address2,omitempty"`
	City         string `json:"city"`
	Province     string `json:"province"`
	ProvinceCode string `json:"province_code"`
	Country      string `json:"country"`
	CountryCode  string `json:"country_code"`
	Zip          string `json:"zip"`
	Phone        string `json:"phone"`
}

// CustomerPayload 客户块
type CustomerPayload struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// LineItemPayload 订单行项目
type LineItemPayload struct {
	ID        string `json:"id"`
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

// OrderPayload 订单
type OrderPayload struct {
	ID              string            `json:"id"`
	ShippingAddress AddressPayload    `json:"shipping_address"`
	Customer        CustomerPayload   `json:"customer"`
	LineItems       []LineItemPayload `json:"line_items"`
}

// FulfillmentLinePayload 发货行项目
// id 指向订单行在 Canal 侧的 ID
type FulfillmentLinePayload struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// FulfillmentPayload 发货单
type FulfillmentPayload struct {
	ID              string                   `json:"id"`
	OrderID         string                   `json:"order_id"`
	Status          string                   `json:"status"`
	TrackingCompany string                   `json:"tracking_company"`
	TrackingNumbers []string                 `json:"tracking_numbers"`
	TrackingURLs    []string                 `json:"tracking_urls"`
	LineItems       []FulfillmentLinePayload `json:"line_items"`
}
