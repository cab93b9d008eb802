package model

import (
	"time"

	"gorm.io/datatypes"
)

// ==================== Address 地址 ====================

// 地址类型
const (
	AddressTypeBilling  = "B"
	AddressTypeShipping = "S"
)

// Address 地址
// 只作为订单运输块的输入，本身不同步到 Canal
type Address struct {
	BaseModel
	StreetAddress    string `gorm:"size:100"`
	ApartmentAddress string `gorm:"size:100"`
	Country          string `gorm:"size:2"`
	Zip              string `gorm:"size:100"`
	AddressType      string `gorm:"size:1"`
	IsDefault        bool   `gorm:"default:false"`
}

func (Address) TableName() string {
	return "addresses"
}

// ==================== Order 订单 ====================

// Order 订单
type Order struct {
	BaseModel
	RefCode string `gorm:"size:20;index"`

	// 买家信息（客户块的来源）
	BuyerName  string `gorm:"size:255"`
	BuyerEmail string `gorm:"size:255"`

	// 下单状态：购物车阶段 ordered=false，不触发上行同步
	Ordered   bool `gorm:"default:false;index"`
	OrderedAt *time.Time

	// 优惠券抵扣金额
	CouponAmount float64 `gorm:"default:0"`

	// 收货地址
	ShippingAddressID *int64
	ShippingAddress   *Address `gorm:"foreignKey:ShippingAddressID"`

	// Canal 同步字段
	CanalID      string `gorm:"size:34;index"`
	CanalRawData datatypes.JSON

	// 关联
	Lines       []OrderLine  `gorm:"foreignKey:OrderID"`
	Fulfillment *Fulfillment `gorm:"foreignKey:OrderID"`
}

func (Order) TableName() string {
	return "orders"
}

// GetTotal 获取订单总价：各行实际价格之和减去优惠券金额
func (o *Order) GetTotal() float64 {
	total := 0.0
	for i := range o.Lines {
		total += o.Lines[i].GetFinalPrice()
	}
	return total - o.CouponAmount
}

// ==================== OrderLine 订单行 ====================

// OrderLine 订单行
// canal_id 是行项目在 Canal 侧的独立 ID，区别于订单本身的 canal_id
type OrderLine struct {
	BaseModel
	OrderID int64 `gorm:"index"`
	ItemID  int64 `gorm:"index;not null"`
	Item    *Item `gorm:"foreignKey:ItemID"`

	Quantity int  `gorm:"default:1"`
	Ordered  bool `gorm:"default:false"`

	CanalID string `gorm:"size:34;index"`
}

func (OrderLine) TableName() string {
	return "order_lines"
}

// GetTotalItemPrice 获取原价小计
func (l *OrderLine) GetTotalItemPrice() float64 {
	return float64(l.Quantity) * l.Item.Price
}

// GetTotalDiscountItemPrice 获取折扣价小计
func (l *OrderLine) GetTotalDiscountItemPrice() float64 {
	if l.Item.DiscountPrice == nil {
		return 0
	}
	return float64(l.Quantity) * *l.Item.DiscountPrice
}

// GetAmountSaved 获取节省金额
func (l *OrderLine) GetAmountSaved() float64 {
	return l.GetTotalItemPrice() - l.GetTotalDiscountItemPrice()
}

// GetFinalPrice 获取实际小计：有折扣价用折扣价
func (l *OrderLine) GetFinalPrice() float64 {
	if l.Item != nil && l.Item.DiscountPrice != nil {
		return l.GetTotalDiscountItemPrice()
	}
	return l.GetTotalItemPrice()
}
