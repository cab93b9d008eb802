package model

import (
	"gorm.io/datatypes"
)

// ==================== 发货状态常量 ====================

// FulfillmentStatus 发货状态
const (
	FulfillmentStatusPending = "pending" // 已创建待揽收
	FulfillmentStatusShipped = "shipped" // 运输中
	FulfillmentStatusSuccess = "success" // 已签收
)

// ==================== Fulfillment 发货单 ====================

// Fulfillment 发货单，属于一个订单
type Fulfillment struct {
	BaseModel
	OrderID int64  `gorm:"index;not null"`
	Order   *Order `gorm:"foreignKey:OrderID"`

	Status string `gorm:"size:32;default:pending"`

	// 物流跟踪信息
	TrackingCompany string `gorm:"size:100"`
	TrackingNumber  string `gorm:"size:100"`
	TrackingURL     string `gorm:"size:512"`

	// Canal 同步字段
	CanalID      string `gorm:"size:34;index"`
	CanalRawData datatypes.JSON

	// 关联
	Lines []FulfillmentLine `gorm:"foreignKey:FulfillmentID"`
}

func (Fulfillment) TableName() string {
	return "fulfillments"
}

// ==================== FulfillmentLine 发货行 ====================

// FulfillmentLine 发货行，对应一个订单行
type FulfillmentLine struct {
	BaseModel
	FulfillmentID int64      `gorm:"index;not null"`
	OrderLineID   int64      `gorm:"index;not null"`
	OrderLine     *OrderLine `gorm:"foreignKey:OrderLineID"`

	Quantity int `gorm:"default:1"`

	CanalID string `gorm:"size:34;index"`
}

func (FulfillmentLine) TableName() string {
	return "fulfillment_lines"
}
