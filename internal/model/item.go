package model

import (
	"gorm.io/datatypes"
)

// ==================== 同步状态常量 ====================

// ItemSyncStatus 商品同步状态
// 零值即待同步，新建未推送的商品不会被误读成已同步
const (
	SyncStatusPending = 0 // 待同步
	SyncStatusSynced  = 1 // 已同步
	SyncStatusFailed  = 2 // 同步失败
)

// 商品分类
const (
	CategoryShirt     = "S"
	CategorySportWear = "SW"
	CategoryOutWear   = "OW"
)

// ==================== Item 商品 ====================

// Item 商品
// canal_id / canal_variant_id 仅在 Canal 侧对应记录已存在时才有值，
// 一旦写入不再清空（远端删除确认除外）
type Item struct {
	BaseModel

	// 商品基本信息
	Title         string   `gorm:"size:255;not null"`
	Slug          string   `gorm:"size:255;index"`
	Category      string   `gorm:"size:2"`
	Label         string   `gorm:"size:1"`
	Description   string   `gorm:"type:text"`
	ImageURL      string   `gorm:"size:512"`
	Price         float64  `gorm:"not null"`
	DiscountPrice *float64

	// Canal 同步字段
	CanalID        string `gorm:"size:34;index"`
	CanalVariantID string `gorm:"size:34;index"` // 有值时唯一，由查询路径保证
	AddedFromCanal bool   `gorm:"default:false"` // 来自 Canal webhook 的记录，不再回推，防止回声循环

	// 上行同步簿记
	SyncStatus int    `gorm:"default:0;index"` // 0:待同步 1:已同步 2:失败
	SyncError  string `gorm:"size:500"`

	// Canal 原始数据
	CanalRawData datatypes.JSON
}

func (Item) TableName() string {
	return "items"
}

// GetFinalPrice 获取实际售价（有折扣价时用折扣价）
func (i *Item) GetFinalPrice() float64 {
	if i.DiscountPrice != nil {
		return *i.DiscountPrice
	}
	return i.Price
}
