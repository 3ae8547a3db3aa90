package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderDetail 订单明细（下单时的商品快照）
type OrderDetail struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                     // 主键
	OrderID     uint           `gorm:"index;not null" json:"order_id"`                           // 订单ID
	ProductID   uint           `gorm:"index;not null" json:"product_id"`                         // 商品ID
	SKUID       uint           `gorm:"column:sku_id;index;not null" json:"sku_id"`               // SKU ID
	SKUCode     string         `gorm:"column:sku_code;not null" json:"sku_code"`                 // SKU 编码快照
	ProductName string         `gorm:"not null" json:"product_name"`                             // 商品名称快照
	ColorName   string         `json:"color_name"`                                              // 颜色名称快照
	Size        string         `json:"size"`                                                    // 尺码快照
	Image       string         `json:"image"`                                                   // 图片快照
	Quantity    int            `gorm:"not null" json:"quantity"`                                 // 购买数量
	UnitPrice   Money          `gorm:"type:decimal(20,0);not null;default:0" json:"unit_price"` // 成交单价（活动折后）
	CreatedAt   time.Time      `json:"created_at"`                                               // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                               // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                           // 软删除时间
}

// TableName 指定表名
func (OrderDetail) TableName() string {
	return "order_details"
}

// Subtotal 明细小计
func (d *OrderDetail) Subtotal() Money {
	return NewMoneyFromDecimal(d.UnitPrice.Mul(decimal.NewFromInt(int64(d.Quantity))))
}
