package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ProductSKU 商品 SKU 表（商品+颜色+尺码维度，携带库存）
type ProductSKU struct {
	ID        uint           `gorm:"primarykey" json:"id"`                                                       // 主键
	ProductID uint           `gorm:"not null;index;uniqueIndex:idx_sku_product_color_size" json:"product_id"`    // 商品ID
	ColorID   uint           `gorm:"not null;uniqueIndex:idx_sku_product_color_size" json:"color_id"`            // 颜色ID
	Size      string         `gorm:"type:varchar(16);not null;uniqueIndex:idx_sku_product_color_size" json:"size"` // 尺码
	SKUCode   string         `gorm:"column:sku_code;type:varchar(64);uniqueIndex;not null" json:"sku_code"`      // SKU编码（全局唯一）
	Stock     int            `gorm:"not null;default:0" json:"stock"`                                            // 可售库存（不允许为负）
	IsActive  bool           `gorm:"default:true;index" json:"is_active"`                                        // 是否启用
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                                                    // 创建时间
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`                                                    // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                                             // 软删除时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
	Color   *Color   `gorm:"foreignKey:ColorID" json:"color,omitempty"`     // 关联颜色
}

// TableName 指定表名
func (ProductSKU) TableName() string {
	return "product_skus"
}

// BuildSKUCode 生成 SKU 编码（productID_colorID_size_skuID 形式的前三段）
func BuildSKUCode(productID, colorID uint, size string) string {
	return fmt.Sprintf("%d_%d_%s", productID, colorID, size)
}
