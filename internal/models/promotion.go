package models

import (
	"time"

	"gorm.io/gorm"
)

// Promotion 折扣活动表
type Promotion struct {
	ID              uint           `gorm:"primarykey" json:"id"`                        // 主键
	Name            string         `gorm:"not null" json:"name"`                        // 活动名称
	DiscountPercent int            `gorm:"not null;default:0" json:"discount_percent"`  // 折扣百分比（0-100）
	ProductIDs      UintArray      `gorm:"type:json" json:"product_ids"`                // 适用商品ID集合
	CategoryIDs     UintArray      `gorm:"type:json" json:"category_ids"`               // 适用分类ID集合
	SKUCodes        StringArray    `gorm:"type:json" json:"sku_codes"`                  // 适用 SKU 编码集合（可选）
	StartsAt        *time.Time     `gorm:"index" json:"starts_at"`                      // 生效时间
	EndsAt          *time.Time     `gorm:"index" json:"ends_at"`                        // 失效时间
	IsActive        bool           `gorm:"not null;default:true;index" json:"is_active"` // 是否启用
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                     // 创建时间
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                     // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                              // 软删除时间
}

// TableName 指定表名
func (Promotion) TableName() string {
	return "promotions"
}

// ActiveAt 判断活动在指定时间是否生效（只读判定，不修改状态）
func (p *Promotion) ActiveAt(now time.Time) bool {
	if p == nil || !p.IsActive {
		return false
	}
	if p.StartsAt != nil && now.Before(*p.StartsAt) {
		return false
	}
	if p.EndsAt != nil && now.After(*p.EndsAt) {
		return false
	}
	return true
}

// AppliesTo 判断活动是否覆盖指定商品/分类/SKU
func (p *Promotion) AppliesTo(productID, categoryID uint, skuCode string) bool {
	if p == nil {
		return false
	}
	if p.ProductIDs.Contains(productID) {
		return true
	}
	if p.CategoryIDs.Contains(categoryID) {
		return true
	}
	return p.SKUCodes.ContainsString(skuCode)
}
