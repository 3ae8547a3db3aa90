package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon 优惠券表
type Coupon struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                                             // 主键
	Code               string         `gorm:"uniqueIndex;not null" json:"code"`                                 // 优惠码（统一大写）
	DiscountType       string         `gorm:"not null" json:"discount_type"`                                    // 类型（percentage/fixed）
	DiscountValue      Money          `gorm:"type:decimal(20,0);not null" json:"discount_value"`                // 折扣数值（百分比或固定金额）
	MinOrderValue      Money          `gorm:"type:decimal(20,0);not null;default:0" json:"min_order_value"`     // 适用商品小计门槛
	MaxDiscountAmount  Money          `gorm:"type:decimal(20,0);not null;default:0" json:"max_discount_amount"` // 最大优惠金额（percentage 有效）
	MinimumQuantity    int            `gorm:"not null;default:0" json:"minimum_quantity"`                       // 适用商品最低件数
	UsageLimit         int            `gorm:"not null;default:1" json:"usage_limit"`                            // 每人使用上限（发放 UserCoupon 初始次数）
	TotalUsageLimit    int            `gorm:"not null;default:0" json:"total_usage_limit"`                      // 全局使用上限（0 表示不限制）
	UsedCount          int            `gorm:"not null;default:0" json:"used_count"`                             // 全局已使用次数
	AppliedCategoryIDs UintArray      `gorm:"type:json" json:"applied_category_ids"`                            // 适用分类ID集合
	StartsAt           *time.Time     `gorm:"index" json:"starts_at"`                                           // 生效时间
	EndsAt             *time.Time     `gorm:"index" json:"ends_at"`                                             // 失效时间
	IsActive           bool           `gorm:"not null;default:true" json:"is_active"`                           // 是否启用（用尽后自动置 false）
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`                                          // 创建时间
	UpdatedAt          time.Time      `gorm:"index" json:"updated_at"`                                          // 更新时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                                                   // 软删除时间
}

// TableName 指定表名
func (Coupon) TableName() string {
	return "coupons"
}
