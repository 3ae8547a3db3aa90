package models

import (
	"time"

	"gorm.io/gorm"
)

// UserCoupon 用户优惠券发放记录
// 不变量：status == used 当且仅当 usage_left == 0；从未使用过才允许作废。
type UserCoupon struct {
	ID        uint           `gorm:"primarykey" json:"id"`                    // 主键
	UserID    uint           `gorm:"index;not null" json:"user_id"`           // 用户ID
	CouponID  uint           `gorm:"index;not null" json:"coupon_id"`         // 优惠券ID
	UsageLeft int            `gorm:"not null;default:0" json:"usage_left"`    // 剩余可用次数（不允许为负）
	ExpiresAt *time.Time     `gorm:"index" json:"expires_at"`                 // 过期时间
	Status    string         `gorm:"index;not null" json:"status"`            // 状态（active/used/cancelled）
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                 // 创建时间
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`                 // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                          // 软删除时间

	Coupon *Coupon `gorm:"foreignKey:CouponID" json:"coupon,omitempty"` // 关联优惠券
}

// TableName 指定表名
func (UserCoupon) TableName() string {
	return "user_coupons"
}
