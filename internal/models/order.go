package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                        // 主键
	OrderNo       string         `gorm:"uniqueIndex;not null" json:"order_no"`                        // 订单号
	UserID        uint           `gorm:"index;not null" json:"user_id"`                               // 用户ID
	Fullname      string         `gorm:"not null" json:"fullname"`                                    // 收件人姓名
	Phone         string         `gorm:"not null" json:"phone"`                                       // 收件人电话
	Email         string         `json:"email"`                                                      // 收件人邮箱
	Address       string         `gorm:"not null" json:"address"`                                     // 收货地址
	Note          string         `gorm:"type:text" json:"note"`                                       // 订单备注
	TotalPrice    Money          `gorm:"type:decimal(20,0);not null;default:0" json:"total_price"`    // 折前商品总价
	PaymentPrice  Money          `gorm:"type:decimal(20,0);not null;default:0" json:"payment_price"`  // 应付金额（优惠后）
	UserCouponID  *uint          `gorm:"index" json:"user_coupon_id"`                                 // 使用的用户优惠券ID
	Status        string         `gorm:"index;not null" json:"status"`                                // 订单状态
	ShippingStatus string        `gorm:"index;not null" json:"shipping_status"`                       // 物流状态
	IsPaid        bool           `gorm:"not null;default:false" json:"is_paid"`                       // 是否已支付
	PaymentMethod string         `gorm:"not null" json:"payment_method"`                              // 支付方式（cod/banking）
	CanceledAt    *time.Time     `json:"canceled_at"`                                                 // 取消时间
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                                     // 创建时间
	UpdatedAt     time.Time      `gorm:"index" json:"updated_at"`                                     // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                              // 软删除时间

	Items      []OrderDetail `gorm:"foreignKey:OrderID" json:"items,omitempty"`            // 订单明细
	UserCoupon *UserCoupon   `gorm:"foreignKey:UserCouponID" json:"user_coupon,omitempty"` // 使用的优惠券
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// IsTerminal 判断订单是否已进入终态（终态不允许再变更）
func (o *Order) IsTerminal() bool {
	switch o.Status {
	case "completed", "cancelled", "refunded":
		return true
	}
	return false
}
