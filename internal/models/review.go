package models

import (
	"time"

	"gorm.io/gorm"
)

// Review 商品评价（仅购买过的用户可写，同一商品每人一条）
type Review struct {
	ID        uint           `gorm:"primarykey" json:"id"`                                     // 主键
	UserID    uint           `gorm:"not null;uniqueIndex:idx_review_user_product" json:"user_id"`    // 用户ID
	ProductID uint           `gorm:"not null;uniqueIndex:idx_review_user_product" json:"product_id"` // 商品ID
	Rating    int            `gorm:"not null" json:"rating"`                                   // 评分（1-5）
	Content   string         `gorm:"type:text" json:"content"`                                 // 评价内容
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                                               // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                           // 软删除时间

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"` // 评价用户
}

// TableName 指定表名
func (Review) TableName() string {
	return "reviews"
}
