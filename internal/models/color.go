package models

import (
	"time"

	"gorm.io/gorm"
)

// Color 商品颜色表
type Color struct {
	ID        uint           `gorm:"primarykey" json:"id"`           // 主键
	Name      string         `gorm:"not null" json:"name"`           // 颜色名称
	HexCode   string         `gorm:"type:varchar(16)" json:"hex"`    // 颜色色值
	CreatedAt time.Time      `gorm:"index" json:"created_at"`        // 创建时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                 // 软删除时间
}

// TableName 指定表名
func (Color) TableName() string {
	return "colors"
}
