package models

import (
	"time"

	"gorm.io/gorm"
)

// Customer 会员客户表
type Customer struct {
	ID        uint           `gorm:"primarykey" json:"id"`     // 主键
	Name      string         `gorm:"not null" json:"name"`     // 姓名
	Phone     string         `gorm:"uniqueIndex" json:"phone"` // 手机号
	Email     string         `gorm:"index" json:"email"`       // 邮箱
	CreatedAt time.Time      `gorm:"index" json:"created_at"`  // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`               // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`           // 软删除时间
}

// TableName 指定表名
func (Customer) TableName() string {
	return "customers"
}
