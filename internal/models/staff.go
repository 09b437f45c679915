package models

import (
	"time"

	"gorm.io/gorm"
)

// Staff 员工账号表
type Staff struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                               // 主键
	Username           string         `gorm:"uniqueIndex;not null" json:"username"`               // 员工账号
	PasswordHash       string         `gorm:"not null" json:"-"`                                  // 密码哈希（不返回给前端）
	DisplayName        string         `json:"display_name"`                                       // 显示名称
	Role               string         `gorm:"not null;default:'cashier';index" json:"role"`       // 角色（manager/cashier）
	IsActive           bool           `gorm:"not null;default:true;index" json:"is_active"`       // 是否启用
	TokenVersion       uint64         `gorm:"not null;default:0" json:"-"`                        // Token 版本（用于全量失效）
	TokenInvalidBefore *time.Time     `gorm:"index" json:"-"`                                     // 该时间点前签发的 Token 失效
	LastLoginAt        *time.Time     `json:"last_login_at"`                                      // 最后登录时间
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt          time.Time      `json:"updated_at"`                                         // 更新时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间
}

// TableName 指定表名
func (Staff) TableName() string {
	return "staffs"
}
