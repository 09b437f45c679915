package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon 优惠券
type Coupon struct {
	ID                   uint              `gorm:"primarykey" json:"id"`                                          // 主键
	Code                 string            `gorm:"uniqueIndex;not null" json:"code"`                              // 优惠码
	Status               string            `gorm:"not null;default:'active';index" json:"status"`                 // 状态（active/inactive）
	Type                 string            `gorm:"not null" json:"type"`                                          // 类型（fixed/percent/free_shipping）
	Value                Money             `gorm:"type:decimal(20,2);not null;default:0" json:"value"`            // 数值（固定金额或百分比）
	MaxDiscount          Money             `gorm:"type:decimal(20,2);not null;default:0" json:"max_discount"`     // 最大优惠金额（0 表示不封顶）
	MinOrderAmount       Money             `gorm:"type:decimal(20,2);not null;default:0" json:"min_order_amount"` // 最低订单金额门槛
	MinQuantity          int               `gorm:"not null;default:0" json:"min_quantity"`                        // 最低购买数量门槛
	UsageLimit           int               `gorm:"not null;default:0" json:"usage_limit"`                         // 总使用上限（0 表示不限制）
	UsedCount            int               `gorm:"not null;default:0" json:"used_count"`                          // 已使用次数
	PerUserLimit         int               `gorm:"not null;default:0" json:"per_user_limit"`                      // 每客户使用上限（0 表示不限制）
	FirstOrderOnly       bool              `gorm:"not null;default:false" json:"first_order_only"`                // 仅限首单
	AllowedCustomerIDs   UintArray         `gorm:"type:json" json:"allowed_customer_ids"`                         // 限定客户ID集合（空为不限）
	ApplicableProducts   UintArray         `gorm:"type:json" json:"applicable_products"`                          // 适用商品ID集合（空为不限）
	ApplicableVariants   VariantTargetList `gorm:"type:json" json:"applicable_variants"`                          // 适用规格目标集合（空为不限）
	ApplicableCategories UintArray         `gorm:"type:json" json:"applicable_categories"`                        // 适用分类ID集合（空为不限）
	ExcludedProducts     UintArray         `gorm:"type:json" json:"excluded_products"`                            // 排除商品ID集合
	StartsAt             *time.Time        `gorm:"index" json:"starts_at"`                                        // 生效时间
	EndsAt               *time.Time        `gorm:"index" json:"ends_at"`                                          // 失效时间
	CreatedAt            time.Time         `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt            time.Time         `gorm:"index" json:"updated_at"`                                       // 更新时间
	DeletedAt            gorm.DeletedAt    `gorm:"index" json:"-"`                                                // 软删除时间
}

// TableName 指定表名
func (Coupon) TableName() string {
	return "coupons"
}
