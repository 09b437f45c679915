package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 销售订单表
type Order struct {
	ID                uint           `gorm:"primarykey" json:"id"`                                            // 主键
	OrderNo           string         `gorm:"uniqueIndex;not null" json:"order_no"`                            // 订单编号
	StaffID           uint           `gorm:"index;not null" json:"staff_id"`                                  // 收银员工ID
	CustomerID        uint           `gorm:"index;not null" json:"customer_id"`                               // 客户ID（散客为 0）
	Status            string         `gorm:"index;not null" json:"status"`                                    // 订单状态（completed/voided）
	PaymentMethod     string         `gorm:"not null" json:"payment_method"`                                  // 支付方式（cash/card）
	Subtotal          Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`           // 原始金额
	PromotionDiscount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"promotion_discount"` // 促销优惠金额
	CouponDiscount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"coupon_discount"`    // 优惠券优惠金额
	TotalAmount       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`       // 实付金额
	CouponID          *uint          `gorm:"index" json:"coupon_id,omitempty"`                                // 优惠券ID
	PromotionIDs      UintArray      `gorm:"type:json" json:"promotion_ids"`                                  // 生效促销活动ID集合（作废回补用）
	FreeShipping      bool           `gorm:"not null;default:false" json:"free_shipping"`                     // 是否免配送费
	Note              string         `gorm:"type:varchar(500)" json:"note,omitempty"`                         // 备注
	PaidAt            *time.Time     `gorm:"index" json:"paid_at"`                                            // 支付时间
	VoidedAt          *time.Time     `gorm:"index" json:"voided_at"`                                          // 作废时间
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`                                         // 创建时间
	UpdatedAt         time.Time      `gorm:"index" json:"updated_at"`                                         // 更新时间
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`                                                  // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
