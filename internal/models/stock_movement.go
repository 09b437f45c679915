package models

import (
	"time"
)

// StockMovement 库存流水表（只增不改）
type StockMovement struct {
	ID        uint      `gorm:"primarykey" json:"id"`                       // 主键
	ProductID uint      `gorm:"index;not null" json:"product_id"`           // 商品ID
	VariantID uint      `gorm:"index;not null;default:0" json:"variant_id"` // 规格ID（0 表示无规格）
	OrderID   *uint     `gorm:"index" json:"order_id,omitempty"`            // 关联订单ID
	StaffID   uint      `gorm:"index;not null" json:"staff_id"`             // 操作员工ID
	Type      string    `gorm:"index;not null" json:"type"`                 // 类型（sale/void/adjustment/restock）
	Quantity  int       `gorm:"not null" json:"quantity"`                   // 变动数量（出库为负）
	Reason    string    `gorm:"type:varchar(200)" json:"reason,omitempty"`  // 原因说明
	CreatedAt time.Time `gorm:"index" json:"created_at"`                    // 创建时间
}

// TableName 指定表名
func (StockMovement) TableName() string {
	return "stock_movements"
}
