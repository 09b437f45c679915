package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID                uint           `gorm:"primarykey" json:"id"`                                // 主键
	CategoryID        uint           `gorm:"not null;index" json:"category_id"`                   // 分类ID
	SKU               string         `gorm:"uniqueIndex;not null" json:"sku"`                     // 商品编码
	Barcode           string         `gorm:"index" json:"barcode"`                                // 条码
	Name              string         `gorm:"not null" json:"name"`                                // 商品名称
	Description       string         `gorm:"type:text" json:"description"`                        // 描述
	Price             Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`  // 售价
	Cost              Money          `gorm:"type:decimal(20,2);not null;default:0" json:"cost"`   // 成本价
	StockQuantity     int            `gorm:"not null;default:0" json:"stock_quantity"`            // 库存数量（无规格商品）
	LowStockThreshold int            `gorm:"not null;default:0" json:"low_stock_threshold"`       // 低库存告警阈值（0 表示不告警）
	Tags              StringArray    `gorm:"type:json" json:"tags"`                               // 标签数组
	IsActive          bool           `gorm:"default:true;index" json:"is_active"`                 // 是否上架
	SortOrder         int            `gorm:"default:0;index" json:"sort_order"`                   // 排序权重
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`                             // 创建时间
	UpdatedAt         time.Time      `json:"updated_at"`                                          // 更新时间
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`                                      // 软删除时间

	// 关联
	Category Category         `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 分类信息
	Variants []ProductVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"`  // 规格列表
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
