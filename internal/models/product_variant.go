package models

import (
	"time"

	"gorm.io/gorm"
)

// ProductVariant 商品规格表（价格+库存维度）
type ProductVariant struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                                                       // 主键
	ProductID     uint           `gorm:"not null;index;uniqueIndex:idx_variant_sku_code" json:"product_id"`                          // 商品ID
	SKUCode       string         `gorm:"column:sku_code;type:varchar(64);not null;uniqueIndex:idx_variant_sku_code" json:"sku_code"` // 规格编码（同商品内唯一）
	Name          string         `gorm:"not null" json:"name"`                                                                       // 规格名称（如 大杯/冰）
	Price         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`                                         // 规格售价（覆盖商品售价）
	StockQuantity int            `gorm:"not null;default:0" json:"stock_quantity"`                                                   // 规格库存数量
	IsActive      bool           `gorm:"default:true;index" json:"is_active"`                                                        // 是否启用
	SortOrder     int            `gorm:"default:0;index" json:"sort_order"`                                                          // 排序权重
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                                                                    // 创建时间
	UpdatedAt     time.Time      `gorm:"index" json:"updated_at"`                                                                    // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                                                             // 软删除时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
}

// TableName 指定表名
func (ProductVariant) TableName() string {
	return "product_variants"
}
