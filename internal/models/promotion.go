package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// PromotionCondition 促销条件（标签联合，按 Type 取对应字段）
type PromotionCondition struct {
	Type       string    `json:"type"`                  // 条件类型（MIN_AMOUNT/MIN_QUANTITY/SPECIFIC_PRODUCT）
	Value      Money     `json:"value"`                 // MIN_AMOUNT：门槛金额
	Quantity   int       `json:"quantity,omitempty"`    // MIN_QUANTITY：最低总数量
	ProductIDs UintArray `json:"product_ids,omitempty"` // SPECIFIC_PRODUCT：商品ID集合
	VariantIDs UintArray `json:"variant_ids,omitempty"` // SPECIFIC_PRODUCT：规格ID集合（空为全部规格）
}

// ConditionList 促销条件集合（JSON 存储）
type ConditionList []PromotionCondition

// Value 实现 driver.Valuer 接口
func (l ConditionList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan 实现 sql.Scanner 接口
func (l *ConditionList) Scan(value interface{}) error {
	if value == nil {
		*l = ConditionList{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if str, ok := value.(string); ok {
			bytes = []byte(str)
		} else {
			return nil
		}
	}
	return json.Unmarshal(bytes, l)
}

// PromotionAction 促销动作
type PromotionAction struct {
	Type        string `json:"type"`         // 动作类型（percent_discount/fixed_discount）
	Value       Money  `json:"value"`        // 数值（百分比或固定金额）
	MaxDiscount Money  `json:"max_discount"` // 最大优惠金额（0 表示不封顶，仅百分比生效）
}

// ActionList 促销动作集合（JSON 存储）
type ActionList []PromotionAction

// Value 实现 driver.Valuer 接口
func (l ActionList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan 实现 sql.Scanner 接口
func (l *ActionList) Scan(value interface{}) error {
	if value == nil {
		*l = ActionList{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if str, ok := value.(string); ok {
			bytes = []byte(str)
		} else {
			return nil
		}
	}
	return json.Unmarshal(bytes, l)
}

// Promotion 促销活动
type Promotion struct {
	ID                 uint              `gorm:"primarykey" json:"id"`                             // 主键
	Name               string            `gorm:"not null" json:"name"`                             // 名称
	Status             string            `gorm:"not null;default:'inactive';index" json:"status"`  // 状态（active/inactive/scheduled）
	Priority           int               `gorm:"not null;default:0;index" json:"priority"`         // 优先级（越大越先生效）
	Stackable          bool              `gorm:"not null;default:false" json:"stackable"`          // 是否可叠加
	Conditions         ConditionList     `gorm:"type:json" json:"conditions"`                      // 条件集合（全部满足才生效）
	Actions            ActionList        `gorm:"type:json" json:"actions"`                         // 动作集合（仅首个动作生效）
	ApplicableVariants VariantTargetList `gorm:"type:json" json:"applicable_variants"`             // 适用规格目标集合（空为全场）
	UsedCount          int               `gorm:"not null;default:0" json:"used_count"`             // 已应用次数
	StartsAt           *time.Time        `gorm:"index" json:"starts_at"`                           // 生效时间（必填）
	EndsAt             *time.Time        `gorm:"index" json:"ends_at"`                             // 失效时间（必填）
	CreatedAt          time.Time         `gorm:"index" json:"created_at"`                          // 创建时间
	UpdatedAt          time.Time         `gorm:"index" json:"updated_at"`                          // 更新时间
	DeletedAt          gorm.DeletedAt    `gorm:"index" json:"-"`                                   // 软删除时间
}

// TableName 指定表名
func (Promotion) TableName() string {
	return "promotions"
}
