package models

import (
	"database/sql/driver"
	"encoding/json"
)

// StringArray 字符串数组类型，用于存储 tags 等
type StringArray []string

// Value 实现 driver.Valuer 接口
func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan 实现 sql.Scanner 接口
func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = StringArray{}
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
	return json.Unmarshal(bytes, s)
}

// UintArray ID 数组类型，用于存储商品/分类/客户 ID 集合
type UintArray []uint

// Value 实现 driver.Valuer 接口
func (a UintArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan 实现 sql.Scanner 接口
func (a *UintArray) Scan(value interface{}) error {
	if value == nil {
		*a = UintArray{}
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
	return json.Unmarshal(bytes, a)
}

// Contains 判断 ID 是否在集合内
func (a UintArray) Contains(id uint) bool {
	for _, v := range a {
		if v == id {
			return true
		}
	}
	return false
}

// VariantTarget 规格级适用目标
type VariantTarget struct {
	ProductID   uint      `json:"product_id"`            // 商品ID
	VariantMode string    `json:"variant_mode"`          // 适用模式（all_variants/specific_variants）
	VariantIDs  UintArray `json:"variant_ids,omitempty"` // 指定规格ID集合（specific_variants 时生效）
}

// VariantTargetList 规格级适用目标集合（JSON 存储）
type VariantTargetList []VariantTarget

// Value 实现 driver.Valuer 接口
func (l VariantTargetList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan 实现 sql.Scanner 接口
func (l *VariantTargetList) Scan(value interface{}) error {
	if value == nil {
		*l = VariantTargetList{}
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
