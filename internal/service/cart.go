package service

import (
	"github.com/shopspring/decimal"
)

// SaleLine 购物车行（折扣引擎的输入）
type SaleLine struct {
	ProductID  uint            `json:"product_id"`  // 商品ID
	VariantID  uint            `json:"variant_id"`  // 规格ID（0 表示无规格）
	CategoryID uint            `json:"category_id"` // 商品所属分类ID
	Quantity   int             `json:"quantity"`    // 数量
	UnitPrice  decimal.Decimal `json:"unit_price"`  // 单价
	Discount   decimal.Decimal `json:"discount"`    // 单件直减金额（已在上游应用）
}

// LineTotal 行小计：(单价 - 直减) * 数量，下限为零
func (l SaleLine) LineTotal() decimal.Decimal {
	unit := l.UnitPrice.Sub(l.Discount)
	if unit.LessThan(decimal.Zero) {
		unit = decimal.Zero
	}
	if l.Quantity <= 0 {
		return decimal.Zero
	}
	return unit.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// linesTotal 多行合计
func linesTotal(items []SaleLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range items {
		total = total.Add(line.LineTotal())
	}
	return total
}

// totalQuantity 多行总件数
func totalQuantity(items []SaleLine) int {
	total := 0
	for _, line := range items {
		if line.Quantity > 0 {
			total += line.Quantity
		}
	}
	return total
}
