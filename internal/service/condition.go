package service

import (
	"github.com/pos-next/internal/constants"
	"github.com/pos-next/internal/models"

	"github.com/shopspring/decimal"
)

// conditionHolds 判断单个促销条件是否满足。
// 所有数值边界均为闭区间（>=）。未知条件类型视为数据损坏，返回错误而非 false。
func conditionHolds(cond models.PromotionCondition, items []SaleLine, cartTotal decimal.Decimal) (bool, error) {
	switch cond.Type {
	case constants.ConditionTypeMinAmount:
		return cartTotal.GreaterThanOrEqual(cond.Value.Decimal), nil
	case constants.ConditionTypeMinQuantity:
		return totalQuantity(items) >= cond.Quantity, nil
	case constants.ConditionTypeSpecificProduct:
		for _, line := range items {
			if !cond.ProductIDs.Contains(line.ProductID) {
				continue
			}
			if len(cond.VariantIDs) == 0 || cond.VariantIDs.Contains(line.VariantID) {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, ErrConditionInvalid
	}
}

// conditionsHold 判断条件集合是否全部满足（AND 语义，空集合恒为真）
func conditionsHold(conds models.ConditionList, items []SaleLine, cartTotal decimal.Decimal) (bool, error) {
	for _, cond := range conds {
		ok, err := conditionHolds(cond, items, cartTotal)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}
