package service

import (
	"github.com/pos-next/internal/constants"
	"github.com/pos-next/internal/models"
)

// variantTargetMatches 判断单行是否命中某个规格目标。
// all_variants（或未填模式）命中该商品全部行；specific_variants 仅命中列出的规格。
func variantTargetMatches(line SaleLine, target models.VariantTarget) bool {
	if target.ProductID != line.ProductID {
		return false
	}
	if target.VariantMode == constants.VariantModeSpecific {
		return target.VariantIDs.Contains(line.VariantID)
	}
	return true
}

// variantEligible 判断购物车是否命中任一规格目标；目标为空视为全场适用。
func variantEligible(items []SaleLine, targets models.VariantTargetList) bool {
	if len(targets) == 0 {
		return true
	}
	for _, line := range items {
		for _, target := range targets {
			if variantTargetMatches(line, target) {
				return true
			}
		}
	}
	return false
}

// selectVariantEligibleLines 返回命中规格目标的行；目标为空返回全部行。
func selectVariantEligibleLines(items []SaleLine, targets models.VariantTargetList) []SaleLine {
	if len(targets) == 0 {
		return items
	}
	selected := make([]SaleLine, 0, len(items))
	for _, line := range items {
		for _, target := range targets {
			if variantTargetMatches(line, target) {
				selected = append(selected, line)
				break
			}
		}
	}
	return selected
}
