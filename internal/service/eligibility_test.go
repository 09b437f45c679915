package service

import (
	"testing"

	"github.com/pos-next/internal/constants"
	"github.com/pos-next/internal/models"

	"github.com/shopspring/decimal"
)

func line(productID, variantID uint, quantity int, price int64) SaleLine {
	return SaleLine{
		ProductID: productID,
		VariantID: variantID,
		Quantity:  quantity,
		UnitPrice: decimal.NewFromInt(price),
	}
}

func TestVariantTargetMatches(t *testing.T) {
	target := models.VariantTarget{
		ProductID:   1,
		VariantMode: constants.VariantModeSpecific,
		VariantIDs:  models.UintArray{10, 11},
	}

	if variantTargetMatches(line(2, 10, 1, 5), target) {
		t.Fatal("different product must not match")
	}
	if !variantTargetMatches(line(1, 11, 1, 5), target) {
		t.Fatal("listed variant must match")
	}
	if variantTargetMatches(line(1, 12, 1, 5), target) {
		t.Fatal("unlisted variant must not match")
	}

	allTarget := models.VariantTarget{ProductID: 1, VariantMode: constants.VariantModeAll}
	if !variantTargetMatches(line(1, 99, 1, 5), allTarget) {
		t.Fatal("all_variants must match any variant of the product")
	}
	if !variantTargetMatches(line(1, 0, 1, 5), models.VariantTarget{ProductID: 1}) {
		t.Fatal("empty mode must behave like all_variants")
	}
}

func TestVariantEligible(t *testing.T) {
	items := []SaleLine{line(1, 10, 1, 5), line(2, 0, 2, 3)}

	if !variantEligible(items, nil) {
		t.Fatal("empty target list means storewide")
	}

	targets := models.VariantTargetList{
		{ProductID: 2, VariantMode: constants.VariantModeAll},
	}
	if !variantEligible(items, targets) {
		t.Fatal("expected cart to hit target on product 2")
	}

	miss := models.VariantTargetList{
		{ProductID: 1, VariantMode: constants.VariantModeSpecific, VariantIDs: models.UintArray{99}},
	}
	if variantEligible(items, miss) {
		t.Fatal("expected no hit when only unlisted variants are in the cart")
	}
}

func TestSelectVariantEligibleLines(t *testing.T) {
	items := []SaleLine{line(1, 10, 1, 5), line(1, 11, 1, 5), line(2, 0, 2, 3)}

	if got := selectVariantEligibleLines(items, nil); len(got) != 3 {
		t.Fatalf("empty targets must return all lines, got %d", len(got))
	}

	targets := models.VariantTargetList{
		{ProductID: 1, VariantMode: constants.VariantModeSpecific, VariantIDs: models.UintArray{11}},
	}
	got := selectVariantEligibleLines(items, targets)
	if len(got) != 1 || got[0].VariantID != 11 {
		t.Fatalf("expected only variant 11, got %+v", got)
	}
}
