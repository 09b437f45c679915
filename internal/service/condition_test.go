package service

import (
	"errors"
	"testing"

	"github.com/pos-next/internal/constants"
	"github.com/pos-next/internal/models"

	"github.com/shopspring/decimal"
)

func TestConditionHoldsMinAmount(t *testing.T) {
	cond := models.PromotionCondition{
		Type:  constants.ConditionTypeMinAmount,
		Value: models.NewMoneyFromInt(100),
	}

	ok, err := conditionHolds(cond, nil, decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("conditionHolds error: %v", err)
	}
	if !ok {
		t.Fatal("threshold amount is inclusive, 100 >= 100 must hold")
	}

	ok, _ = conditionHolds(cond, nil, decimal.NewFromFloat(99.99))
	if ok {
		t.Fatal("99.99 must not satisfy a 100 threshold")
	}
}

func TestConditionHoldsMinQuantity(t *testing.T) {
	cond := models.PromotionCondition{
		Type:     constants.ConditionTypeMinQuantity,
		Quantity: 3,
	}
	items := []SaleLine{line(1, 0, 2, 10), line(2, 0, 1, 10)}

	ok, err := conditionHolds(cond, items, decimal.Zero)
	if err != nil {
		t.Fatalf("conditionHolds error: %v", err)
	}
	if !ok {
		t.Fatal("total quantity 3 must satisfy a 3 threshold")
	}

	ok, _ = conditionHolds(cond, items[:1], decimal.Zero)
	if ok {
		t.Fatal("total quantity 2 must not satisfy a 3 threshold")
	}
}

func TestConditionHoldsSpecificProduct(t *testing.T) {
	cond := models.PromotionCondition{
		Type:       constants.ConditionTypeSpecificProduct,
		ProductIDs: models.UintArray{7},
	}
	if ok, _ := conditionHolds(cond, []SaleLine{line(7, 0, 1, 10)}, decimal.Zero); !ok {
		t.Fatal("cart containing product 7 must satisfy the condition")
	}
	if ok, _ := conditionHolds(cond, []SaleLine{line(8, 0, 1, 10)}, decimal.Zero); ok {
		t.Fatal("cart without product 7 must not satisfy the condition")
	}

	cond.VariantIDs = models.UintArray{70}
	if ok, _ := conditionHolds(cond, []SaleLine{line(7, 71, 1, 10)}, decimal.Zero); ok {
		t.Fatal("variant restriction must exclude unlisted variants")
	}
	if ok, _ := conditionHolds(cond, []SaleLine{line(7, 70, 1, 10)}, decimal.Zero); !ok {
		t.Fatal("listed variant must satisfy the condition")
	}
}

func TestConditionHoldsUnknownType(t *testing.T) {
	cond := models.PromotionCondition{Type: "BOGOF"}
	_, err := conditionHolds(cond, nil, decimal.Zero)
	if !errors.Is(err, ErrConditionInvalid) {
		t.Fatalf("expected ErrConditionInvalid, got %v", err)
	}
}

func TestConditionsHold(t *testing.T) {
	items := []SaleLine{line(1, 0, 2, 60)}
	conds := models.ConditionList{
		{Type: constants.ConditionTypeMinAmount, Value: models.NewMoneyFromInt(100)},
		{Type: constants.ConditionTypeMinQuantity, Quantity: 2},
	}

	ok, err := conditionsHold(conds, items, decimal.NewFromInt(120))
	if err != nil {
		t.Fatalf("conditionsHold error: %v", err)
	}
	if !ok {
		t.Fatal("all conditions satisfied, expected true")
	}

	conds = append(conds, models.PromotionCondition{Type: constants.ConditionTypeMinQuantity, Quantity: 5})
	ok, err = conditionsHold(conds, items, decimal.NewFromInt(120))
	if err != nil {
		t.Fatalf("conditionsHold error: %v", err)
	}
	if ok {
		t.Fatal("one failing condition must fail the whole set")
	}

	ok, err = conditionsHold(nil, items, decimal.Zero)
	if err != nil || !ok {
		t.Fatalf("empty condition set must hold, got ok=%v err=%v", ok, err)
	}
}
