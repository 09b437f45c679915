package service

import (
	"testing"
	"time"

	"github.com/pos-next/internal/constants"
	"github.com/pos-next/internal/models"
	"github.com/pos-next/internal/repository"

	"gorm.io/gorm"
)

func newPromotionService(t *testing.T) (*PromotionService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t, &models.Promotion{})
	return NewPromotionService(repository.NewPromotionRepository(db)), db
}

func mustCreatePromotion(t *testing.T, db *gorm.DB, promotion *models.Promotion) *models.Promotion {
	t.Helper()
	if promotion.Status == "" {
		promotion.Status = constants.PromotionStatusActive
	}
	if promotion.StartsAt == nil {
		promotion.StartsAt = timePtr(time.Now().Add(-time.Hour))
	}
	if promotion.EndsAt == nil {
		promotion.EndsAt = timePtr(time.Now().Add(time.Hour))
	}
	if err := db.Create(promotion).Error; err != nil {
		t.Fatalf("create promotion failed: %v", err)
	}
	return promotion
}

func TestCalculateCartDiscountEmptyCart(t *testing.T) {
	svc, _ := newPromotionService(t)

	result, err := svc.CalculateCartDiscount(nil, models.NewMoneyFromInt(0))
	if err != nil {
		t.Fatalf("CalculateCartDiscount error: %v", err)
	}
	if len(result.Promotions) != 0 || !result.TotalDiscount.Decimal.IsZero() {
		t.Fatalf("empty cart must produce an empty result, got %+v", result)
	}
}

func TestCalculateCartDiscountFixedAction(t *testing.T) {
	svc, db := newPromotionService(t)

	mustCreatePromotion(t, db, &models.Promotion{
		Name: "spend-100-save-15",
		Conditions: models.ConditionList{
			{Type: constants.ConditionTypeMinAmount, Value: models.NewMoneyFromInt(100)},
		},
		Actions: models.ActionList{
			{Type: constants.ActionTypeFixedDiscount, Value: models.NewMoneyFromInt(15)},
		},
	})

	items := []SaleLine{line(1, 0, 2, 60)}
	result, err := svc.CalculateCartDiscount(items, models.NewMoneyFromInt(120))
	if err != nil {
		t.Fatalf("CalculateCartDiscount error: %v", err)
	}
	if len(result.Promotions) != 1 {
		t.Fatalf("expected 1 applied promotion, got %d", len(result.Promotions))
	}
	if result.TotalDiscount.String() != "15.00" {
		t.Fatalf("total discount = %s, want 15.00", result.TotalDiscount.String())
	}
	if result.Promotion == nil || result.Discount.String() != "15.00" {
		t.Fatalf("first-promotion snapshot missing, got %+v", result)
	}

	// 条件不满足时不生效
	result, err = svc.CalculateCartDiscount(items[:1], models.NewMoneyFromInt(60))
	if err != nil {
		t.Fatalf("CalculateCartDiscount error: %v", err)
	}
	if len(result.Promotions) != 0 {
		t.Fatal("promotion below its threshold must not apply")
	}
}

func TestCalculateCartDiscountPercentTargetsVariants(t *testing.T) {
	svc, db := newPromotionService(t)

	mustCreatePromotion(t, db, &models.Promotion{
		Name: "latte-20-off",
		ApplicableVariants: models.VariantTargetList{
			{ProductID: 1, VariantMode: constants.VariantModeSpecific, VariantIDs: models.UintArray{11}},
		},
		Actions: models.ActionList{
			{Type: constants.ActionTypePercentDiscount, Value: models.NewMoneyFromInt(20)},
		},
	})

	items := []SaleLine{
		line(1, 11, 1, 30), // 命中目标
		line(2, 0, 1, 70),  // 不在折扣基数内
	}
	result, err := svc.CalculateCartDiscount(items, models.NewMoneyFromInt(100))
	if err != nil {
		t.Fatalf("CalculateCartDiscount error: %v", err)
	}
	if result.TotalDiscount.String() != "6.00" {
		t.Fatalf("total discount = %s, want 6.00 (20%% of the targeted line)", result.TotalDiscount.String())
	}

	// 购物车完全未命中目标时活动不生效
	miss := []SaleLine{line(2, 0, 1, 100)}
	result, err = svc.CalculateCartDiscount(miss, models.NewMoneyFromInt(100))
	if err != nil {
		t.Fatalf("CalculateCartDiscount error: %v", err)
	}
	if len(result.Promotions) != 0 {
		t.Fatal("promotion must not apply when no line matches its targets")
	}
}

func TestCalculateCartDiscountPercentCap(t *testing.T) {
	svc, db := newPromotionService(t)

	mustCreatePromotion(t, db, &models.Promotion{
		Name: "half-off-capped",
		Actions: models.ActionList{
			{
				Type:        constants.ActionTypePercentDiscount,
				Value:       models.NewMoneyFromInt(50),
				MaxDiscount: models.NewMoneyFromInt(30),
			},
		},
	})

	items := []SaleLine{line(1, 0, 1, 200)}
	result, err := svc.CalculateCartDiscount(items, models.NewMoneyFromInt(200))
	if err != nil {
		t.Fatalf("CalculateCartDiscount error: %v", err)
	}
	if result.TotalDiscount.String() != "30.00" {
		t.Fatalf("total discount = %s, want 30.00 (capped)", result.TotalDiscount.String())
	}
}

func TestCalculateCartDiscountConflictResolution(t *testing.T) {
	svc, db := newPromotionService(t)

	mustCreatePromotion(t, db, &models.Promotion{
		Name:     "exclusive-high",
		Priority: 100,
		Actions: models.ActionList{
			{Type: constants.ActionTypeFixedDiscount, Value: models.NewMoneyFromInt(20)},
		},
	})
	mustCreatePromotion(t, db, &models.Promotion{
		Name:      "stackable-low",
		Priority:  10,
		Stackable: true,
		Actions: models.ActionList{
			{Type: constants.ActionTypeFixedDiscount, Value: models.NewMoneyFromInt(5)},
		},
	})

	items := []SaleLine{line(1, 0, 1, 200)}
	result, err := svc.CalculateCartDiscount(items, models.NewMoneyFromInt(200))
	if err != nil {
		t.Fatalf("CalculateCartDiscount error: %v", err)
	}
	// 最高优先级活动不可叠加，独占生效
	if len(result.Promotions) != 1 || result.Promotions[0].Name != "exclusive-high" {
		t.Fatalf("expected only the exclusive promotion, got %+v", result.Promotions)
	}
	if result.TotalDiscount.String() != "20.00" {
		t.Fatalf("total discount = %s, want 20.00", result.TotalDiscount.String())
	}
}

func TestCalculateCartDiscountStacking(t *testing.T) {
	svc, db := newPromotionService(t)

	mustCreatePromotion(t, db, &models.Promotion{
		Name:      "stack-a",
		Priority:  100,
		Stackable: true,
		Actions: models.ActionList{
			{Type: constants.ActionTypeFixedDiscount, Value: models.NewMoneyFromInt(10)},
		},
	})
	mustCreatePromotion(t, db, &models.Promotion{
		Name:      "stack-b",
		Priority:  50,
		Stackable: true,
		Actions: models.ActionList{
			{Type: constants.ActionTypeFixedDiscount, Value: models.NewMoneyFromInt(5)},
		},
	})
	mustCreatePromotion(t, db, &models.Promotion{
		Name:     "exclusive-low",
		Priority: 10,
		Actions: models.ActionList{
			{Type: constants.ActionTypeFixedDiscount, Value: models.NewMoneyFromInt(50)},
		},
	})

	items := []SaleLine{line(1, 0, 1, 200)}
	result, err := svc.CalculateCartDiscount(items, models.NewMoneyFromInt(200))
	if err != nil {
		t.Fatalf("CalculateCartDiscount error: %v", err)
	}
	// 可叠加链由高到低累加，不可叠加活动排在已生效活动之后被跳过
	if len(result.Promotions) != 2 {
		t.Fatalf("expected 2 stacked promotions, got %d", len(result.Promotions))
	}
	if result.Promotions[0].Name != "stack-a" || result.Promotions[1].Name != "stack-b" {
		t.Fatalf("unexpected application order: %s, %s", result.Promotions[0].Name, result.Promotions[1].Name)
	}
	if result.TotalDiscount.String() != "15.00" {
		t.Fatalf("total discount = %s, want 15.00", result.TotalDiscount.String())
	}
}

func TestCalculateCartDiscountClampedToCartTotal(t *testing.T) {
	svc, db := newPromotionService(t)

	mustCreatePromotion(t, db, &models.Promotion{
		Name: "overshoot",
		Actions: models.ActionList{
			{Type: constants.ActionTypeFixedDiscount, Value: models.NewMoneyFromInt(500)},
		},
	})

	items := []SaleLine{line(1, 0, 1, 80)}
	result, err := svc.CalculateCartDiscount(items, models.NewMoneyFromInt(80))
	if err != nil {
		t.Fatalf("CalculateCartDiscount error: %v", err)
	}
	if result.TotalDiscount.String() != "80.00" {
		t.Fatalf("total discount = %s, want 80.00 (clamped to cart total)", result.TotalDiscount.String())
	}
}
