package service

import (
	"errors"
	"testing"
	"time"

	"github.com/pos-next/internal/constants"
	"github.com/pos-next/internal/models"
	"github.com/pos-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newCouponService(t *testing.T) (*CouponService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t,
		&models.Coupon{},
		&models.CouponUsage{},
		&models.Order{},
		&models.OrderItem{},
	)
	svc := NewCouponService(
		repository.NewCouponRepository(db),
		repository.NewCouponUsageRepository(db),
		repository.NewOrderRepository(db),
	)
	return svc, db
}

func activeWindow() (*time.Time, *time.Time) {
	starts := time.Now().Add(-time.Hour)
	ends := time.Now().Add(time.Hour)
	return &starts, &ends
}

func mustCreateCoupon(t *testing.T, db *gorm.DB, coupon *models.Coupon) *models.Coupon {
	t.Helper()
	if coupon.Status == "" {
		coupon.Status = constants.CouponStatusActive
	}
	if coupon.StartsAt == nil && coupon.EndsAt == nil {
		coupon.StartsAt, coupon.EndsAt = activeWindow()
	}
	if err := db.Create(coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}
	return coupon
}

func TestCouponValidateUnknownCode(t *testing.T) {
	svc, _ := newCouponService(t)

	validation, err := svc.Validate("NOPE", 0, models.NewMoneyFromInt(100), nil)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if validation.Valid {
		t.Fatal("unknown code must be rejected")
	}
	if validation.Message == "" {
		t.Fatal("rejection must carry a message")
	}

	validation, err = svc.Validate("   ", 0, models.NewMoneyFromInt(100), nil)
	if err != nil || validation.Valid {
		t.Fatalf("blank code must be rejected, got valid=%v err=%v", validation.Valid, err)
	}
}

func TestCouponValidateStatusAndWindow(t *testing.T) {
	svc, db := newCouponService(t)
	items := []SaleLine{line(1, 0, 1, 100)}

	mustCreateCoupon(t, db, &models.Coupon{
		Code:   "PAUSED",
		Status: constants.CouponStatusInactive,
		Type:   constants.CouponTypeFixed,
		Value:  models.NewMoneyFromInt(5),
	})
	validation, err := svc.Validate("PAUSED", 0, models.NewMoneyFromInt(100), items)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if validation.Valid {
		t.Fatal("inactive coupon must be rejected")
	}

	future := time.Now().Add(time.Hour)
	farFuture := time.Now().Add(2 * time.Hour)
	mustCreateCoupon(t, db, &models.Coupon{
		Code:     "SOON",
		Type:     constants.CouponTypeFixed,
		Value:    models.NewMoneyFromInt(5),
		StartsAt: &future,
		EndsAt:   &farFuture,
	})
	if v, _ := svc.Validate("SOON", 0, models.NewMoneyFromInt(100), items); v.Valid {
		t.Fatal("not-yet-started coupon must be rejected")
	}

	past := time.Now().Add(-2 * time.Hour)
	recentPast := time.Now().Add(-time.Hour)
	mustCreateCoupon(t, db, &models.Coupon{
		Code:     "GONE",
		Type:     constants.CouponTypeFixed,
		Value:    models.NewMoneyFromInt(5),
		StartsAt: &past,
		EndsAt:   &recentPast,
	})
	if v, _ := svc.Validate("GONE", 0, models.NewMoneyFromInt(100), items); v.Valid {
		t.Fatal("expired coupon must be rejected")
	}

	mustCreateCoupon(t, db, &models.Coupon{
		Code:  "OPEN",
		Type:  constants.CouponTypeFixed,
		Value: models.NewMoneyFromInt(5),
	})
	v, err := svc.Validate("OPEN", 0, models.NewMoneyFromInt(100), items)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if !v.Valid {
		t.Fatalf("coupon inside its window must validate: %s", v.Message)
	}
}

func TestCouponWindowBoundariesInclusive(t *testing.T) {
	instant := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	starts := instant
	ends := instant.Add(time.Hour)

	// 起止边界均为闭区间
	if msg := couponWindowMessage(&starts, &ends, instant); msg != "" {
		t.Fatalf("now == StartsAt must be inside the window, got %q", msg)
	}
	if msg := couponWindowMessage(&starts, &ends, ends); msg != "" {
		t.Fatalf("now == EndsAt must be inside the window, got %q", msg)
	}
	if msg := couponWindowMessage(&starts, &ends, instant.Add(-time.Nanosecond)); msg != "coupon is not active yet" {
		t.Fatalf("just before StartsAt must reject as not started, got %q", msg)
	}
	if msg := couponWindowMessage(&starts, &ends, ends.Add(time.Nanosecond)); msg != "coupon has expired" {
		t.Fatalf("just after EndsAt must reject as expired, got %q", msg)
	}
	// 端点缺省表示该侧不限
	if msg := couponWindowMessage(nil, nil, instant); msg != "" {
		t.Fatalf("open-ended window must always pass, got %q", msg)
	}
}

func TestCouponValidateUsageLimits(t *testing.T) {
	svc, db := newCouponService(t)
	items := []SaleLine{line(1, 0, 1, 100)}

	exhausted := mustCreateCoupon(t, db, &models.Coupon{
		Code:       "MAXED",
		Type:       constants.CouponTypeFixed,
		Value:      models.NewMoneyFromInt(5),
		UsageLimit: 3,
		UsedCount:  3,
	})
	if v, _ := svc.Validate(exhausted.Code, 0, models.NewMoneyFromInt(100), items); v.Valid {
		t.Fatal("coupon at its global usage limit must be rejected")
	}

	perUser := mustCreateCoupon(t, db, &models.Coupon{
		Code:         "ONCE",
		Type:         constants.CouponTypeFixed,
		Value:        models.NewMoneyFromInt(5),
		PerUserLimit: 1,
	})
	if v, _ := svc.Validate(perUser.Code, 0, models.NewMoneyFromInt(100), items); v.Valid {
		t.Fatal("per-customer limited coupon must require a registered customer")
	}

	if err := db.Create(&models.CouponUsage{CouponID: perUser.ID, CustomerID: 9, OrderID: 1}).Error; err != nil {
		t.Fatalf("create usage failed: %v", err)
	}
	if v, _ := svc.Validate(perUser.Code, 9, models.NewMoneyFromInt(100), items); v.Valid {
		t.Fatal("customer at the per-customer limit must be rejected")
	}
	if v, _ := svc.Validate(perUser.Code, 10, models.NewMoneyFromInt(100), items); !v.Valid {
		t.Fatalf("another customer must still validate: %s", v.Message)
	}
}

func TestCouponValidateFirstOrderOnly(t *testing.T) {
	svc, db := newCouponService(t)
	items := []SaleLine{line(1, 0, 1, 100)}

	coupon := mustCreateCoupon(t, db, &models.Coupon{
		Code:           "FIRST",
		Type:           constants.CouponTypeFixed,
		Value:          models.NewMoneyFromInt(5),
		FirstOrderOnly: true,
	})

	if v, _ := svc.Validate(coupon.Code, 0, models.NewMoneyFromInt(100), items); v.Valid {
		t.Fatal("first-order coupon must require a registered customer")
	}

	if v, _ := svc.Validate(coupon.Code, 5, models.NewMoneyFromInt(100), items); !v.Valid {
		t.Fatalf("customer without orders must validate: %s", v.Message)
	}

	if err := db.Create(&models.Order{
		OrderNo:    "PN1",
		CustomerID: 5,
		Status:     constants.OrderStatusCompleted,
	}).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if v, _ := svc.Validate(coupon.Code, 5, models.NewMoneyFromInt(100), items); v.Valid {
		t.Fatal("customer with a completed order must be rejected")
	}
}

func TestCouponValidateTargetingCheckedBeforeFirstOrder(t *testing.T) {
	svc, db := newCouponService(t)

	coupon := mustCreateCoupon(t, db, &models.Coupon{
		Code:               "FIRSTTARGET",
		Type:               constants.CouponTypeFixed,
		Value:              models.NewMoneyFromInt(5),
		FirstOrderOnly:     true,
		ApplicableProducts: models.UintArray{1},
	})

	// 定向不命中先于首单限制触发，游客拿到的是范围拒绝而非首单拒绝
	v, err := svc.Validate(coupon.Code, 0, models.NewMoneyFromInt(100), []SaleLine{line(2, 0, 1, 100)})
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if v.Valid || !v.Restricted {
		t.Fatalf("targeting miss must restrict before the first-order gate, got %+v", v)
	}
}

func TestCouponValidateMinimums(t *testing.T) {
	svc, db := newCouponService(t)

	coupon := mustCreateCoupon(t, db, &models.Coupon{
		Code:           "BULK",
		Type:           constants.CouponTypeFixed,
		Value:          models.NewMoneyFromInt(10),
		MinOrderAmount: models.NewMoneyFromInt(50),
		MinQuantity:    3,
	})

	items := []SaleLine{line(1, 0, 3, 20)}
	if v, _ := svc.Validate(coupon.Code, 0, models.NewMoneyFromInt(49), items); v.Valid {
		t.Fatal("cart below the amount threshold must be rejected")
	}
	if v, _ := svc.Validate(coupon.Code, 0, models.NewMoneyFromInt(50), items[:1]); !v.Valid {
		t.Fatalf("thresholds are inclusive: %s", v.Message)
	}
	short := []SaleLine{line(1, 0, 2, 30)}
	if v, _ := svc.Validate(coupon.Code, 0, models.NewMoneyFromInt(60), short); v.Valid {
		t.Fatal("cart below the quantity threshold must be rejected")
	}
}

func TestCouponValidateTargeting(t *testing.T) {
	svc, db := newCouponService(t)

	coupon := mustCreateCoupon(t, db, &models.Coupon{
		Code:                 "CAT",
		Type:                 constants.CouponTypePercent,
		Value:                models.NewMoneyFromInt(10),
		ApplicableCategories: models.UintArray{3},
		ExcludedProducts:     models.UintArray{8},
	})

	inCategory := SaleLine{ProductID: 5, CategoryID: 3, Quantity: 1, UnitPrice: decimal.NewFromInt(40)}
	outside := SaleLine{ProductID: 6, CategoryID: 4, Quantity: 1, UnitPrice: decimal.NewFromInt(60)}
	excluded := SaleLine{ProductID: 8, CategoryID: 3, Quantity: 1, UnitPrice: decimal.NewFromInt(100)}

	v, err := svc.Validate(coupon.Code, 0, models.NewMoneyFromInt(100), []SaleLine{inCategory, outside})
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if !v.Valid {
		t.Fatalf("category hit must validate: %s", v.Message)
	}
	// 分类定向只做资格校验，不收窄基数：100 * 10% = 10.00
	if v.Discount.String() != "10.00" {
		t.Fatalf("discount = %s, want 10.00", v.Discount.String())
	}

	// 排除行仍算命中分类，但其金额从基数中扣掉：(160 - 100) * 10% = 6.00
	v, err = svc.Validate(coupon.Code, 0, models.NewMoneyFromInt(160), []SaleLine{outside, excluded})
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if !v.Valid {
		t.Fatalf("partial exclusion must not block validity: %s", v.Message)
	}
	if v.Discount.String() != "6.00" {
		t.Fatalf("discount = %s, want 6.00", v.Discount.String())
	}

	// 分类完全未命中才拒绝
	v, err = svc.Validate(coupon.Code, 0, models.NewMoneyFromInt(60), []SaleLine{outside})
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if v.Valid || !v.Restricted {
		t.Fatalf("cart with no category hit must be restricted, got %+v", v)
	}

	// 全部行都被排除时拒绝
	v, err = svc.Validate(coupon.Code, 0, models.NewMoneyFromInt(100), []SaleLine{excluded})
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if v.Valid || !v.Restricted {
		t.Fatalf("fully excluded cart must be restricted, got %+v", v)
	}
}

func TestCouponValidateVariantTargetingSupersedesProductList(t *testing.T) {
	svc, db := newCouponService(t)

	coupon := mustCreateCoupon(t, db, &models.Coupon{
		Code:  "VARFIRST",
		Type:  constants.CouponTypePercent,
		Value: models.NewMoneyFromInt(10),
		ApplicableVariants: models.VariantTargetList{
			{ProductID: 1, VariantMode: constants.VariantModeSpecific, VariantIDs: models.UintArray{11}},
		},
		ApplicableProducts: models.UintArray{2},
	})

	// 规格定向存在时旧版商品列表不参与判定：只含 p2 的购物车被拒
	v, err := svc.Validate(coupon.Code, 0, models.NewMoneyFromInt(100), []SaleLine{line(2, 0, 1, 100)})
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if v.Valid || !v.Restricted {
		t.Fatalf("variant targeting must supersede the product list, got %+v", v)
	}

	// 命中规格目标时生效，基数只含规格命中行：30 * 10% = 3.00
	mixed := []SaleLine{line(1, 11, 1, 30), line(2, 0, 1, 70)}
	v, err = svc.Validate(coupon.Code, 0, models.NewMoneyFromInt(100), mixed)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if !v.Valid {
		t.Fatalf("variant hit must validate: %s", v.Message)
	}
	if v.Discount.String() != "3.00" {
		t.Fatalf("discount = %s, want 3.00", v.Discount.String())
	}
}

func TestCouponValidateDiscountMath(t *testing.T) {
	svc, db := newCouponService(t)
	items := []SaleLine{line(1, 0, 1, 30)}

	big := mustCreateCoupon(t, db, &models.Coupon{
		Code:  "BIG",
		Type:  constants.CouponTypeFixed,
		Value: models.NewMoneyFromInt(50),
	})
	v, _ := svc.Validate(big.Code, 0, models.NewMoneyFromInt(30), items)
	if !v.Valid {
		t.Fatalf("expected valid, got %s", v.Message)
	}
	// 固定额不超过折扣基数
	if v.Discount.String() != "30.00" {
		t.Fatalf("discount = %s, want 30.00", v.Discount.String())
	}

	capped := mustCreateCoupon(t, db, &models.Coupon{
		Code:        "CAP",
		Type:        constants.CouponTypePercent,
		Value:       models.NewMoneyFromInt(50),
		MaxDiscount: models.NewMoneyFromInt(10),
	})
	v, _ = svc.Validate(capped.Code, 0, models.NewMoneyFromInt(30), items)
	if !v.Valid {
		t.Fatalf("expected valid, got %s", v.Message)
	}
	if v.Discount.String() != "10.00" {
		t.Fatalf("discount = %s, want 10.00 (capped)", v.Discount.String())
	}

	shipping := mustCreateCoupon(t, db, &models.Coupon{
		Code:  "SHIP",
		Type:  constants.CouponTypeFreeShipping,
		Value: models.NewMoneyFromInt(0),
	})
	v, _ = svc.Validate(shipping.Code, 0, models.NewMoneyFromInt(30), items)
	if !v.Valid || !v.FreeShipping {
		t.Fatalf("free shipping coupon must validate with FreeShipping set, got %+v", v)
	}
	if v.Discount.String() != "0.00" {
		t.Fatalf("free shipping discount = %s, want 0.00", v.Discount.String())
	}
}

func TestCouponTrackUsageWithinLimit(t *testing.T) {
	svc, db := newCouponService(t)

	prevDB := models.DB
	models.DB = db
	t.Cleanup(func() { models.DB = prevDB })

	coupon := mustCreateCoupon(t, db, &models.Coupon{
		Code:       "TRACK",
		Type:       constants.CouponTypeFixed,
		Value:      models.NewMoneyFromInt(5),
		UsageLimit: 2,
	})

	for i := 1; i <= 2; i++ {
		if err := svc.TrackUsage(coupon.ID, 1, uint(i), models.NewMoneyFromInt(5)); err != nil {
			t.Fatalf("TrackUsage %d failed: %v", i, err)
		}
	}
	err := svc.TrackUsage(coupon.ID, 1, 3, models.NewMoneyFromInt(5))
	if !errors.Is(err, ErrCouponUsageLimit) {
		t.Fatalf("expected ErrCouponUsageLimit, got %v", err)
	}

	var fresh models.Coupon
	if err := db.First(&fresh, coupon.ID).Error; err != nil {
		t.Fatalf("reload coupon failed: %v", err)
	}
	if fresh.UsedCount != 2 {
		t.Fatalf("used count = %d, want 2 (rejected attempt must not count)", fresh.UsedCount)
	}

	var usages int64
	if err := db.Model(&models.CouponUsage{}).Count(&usages).Error; err != nil {
		t.Fatalf("count usages failed: %v", err)
	}
	if usages != 2 {
		t.Fatalf("usage rows = %d, want 2 (rejected attempt must roll back)", usages)
	}
}
