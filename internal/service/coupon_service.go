package service

import (
	"strings"
	"time"

	"github.com/pos-next/internal/constants"
	"github.com/pos-next/internal/models"
	"github.com/pos-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CouponService 优惠券服务
type CouponService struct {
	couponRepo repository.CouponRepository
	usageRepo  repository.CouponUsageRepository
	orderRepo  repository.OrderRepository
}

// NewCouponService 创建优惠券服务
func NewCouponService(
	couponRepo repository.CouponRepository,
	usageRepo repository.CouponUsageRepository,
	orderRepo repository.OrderRepository,
) *CouponService {
	return &CouponService{
		couponRepo: couponRepo,
		usageRepo:  usageRepo,
		orderRepo:  orderRepo,
	}
}

// CouponValidation 优惠券校验结果。
// 业务性拒绝不走 error，统一体现在 Valid/Message 上；error 仅表示基础设施故障。
type CouponValidation struct {
	Valid        bool           `json:"valid"`            // 是否可用
	Restricted   bool           `json:"restricted"`       // 因适用范围/客户限制被拒
	FreeShipping bool           `json:"free_shipping"`    // 免配送费券
	Discount     models.Money   `json:"discount"`         // 优惠金额
	Message      string         `json:"message,omitempty"` // 拒绝原因（可读文案）
	Coupon       *models.Coupon `json:"coupon,omitempty"` // 命中的优惠券
}

func rejectCoupon(coupon *models.Coupon, message string) *CouponValidation {
	return &CouponValidation{Coupon: coupon, Message: message}
}

func restrictCoupon(coupon *models.Coupon, message string) *CouponValidation {
	return &CouponValidation{Coupon: coupon, Restricted: true, Message: message}
}

// Validate 按固定顺序校验优惠码并计算优惠金额。
// 校验链短路：任何一道门槛不过立即返回，后续门槛不再评估。
func (s *CouponService) Validate(code string, customerID uint, cartTotal models.Money, items []SaleLine) (*CouponValidation, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return rejectCoupon(nil, "invalid coupon code"), nil
	}

	coupon, err := s.couponRepo.GetByCode(trimmed)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return rejectCoupon(nil, "invalid coupon code"), nil
	}

	if coupon.Status != constants.CouponStatusActive {
		return rejectCoupon(coupon, "coupon is not active"), nil
	}

	if msg := couponWindowMessage(coupon.StartsAt, coupon.EndsAt, time.Now()); msg != "" {
		return rejectCoupon(coupon, msg), nil
	}

	if coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit {
		return rejectCoupon(coupon, "coupon usage limit reached"), nil
	}

	if len(coupon.AllowedCustomerIDs) > 0 {
		if customerID == 0 || !coupon.AllowedCustomerIDs.Contains(customerID) {
			return restrictCoupon(coupon, "coupon is not available for this customer"), nil
		}
	}

	if coupon.PerUserLimit > 0 {
		if customerID == 0 {
			return rejectCoupon(coupon, "coupon requires a registered customer"), nil
		}
		count, err := s.usageRepo.CountByCustomer(coupon.ID, customerID)
		if err != nil {
			return nil, err
		}
		if int(count) >= coupon.PerUserLimit {
			return rejectCoupon(coupon, "coupon usage limit reached for this customer"), nil
		}
	}

	if coupon.MinOrderAmount.Decimal.GreaterThan(decimal.Zero) &&
		cartTotal.Decimal.LessThan(coupon.MinOrderAmount.Decimal) {
		return rejectCoupon(coupon, "order total does not meet the coupon minimum"), nil
	}

	if coupon.MinQuantity > 0 && totalQuantity(items) < coupon.MinQuantity {
		return rejectCoupon(coupon, "order quantity does not meet the coupon minimum"), nil
	}

	// 规格定向优先于旧版商品列表，二者不同时生效
	if len(coupon.ApplicableVariants) > 0 {
		if !variantEligible(items, coupon.ApplicableVariants) {
			return restrictCoupon(coupon, "coupon does not apply to these items"), nil
		}
	} else if len(coupon.ApplicableProducts) > 0 {
		if !anyLineOnProducts(items, coupon.ApplicableProducts) {
			return restrictCoupon(coupon, "coupon does not apply to these items"), nil
		}
	}

	if len(coupon.ApplicableCategories) > 0 && !anyLineInCategories(items, coupon.ApplicableCategories) {
		return restrictCoupon(coupon, "coupon does not apply to these items"), nil
	}

	eligible := discountBaseLines(coupon, items)
	if len(eligible) == 0 {
		return restrictCoupon(coupon, "coupon does not apply to these items"), nil
	}

	base := linesTotal(eligible)
	if base.LessThanOrEqual(decimal.Zero) {
		return restrictCoupon(coupon, "coupon does not apply to these items"), nil
	}

	if coupon.FirstOrderOnly {
		if customerID == 0 {
			return rejectCoupon(coupon, "coupon is limited to first orders"), nil
		}
		orders, err := s.orderRepo.CountCompletedByCustomer(customerID)
		if err != nil {
			return nil, err
		}
		if orders > 0 {
			return rejectCoupon(coupon, "coupon is limited to first orders"), nil
		}
	}

	discount, freeShipping := s.calculateDiscount(coupon, base)
	if discount.GreaterThan(base) {
		discount = base
	}
	if discount.LessThan(decimal.Zero) {
		discount = decimal.Zero
	}

	return &CouponValidation{
		Valid:        true,
		FreeShipping: freeShipping,
		Discount:     models.NewMoneyFromDecimal(discount),
		Coupon:       coupon,
	}, nil
}

// couponWindowMessage 校验有效期，起止边界均含端点；在窗口内返回空串。
func couponWindowMessage(startsAt, endsAt *time.Time, now time.Time) string {
	if startsAt != nil && now.Before(*startsAt) {
		return "coupon is not active yet"
	}
	if endsAt != nil && now.After(*endsAt) {
		return "coupon has expired"
	}
	return ""
}

func anyLineOnProducts(items []SaleLine, products models.UintArray) bool {
	for _, line := range items {
		if products.Contains(line.ProductID) {
			return true
		}
	}
	return false
}

func anyLineInCategories(items []SaleLine, categories models.UintArray) bool {
	for _, line := range items {
		if categories.Contains(line.CategoryID) {
			return true
		}
	}
	return false
}

// discountBaseLines 折扣基数行。
// 规格定向优先于旧版商品列表收窄基数；分类定向只做资格校验，不收窄基数；
// 排除商品列表中的行永远不计入基数。
func discountBaseLines(coupon *models.Coupon, items []SaleLine) []SaleLine {
	base := items
	if len(coupon.ApplicableVariants) > 0 {
		base = selectVariantEligibleLines(items, coupon.ApplicableVariants)
	} else if len(coupon.ApplicableProducts) > 0 {
		narrowed := make([]SaleLine, 0, len(base))
		for _, line := range base {
			if coupon.ApplicableProducts.Contains(line.ProductID) {
				narrowed = append(narrowed, line)
			}
		}
		base = narrowed
	}

	eligible := make([]SaleLine, 0, len(base))
	for _, line := range base {
		if coupon.ExcludedProducts.Contains(line.ProductID) {
			continue
		}
		eligible = append(eligible, line)
	}
	return eligible
}

func (s *CouponService) calculateDiscount(coupon *models.Coupon, base decimal.Decimal) (decimal.Decimal, bool) {
	switch coupon.Type {
	case constants.CouponTypeFixed:
		return coupon.Value.Decimal, false
	case constants.CouponTypePercent:
		percent := coupon.Value.Decimal.Div(decimal.NewFromInt(100))
		discount := base.Mul(percent)
		if coupon.MaxDiscount.Decimal.GreaterThan(decimal.Zero) && discount.GreaterThan(coupon.MaxDiscount.Decimal) {
			discount = coupon.MaxDiscount.Decimal
		}
		return discount, false
	case constants.CouponTypeFreeShipping:
		return decimal.Zero, true
	default:
		return decimal.Zero, false
	}
}

// TrackUsage 登记一次优惠券使用（独立事务）。
// 名额检查与计数自增为同一条带守卫的 UPDATE，并发下不会超发。
func (s *CouponService) TrackUsage(couponID, customerID, orderID uint, discount models.Money) error {
	return models.DB.Transaction(func(tx *gorm.DB) error {
		return s.trackUsageTx(tx, couponID, customerID, orderID, discount)
	})
}

func (s *CouponService) trackUsageTx(tx *gorm.DB, couponID, customerID, orderID uint, discount models.Money) error {
	usage := &models.CouponUsage{
		CouponID:       couponID,
		CustomerID:     customerID,
		OrderID:        orderID,
		DiscountAmount: discount,
	}
	if err := s.usageRepo.WithTx(tx).Create(usage); err != nil {
		return err
	}
	affected, err := s.couponRepo.WithTx(tx).IncrementUsedCountWithinLimit(couponID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCouponUsageLimit
	}
	return nil
}

// releaseUsageTx 释放订单占用的优惠券名额（订单作废时调用）
func (s *CouponService) releaseUsageTx(tx *gorm.DB, orderID uint) error {
	usages, err := s.usageRepo.WithTx(tx).ListByOrderID(orderID)
	if err != nil {
		return err
	}
	if len(usages) == 0 {
		return nil
	}
	if err := s.usageRepo.WithTx(tx).DeleteByOrderID(orderID); err != nil {
		return err
	}
	for _, usage := range usages {
		if err := s.couponRepo.WithTx(tx).DecrementUsedCount(usage.CouponID, 1); err != nil {
			return err
		}
	}
	return nil
}
