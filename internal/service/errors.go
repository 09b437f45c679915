package service

import "errors"

// 业务错误定义，处理器按 errors.Is 映射响应码
var (
	ErrCouponNotFound   = errors.New("coupon not found")
	ErrCouponInvalid    = errors.New("coupon invalid")
	ErrCouponCodeExists = errors.New("coupon code exists")
	ErrCouponUsageLimit = errors.New("coupon usage limit reached")
	ErrCouponRejected   = errors.New("coupon rejected")

	ErrPromotionNotFound = errors.New("promotion not found")
	ErrPromotionInvalid  = errors.New("promotion invalid")
	ErrConditionInvalid  = errors.New("promotion condition invalid")

	ErrCategoryNotFound   = errors.New("category not found")
	ErrCategoryInvalid    = errors.New("category invalid")
	ErrCategorySlugExists = errors.New("category slug exists")
	ErrCategoryInUse      = errors.New("category in use")

	ErrProductNotFound  = errors.New("product not found")
	ErrProductInvalid   = errors.New("product invalid")
	ErrProductSKUExists = errors.New("product sku exists")
	ErrVariantNotFound  = errors.New("variant not found")
	ErrVariantInvalid   = errors.New("variant invalid")

	ErrCustomerNotFound    = errors.New("customer not found")
	ErrCustomerPhoneExists = errors.New("customer phone exists")

	ErrOrderNotFound        = errors.New("order not found")
	ErrPaymentMethodInvalid = errors.New("payment method invalid")
	ErrOrderNotVoidable     = errors.New("order not voidable")
	ErrCartEmpty            = errors.New("cart empty")

	ErrStockInsufficient = errors.New("stock insufficient")

	ErrStaffNotFound      = errors.New("staff not found")
	ErrStaffInvalid       = errors.New("staff invalid")
	ErrStaffDisabled      = errors.New("staff disabled")
	ErrUsernameExists     = errors.New("username exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// CouponRejectedError 优惠券校验未通过，携带给收银端展示的原因
type CouponRejectedError struct {
	Message string
}

// Error 实现 error 接口
func (e *CouponRejectedError) Error() string {
	if e == nil || e.Message == "" {
		return ErrCouponRejected.Error()
	}
	return e.Message
}

// Is 支持 errors.Is(err, ErrCouponRejected)
func (e *CouponRejectedError) Is(target error) bool {
	return target == ErrCouponRejected
}
