package pos

import (
	"errors"

	"github.com/pos-next/internal/http/response"
	"github.com/pos-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckoutRequest 结账请求
type CheckoutRequest struct {
	CustomerID    uint                   `json:"customer_id"`
	CouponCode    string                 `json:"coupon_code"`
	PaymentMethod string                 `json:"payment_method"`
	Note          string                 `json:"note"`
	Items         []service.CheckoutItem `json:"items" binding:"required"`
}

func (req *CheckoutRequest) toInput(staffID uint) service.CheckoutInput {
	return service.CheckoutInput{
		StaffID:       staffID,
		CustomerID:    req.CustomerID,
		CouponCode:    req.CouponCode,
		PaymentMethod: req.PaymentMethod,
		Note:          req.Note,
		Items:         req.Items,
	}
}

func respondCheckoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCartEmpty):
		respondError(c, response.CodeBadRequest, "cart is empty", nil)
	case errors.Is(err, service.ErrProductNotFound):
		respondError(c, response.CodeBadRequest, "product not available", nil)
	case errors.Is(err, service.ErrVariantNotFound):
		respondError(c, response.CodeBadRequest, "variant not available", nil)
	case errors.Is(err, service.ErrProductInvalid):
		respondError(c, response.CodeBadRequest, "cart line invalid", nil)
	case errors.Is(err, service.ErrCustomerNotFound):
		respondError(c, response.CodeBadRequest, "customer not found", nil)
	case errors.Is(err, service.ErrPaymentMethodInvalid):
		respondError(c, response.CodeBadRequest, "payment method invalid", nil)
	case errors.Is(err, service.ErrStockInsufficient):
		respondError(c, response.CodeBadRequest, "stock insufficient", nil)
	case errors.Is(err, service.ErrCouponUsageLimit):
		respondError(c, response.CodeBadRequest, "coupon usage limit reached", nil)
	case errors.Is(err, service.ErrCouponRejected):
		respondError(c, response.CodeBadRequest, err.Error(), nil)
	default:
		respondError(c, response.CodeInternal, "checkout failed", err)
	}
}

// PreviewCheckout 结账试算，返回各项折扣与应付金额，不落单
func (h *Handler) PreviewCheckout(c *gin.Context) {
	staffID, ok := getStaffID(c)
	if !ok {
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	quote, err := h.CheckoutService.Preview(req.toInput(staffID))
	if err != nil {
		respondCheckoutError(c, err)
		return
	}

	response.Success(c, quote)
}

// Checkout 结账落单
func (h *Handler) Checkout(c *gin.Context) {
	staffID, ok := getStaffID(c)
	if !ok {
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	order, err := h.CheckoutService.Checkout(req.toInput(staffID))
	if err != nil {
		respondCheckoutError(c, err)
		return
	}

	requestLog(c).Infow("order_completed",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"staff_id", staffID,
		"total_amount", order.TotalAmount,
	)
	response.Success(c, order)
}

// CouponCheckRequest 优惠券校验请求
type CouponCheckRequest struct {
	Code       string                 `json:"code" binding:"required"`
	CustomerID uint                   `json:"customer_id"`
	Items      []service.CheckoutItem `json:"items" binding:"required"`
}

// CheckCoupon 校验优惠券在当前购物车上的可用性与折扣金额
func (h *Handler) CheckCoupon(c *gin.Context) {
	if _, ok := getStaffID(c); !ok {
		return
	}

	var req CouponCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	quote, err := h.CheckoutService.Preview(service.CheckoutInput{
		CustomerID: req.CustomerID,
		CouponCode: req.Code,
		Items:      req.Items,
	})
	if err != nil {
		respondCheckoutError(c, err)
		return
	}

	response.Success(c, gin.H{
		"coupon":   quote.Coupon,
		"subtotal": quote.Subtotal,
		"total":    quote.Total,
	})
}
