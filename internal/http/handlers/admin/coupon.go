package admin

import (
	"errors"
	"strconv"
	"time"

	"github.com/pos-next/internal/http/response"
	"github.com/pos-next/internal/models"
	"github.com/pos-next/internal/repository"
	"github.com/pos-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// VariantTargetRequest 规格限定请求
type VariantTargetRequest struct {
	ProductID   uint   `json:"product_id" binding:"required"`
	VariantMode string `json:"variant_mode"`
	VariantIDs  []uint `json:"variant_ids"`
}

func toVariantTargets(items []VariantTargetRequest) []models.VariantTarget {
	if len(items) == 0 {
		return nil
	}
	targets := make([]models.VariantTarget, 0, len(items))
	for _, item := range items {
		targets = append(targets, models.VariantTarget{
			ProductID:   item.ProductID,
			VariantMode: item.VariantMode,
			VariantIDs:  item.VariantIDs,
		})
	}
	return targets
}

// CouponRequest 创建/更新优惠券请求
type CouponRequest struct {
	Code                 string                 `json:"code" binding:"required"`
	Status               string                 `json:"status"`
	Type                 string                 `json:"type" binding:"required"`
	Value                float64                `json:"value"`
	MaxDiscount          float64                `json:"max_discount"`
	MinOrderAmount       float64                `json:"min_order_amount"`
	MinQuantity          int                    `json:"min_quantity"`
	UsageLimit           int                    `json:"usage_limit"`
	PerUserLimit         int                    `json:"per_user_limit"`
	FirstOrderOnly       bool                   `json:"first_order_only"`
	AllowedCustomerIDs   []uint                 `json:"allowed_customer_ids"`
	ApplicableProducts   []uint                 `json:"applicable_products"`
	ApplicableVariants   []VariantTargetRequest `json:"applicable_variants"`
	ApplicableCategories []uint                 `json:"applicable_categories"`
	ExcludedProducts     []uint                 `json:"excluded_products"`
	StartsAt             string                 `json:"starts_at"`
	EndsAt               string                 `json:"ends_at"`
}

func (req *CouponRequest) toInput() (service.CouponInput, error) {
	startsAt, err := parseTimeNullable(req.StartsAt)
	if err != nil {
		return service.CouponInput{}, err
	}
	endsAt, err := parseTimeNullable(req.EndsAt)
	if err != nil {
		return service.CouponInput{}, err
	}
	return service.CouponInput{
		Code:                 req.Code,
		Status:               req.Status,
		Type:                 req.Type,
		Value:                models.NewMoneyFromDecimal(decimal.NewFromFloat(req.Value)),
		MaxDiscount:          models.NewMoneyFromDecimal(decimal.NewFromFloat(req.MaxDiscount)),
		MinOrderAmount:       models.NewMoneyFromDecimal(decimal.NewFromFloat(req.MinOrderAmount)),
		MinQuantity:          req.MinQuantity,
		UsageLimit:           req.UsageLimit,
		PerUserLimit:         req.PerUserLimit,
		FirstOrderOnly:       req.FirstOrderOnly,
		AllowedCustomerIDs:   req.AllowedCustomerIDs,
		ApplicableProducts:   req.ApplicableProducts,
		ApplicableVariants:   toVariantTargets(req.ApplicableVariants),
		ApplicableCategories: req.ApplicableCategories,
		ExcludedProducts:     req.ExcludedProducts,
		StartsAt:             startsAt,
		EndsAt:               endsAt,
	}, nil
}

// CreateCoupon 创建优惠券
func (h *Handler) CreateCoupon(c *gin.Context) {
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	coupon, err := h.CouponAdminService.Create(input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCouponCodeExists):
			respondError(c, response.CodeConflict, "coupon code exists", nil)
		case errors.Is(err, service.ErrCouponInvalid):
			respondError(c, response.CodeBadRequest, "coupon invalid", nil)
		default:
			respondError(c, response.CodeInternal, "coupon create failed", err)
		}
		return
	}

	response.Success(c, coupon)
}

// UpdateCoupon 更新优惠券
func (h *Handler) UpdateCoupon(c *gin.Context) {
	couponID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || couponID == 0 {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	coupon, err := h.CouponAdminService.Update(uint(couponID), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCouponNotFound):
			respondError(c, response.CodeNotFound, "coupon not found", nil)
		case errors.Is(err, service.ErrCouponCodeExists):
			respondError(c, response.CodeConflict, "coupon code exists", nil)
		case errors.Is(err, service.ErrCouponInvalid):
			respondError(c, response.CodeBadRequest, "coupon invalid", nil)
		default:
			respondError(c, response.CodeInternal, "coupon update failed", err)
		}
		return
	}

	response.Success(c, coupon)
}

// DeleteCoupon 删除优惠券
func (h *Handler) DeleteCoupon(c *gin.Context) {
	couponID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || couponID == 0 {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	if err := h.CouponAdminService.Delete(uint(couponID)); err != nil {
		switch {
		case errors.Is(err, service.ErrCouponNotFound):
			respondError(c, response.CodeNotFound, "coupon not found", nil)
		default:
			respondError(c, response.CodeInternal, "coupon delete failed", err)
		}
		return
	}
	response.Success(c, gin.H{
		"deleted": true,
	})
}

// GetCoupon 获取优惠券详情
func (h *Handler) GetCoupon(c *gin.Context) {
	couponID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || couponID == 0 {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	coupon, err := h.CouponAdminService.Get(uint(couponID))
	if err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			respondError(c, response.CodeNotFound, "coupon not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "coupon fetch failed", err)
		return
	}
	response.Success(c, coupon)
}

// GetCoupons 获取优惠券列表
func (h *Handler) GetCoupons(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	coupons, total, err := h.CouponAdminService.List(repository.CouponListFilter{
		Code:     c.Query("code"),
		Status:   c.Query("status"),
		Type:     c.Query("type"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "coupon fetch failed", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, coupons, pagination)
}

func parseTimeNullable(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
