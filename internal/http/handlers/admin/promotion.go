package admin

import (
	"errors"
	"strconv"

	"github.com/pos-next/internal/http/response"
	"github.com/pos-next/internal/models"
	"github.com/pos-next/internal/repository"
	"github.com/pos-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// PromotionConditionRequest 促销条件请求
type PromotionConditionRequest struct {
	Type       string  `json:"type" binding:"required"`
	Value      float64 `json:"value"`
	Quantity   int     `json:"quantity"`
	ProductIDs []uint  `json:"product_ids"`
	VariantIDs []uint  `json:"variant_ids"`
}

// PromotionActionRequest 促销动作请求
type PromotionActionRequest struct {
	Type        string  `json:"type" binding:"required"`
	Value       float64 `json:"value" binding:"required"`
	MaxDiscount float64 `json:"max_discount"`
}

// PromotionRequest 创建/更新促销活动请求
type PromotionRequest struct {
	Name               string                      `json:"name" binding:"required"`
	Status             string                      `json:"status"`
	Priority           int                         `json:"priority"`
	Stackable          bool                        `json:"stackable"`
	Conditions         []PromotionConditionRequest `json:"conditions"`
	Actions            []PromotionActionRequest    `json:"actions" binding:"required"`
	ApplicableVariants []VariantTargetRequest      `json:"applicable_variants"`
	StartsAt           string                      `json:"starts_at" binding:"required"`
	EndsAt             string                      `json:"ends_at" binding:"required"`
}

func (req *PromotionRequest) toInput() (service.PromotionInput, error) {
	startsAt, err := parseTimeNullable(req.StartsAt)
	if err != nil {
		return service.PromotionInput{}, err
	}
	endsAt, err := parseTimeNullable(req.EndsAt)
	if err != nil {
		return service.PromotionInput{}, err
	}

	conditions := make([]models.PromotionCondition, 0, len(req.Conditions))
	for _, cond := range req.Conditions {
		conditions = append(conditions, models.PromotionCondition{
			Type:       cond.Type,
			Value:      models.NewMoneyFromDecimal(decimal.NewFromFloat(cond.Value)),
			Quantity:   cond.Quantity,
			ProductIDs: cond.ProductIDs,
			VariantIDs: cond.VariantIDs,
		})
	}
	actions := make([]models.PromotionAction, 0, len(req.Actions))
	for _, action := range req.Actions {
		actions = append(actions, models.PromotionAction{
			Type:        action.Type,
			Value:       models.NewMoneyFromDecimal(decimal.NewFromFloat(action.Value)),
			MaxDiscount: models.NewMoneyFromDecimal(decimal.NewFromFloat(action.MaxDiscount)),
		})
	}

	return service.PromotionInput{
		Name:               req.Name,
		Status:             req.Status,
		Priority:           req.Priority,
		Stackable:          req.Stackable,
		Conditions:         conditions,
		Actions:            actions,
		ApplicableVariants: toVariantTargets(req.ApplicableVariants),
		StartsAt:           startsAt,
		EndsAt:             endsAt,
	}, nil
}

// CreatePromotion 创建促销活动
func (h *Handler) CreatePromotion(c *gin.Context) {
	var req PromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	promotion, err := h.PromotionAdminService.Create(input)
	if err != nil {
		if errors.Is(err, service.ErrPromotionInvalid) {
			respondError(c, response.CodeBadRequest, "promotion invalid", nil)
			return
		}
		respondError(c, response.CodeInternal, "promotion create failed", err)
		return
	}

	response.Success(c, promotion)
}

// UpdatePromotion 更新促销活动
func (h *Handler) UpdatePromotion(c *gin.Context) {
	promotionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || promotionID == 0 {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	var req PromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	promotion, err := h.PromotionAdminService.Update(uint(promotionID), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPromotionNotFound):
			respondError(c, response.CodeNotFound, "promotion not found", nil)
		case errors.Is(err, service.ErrPromotionInvalid):
			respondError(c, response.CodeBadRequest, "promotion invalid", nil)
		default:
			respondError(c, response.CodeInternal, "promotion update failed", err)
		}
		return
	}

	response.Success(c, promotion)
}

// DeletePromotion 删除促销活动
func (h *Handler) DeletePromotion(c *gin.Context) {
	promotionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || promotionID == 0 {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	if err := h.PromotionAdminService.Delete(uint(promotionID)); err != nil {
		if errors.Is(err, service.ErrPromotionNotFound) {
			respondError(c, response.CodeNotFound, "promotion not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "promotion delete failed", err)
		return
	}
	response.Success(c, gin.H{
		"deleted": true,
	})
}

// GetPromotion 获取促销活动详情
func (h *Handler) GetPromotion(c *gin.Context) {
	promotionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || promotionID == 0 {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	promotion, err := h.PromotionAdminService.Get(uint(promotionID))
	if err != nil {
		if errors.Is(err, service.ErrPromotionNotFound) {
			respondError(c, response.CodeNotFound, "promotion not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "promotion fetch failed", err)
		return
	}
	response.Success(c, promotion)
}

// GetPromotions 获取促销活动列表
func (h *Handler) GetPromotions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	promotions, total, err := h.PromotionAdminService.List(repository.PromotionListFilter{
		Name:     c.Query("name"),
		Status:   c.Query("status"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "promotion fetch failed", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, promotions, pagination)
}
