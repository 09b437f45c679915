package admin

import (
	"errors"
	"strconv"

	"github.com/pos-next/internal/http/response"
	"github.com/pos-next/internal/repository"
	"github.com/pos-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AdjustStockRequest 库存调整请求
type AdjustStockRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	VariantID uint   `json:"variant_id"`
	Delta     int    `json:"delta" binding:"required"`
	Type      string `json:"type" binding:"required"`
	Reason    string `json:"reason"`
}

// AdjustStock 手动调整库存
func (h *Handler) AdjustStock(c *gin.Context) {
	staffID, ok := getStaffID(c)
	if !ok {
		return
	}

	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	movement, err := h.InventoryService.Adjust(service.AdjustStockInput{
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Delta:     req.Delta,
		Type:      req.Type,
		Reason:    req.Reason,
		StaffID:   staffID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			respondError(c, response.CodeNotFound, "product not found", nil)
		case errors.Is(err, service.ErrVariantNotFound):
			respondError(c, response.CodeNotFound, "variant not found", nil)
		case errors.Is(err, service.ErrStockInsufficient):
			respondError(c, response.CodeBadRequest, "stock insufficient", nil)
		case errors.Is(err, service.ErrProductInvalid):
			respondError(c, response.CodeBadRequest, "adjustment invalid", nil)
		default:
			respondError(c, response.CodeInternal, "stock adjust failed", err)
		}
		return
	}

	response.Success(c, movement)
}

// GetStockMovements 获取库存流水
func (h *Handler) GetStockMovements(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	var productID uint
	if raw := c.Query("product_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "bad request", err)
			return
		}
		productID = uint(parsed)
	}

	movements, total, err := h.InventoryService.Movements(repository.StockMovementListFilter{
		ProductID: productID,
		Type:      c.Query("type"),
		Page:      page,
		PageSize:  pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "stock movement fetch failed", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, movements, pagination)
}

// GetLowStock 获取低库存商品
func (h *Handler) GetLowStock(c *gin.Context) {
	products, err := h.InventoryService.LowStock()
	if err != nil {
		respondError(c, response.CodeInternal, "low stock fetch failed", err)
		return
	}
	response.Success(c, products)
}
