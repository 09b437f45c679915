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

// ProductRequest 创建/更新商品请求
type ProductRequest struct {
	CategoryID        uint     `json:"category_id"`
	SKU               string   `json:"sku" binding:"required"`
	Barcode           string   `json:"barcode"`
	Name              string   `json:"name" binding:"required"`
	Description       string   `json:"description"`
	Price             float64  `json:"price"`
	Cost              float64  `json:"cost"`
	StockQuantity     int      `json:"stock_quantity"`
	LowStockThreshold int      `json:"low_stock_threshold"`
	Tags              []string `json:"tags"`
	IsActive          *bool    `json:"is_active"`
	SortOrder         int      `json:"sort_order"`
}

func (req *ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		CategoryID:        req.CategoryID,
		SKU:               req.SKU,
		Barcode:           req.Barcode,
		Name:              req.Name,
		Description:       req.Description,
		Price:             models.NewMoneyFromDecimal(decimal.NewFromFloat(req.Price)),
		Cost:              models.NewMoneyFromDecimal(decimal.NewFromFloat(req.Cost)),
		StockQuantity:     req.StockQuantity,
		LowStockThreshold: req.LowStockThreshold,
		Tags:              req.Tags,
		IsActive:          req.IsActive,
		SortOrder:         req.SortOrder,
	}
}

func respondProductError(c *gin.Context, action string, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		respondError(c, response.CodeNotFound, "product not found", nil)
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, response.CodeBadRequest, "category not found", nil)
	case errors.Is(err, service.ErrProductSKUExists):
		respondError(c, response.CodeConflict, "product sku exists", nil)
	case errors.Is(err, service.ErrProductInvalid):
		respondError(c, response.CodeBadRequest, "product invalid", nil)
	default:
		respondError(c, response.CodeInternal, "product "+action+" failed", err)
	}
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	product, err := h.ProductService.Create(req.toInput())
	if err != nil {
		respondProductError(c, "create", err)
		return
	}

	response.Success(c, product)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	product, err := h.ProductService.Update(uint(productID), req.toInput())
	if err != nil {
		respondProductError(c, "update", err)
		return
	}

	response.Success(c, product)
}

// DeleteProduct 删除商品（软删除）
func (h *Handler) DeleteProduct(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	if err := h.ProductService.Delete(uint(productID)); err != nil {
		respondProductError(c, "delete", err)
		return
	}
	response.Success(c, nil)
}

// GetProduct 获取商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	product, err := h.ProductService.Get(uint(productID))
	if err != nil {
		respondProductError(c, "fetch", err)
		return
	}
	response.Success(c, product)
}

// GetProducts 获取商品列表
func (h *Handler) GetProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	var categoryID uint
	if raw := c.Query("category_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "bad request", err)
			return
		}
		categoryID = uint(parsed)
	}
	var isActive *bool
	if raw := c.Query("is_active"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "bad request", err)
			return
		}
		isActive = &parsed
	}

	products, total, err := h.ProductService.List(repository.ProductListFilter{
		CategoryID: categoryID,
		Keyword:    c.Query("keyword"),
		IsActive:   isActive,
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "product fetch failed", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, products, pagination)
}

// VariantRequest 创建/更新规格请求
type VariantRequest struct {
	SKUCode       string  `json:"sku_code" binding:"required"`
	Name          string  `json:"name" binding:"required"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stock_quantity"`
	IsActive      *bool   `json:"is_active"`
	SortOrder     int     `json:"sort_order"`
}

func (req *VariantRequest) toInput() service.VariantInput {
	return service.VariantInput{
		SKUCode:       req.SKUCode,
		Name:          req.Name,
		Price:         models.NewMoneyFromDecimal(decimal.NewFromFloat(req.Price)),
		StockQuantity: req.StockQuantity,
		IsActive:      req.IsActive,
		SortOrder:     req.SortOrder,
	}
}

// CreateVariant 为商品创建规格
func (h *Handler) CreateVariant(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	var req VariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	variant, err := h.ProductService.CreateVariant(uint(productID), req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			respondError(c, response.CodeNotFound, "product not found", nil)
		case errors.Is(err, service.ErrVariantInvalid):
			respondError(c, response.CodeBadRequest, "variant invalid", nil)
		default:
			respondError(c, response.CodeInternal, "variant create failed", err)
		}
		return
	}
	response.Success(c, variant)
}

// UpdateVariant 更新规格
func (h *Handler) UpdateVariant(c *gin.Context) {
	variantID, err := strconv.ParseUint(c.Param("variant_id"), 10, 64)
	if err != nil || variantID == 0 {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	var req VariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	variant, err := h.ProductService.UpdateVariant(uint(variantID), req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVariantNotFound):
			respondError(c, response.CodeNotFound, "variant not found", nil)
		case errors.Is(err, service.ErrVariantInvalid):
			respondError(c, response.CodeBadRequest, "variant invalid", nil)
		default:
			respondError(c, response.CodeInternal, "variant update failed", err)
		}
		return
	}
	response.Success(c, variant)
}

// DeleteVariant 删除规格
func (h *Handler) DeleteVariant(c *gin.Context) {
	variantID, err := strconv.ParseUint(c.Param("variant_id"), 10, 64)
	if err != nil || variantID == 0 {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	if err := h.ProductService.DeleteVariant(uint(variantID)); err != nil {
		switch {
		case errors.Is(err, service.ErrVariantNotFound):
			respondError(c, response.CodeNotFound, "variant not found", nil)
		default:
			respondError(c, response.CodeInternal, "variant delete failed", err)
		}
		return
	}
	response.Success(c, nil)
}
