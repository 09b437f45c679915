package pos

import (
	"errors"
	"strconv"

	"github.com/pos-next/internal/http/response"
	"github.com/pos-next/internal/repository"
	"github.com/pos-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GetProducts 收银端商品列表（仅在售商品）
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

	active := true
	products, total, err := h.ProductService.List(repository.ProductListFilter{
		CategoryID: categoryID,
		Keyword:    c.Query("keyword"),
		IsActive:   &active,
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

// GetProduct 收银端商品详情（扫码用，支持按 ID）
func (h *Handler) GetProduct(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	product, err := h.ProductService.Get(uint(productID))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "product not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "product fetch failed", err)
		return
	}
	response.Success(c, product)
}

// GetCategories 收银端分类列表
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.CategoryService.List()
	if err != nil {
		respondError(c, response.CodeInternal, "category fetch failed", err)
		return
	}
	response.Success(c, categories)
}

// GetCustomers 收银端客户检索（按关键字找会员）
func (h *Handler) GetCustomers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	customers, total, err := h.CustomerService.List(repository.CustomerListFilter{
		Keyword:  c.Query("keyword"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "customer fetch failed", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, customers, pagination)
}
