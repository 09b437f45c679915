package admin

import (
	"errors"
	"strconv"

	"github.com/pos-next/internal/http/response"
	"github.com/pos-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CategoryRequest 创建/更新分类请求
type CategoryRequest struct {
	Slug      string `json:"slug" binding:"required"`
	Name      string `json:"name" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

// GetCategories 获取分类列表
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.CategoryService.List()
	if err != nil {
		respondError(c, response.CodeInternal, "category fetch failed", err)
		return
	}
	response.Success(c, categories)
}

// CreateCategory 创建分类
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	category, err := h.CategoryService.Create(service.CategoryInput{
		Slug:      req.Slug,
		Name:      req.Name,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCategorySlugExists):
			respondError(c, response.CodeConflict, "category slug exists", nil)
		case errors.Is(err, service.ErrCategoryInvalid):
			respondError(c, response.CodeBadRequest, "category invalid", nil)
		default:
			respondError(c, response.CodeInternal, "category create failed", err)
		}
		return
	}

	response.Success(c, category)
}

// UpdateCategory 更新分类
func (h *Handler) UpdateCategory(c *gin.Context) {
	categoryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || categoryID == 0 {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	category, err := h.CategoryService.Update(uint(categoryID), service.CategoryInput{
		Slug:      req.Slug,
		Name:      req.Name,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNotFound):
			respondError(c, response.CodeNotFound, "category not found", nil)
		case errors.Is(err, service.ErrCategorySlugExists):
			respondError(c, response.CodeConflict, "category slug exists", nil)
		case errors.Is(err, service.ErrCategoryInvalid):
			respondError(c, response.CodeBadRequest, "category invalid", nil)
		default:
			respondError(c, response.CodeInternal, "category update failed", err)
		}
		return
	}

	response.Success(c, category)
}

// DeleteCategory 删除分类
func (h *Handler) DeleteCategory(c *gin.Context) {
	categoryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || categoryID == 0 {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	if err := h.CategoryService.Delete(uint(categoryID)); err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryInUse):
			respondError(c, response.CodeBadRequest, "category in use", nil)
		case errors.Is(err, service.ErrCategoryNotFound):
			respondError(c, response.CodeNotFound, "category not found", nil)
		default:
			respondError(c, response.CodeInternal, "category delete failed", err)
		}
		return
	}
	response.Success(c, nil)
}
