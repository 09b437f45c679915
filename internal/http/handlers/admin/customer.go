package admin

import (
	"errors"
	"strconv"

	"github.com/pos-next/internal/http/response"
	"github.com/pos-next/internal/repository"
	"github.com/pos-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CustomerRequest 创建/更新客户请求
type CustomerRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
	Email string `json:"email"`
}

// CreateCustomer 创建客户
func (h *Handler) CreateCustomer(c *gin.Context) {
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	customer, err := h.CustomerService.Create(service.CustomerInput{
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
	})
	if err != nil {
		if errors.Is(err, service.ErrCustomerPhoneExists) {
			respondError(c, response.CodeConflict, "customer phone exists", nil)
			return
		}
		respondError(c, response.CodeInternal, "customer create failed", err)
		return
	}

	response.Success(c, customer)
}

// UpdateCustomer 更新客户
func (h *Handler) UpdateCustomer(c *gin.Context) {
	customerID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || customerID == 0 {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	customer, err := h.CustomerService.Update(uint(customerID), service.CustomerInput{
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCustomerNotFound):
			respondError(c, response.CodeNotFound, "customer not found", nil)
		case errors.Is(err, service.ErrCustomerPhoneExists):
			respondError(c, response.CodeConflict, "customer phone exists", nil)
		default:
			respondError(c, response.CodeInternal, "customer update failed", err)
		}
		return
	}

	response.Success(c, customer)
}

// DeleteCustomer 删除客户
func (h *Handler) DeleteCustomer(c *gin.Context) {
	customerID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || customerID == 0 {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	if err := h.CustomerService.Delete(uint(customerID)); err != nil {
		if errors.Is(err, service.ErrCustomerNotFound) {
			respondError(c, response.CodeNotFound, "customer not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "customer delete failed", err)
		return
	}
	response.Success(c, nil)
}

// GetCustomers 获取客户列表
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
