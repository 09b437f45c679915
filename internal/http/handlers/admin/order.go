package admin

import (
	"errors"
	"strconv"

	"github.com/pos-next/internal/http/response"
	"github.com/pos-next/internal/repository"
	"github.com/pos-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GetOrders 获取订单列表
func (h *Handler) GetOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	var customerID uint
	if raw := c.Query("customer_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "bad request", err)
			return
		}
		customerID = uint(parsed)
	}

	orders, total, err := h.OrderService.List(repository.OrderListFilter{
		OrderNo:    c.Query("order_no"),
		CustomerID: customerID,
		Status:     c.Query("status"),
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "order fetch failed", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, orders, pagination)
}

// GetOrder 获取订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	order, err := h.OrderService.Get(uint(orderID))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "order not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "order fetch failed", err)
		return
	}
	response.Success(c, order)
}

// VoidOrderRequest 作废订单请求
type VoidOrderRequest struct {
	Reason string `json:"reason"`
}

// VoidOrder 作废订单并回补库存与核销额度
func (h *Handler) VoidOrder(c *gin.Context) {
	staffID, ok := getStaffID(c)
	if !ok {
		return
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	// 请求体可省略
	var req VoidOrderRequest
	_ = c.ShouldBindJSON(&req)

	order, err := h.CheckoutService.Void(uint(orderID), staffID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "order not found", nil)
		case errors.Is(err, service.ErrOrderNotVoidable):
			respondError(c, response.CodeBadRequest, "order not voidable", nil)
		default:
			respondError(c, response.CodeInternal, "order void failed", err)
		}
		return
	}

	requestLog(c).Infow("order_voided",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"staff_id", staffID,
	)
	response.Success(c, order)
}
