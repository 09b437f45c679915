package admin

import (
	"errors"
	"strconv"

	"github.com/pos-next/internal/http/response"
	"github.com/pos-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateStaffRequest 创建员工请求
type CreateStaffRequest struct {
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role" binding:"required"`
	IsActive    *bool  `json:"is_active"`
}

// UpdateStaffRequest 更新员工请求
type UpdateStaffRequest struct {
	DisplayName string `json:"display_name"`
	Role        string `json:"role" binding:"required"`
	IsActive    *bool  `json:"is_active"`
	Password    string `json:"password"`
}

func respondStaffError(c *gin.Context, action string, err error) {
	switch {
	case errors.Is(err, service.ErrStaffNotFound):
		respondError(c, response.CodeNotFound, "staff not found", nil)
	case errors.Is(err, service.ErrUsernameExists):
		respondError(c, response.CodeConflict, "username exists", nil)
	case errors.Is(err, service.ErrWeakPassword):
		respondError(c, response.CodeBadRequest, err.Error(), nil)
	case errors.Is(err, service.ErrStaffInvalid):
		respondError(c, response.CodeBadRequest, "staff invalid", nil)
	default:
		respondError(c, response.CodeInternal, "staff "+action+" failed", err)
	}
}

// CreateStaff 创建员工账号
func (h *Handler) CreateStaff(c *gin.Context) {
	var req CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	staff, err := h.StaffService.Create(service.StaffInput{
		Username:    req.Username,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Role:        req.Role,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondStaffError(c, "create", err)
		return
	}

	response.Success(c, staff)
}

// UpdateStaff 更新员工资料
func (h *Handler) UpdateStaff(c *gin.Context) {
	staffID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || staffID == 0 {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	var req UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	staff, err := h.StaffService.Update(uint(staffID), service.StaffUpdateInput{
		DisplayName: req.DisplayName,
		Role:        req.Role,
		IsActive:    req.IsActive,
		Password:    req.Password,
	})
	if err != nil {
		respondStaffError(c, "update", err)
		return
	}

	response.Success(c, staff)
}

// DeleteStaff 删除员工账号
func (h *Handler) DeleteStaff(c *gin.Context) {
	operatorID, ok := getStaffID(c)
	if !ok {
		return
	}
	staffID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || staffID == 0 {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	if err := h.StaffService.Delete(uint(staffID), operatorID); err != nil {
		respondStaffError(c, "delete", err)
		return
	}
	response.Success(c, nil)
}

// GetStaffs 获取员工列表
func (h *Handler) GetStaffs(c *gin.Context) {
	staffs, err := h.StaffService.List()
	if err != nil {
		respondError(c, response.CodeInternal, "staff fetch failed", err)
		return
	}
	response.Success(c, staffs)
}
