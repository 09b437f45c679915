package admin

import (
	"errors"
	"time"

	"github.com/pos-next/internal/http/response"
	"github.com/pos-next/internal/service"

	"github.com/gin-gonic/gin"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token     string                 `json:"token"`
	Staff     map[string]interface{} `json:"staff"`
	ExpiresAt string                 `json:"expires_at"`
}

// Login 员工登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	staff, token, expiresAt, err := h.AuthService.Login(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(c, response.CodeUnauthorized, "invalid username or password", nil)
		case errors.Is(err, service.ErrStaffDisabled):
			respondError(c, response.CodeForbidden, "staff account disabled", nil)
		default:
			respondError(c, response.CodeInternal, "login failed", err)
		}
		return
	}
	response.Success(c, LoginResponse{
		Token: token,
		Staff: map[string]interface{}{
			"id":           staff.ID,
			"username":     staff.Username,
			"display_name": staff.DisplayName,
			"role":         staff.Role,
		},
		ExpiresAt: expiresAt.Format(time.RFC3339),
	})
}

// UpdatePasswordRequest 修改密码请求
type UpdatePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// UpdatePassword 修改当前登录员工密码
func (h *Handler) UpdatePassword(c *gin.Context) {
	id, ok := getStaffID(c)
	if !ok {
		return
	}

	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	if err := h.AuthService.ChangePassword(id, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(c, response.CodeBadRequest, "old password incorrect", nil)
		case errors.Is(err, service.ErrWeakPassword):
			respondError(c, response.CodeBadRequest, err.Error(), nil)
		case errors.Is(err, service.ErrStaffNotFound):
			respondError(c, response.CodeNotFound, "staff not found", nil)
		default:
			respondError(c, response.CodeInternal, "password update failed", err)
		}
		return
	}

	response.Success(c, nil)
}
