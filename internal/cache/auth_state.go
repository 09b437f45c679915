package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/pos-next/internal/models"
)

const authStateCacheTTL = 10 * time.Minute

// StaffAuthState 员工鉴权快照。
// token_invalid_before 为 Unix 秒时间戳，0 表示未设置。
// 仅用于服务端 Redis 缓存，避免每个请求都回查数据库。
type StaffAuthState struct {
	StaffID            uint   `json:"staff_id"`
	Username           string `json:"username"`
	Role               string `json:"role"`
	IsActive           bool   `json:"is_active"`
	TokenVersion       uint64 `json:"token_version"`
	TokenInvalidBefore int64  `json:"token_invalid_before"`
	UpdatedAt          int64  `json:"updated_at"`
}

func staffAuthStateKey(staffID uint) string {
	return fmt.Sprintf("auth:staff:%d", staffID)
}

// BuildStaffAuthState 从员工模型构建鉴权快照
func BuildStaffAuthState(staff *models.Staff) *StaffAuthState {
	if staff == nil {
		return nil
	}
	state := &StaffAuthState{
		StaffID:      staff.ID,
		Username:     staff.Username,
		Role:         staff.Role,
		IsActive:     staff.IsActive,
		TokenVersion: staff.TokenVersion,
		UpdatedAt:    time.Now().Unix(),
	}
	if staff.TokenInvalidBefore != nil {
		state.TokenInvalidBefore = staff.TokenInvalidBefore.Unix()
	}
	return state
}

// GetStaffAuthState 获取员工鉴权快照
func GetStaffAuthState(ctx context.Context, staffID uint) (*StaffAuthState, bool, error) {
	if staffID == 0 {
		return nil, false, nil
	}
	var state StaffAuthState
	hit, err := GetJSON(ctx, staffAuthStateKey(staffID), &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}

// SetStaffAuthState 写入员工鉴权快照
func SetStaffAuthState(ctx context.Context, state *StaffAuthState) error {
	if state == nil || state.StaffID == 0 {
		return nil
	}
	return SetJSON(ctx, staffAuthStateKey(state.StaffID), state, authStateCacheTTL)
}

// DelStaffAuthState 删除员工鉴权快照
func DelStaffAuthState(ctx context.Context, staffID uint) error {
	if staffID == 0 {
		return nil
	}
	return Del(ctx, staffAuthStateKey(staffID))
}
