package service

import (
	"context"
	"strings"
	"time"

	"github.com/pos-next/internal/authz"
	"github.com/pos-next/internal/cache"
	"github.com/pos-next/internal/constants"
	"github.com/pos-next/internal/logger"
	"github.com/pos-next/internal/models"
	"github.com/pos-next/internal/repository"
)

// StaffService 员工管理服务
type StaffService struct {
	repo  repository.StaffRepository
	auth  *AuthService
	authz *authz.Service
}

// NewStaffService 创建员工管理服务
func NewStaffService(repo repository.StaffRepository, auth *AuthService, authzService *authz.Service) *StaffService {
	return &StaffService{repo: repo, auth: auth, authz: authzService}
}

func (s *StaffService) syncRole(staff *models.Staff) {
	if s.authz == nil || staff == nil {
		return
	}
	role := staff.Role
	if !staff.IsActive {
		role = ""
	}
	if err := s.authz.SyncStaffRole(staff.ID, role); err != nil {
		logger.Warnw("staff_role_sync_failed", "staff_id", staff.ID, "error", err.Error())
	}
}

// StaffInput 创建员工输入
type StaffInput struct {
	Username    string
	Password    string
	DisplayName string
	Role        string
	IsActive    *bool
}

// StaffUpdateInput 更新员工输入，Password 非空时重置密码
type StaffUpdateInput struct {
	DisplayName string
	Role        string
	IsActive    *bool
	Password    string
}

func validStaffRole(role string) bool {
	switch role {
	case constants.StaffRoleManager, constants.StaffRoleCashier:
		return true
	}
	return false
}

// Create 创建员工账号
func (s *StaffService) Create(input StaffInput) (*models.Staff, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || !validStaffRole(input.Role) {
		return nil, ErrStaffInvalid
	}
	if err := s.auth.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	exist, err := s.repo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrUsernameExists
	}

	hash, err := s.auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	staff := &models.Staff{
		Username:     username,
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(input.DisplayName),
		Role:         input.Role,
		IsActive:     isActive,
	}
	if err := s.repo.Create(staff); err != nil {
		return nil, err
	}
	_ = cache.SetStaffAuthState(context.Background(), cache.BuildStaffAuthState(staff))
	s.syncRole(staff)
	return staff, nil
}

// Update 更新员工资料，角色变更或停用会使已签发令牌失效
func (s *StaffService) Update(id uint, input StaffUpdateInput) (*models.Staff, error) {
	staff, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, ErrStaffNotFound
	}
	if !validStaffRole(input.Role) {
		return nil, ErrStaffInvalid
	}

	isActive := staff.IsActive
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	revoke := input.Role != staff.Role || (staff.IsActive && !isActive) || input.Password != ""

	staff.DisplayName = strings.TrimSpace(input.DisplayName)
	staff.Role = input.Role
	staff.IsActive = isActive

	if input.Password != "" {
		if err := s.auth.ValidatePassword(input.Password); err != nil {
			return nil, err
		}
		hash, err := s.auth.HashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		staff.PasswordHash = hash
	}

	if revoke {
		now := time.Now()
		staff.TokenVersion++
		staff.TokenInvalidBefore = &now
	}

	if err := s.repo.Update(staff); err != nil {
		return nil, err
	}
	_ = cache.SetStaffAuthState(context.Background(), cache.BuildStaffAuthState(staff))
	s.syncRole(staff)
	return staff, nil
}

// Get 获取员工详情
func (s *StaffService) Get(id uint) (*models.Staff, error) {
	staff, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, ErrStaffNotFound
	}
	return staff, nil
}

// List 员工列表
func (s *StaffService) List() ([]models.Staff, error) {
	return s.repo.List()
}

// Delete 删除员工账号
func (s *StaffService) Delete(id uint, operatorID uint) error {
	if id == operatorID {
		return ErrStaffInvalid
	}
	staff, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if staff == nil {
		return ErrStaffNotFound
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	_ = cache.DelStaffAuthState(context.Background(), id)
	if s.authz != nil {
		if err := s.authz.SetStaffRoles(id, nil); err != nil {
			logger.Warnw("staff_role_sync_failed", "staff_id", id, "error", err.Error())
		}
	}
	return nil
}
