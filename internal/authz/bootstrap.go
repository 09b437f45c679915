package authz

import (
	"fmt"

	"github.com/pos-next/internal/constants"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 系统预置角色矩阵。
// 收银员只有 POS 售卖面，店长在此之上拥有全部后台管理权限。
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: constants.StaffRoleCashier,
			Policies: []Policy{
				{Object: "/pos/products", Action: "GET"},
				{Object: "/pos/products/:id", Action: "GET"},
				{Object: "/pos/categories", Action: "GET"},
				{Object: "/pos/customers", Action: "GET"},
				{Object: "/pos/checkout/preview", Action: "POST"},
				{Object: "/pos/checkout", Action: "POST"},
				{Object: "/pos/coupons/check", Action: "POST"},
				{Object: "/pos/orders", Action: "GET"},
				{Object: "/pos/orders/:id", Action: "GET"},
			},
		},
		{
			Role:     constants.StaffRoleManager,
			Inherits: []string{constants.StaffRoleCashier},
			Policies: []Policy{
				{Object: "/admin/*", Action: "*"},
				{Object: "/pos/orders/:id/void", Action: "POST"},
			},
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	for _, seed := range BuiltinRoleSeeds() {
		role, err := s.EnsureRole(seed.Role)
		if err != nil {
			return err
		}

		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
		}

		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			if _, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}

	return nil
}

// SyncStaffRole 将员工的业务角色同步到授权层
func (s *Service) SyncStaffRole(staffID uint, role string) error {
	if role == "" {
		return s.SetStaffRoles(staffID, nil)
	}
	return s.SetStaffRoles(staffID, []string{role})
}
