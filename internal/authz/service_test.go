package authz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	return svc
}

func TestEnforceStaffWithRolePolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("shift_lead", "/admin/coupons/:id", "GET"); err != nil {
		t.Fatalf("grant role policy failed: %v", err)
	}
	if err := svc.SetStaffRoles(1, []string{"shift_lead"}); err != nil {
		t.Fatalf("set staff roles failed: %v", err)
	}

	allow, err := svc.EnforceStaff(1, "/api/v1/admin/coupons/42", "get")
	if err != nil {
		t.Fatalf("enforce allow failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected allow=true")
	}

	allow, err = svc.EnforceStaff(1, "/api/v1/admin/coupons/42", "POST")
	if err != nil {
		t.Fatalf("enforce deny failed: %v", err)
	}
	if allow {
		t.Fatalf("expected allow=false")
	}
}

func TestSetStaffRolesOverride(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("cashier", "/pos/checkout", "POST"); err != nil {
		t.Fatalf("grant cashier policy failed: %v", err)
	}
	if err := svc.GrantRolePolicy("manager", "/admin/coupons", "POST"); err != nil {
		t.Fatalf("grant manager policy failed: %v", err)
	}

	if err := svc.SetStaffRoles(2, []string{"cashier"}); err != nil {
		t.Fatalf("set first role failed: %v", err)
	}
	roles, err := svc.GetStaffRoles(2)
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != "role:cashier" {
		t.Fatalf("roles want [role:cashier], got=%v", roles)
	}

	if err := svc.SetStaffRoles(2, []string{"manager"}); err != nil {
		t.Fatalf("set second role failed: %v", err)
	}
	roles, err = svc.GetStaffRoles(2)
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != "role:manager" {
		t.Fatalf("roles want [role:manager], got=%v", roles)
	}

	allow, err := svc.EnforceStaff(2, "/pos/checkout", "POST")
	if err != nil {
		t.Fatalf("enforce old role failed: %v", err)
	}
	if allow {
		t.Fatalf("expected old role permission removed")
	}

	allow, err = svc.EnforceStaff(2, "/admin/coupons", "POST")
	if err != nil {
		t.Fatalf("enforce new role failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected new role permission granted")
	}
}

func TestNormalizeObject(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "/api/v1/admin/orders/:id", want: "/admin/orders/:id"},
		{in: "/admin/orders/:id", want: "/admin/orders/:id"},
		{in: "admin/orders", want: "/admin/orders"},
		{in: "/api/v1", want: "/"},
		{in: "", want: "/"},
	}
	for _, item := range cases {
		got := NormalizeObject(item.in)
		if got != item.want {
			t.Fatalf("normalize object failed, in=%q want=%q got=%q", item.in, item.want, got)
		}
	}
}

func TestBootstrapBuiltinRoles(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}

	roles, err := svc.ListRoles()
	if err != nil {
		t.Fatalf("list roles failed: %v", err)
	}
	wantRoles := map[string]bool{
		"role:manager": true,
		"role:cashier": true,
	}
	for _, role := range roles {
		delete(wantRoles, role)
	}
	if len(wantRoles) != 0 {
		t.Fatalf("builtin roles missing: %v", wantRoles)
	}

	if err := svc.SyncStaffRole(3, "cashier"); err != nil {
		t.Fatalf("sync staff role failed: %v", err)
	}
	allow, err := svc.EnforceStaff(3, "/pos/checkout", "POST")
	if err != nil {
		t.Fatalf("enforce cashier checkout failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected cashier checkout allowed")
	}
	allow, err = svc.EnforceStaff(3, "/admin/coupons", "POST")
	if err != nil {
		t.Fatalf("enforce cashier admin failed: %v", err)
	}
	if allow {
		t.Fatalf("expected cashier denied admin surface")
	}

	if err := svc.SyncStaffRole(4, "manager"); err != nil {
		t.Fatalf("sync manager role failed: %v", err)
	}
	allow, err = svc.EnforceStaff(4, "/admin/coupons", "POST")
	if err != nil {
		t.Fatalf("enforce manager admin failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected manager allowed admin surface")
	}
	allow, err = svc.EnforceStaff(4, "/pos/checkout", "POST")
	if err != nil {
		t.Fatalf("enforce manager inherited pos failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected manager inherit cashier pos surface")
	}
}
