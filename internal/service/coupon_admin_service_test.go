package service

import (
	"errors"
	"testing"
	"time"

	"github.com/pos-next/internal/constants"
	"github.com/pos-next/internal/models"
	"github.com/pos-next/internal/repository"
)

func newCouponAdminService(t *testing.T) *CouponAdminService {
	t.Helper()
	db := newTestDB(t, &models.Coupon{})
	return NewCouponAdminService(repository.NewCouponRepository(db))
}

func validCouponInput() CouponInput {
	return CouponInput{
		Code:  "SAVE10",
		Type:  constants.CouponTypeFixed,
		Value: models.NewMoneyFromInt(10),
	}
}

func TestCouponAdminCreateValidation(t *testing.T) {
	svc := newCouponAdminService(t)

	cases := []struct {
		name   string
		mutate func(*CouponInput)
	}{
		{"empty code", func(in *CouponInput) { in.Code = "  " }},
		{"unknown type", func(in *CouponInput) { in.Type = "bogo" }},
		{"zero value", func(in *CouponInput) { in.Value = models.NewMoneyFromInt(0) }},
		{"percent over 100", func(in *CouponInput) {
			in.Type = constants.CouponTypePercent
			in.Value = models.NewMoneyFromInt(150)
		}},
		{"unknown status", func(in *CouponInput) { in.Status = "archived" }},
		{"negative limit", func(in *CouponInput) { in.UsageLimit = -1 }},
		{"inverted window", func(in *CouponInput) {
			in.StartsAt = timePtr(time.Now().Add(time.Hour))
			in.EndsAt = timePtr(time.Now())
		}},
		{"variant target without product", func(in *CouponInput) {
			in.ApplicableVariants = []models.VariantTarget{{VariantMode: constants.VariantModeAll}}
		}},
		{"specific mode without variant ids", func(in *CouponInput) {
			in.ApplicableVariants = []models.VariantTarget{
				{ProductID: 1, VariantMode: constants.VariantModeSpecific},
			}
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validCouponInput()
			tc.mutate(&input)
			if _, err := svc.Create(input); !errors.Is(err, ErrCouponInvalid) {
				t.Fatalf("expected ErrCouponInvalid, got %v", err)
			}
		})
	}
}

func TestCouponAdminCreateDefaultsAndDuplicate(t *testing.T) {
	svc := newCouponAdminService(t)

	coupon, err := svc.Create(validCouponInput())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if coupon.Status != constants.CouponStatusActive {
		t.Fatalf("status = %s, want default active", coupon.Status)
	}
	if coupon.UsedCount != 0 {
		t.Fatalf("used count = %d, want 0", coupon.UsedCount)
	}

	if _, err := svc.Create(validCouponInput()); !errors.Is(err, ErrCouponCodeExists) {
		t.Fatalf("expected ErrCouponCodeExists, got %v", err)
	}
}

func TestCouponAdminFreeShippingSkipsValueCheck(t *testing.T) {
	svc := newCouponAdminService(t)

	input := validCouponInput()
	input.Code = "SHIPFREE"
	input.Type = constants.CouponTypeFreeShipping
	input.Value = models.NewMoneyFromInt(0)
	if _, err := svc.Create(input); err != nil {
		t.Fatalf("free shipping coupon must not require a value, got %v", err)
	}
}

func TestCouponAdminUpdate(t *testing.T) {
	svc := newCouponAdminService(t)

	created, err := svc.Create(validCouponInput())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	other := validCouponInput()
	other.Code = "OTHER5"
	if _, err := svc.Create(other); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// 改码撞上已有券码
	input := validCouponInput()
	input.Code = "OTHER5"
	if _, err := svc.Update(created.ID, input); !errors.Is(err, ErrCouponCodeExists) {
		t.Fatalf("expected ErrCouponCodeExists, got %v", err)
	}

	input = validCouponInput()
	input.Value = models.NewMoneyFromInt(20)
	input.Status = constants.CouponStatusInactive
	updated, err := svc.Update(created.ID, input)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Value.String() != "20.00" || updated.Status != constants.CouponStatusInactive {
		t.Fatalf("update not persisted: %+v", updated)
	}

	if _, err := svc.Update(999, validCouponInput()); !errors.Is(err, ErrCouponNotFound) {
		t.Fatalf("expected ErrCouponNotFound, got %v", err)
	}
}

func TestCouponAdminDelete(t *testing.T) {
	svc := newCouponAdminService(t)

	created, err := svc.Create(validCouponInput())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := svc.Delete(created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := svc.Get(created.ID); !errors.Is(err, ErrCouponNotFound) {
		t.Fatalf("expected ErrCouponNotFound after delete, got %v", err)
	}
	if err := svc.Delete(created.ID); !errors.Is(err, ErrCouponNotFound) {
		t.Fatalf("expected ErrCouponNotFound, got %v", err)
	}
}
