package service

import (
	"errors"
	"testing"
	"time"

	"github.com/pos-next/internal/constants"
	"github.com/pos-next/internal/models"
	"github.com/pos-next/internal/repository"

	"gorm.io/gorm"
)

func newPromotionAdminService(t *testing.T) (*PromotionAdminService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t, &models.Promotion{})
	return NewPromotionAdminService(repository.NewPromotionRepository(db), nil), db
}

func validPromotionInput() PromotionInput {
	return PromotionInput{
		Name:     "weekend-special",
		Status:   constants.PromotionStatusActive,
		StartsAt: timePtr(time.Now().Add(-time.Hour)),
		EndsAt:   timePtr(time.Now().Add(time.Hour)),
		Actions: []models.PromotionAction{
			{Type: constants.ActionTypeFixedDiscount, Value: models.NewMoneyFromInt(10)},
		},
	}
}

func TestPromotionAdminCreateValidation(t *testing.T) {
	svc, _ := newPromotionAdminService(t)

	cases := []struct {
		name   string
		mutate func(*PromotionInput)
	}{
		{"empty name", func(in *PromotionInput) { in.Name = "  " }},
		{"missing window", func(in *PromotionInput) { in.StartsAt = nil }},
		{"inverted window", func(in *PromotionInput) {
			in.StartsAt = timePtr(time.Now().Add(time.Hour))
			in.EndsAt = timePtr(time.Now())
		}},
		{"unknown status", func(in *PromotionInput) { in.Status = "paused" }},
		{"no actions", func(in *PromotionInput) { in.Actions = nil }},
		{"percent over 100", func(in *PromotionInput) {
			in.Actions = []models.PromotionAction{
				{Type: constants.ActionTypePercentDiscount, Value: models.NewMoneyFromInt(120)},
			}
		}},
		{"fixed non-positive", func(in *PromotionInput) {
			in.Actions = []models.PromotionAction{
				{Type: constants.ActionTypeFixedDiscount, Value: models.NewMoneyFromInt(0)},
			}
		}},
		{"condition without products", func(in *PromotionInput) {
			in.Conditions = []models.PromotionCondition{
				{Type: constants.ConditionTypeSpecificProduct},
			}
		}},
		{"unknown condition", func(in *PromotionInput) {
			in.Conditions = []models.PromotionCondition{{Type: "HAPPY_HOUR"}}
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validPromotionInput()
			tc.mutate(&input)
			if _, err := svc.Create(input); !errors.Is(err, ErrPromotionInvalid) {
				t.Fatalf("expected ErrPromotionInvalid, got %v", err)
			}
		})
	}

	promotion, err := svc.Create(validPromotionInput())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if promotion.ID == 0 {
		t.Fatal("expected persisted promotion")
	}
}

func TestPromotionAdminUpdateNotFound(t *testing.T) {
	svc, _ := newPromotionAdminService(t)

	if _, err := svc.Update(999, validPromotionInput()); !errors.Is(err, ErrPromotionNotFound) {
		t.Fatalf("expected ErrPromotionNotFound, got %v", err)
	}
	if err := svc.Delete(999); !errors.Is(err, ErrPromotionNotFound) {
		t.Fatalf("expected ErrPromotionNotFound, got %v", err)
	}
}

func TestPromotionRollover(t *testing.T) {
	svc, db := newPromotionAdminService(t)
	now := time.Now()

	scheduled := mustCreatePromotion(t, db, &models.Promotion{
		Name:     "due-to-start",
		Status:   constants.PromotionStatusScheduled,
		StartsAt: timePtr(now.Add(-time.Minute)),
		EndsAt:   timePtr(now.Add(time.Hour)),
	})
	if err := svc.Rollover(scheduled.ID, now); err != nil {
		t.Fatalf("Rollover failed: %v", err)
	}
	var fresh models.Promotion
	if err := db.First(&fresh, scheduled.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if fresh.Status != constants.PromotionStatusActive {
		t.Fatalf("status = %s, want active", fresh.Status)
	}

	expired := mustCreatePromotion(t, db, &models.Promotion{
		Name:     "past-end",
		Status:   constants.PromotionStatusActive,
		StartsAt: timePtr(now.Add(-2 * time.Hour)),
		EndsAt:   timePtr(now.Add(-time.Minute)),
	})
	if err := svc.Rollover(expired.ID, now); err != nil {
		t.Fatalf("Rollover failed: %v", err)
	}
	fresh = models.Promotion{}
	if err := db.First(&fresh, expired.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if fresh.Status != constants.PromotionStatusInactive {
		t.Fatalf("status = %s, want inactive", fresh.Status)
	}

	// 未到点的活动保持原状
	early := mustCreatePromotion(t, db, &models.Promotion{
		Name:     "not-yet",
		Status:   constants.PromotionStatusScheduled,
		StartsAt: timePtr(now.Add(time.Hour)),
		EndsAt:   timePtr(now.Add(2 * time.Hour)),
	})
	if err := svc.Rollover(early.ID, now); err != nil {
		t.Fatalf("Rollover failed: %v", err)
	}
	fresh = models.Promotion{}
	if err := db.First(&fresh, early.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if fresh.Status != constants.PromotionStatusScheduled {
		t.Fatalf("status = %s, want scheduled", fresh.Status)
	}

	// 缺失活动不报错
	if err := svc.Rollover(12345, now); err != nil {
		t.Fatalf("Rollover on missing promotion must be a no-op, got %v", err)
	}
}

func TestPromotionRolloverDue(t *testing.T) {
	svc, db := newPromotionAdminService(t)
	now := time.Now()

	mustCreatePromotion(t, db, &models.Promotion{
		Name:     "go-live",
		Status:   constants.PromotionStatusScheduled,
		StartsAt: timePtr(now.Add(-time.Minute)),
		EndsAt:   timePtr(now.Add(time.Hour)),
	})
	mustCreatePromotion(t, db, &models.Promotion{
		Name:     "missed-entirely",
		Status:   constants.PromotionStatusScheduled,
		StartsAt: timePtr(now.Add(-2 * time.Hour)),
		EndsAt:   timePtr(now.Add(-time.Hour)),
	})
	mustCreatePromotion(t, db, &models.Promotion{
		Name:     "wind-down",
		Status:   constants.PromotionStatusActive,
		StartsAt: timePtr(now.Add(-2 * time.Hour)),
		EndsAt:   timePtr(now.Add(-time.Minute)),
	})
	mustCreatePromotion(t, db, &models.Promotion{
		Name:     "still-running",
		Status:   constants.PromotionStatusActive,
		StartsAt: timePtr(now.Add(-time.Hour)),
		EndsAt:   timePtr(now.Add(time.Hour)),
	})

	changed, err := svc.RolloverDue(now)
	if err != nil {
		t.Fatalf("RolloverDue failed: %v", err)
	}
	if changed != 3 {
		t.Fatalf("changed = %d, want 3", changed)
	}

	counts := map[string]string{
		"go-live":         constants.PromotionStatusActive,
		"missed-entirely": constants.PromotionStatusInactive,
		"wind-down":       constants.PromotionStatusInactive,
		"still-running":   constants.PromotionStatusActive,
	}
	for name, want := range counts {
		var promotion models.Promotion
		if err := db.Where("name = ?", name).First(&promotion).Error; err != nil {
			t.Fatalf("reload %s failed: %v", name, err)
		}
		if promotion.Status != want {
			t.Fatalf("%s status = %s, want %s", name, promotion.Status, want)
		}
	}
}
