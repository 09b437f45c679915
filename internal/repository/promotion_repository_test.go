package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pos-next/internal/constants"
	"github.com/pos-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newPromotionTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", "#", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Promotion{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func TestListActiveWindowBoundariesInclusive(t *testing.T) {
	db := newPromotionTestDB(t)
	repo := NewPromotionRepository(db)

	instant := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	starts := instant
	ends := instant.Add(time.Hour)
	promotion := &models.Promotion{
		Name:     "edge-window",
		Status:   constants.PromotionStatusActive,
		StartsAt: &starts,
		EndsAt:   &ends,
	}
	if err := db.Create(promotion).Error; err != nil {
		t.Fatalf("create promotion failed: %v", err)
	}

	// 起止边界均为闭区间
	for _, now := range []time.Time{starts, ends} {
		rows, err := repo.ListActive(now)
		if err != nil {
			t.Fatalf("ListActive failed: %v", err)
		}
		if len(rows) != 1 {
			t.Fatalf("promotion must be active at %v, got %d rows", now, len(rows))
		}
	}

	for _, now := range []time.Time{starts.Add(-time.Second), ends.Add(time.Second)} {
		rows, err := repo.ListActive(now)
		if err != nil {
			t.Fatalf("ListActive failed: %v", err)
		}
		if len(rows) != 0 {
			t.Fatalf("promotion must be inactive at %v, got %d rows", now, len(rows))
		}
	}
}

func TestListActiveOrdering(t *testing.T) {
	db := newPromotionTestDB(t)
	repo := NewPromotionRepository(db)

	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	starts := now.Add(-time.Hour)
	ends := now.Add(time.Hour)
	seed := []models.Promotion{
		{Name: "low", Status: constants.PromotionStatusActive, Priority: 10, StartsAt: &starts, EndsAt: &ends},
		{Name: "high", Status: constants.PromotionStatusActive, Priority: 100, StartsAt: &starts, EndsAt: &ends},
		{Name: "paused", Status: constants.PromotionStatusInactive, Priority: 200, StartsAt: &starts, EndsAt: &ends},
	}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("create promotion failed: %v", err)
		}
	}

	rows, err := repo.ListActive(now)
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("active rows = %d, want 2", len(rows))
	}
	if rows[0].Name != "high" || rows[1].Name != "low" {
		t.Fatalf("unexpected order: %s, %s", rows[0].Name, rows[1].Name)
	}
}
