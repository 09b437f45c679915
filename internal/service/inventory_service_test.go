package service

import (
	"errors"
	"testing"

	"github.com/pos-next/internal/constants"
	"github.com/pos-next/internal/models"
	"github.com/pos-next/internal/repository"

	"gorm.io/gorm"
)

func newInventoryFixture(t *testing.T) (*InventoryService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t, &models.Product{}, &models.ProductVariant{}, &models.StockMovement{})

	// Adjust 走 models.DB 的事务，测试期间指向本用例的库
	restore := models.DB
	models.DB = db
	t.Cleanup(func() { models.DB = restore })

	svc := NewInventoryService(
		repository.NewProductRepository(db),
		repository.NewProductVariantRepository(db),
		repository.NewStockMovementRepository(db),
		nil,
	)
	return svc, db
}

func TestInventoryAdjustValidation(t *testing.T) {
	svc, db := newInventoryFixture(t)

	product := &models.Product{Name: "豆子", SKU: "BEAN-1", StockQuantity: 10}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	cases := []struct {
		name  string
		input AdjustStockInput
		want  error
	}{
		{"missing product id", AdjustStockInput{Delta: 1, Type: constants.StockMovementTypeRestock}, ErrProductInvalid},
		{"zero delta", AdjustStockInput{ProductID: product.ID, Type: constants.StockMovementTypeRestock}, ErrProductInvalid},
		{"sale type not allowed", AdjustStockInput{ProductID: product.ID, Delta: 1, Type: constants.StockMovementTypeSale}, ErrProductInvalid},
		{"unknown product", AdjustStockInput{ProductID: 999, Delta: 1, Type: constants.StockMovementTypeRestock}, ErrProductNotFound},
		{"unknown variant", AdjustStockInput{ProductID: product.ID, VariantID: 999, Delta: 1, Type: constants.StockMovementTypeRestock}, ErrVariantNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Adjust(tc.input); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestInventoryAdjustRestockAndMovement(t *testing.T) {
	svc, db := newInventoryFixture(t)

	product := &models.Product{Name: "可颂", SKU: "CROIS-1", StockQuantity: 5}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	movement, err := svc.Adjust(AdjustStockInput{
		ProductID: product.ID,
		Delta:     20,
		Type:      constants.StockMovementTypeRestock,
		Reason:    "  morning delivery  ",
		StaffID:   7,
	})
	if err != nil {
		t.Fatalf("Adjust failed: %v", err)
	}
	if movement.ID == 0 || movement.Reason != "morning delivery" {
		t.Fatalf("movement not persisted as expected: %+v", movement)
	}

	var fresh models.Product
	if err := db.First(&fresh, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if fresh.StockQuantity != 25 {
		t.Fatalf("stock = %d, want 25", fresh.StockQuantity)
	}
}

func TestInventoryAdjustCannotGoNegative(t *testing.T) {
	svc, db := newInventoryFixture(t)

	product := &models.Product{Name: "薯片", SKU: "CHIP-1", StockQuantity: 3}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	if _, err := svc.Adjust(AdjustStockInput{
		ProductID: product.ID,
		Delta:     -5,
		Type:      constants.StockMovementTypeAdjustment,
	}); !errors.Is(err, ErrStockInsufficient) {
		t.Fatalf("expected ErrStockInsufficient, got %v", err)
	}

	// 失败的调整不留流水，库存不变
	var fresh models.Product
	if err := db.First(&fresh, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if fresh.StockQuantity != 3 {
		t.Fatalf("stock = %d, want 3", fresh.StockQuantity)
	}
	var count int64
	if err := db.Model(&models.StockMovement{}).Count(&count).Error; err != nil {
		t.Fatalf("count movements failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("movement rows = %d, want 0", count)
	}
}

func TestInventoryAdjustVariantStock(t *testing.T) {
	svc, db := newInventoryFixture(t)

	product := &models.Product{Name: "拿铁", SKU: "LATTE-1", StockQuantity: 0}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	variant := &models.ProductVariant{ProductID: product.ID, SKUCode: "L-HOT", Name: "大杯热", StockQuantity: 4}
	if err := db.Create(variant).Error; err != nil {
		t.Fatalf("create variant failed: %v", err)
	}

	if _, err := svc.Adjust(AdjustStockInput{
		ProductID: product.ID,
		VariantID: variant.ID,
		Delta:     -2,
		Type:      constants.StockMovementTypeAdjustment,
	}); err != nil {
		t.Fatalf("Adjust failed: %v", err)
	}

	var fresh models.ProductVariant
	if err := db.First(&fresh, variant.ID).Error; err != nil {
		t.Fatalf("reload variant failed: %v", err)
	}
	if fresh.StockQuantity != 2 {
		t.Fatalf("variant stock = %d, want 2", fresh.StockQuantity)
	}
}

func TestInventoryLowStock(t *testing.T) {
	svc, db := newInventoryFixture(t)

	rows := []models.Product{
		{Name: "低于阈值", SKU: "LOW-1", StockQuantity: 2, LowStockThreshold: 5},
		{Name: "等于阈值", SKU: "LOW-2", StockQuantity: 5, LowStockThreshold: 5},
		{Name: "高于阈值", SKU: "OK-1", StockQuantity: 50, LowStockThreshold: 5},
		{Name: "未设阈值", SKU: "OK-2", StockQuantity: 0, LowStockThreshold: 0},
	}
	for i := range rows {
		if err := db.Create(&rows[i]).Error; err != nil {
			t.Fatalf("create product failed: %v", err)
		}
	}

	low, err := svc.LowStock()
	if err != nil {
		t.Fatalf("LowStock failed: %v", err)
	}
	if len(low) != 2 {
		t.Fatalf("low stock rows = %d, want 2", len(low))
	}
	if low[0].SKU != "LOW-1" || low[1].SKU != "LOW-2" {
		t.Fatalf("unexpected order: %s, %s", low[0].SKU, low[1].SKU)
	}
}
