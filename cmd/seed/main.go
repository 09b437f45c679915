package main

import (
	"time"

	"github.com/pos-next/internal/config"
	"github.com/pos-next/internal/constants"
	"github.com/pos-next/internal/logger"
	"github.com/pos-next/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 分类
	categories := []models.Category{
		{Slug: "beverages", Name: "饮品", SortOrder: 10},
		{Slug: "bakery", Name: "烘焙", SortOrder: 20},
		{Slug: "snacks", Name: "零食", SortOrder: 30},
	}
	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("slug = ?", cat.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Slug, err)
			} else {
				stdLog.Printf("Created category: %s", cat.Slug)
			}
		} else {
			stdLog.Printf("Category already exists: %s", cat.Slug)
		}
	}

	categoryIDs := map[string]uint{}
	var categoryList []models.Category
	if err := models.DB.Where("slug IN ?", []string{"beverages", "bakery", "snacks"}).Find(&categoryList).Error; err != nil {
		stdLog.Printf("Failed to load categories: %v", err)
	}
	for _, cat := range categoryList {
		categoryIDs[cat.Slug] = cat.ID
	}

	// 商品（拿铁带规格，其余走商品级库存）
	products := []models.Product{
		{
			CategoryID:        categoryIDs["beverages"],
			SKU:               "BEV-LATTE",
			Barcode:           "6901234500011",
			Name:              "拿铁咖啡",
			Description:       "现磨浓缩加鲜奶",
			Price:             models.NewMoneyFromDecimal(decimal.NewFromFloat(28)),
			Cost:              models.NewMoneyFromDecimal(decimal.NewFromFloat(9)),
			StockQuantity:     0,
			LowStockThreshold: 0,
			Tags:              models.StringArray{"coffee", "hot"},
			IsActive:          true,
			SortOrder:         10,
		},
		{
			CategoryID:        categoryIDs["beverages"],
			SKU:               "BEV-AMER",
			Barcode:           "6901234500028",
			Name:              "美式咖啡",
			Description:       "双份浓缩加水",
			Price:             models.NewMoneyFromDecimal(decimal.NewFromFloat(22)),
			Cost:              models.NewMoneyFromDecimal(decimal.NewFromFloat(6)),
			StockQuantity:     200,
			LowStockThreshold: 20,
			Tags:              models.StringArray{"coffee"},
			IsActive:          true,
			SortOrder:         20,
		},
		{
			CategoryID:        categoryIDs["bakery"],
			SKU:               "BAK-CROIS",
			Barcode:           "6901234500035",
			Name:              "黄油可颂",
			Description:       "每日现烤",
			Price:             models.NewMoneyFromDecimal(decimal.NewFromFloat(16)),
			Cost:              models.NewMoneyFromDecimal(decimal.NewFromFloat(5)),
			StockQuantity:     60,
			LowStockThreshold: 10,
			Tags:              models.StringArray{"fresh"},
			IsActive:          true,
			SortOrder:         10,
		},
		{
			CategoryID:        categoryIDs["snacks"],
			SKU:               "SNK-CHIPS",
			Barcode:           "6901234500042",
			Name:              "海盐薯片",
			Price:             models.NewMoneyFromDecimal(decimal.NewFromFloat(8.5)),
			Cost:              models.NewMoneyFromDecimal(decimal.NewFromFloat(3.2)),
			StockQuantity:     120,
			LowStockThreshold: 24,
			IsActive:          true,
			SortOrder:         10,
		},
	}
	for _, product := range products {
		var existing models.Product
		if err := models.DB.Where("sku = ?", product.SKU).First(&existing).Error; err != nil {
			if err := models.DB.Create(&product).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", product.SKU, err)
			} else {
				stdLog.Printf("Created product: %s", product.SKU)
			}
		} else {
			stdLog.Printf("Product already exists: %s", product.SKU)
		}
	}

	// 拿铁规格
	var latte models.Product
	if err := models.DB.Where("sku = ?", "BEV-LATTE").First(&latte).Error; err == nil {
		variants := []models.ProductVariant{
			{ProductID: latte.ID, SKUCode: "M-HOT", Name: "中杯/热", Price: models.NewMoneyFromDecimal(decimal.NewFromFloat(28)), StockQuantity: 100, IsActive: true, SortOrder: 10},
			{ProductID: latte.ID, SKUCode: "L-HOT", Name: "大杯/热", Price: models.NewMoneyFromDecimal(decimal.NewFromFloat(32)), StockQuantity: 100, IsActive: true, SortOrder: 20},
			{ProductID: latte.ID, SKUCode: "L-ICE", Name: "大杯/冰", Price: models.NewMoneyFromDecimal(decimal.NewFromFloat(33)), StockQuantity: 80, IsActive: true, SortOrder: 30},
		}
		for _, variant := range variants {
			var existing models.ProductVariant
			if err := models.DB.Where("product_id = ? AND sku_code = ?", variant.ProductID, variant.SKUCode).First(&existing).Error; err != nil {
				if err := models.DB.Create(&variant).Error; err != nil {
					stdLog.Printf("Failed to create variant %s: %v", variant.SKUCode, err)
				} else {
					stdLog.Printf("Created variant: %s/%s", latte.SKU, variant.SKUCode)
				}
			} else {
				stdLog.Printf("Variant already exists: %s/%s", latte.SKU, variant.SKUCode)
			}
		}
	}

	// 会员
	customers := []models.Customer{
		{Name: "王小明", Phone: "13800000001", Email: "xiaoming@example.com"},
		{Name: "李丽", Phone: "13800000002"},
	}
	for _, customer := range customers {
		var existing models.Customer
		if err := models.DB.Where("phone = ?", customer.Phone).First(&existing).Error; err != nil {
			if err := models.DB.Create(&customer).Error; err != nil {
				stdLog.Printf("Failed to create customer %s: %v", customer.Phone, err)
			} else {
				stdLog.Printf("Created customer: %s", customer.Phone)
			}
		} else {
			stdLog.Printf("Customer already exists: %s", customer.Phone)
		}
	}

	now := time.Now()
	monthLater := now.AddDate(0, 1, 0)

	// 优惠券
	coupons := []models.Coupon{
		{
			Code:           "WELCOME10",
			Status:         constants.CouponStatusActive,
			Type:           constants.CouponTypeFixed,
			Value:          models.NewMoneyFromInt(10),
			MinOrderAmount: models.NewMoneyFromInt(50),
			UsageLimit:     500,
			PerUserLimit:   1,
			FirstOrderOnly: true,
			StartsAt:       &now,
			EndsAt:         &monthLater,
		},
		{
			Code:        "COFFEE85",
			Status:      constants.CouponStatusActive,
			Type:        constants.CouponTypePercent,
			Value:       models.NewMoneyFromInt(15),
			MaxDiscount: models.NewMoneyFromInt(20),
			ApplicableCategories: models.UintArray{
				categoryIDs["beverages"],
			},
			StartsAt: &now,
			EndsAt:   &monthLater,
		},
	}
	for _, coupon := range coupons {
		var existing models.Coupon
		if err := models.DB.Where("code = ?", coupon.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&coupon).Error; err != nil {
				stdLog.Printf("Failed to create coupon %s: %v", coupon.Code, err)
			} else {
				stdLog.Printf("Created coupon: %s", coupon.Code)
			}
		} else {
			stdLog.Printf("Coupon already exists: %s", coupon.Code)
		}
	}

	// 促销活动：满 100 减 15
	promotion := models.Promotion{
		Name:      "满100减15",
		Status:    constants.PromotionStatusActive,
		Priority:  10,
		Stackable: false,
		Conditions: models.ConditionList{
			{Type: constants.ConditionTypeMinAmount, Value: models.NewMoneyFromInt(100)},
		},
		Actions: models.ActionList{
			{Type: constants.ActionTypeFixedDiscount, Value: models.NewMoneyFromInt(15)},
		},
		StartsAt: &now,
		EndsAt:   &monthLater,
	}
	var existingPromotion models.Promotion
	if err := models.DB.Where("name = ?", promotion.Name).First(&existingPromotion).Error; err != nil {
		if err := models.DB.Create(&promotion).Error; err != nil {
			stdLog.Printf("Failed to create promotion %s: %v", promotion.Name, err)
		} else {
			stdLog.Printf("Created promotion: %s", promotion.Name)
		}
	} else {
		stdLog.Printf("Promotion already exists: %s", promotion.Name)
	}

	stdLog.Println("Seed data completed")
}
