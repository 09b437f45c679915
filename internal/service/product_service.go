package service

import (
	"strings"

	"github.com/pos-next/internal/models"
	"github.com/pos-next/internal/repository"

	"github.com/shopspring/decimal"
)

// ProductService 商品管理服务
type ProductService struct {
	productRepo  repository.ProductRepository
	variantRepo  repository.ProductVariantRepository
	categoryRepo repository.CategoryRepository
}

// NewProductService 创建商品管理服务
func NewProductService(
	productRepo repository.ProductRepository,
	variantRepo repository.ProductVariantRepository,
	categoryRepo repository.CategoryRepository,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		variantRepo:  variantRepo,
		categoryRepo: categoryRepo,
	}
}

// ProductInput 创建/更新商品输入
type ProductInput struct {
	CategoryID        uint
	SKU               string
	Barcode           string
	Name              string
	Description       string
	Price             models.Money
	Cost              models.Money
	StockQuantity     int
	LowStockThreshold int
	Tags              []string
	IsActive          *bool
	SortOrder         int
}

func (s *ProductService) validate(input *ProductInput) error {
	input.SKU = strings.TrimSpace(input.SKU)
	input.Name = strings.TrimSpace(input.Name)
	if input.SKU == "" || input.Name == "" {
		return ErrProductInvalid
	}
	if input.Price.Decimal.LessThan(decimal.Zero) || input.Cost.Decimal.LessThan(decimal.Zero) {
		return ErrProductInvalid
	}
	if input.StockQuantity < 0 || input.LowStockThreshold < 0 {
		return ErrProductInvalid
	}
	if input.CategoryID > 0 {
		category, err := s.categoryRepo.GetByID(input.CategoryID)
		if err != nil {
			return err
		}
		if category == nil {
			return ErrCategoryNotFound
		}
	}
	return nil
}

// Create 创建商品
func (s *ProductService) Create(input ProductInput) (*models.Product, error) {
	if err := s.validate(&input); err != nil {
		return nil, err
	}

	exist, err := s.productRepo.GetBySKU(input.SKU)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrProductSKUExists
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	product := &models.Product{
		CategoryID:        input.CategoryID,
		SKU:               input.SKU,
		Barcode:           strings.TrimSpace(input.Barcode),
		Name:              input.Name,
		Description:       input.Description,
		Price:             input.Price,
		Cost:              input.Cost,
		StockQuantity:     input.StockQuantity,
		LowStockThreshold: input.LowStockThreshold,
		Tags:              input.Tags,
		IsActive:          isActive,
		SortOrder:         input.SortOrder,
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update 更新商品
func (s *ProductService) Update(id uint, input ProductInput) (*models.Product, error) {
	if id == 0 {
		return nil, ErrProductInvalid
	}
	existing, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrProductNotFound
	}

	if err := s.validate(&input); err != nil {
		return nil, err
	}

	if input.SKU != existing.SKU {
		dup, err := s.productRepo.GetBySKU(input.SKU)
		if err != nil {
			return nil, err
		}
		if dup != nil {
			return nil, ErrProductSKUExists
		}
	}

	isActive := existing.IsActive
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	existing.CategoryID = input.CategoryID
	existing.SKU = input.SKU
	existing.Barcode = strings.TrimSpace(input.Barcode)
	existing.Name = input.Name
	existing.Description = input.Description
	existing.Price = input.Price
	existing.Cost = input.Cost
	existing.StockQuantity = input.StockQuantity
	existing.LowStockThreshold = input.LowStockThreshold
	existing.Tags = input.Tags
	existing.IsActive = isActive
	existing.SortOrder = input.SortOrder

	if err := s.productRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete 删除商品
func (s *ProductService) Delete(id uint) error {
	if id == 0 {
		return ErrProductInvalid
	}
	existing, err := s.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrProductNotFound
	}
	return s.productRepo.Delete(id)
}

// Get 获取商品详情
func (s *ProductService) Get(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// List 获取商品列表
func (s *ProductService) List(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

// VariantInput 创建/更新规格输入
type VariantInput struct {
	SKUCode       string
	Name          string
	Price         models.Money
	StockQuantity int
	IsActive      *bool
	SortOrder     int
}

func validateVariantInput(input *VariantInput) error {
	input.SKUCode = strings.TrimSpace(input.SKUCode)
	input.Name = strings.TrimSpace(input.Name)
	if input.SKUCode == "" || input.Name == "" {
		return ErrVariantInvalid
	}
	if input.Price.Decimal.LessThan(decimal.Zero) || input.StockQuantity < 0 {
		return ErrVariantInvalid
	}
	return nil
}

// CreateVariant 为商品新增规格
func (s *ProductService) CreateVariant(productID uint, input VariantInput) (*models.ProductVariant, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if err := validateVariantInput(&input); err != nil {
		return nil, err
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	variant := &models.ProductVariant{
		ProductID:     productID,
		SKUCode:       input.SKUCode,
		Name:          input.Name,
		Price:         input.Price,
		StockQuantity: input.StockQuantity,
		IsActive:      isActive,
		SortOrder:     input.SortOrder,
	}
	if err := s.variantRepo.Create(variant); err != nil {
		return nil, err
	}
	return variant, nil
}

// UpdateVariant 更新规格
func (s *ProductService) UpdateVariant(id uint, input VariantInput) (*models.ProductVariant, error) {
	if id == 0 {
		return nil, ErrVariantInvalid
	}
	existing, err := s.variantRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrVariantNotFound
	}
	if err := validateVariantInput(&input); err != nil {
		return nil, err
	}

	isActive := existing.IsActive
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	existing.SKUCode = input.SKUCode
	existing.Name = input.Name
	existing.Price = input.Price
	existing.StockQuantity = input.StockQuantity
	existing.IsActive = isActive
	existing.SortOrder = input.SortOrder

	if err := s.variantRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteVariant 删除规格
func (s *ProductService) DeleteVariant(id uint) error {
	if id == 0 {
		return ErrVariantInvalid
	}
	existing, err := s.variantRepo.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrVariantNotFound
	}
	return s.variantRepo.Delete(id)
}
