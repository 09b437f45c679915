package repository

import (
	"errors"

	"github.com/pos-next/internal/models"

	"gorm.io/gorm"
)

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	GetByID(id uint) (*models.Product, error)
	GetBySKU(sku string) (*models.Product, error)
	ListByIDs(ids []uint) ([]models.Product, error)
	List(filter ProductListFilter) ([]models.Product, int64, error)
	ListLowStock() ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id uint) error
	AdjustStock(id uint, delta int) (int64, error)
	WithTx(tx *gorm.DB) *GormProductRepository
}

// ProductListFilter 商品列表筛选
type ProductListFilter struct {
	CategoryID uint
	Keyword    string
	IsActive   *bool
	Page       int
	PageSize   int
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) *GormProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// GetByID 根据ID获取商品（含分类与规格）
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Category").Preload("Variants").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// GetBySKU 根据编码获取商品
func (r *GormProductRepository) GetBySKU(sku string) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Variants").Where("sku = ?", sku).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// ListByIDs 批量获取商品
func (r *GormProductRepository) ListByIDs(ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var products []models.Product
	if err := r.db.Preload("Variants").Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// List 获取商品列表
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	var products []models.Product
	query := r.db.Model(&models.Product{})

	if filter.CategoryID > 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Keyword != "" {
		condition, args := buildKeywordCondition(r.db, []string{"name", "sku", "barcode"}, filter.Keyword)
		query = query.Where(condition, args...)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Preload("Category").Preload("Variants").
		Order("sort_order desc, id desc").Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// ListLowStock 获取库存低于告警阈值的商品
func (r *GormProductRepository) ListLowStock() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Where("low_stock_threshold > 0 AND stock_quantity <= low_stock_threshold").
		Order("stock_quantity asc").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Create 创建商品
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// Update 更新商品
func (r *GormProductRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

// Delete 删除商品
func (r *GormProductRepository) Delete(id uint) error {
	return r.db.Delete(&models.Product{}, id).Error
}

// AdjustStock 原子调整库存，出库时带余量保护，返回受影响行数。
func (r *GormProductRepository) AdjustStock(id uint, delta int) (int64, error) {
	query := r.db.Model(&models.Product{}).Where("id = ?", id)
	if delta < 0 {
		query = query.Where("stock_quantity >= ?", -delta)
	}
	result := query.UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", delta))
	return result.RowsAffected, result.Error
}
