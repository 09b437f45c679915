package repository

import (
	"errors"

	"github.com/pos-next/internal/models"

	"gorm.io/gorm"
)

// ProductVariantRepository 商品规格数据访问接口
type ProductVariantRepository interface {
	GetByID(id uint) (*models.ProductVariant, error)
	ListByProductID(productID uint) ([]models.ProductVariant, error)
	ListByIDs(ids []uint) ([]models.ProductVariant, error)
	Create(variant *models.ProductVariant) error
	Update(variant *models.ProductVariant) error
	Delete(id uint) error
	AdjustStock(id uint, delta int) (int64, error)
	WithTx(tx *gorm.DB) *GormProductVariantRepository
}

// GormProductVariantRepository GORM 实现
type GormProductVariantRepository struct {
	db *gorm.DB
}

// NewProductVariantRepository 创建商品规格仓库
func NewProductVariantRepository(db *gorm.DB) *GormProductVariantRepository {
	return &GormProductVariantRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductVariantRepository) WithTx(tx *gorm.DB) *GormProductVariantRepository {
	if tx == nil {
		return r
	}
	return &GormProductVariantRepository{db: tx}
}

// GetByID 根据ID获取规格
func (r *GormProductVariantRepository) GetByID(id uint) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	if err := r.db.First(&variant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &variant, nil
}

// ListByProductID 获取商品下全部规格
func (r *GormProductVariantRepository) ListByProductID(productID uint) ([]models.ProductVariant, error) {
	var variants []models.ProductVariant
	if err := r.db.Where("product_id = ?", productID).
		Order("sort_order desc, id asc").Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

// ListByIDs 批量获取规格
func (r *GormProductVariantRepository) ListByIDs(ids []uint) ([]models.ProductVariant, error) {
	if len(ids) == 0 {
		return []models.ProductVariant{}, nil
	}
	var variants []models.ProductVariant
	if err := r.db.Where("id IN ?", ids).Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

// Create 创建规格
func (r *GormProductVariantRepository) Create(variant *models.ProductVariant) error {
	return r.db.Create(variant).Error
}

// Update 更新规格
func (r *GormProductVariantRepository) Update(variant *models.ProductVariant) error {
	return r.db.Save(variant).Error
}

// Delete 删除规格
func (r *GormProductVariantRepository) Delete(id uint) error {
	return r.db.Delete(&models.ProductVariant{}, id).Error
}

// AdjustStock 原子调整规格库存，出库时带余量保护，返回受影响行数。
func (r *GormProductVariantRepository) AdjustStock(id uint, delta int) (int64, error) {
	query := r.db.Model(&models.ProductVariant{}).Where("id = ?", id)
	if delta < 0 {
		query = query.Where("stock_quantity >= ?", -delta)
	}
	result := query.UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", delta))
	return result.RowsAffected, result.Error
}
