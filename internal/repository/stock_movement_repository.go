package repository

import (
	"github.com/pos-next/internal/models"

	"gorm.io/gorm"
)

// StockMovementRepository 库存流水数据访问接口
type StockMovementRepository interface {
	Create(movement *models.StockMovement) error
	List(filter StockMovementListFilter) ([]models.StockMovement, int64, error)
	WithTx(tx *gorm.DB) *GormStockMovementRepository
}

// StockMovementListFilter 库存流水列表筛选
type StockMovementListFilter struct {
	ProductID uint
	VariantID uint
	OrderID   uint
	Type      string
	Page      int
	PageSize  int
}

// GormStockMovementRepository GORM 实现
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewStockMovementRepository 创建库存流水仓库
func NewStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// WithTx 绑定事务
func (r *GormStockMovementRepository) WithTx(tx *gorm.DB) *GormStockMovementRepository {
	if tx == nil {
		return r
	}
	return &GormStockMovementRepository{db: tx}
}

// Create 创建库存流水
func (r *GormStockMovementRepository) Create(movement *models.StockMovement) error {
	return r.db.Create(movement).Error
}

// List 获取库存流水列表
func (r *GormStockMovementRepository) List(filter StockMovementListFilter) ([]models.StockMovement, int64, error) {
	var movements []models.StockMovement
	query := r.db.Model(&models.StockMovement{})

	if filter.ProductID > 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.VariantID > 0 {
		query = query.Where("variant_id = ?", filter.VariantID)
	}
	if filter.OrderID > 0 {
		query = query.Where("order_id = ?", filter.OrderID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("id desc").Find(&movements).Error; err != nil {
		return nil, 0, err
	}
	return movements, total, nil
}
