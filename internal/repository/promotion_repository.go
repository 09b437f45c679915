package repository

import (
	"errors"
	"time"

	"github.com/pos-next/internal/constants"
	"github.com/pos-next/internal/models"

	"gorm.io/gorm"
)

// PromotionRepository 促销活动数据访问接口
type PromotionRepository interface {
	GetByID(id uint) (*models.Promotion, error)
	ListActive(now time.Time) ([]models.Promotion, error)
	ListScheduledDue(now time.Time) ([]models.Promotion, error)
	ListExpired(now time.Time) ([]models.Promotion, error)
	Create(promotion *models.Promotion) error
	Update(promotion *models.Promotion) error
	UpdateStatus(id uint, status string) error
	IncrementUsedCount(id uint, delta int) error
	DecrementUsedCount(id uint, delta int) error
	Delete(id uint) error
	List(filter PromotionListFilter) ([]models.Promotion, int64, error)
	WithTx(tx *gorm.DB) *GormPromotionRepository
}

// PromotionListFilter 促销活动列表筛选
type PromotionListFilter struct {
	ID       uint
	Name     string
	Status   string
	Page     int
	PageSize int
}

// GormPromotionRepository GORM 实现
type GormPromotionRepository struct {
	db *gorm.DB
}

// NewPromotionRepository 创建促销活动仓库
func NewPromotionRepository(db *gorm.DB) *GormPromotionRepository {
	return &GormPromotionRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPromotionRepository) WithTx(tx *gorm.DB) *GormPromotionRepository {
	if tx == nil {
		return r
	}
	return &GormPromotionRepository{db: tx}
}

// GetByID 根据ID获取促销活动
func (r *GormPromotionRepository) GetByID(id uint) (*models.Promotion, error) {
	var promotion models.Promotion
	if err := r.db.First(&promotion, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &promotion, nil
}

// ListActive 获取当前时间窗内启用的促销活动（优先级降序）
func (r *GormPromotionRepository) ListActive(now time.Time) ([]models.Promotion, error) {
	var promotions []models.Promotion
	query := r.db.Where("status = ?", constants.PromotionStatusActive).
		Where("starts_at IS NOT NULL AND starts_at <= ?", now).
		Where("ends_at IS NOT NULL AND ends_at >= ?", now)
	if err := query.Order("priority desc, id asc").Find(&promotions).Error; err != nil {
		return nil, err
	}
	return promotions, nil
}

// ListScheduledDue 获取已到生效时间的待上线活动
func (r *GormPromotionRepository) ListScheduledDue(now time.Time) ([]models.Promotion, error) {
	var promotions []models.Promotion
	query := r.db.Where("status = ?", constants.PromotionStatusScheduled).
		Where("starts_at IS NOT NULL AND starts_at <= ?", now)
	if err := query.Order("id asc").Find(&promotions).Error; err != nil {
		return nil, err
	}
	return promotions, nil
}

// ListExpired 获取已过失效时间但仍为启用状态的活动
func (r *GormPromotionRepository) ListExpired(now time.Time) ([]models.Promotion, error) {
	var promotions []models.Promotion
	query := r.db.Where("status = ?", constants.PromotionStatusActive).
		Where("ends_at IS NOT NULL AND ends_at < ?", now)
	if err := query.Order("id asc").Find(&promotions).Error; err != nil {
		return nil, err
	}
	return promotions, nil
}

// Create 创建促销活动
func (r *GormPromotionRepository) Create(promotion *models.Promotion) error {
	return r.db.Create(promotion).Error
}

// Update 更新促销活动
func (r *GormPromotionRepository) Update(promotion *models.Promotion) error {
	return r.db.Save(promotion).Error
}

// UpdateStatus 更新促销活动状态
func (r *GormPromotionRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Promotion{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// IncrementUsedCount 增加促销活动应用次数
func (r *GormPromotionRepository) IncrementUsedCount(id uint, delta int) error {
	if delta == 0 {
		delta = 1
	}
	return r.db.Model(&models.Promotion{}).
		Where("id = ?", id).
		UpdateColumn("used_count", gorm.Expr("used_count + ?", delta)).Error
}

// DecrementUsedCount 减少促销活动应用次数
func (r *GormPromotionRepository) DecrementUsedCount(id uint, delta int) error {
	if delta == 0 {
		delta = 1
	}
	if delta < 0 {
		delta = -delta
	}
	return r.db.Model(&models.Promotion{}).
		Where("id = ?", id).
		Where("used_count >= ?", delta).
		UpdateColumn("used_count", gorm.Expr("used_count - ?", delta)).Error
}

// Delete 删除促销活动
func (r *GormPromotionRepository) Delete(id uint) error {
	return r.db.Delete(&models.Promotion{}, id).Error
}

// List 获取促销活动列表
func (r *GormPromotionRepository) List(filter PromotionListFilter) ([]models.Promotion, int64, error) {
	var promotions []models.Promotion
	query := r.db.Model(&models.Promotion{})

	if filter.ID != 0 {
		query = query.Where("id = ?", filter.ID)
	}
	if filter.Name != "" {
		query = query.Where("name LIKE ?", "%"+filter.Name+"%")
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("priority desc, id desc").Find(&promotions).Error; err != nil {
		return nil, 0, err
	}
	return promotions, total, nil
}
