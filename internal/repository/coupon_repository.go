package repository

import (
	"errors"

	"github.com/pos-next/internal/models"

	"gorm.io/gorm"
)

// CouponRepository 优惠券数据访问接口
type CouponRepository interface {
	GetByID(id uint) (*models.Coupon, error)
	GetByCode(code string) (*models.Coupon, error)
	Create(coupon *models.Coupon) error
	Update(coupon *models.Coupon) error
	Delete(id uint) error
	List(filter CouponListFilter) ([]models.Coupon, int64, error)
	IncrementUsedCountWithinLimit(id uint) (int64, error)
	DecrementUsedCount(id uint, delta int) error
	WithTx(tx *gorm.DB) *GormCouponRepository
}

// CouponListFilter 优惠券列表筛选
type CouponListFilter struct {
	ID       uint
	Code     string
	Status   string
	Type     string
	Page     int
	PageSize int
}

// GormCouponRepository GORM 实现
type GormCouponRepository struct {
	db *gorm.DB
}

// NewCouponRepository 创建优惠券仓库
func NewCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCouponRepository) WithTx(tx *gorm.DB) *GormCouponRepository {
	if tx == nil {
		return r
	}
	return &GormCouponRepository{db: tx}
}

// GetByID 根据ID获取优惠券
func (r *GormCouponRepository) GetByID(id uint) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.First(&coupon, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &coupon, nil
}

// GetByCode 根据优惠码获取优惠券
func (r *GormCouponRepository) GetByCode(code string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.Where("code = ?", code).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &coupon, nil
}

// Create 创建优惠券
func (r *GormCouponRepository) Create(coupon *models.Coupon) error {
	return r.db.Create(coupon).Error
}

// Update 更新优惠券
func (r *GormCouponRepository) Update(coupon *models.Coupon) error {
	return r.db.Save(coupon).Error
}

// Delete 删除优惠券
func (r *GormCouponRepository) Delete(id uint) error {
	return r.db.Delete(&models.Coupon{}, id).Error
}

// List 获取优惠券列表
func (r *GormCouponRepository) List(filter CouponListFilter) ([]models.Coupon, int64, error) {
	var coupons []models.Coupon
	query := r.db.Model(&models.Coupon{})

	if filter.ID > 0 {
		query = query.Where("id = ?", filter.ID)
	}
	if filter.Code != "" {
		query = query.Where("code = ?", filter.Code)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("id desc").Find(&coupons).Error; err != nil {
		return nil, 0, err
	}
	return coupons, total, nil
}

// IncrementUsedCountWithinLimit 在未超出总使用上限时原子加一，返回受影响行数。
// usage_limit 为 0 表示不限制；返回 0 行说明并发下名额已被占满。
func (r *GormCouponRepository) IncrementUsedCountWithinLimit(id uint) (int64, error) {
	result := r.db.Model(&models.Coupon{}).
		Where("id = ?", id).
		Where("usage_limit = 0 OR used_count < usage_limit").
		UpdateColumn("used_count", gorm.Expr("used_count + ?", 1))
	return result.RowsAffected, result.Error
}

// DecrementUsedCount 减少优惠券使用次数
func (r *GormCouponRepository) DecrementUsedCount(id uint, delta int) error {
	if delta == 0 {
		delta = 1
	}
	if delta < 0 {
		delta = -delta
	}
	return r.db.Model(&models.Coupon{}).
		Where("id = ?", id).
		Where("used_count >= ?", delta).
		UpdateColumn("used_count", gorm.Expr("used_count - ?", delta)).Error
}
