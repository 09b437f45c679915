package repository

import (
	"errors"

	"github.com/pos-next/internal/models"

	"gorm.io/gorm"
)

// StaffRepository 员工数据访问接口
type StaffRepository interface {
	GetByUsername(username string) (*models.Staff, error)
	GetByID(id uint) (*models.Staff, error)
	List() ([]models.Staff, error)
	Count() (int64, error)
	Create(staff *models.Staff) error
	Update(staff *models.Staff) error
	Delete(id uint) error
}

// GormStaffRepository GORM 实现
type GormStaffRepository struct {
	db *gorm.DB
}

// NewStaffRepository 创建员工仓库
func NewStaffRepository(db *gorm.DB) *GormStaffRepository {
	return &GormStaffRepository{db: db}
}

// GetByUsername 根据用户名获取员工
func (r *GormStaffRepository) GetByUsername(username string) (*models.Staff, error) {
	var staff models.Staff
	if err := r.db.Where("username = ?", username).First(&staff).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &staff, nil
}

// GetByID 根据 ID 获取员工
func (r *GormStaffRepository) GetByID(id uint) (*models.Staff, error) {
	var staff models.Staff
	if err := r.db.First(&staff, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &staff, nil
}

// List 获取员工列表
func (r *GormStaffRepository) List() ([]models.Staff, error) {
	staffs := make([]models.Staff, 0)
	err := r.db.
		Select("id", "username", "display_name", "role", "is_active", "last_login_at", "created_at").
		Order("id ASC").
		Find(&staffs).Error
	if err != nil {
		return nil, err
	}
	return staffs, nil
}

// Count 统计员工数量
func (r *GormStaffRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Staff{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create 创建员工
func (r *GormStaffRepository) Create(staff *models.Staff) error {
	return r.db.Create(staff).Error
}

// Update 更新员工
func (r *GormStaffRepository) Update(staff *models.Staff) error {
	return r.db.Save(staff).Error
}

// Delete 删除员工（软删除）
func (r *GormStaffRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.Staff{}, id).Error
}
