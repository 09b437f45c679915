package repository

import (
	"errors"

	"github.com/pos-next/internal/models"

	"gorm.io/gorm"
)

// CustomerRepository 客户数据访问接口
type CustomerRepository interface {
	GetByID(id uint) (*models.Customer, error)
	GetByPhone(phone string) (*models.Customer, error)
	List(filter CustomerListFilter) ([]models.Customer, int64, error)
	Create(customer *models.Customer) error
	Update(customer *models.Customer) error
	Delete(id uint) error
}

// CustomerListFilter 客户列表筛选
type CustomerListFilter struct {
	Keyword  string
	Page     int
	PageSize int
}

// GormCustomerRepository GORM 实现
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository 创建客户仓库
func NewCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// GetByID 根据 ID 获取客户
func (r *GormCustomerRepository) GetByID(id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// GetByPhone 根据手机号获取客户
func (r *GormCustomerRepository) GetByPhone(phone string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.Where("phone = ?", phone).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// List 获取客户列表
func (r *GormCustomerRepository) List(filter CustomerListFilter) ([]models.Customer, int64, error) {
	var customers []models.Customer
	query := r.db.Model(&models.Customer{})

	if filter.Keyword != "" {
		condition, args := buildKeywordCondition(r.db, []string{"name", "phone", "email"}, filter.Keyword)
		query = query.Where(condition, args...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("id desc").Find(&customers).Error; err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

// Create 创建客户
func (r *GormCustomerRepository) Create(customer *models.Customer) error {
	return r.db.Create(customer).Error
}

// Update 更新客户
func (r *GormCustomerRepository) Update(customer *models.Customer) error {
	return r.db.Save(customer).Error
}

// Delete 删除客户（软删除）
func (r *GormCustomerRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.Customer{}, id).Error
}
