package repository

import (
	"errors"

	"github.com/pos-next/internal/constants"
	"github.com/pos-next/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	GetByOrderNo(orderNo string) (*models.Order, error)
	Update(order *models.Order) error
	List(filter OrderListFilter) ([]models.Order, int64, error)
	CountCompletedByCustomer(customerID uint) (int64, error)
	WithTx(tx *gorm.DB) *GormOrderRepository
}

// OrderListFilter 订单列表筛选
type OrderListFilter struct {
	OrderNo    string
	StaffID    uint
	CustomerID uint
	Status     string
	Page       int
	PageSize   int
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) *GormOrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Create 创建订单（连同订单项）
func (r *GormOrderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

// GetByID 根据ID获取订单（含订单项）
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByOrderNo 根据订单编号获取订单（含订单项）
func (r *GormOrderRepository) GetByOrderNo(orderNo string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").Where("order_no = ?", orderNo).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// Update 更新订单
func (r *GormOrderRepository) Update(order *models.Order) error {
	return r.db.Save(order).Error
}

// List 获取订单列表
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	var orders []models.Order
	query := r.db.Model(&models.Order{})

	if filter.OrderNo != "" {
		query = query.Where("order_no = ?", filter.OrderNo)
	}
	if filter.StaffID > 0 {
		query = query.Where("staff_id = ?", filter.StaffID)
	}
	if filter.CustomerID > 0 {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Preload("Items").Order("id desc").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// CountCompletedByCustomer 统计客户有效订单数（作废订单不计入）
func (r *GormOrderRepository) CountCompletedByCustomer(customerID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Order{}).
		Where("customer_id = ? AND status = ?", customerID, constants.OrderStatusCompleted).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
