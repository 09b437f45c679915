package service

import (
	"github.com/pos-next/internal/models"
	"github.com/pos-next/internal/repository"
)

// OrderService 订单查询服务
type OrderService struct {
	repo repository.OrderRepository
}

// NewOrderService 创建订单查询服务
func NewOrderService(repo repository.OrderRepository) *OrderService {
	return &OrderService{repo: repo}
}

// Get 按ID获取订单
func (s *OrderService) Get(id uint) (*models.Order, error) {
	order, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetByOrderNo 按订单编号获取订单
func (s *OrderService) GetByOrderNo(orderNo string) (*models.Order, error) {
	order, err := s.repo.GetByOrderNo(orderNo)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// List 订单列表
func (s *OrderService) List(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.repo.List(filter)
}
