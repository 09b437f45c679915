package service

import (
	"strings"

	"github.com/pos-next/internal/models"
	"github.com/pos-next/internal/repository"
)

// CustomerService 客户管理服务
type CustomerService struct {
	repo repository.CustomerRepository
}

// NewCustomerService 创建客户管理服务
func NewCustomerService(repo repository.CustomerRepository) *CustomerService {
	return &CustomerService{repo: repo}
}

// CustomerInput 创建/更新客户输入
type CustomerInput struct {
	Name  string
	Phone string
	Email string
}

// Create 创建客户
func (s *CustomerService) Create(input CustomerInput) (*models.Customer, error) {
	name := strings.TrimSpace(input.Name)
	phone := strings.TrimSpace(input.Phone)
	if name == "" || phone == "" {
		return nil, ErrCustomerNotFound
	}

	exist, err := s.repo.GetByPhone(phone)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrCustomerPhoneExists
	}

	customer := &models.Customer{
		Name:  name,
		Phone: phone,
		Email: strings.TrimSpace(input.Email),
	}
	if err := s.repo.Create(customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// Update 更新客户
func (s *CustomerService) Update(id uint, input CustomerInput) (*models.Customer, error) {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrCustomerNotFound
	}

	name := strings.TrimSpace(input.Name)
	phone := strings.TrimSpace(input.Phone)
	if name == "" || phone == "" {
		return nil, ErrCustomerNotFound
	}

	if phone != existing.Phone {
		dup, err := s.repo.GetByPhone(phone)
		if err != nil {
			return nil, err
		}
		if dup != nil {
			return nil, ErrCustomerPhoneExists
		}
	}

	existing.Name = name
	existing.Phone = phone
	existing.Email = strings.TrimSpace(input.Email)

	if err := s.repo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Get 获取客户详情
func (s *CustomerService) Get(id uint) (*models.Customer, error) {
	customer, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}
	return customer, nil
}

// List 获取客户列表
func (s *CustomerService) List(filter repository.CustomerListFilter) ([]models.Customer, int64, error) {
	return s.repo.List(filter)
}

// Delete 删除客户
func (s *CustomerService) Delete(id uint) error {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrCustomerNotFound
	}
	return s.repo.Delete(id)
}
