package service

import (
	"strings"

	"github.com/pos-next/internal/models"
	"github.com/pos-next/internal/repository"
)

// CategoryService 分类管理服务
type CategoryService struct {
	repo repository.CategoryRepository
}

// NewCategoryService 创建分类管理服务
func NewCategoryService(repo repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// CategoryInput 创建/更新分类输入
type CategoryInput struct {
	Slug      string
	Name      string
	SortOrder int
}

// List 分类列表
func (s *CategoryService) List() ([]models.Category, error) {
	return s.repo.List()
}

// Create 创建分类
func (s *CategoryService) Create(input CategoryInput) (*models.Category, error) {
	slug := strings.TrimSpace(input.Slug)
	name := strings.TrimSpace(input.Name)
	if slug == "" || name == "" {
		return nil, ErrCategoryInvalid
	}

	count, err := s.repo.CountBySlug(slug, 0)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrCategorySlugExists
	}

	category := &models.Category{
		Slug:      slug,
		Name:      name,
		SortOrder: input.SortOrder,
	}
	if err := s.repo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Update 更新分类
func (s *CategoryService) Update(id uint, input CategoryInput) (*models.Category, error) {
	if id == 0 {
		return nil, ErrCategoryInvalid
	}
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrCategoryNotFound
	}

	slug := strings.TrimSpace(input.Slug)
	name := strings.TrimSpace(input.Name)
	if slug == "" || name == "" {
		return nil, ErrCategoryInvalid
	}

	if slug != existing.Slug {
		count, err := s.repo.CountBySlug(slug, id)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrCategorySlugExists
		}
	}

	existing.Slug = slug
	existing.Name = name
	existing.SortOrder = input.SortOrder

	if err := s.repo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete 删除分类（仍挂有商品的分类不允许删除）
func (s *CategoryService) Delete(id uint) error {
	if id == 0 {
		return ErrCategoryInvalid
	}
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrCategoryNotFound
	}

	count, err := s.repo.CountProducts(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}
	return s.repo.Delete(id)
}
