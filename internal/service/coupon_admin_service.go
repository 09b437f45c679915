package service

import (
	"strings"
	"time"

	"github.com/pos-next/internal/constants"
	"github.com/pos-next/internal/models"
	"github.com/pos-next/internal/repository"

	"github.com/shopspring/decimal"
)

// CouponAdminService 优惠券管理服务
type CouponAdminService struct {
	repo repository.CouponRepository
}

// NewCouponAdminService 创建优惠券管理服务
func NewCouponAdminService(repo repository.CouponRepository) *CouponAdminService {
	return &CouponAdminService{repo: repo}
}

// CouponInput 创建/更新优惠券输入
type CouponInput struct {
	Code                 string
	Status               string
	Type                 string
	Value                models.Money
	MaxDiscount          models.Money
	MinOrderAmount       models.Money
	MinQuantity          int
	UsageLimit           int
	PerUserLimit         int
	FirstOrderOnly       bool
	AllowedCustomerIDs   []uint
	ApplicableProducts   []uint
	ApplicableVariants   []models.VariantTarget
	ApplicableCategories []uint
	ExcludedProducts     []uint
	StartsAt             *time.Time
	EndsAt               *time.Time
}

func (s *CouponAdminService) validate(input *CouponInput) error {
	input.Code = strings.TrimSpace(input.Code)
	if input.Code == "" {
		return ErrCouponInvalid
	}
	input.Type = strings.ToLower(strings.TrimSpace(input.Type))
	switch input.Type {
	case constants.CouponTypeFixed, constants.CouponTypePercent:
		if input.Value.Decimal.LessThanOrEqual(decimal.Zero) {
			return ErrCouponInvalid
		}
		if input.Type == constants.CouponTypePercent && input.Value.Decimal.GreaterThan(decimal.NewFromInt(100)) {
			return ErrCouponInvalid
		}
	case constants.CouponTypeFreeShipping:
	default:
		return ErrCouponInvalid
	}
	if input.Status == "" {
		input.Status = constants.CouponStatusActive
	}
	if input.Status != constants.CouponStatusActive && input.Status != constants.CouponStatusInactive {
		return ErrCouponInvalid
	}
	if input.MinQuantity < 0 || input.UsageLimit < 0 || input.PerUserLimit < 0 {
		return ErrCouponInvalid
	}
	if input.StartsAt != nil && input.EndsAt != nil && input.EndsAt.Before(*input.StartsAt) {
		return ErrCouponInvalid
	}
	if err := validateVariantTargets(input.ApplicableVariants); err != nil {
		return ErrCouponInvalid
	}
	return nil
}

// Create 创建优惠券
func (s *CouponAdminService) Create(input CouponInput) (*models.Coupon, error) {
	if err := s.validate(&input); err != nil {
		return nil, err
	}

	exist, err := s.repo.GetByCode(input.Code)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrCouponCodeExists
	}

	coupon := &models.Coupon{
		Code:                 input.Code,
		Status:               input.Status,
		Type:                 input.Type,
		Value:                input.Value,
		MaxDiscount:          input.MaxDiscount,
		MinOrderAmount:       input.MinOrderAmount,
		MinQuantity:          input.MinQuantity,
		UsageLimit:           input.UsageLimit,
		UsedCount:            0,
		PerUserLimit:         input.PerUserLimit,
		FirstOrderOnly:       input.FirstOrderOnly,
		AllowedCustomerIDs:   input.AllowedCustomerIDs,
		ApplicableProducts:   input.ApplicableProducts,
		ApplicableVariants:   input.ApplicableVariants,
		ApplicableCategories: input.ApplicableCategories,
		ExcludedProducts:     input.ExcludedProducts,
		StartsAt:             input.StartsAt,
		EndsAt:               input.EndsAt,
	}

	if err := s.repo.Create(coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// Update 更新优惠券
func (s *CouponAdminService) Update(id uint, input CouponInput) (*models.Coupon, error) {
	if id == 0 {
		return nil, ErrCouponInvalid
	}
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrCouponNotFound
	}

	if err := s.validate(&input); err != nil {
		return nil, err
	}

	if input.Code != existing.Code {
		dup, err := s.repo.GetByCode(input.Code)
		if err != nil {
			return nil, err
		}
		if dup != nil {
			return nil, ErrCouponCodeExists
		}
	}

	existing.Code = input.Code
	existing.Status = input.Status
	existing.Type = input.Type
	existing.Value = input.Value
	existing.MaxDiscount = input.MaxDiscount
	existing.MinOrderAmount = input.MinOrderAmount
	existing.MinQuantity = input.MinQuantity
	existing.UsageLimit = input.UsageLimit
	existing.PerUserLimit = input.PerUserLimit
	existing.FirstOrderOnly = input.FirstOrderOnly
	existing.AllowedCustomerIDs = input.AllowedCustomerIDs
	existing.ApplicableProducts = input.ApplicableProducts
	existing.ApplicableVariants = input.ApplicableVariants
	existing.ApplicableCategories = input.ApplicableCategories
	existing.ExcludedProducts = input.ExcludedProducts
	existing.StartsAt = input.StartsAt
	existing.EndsAt = input.EndsAt

	if err := s.repo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete 删除优惠券
func (s *CouponAdminService) Delete(id uint) error {
	if id == 0 {
		return ErrCouponInvalid
	}
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrCouponNotFound
	}
	return s.repo.Delete(id)
}

// Get 获取优惠券详情
func (s *CouponAdminService) Get(id uint) (*models.Coupon, error) {
	coupon, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	return coupon, nil
}

// List 获取优惠券列表
func (s *CouponAdminService) List(filter repository.CouponListFilter) ([]models.Coupon, int64, error) {
	return s.repo.List(filter)
}

// validateVariantTargets 校验规格目标集合
func validateVariantTargets(targets []models.VariantTarget) error {
	for _, target := range targets {
		if target.ProductID == 0 {
			return ErrConditionInvalid
		}
		switch target.VariantMode {
		case constants.VariantModeAll, "":
		case constants.VariantModeSpecific:
			if len(target.VariantIDs) == 0 {
				return ErrConditionInvalid
			}
		default:
			return ErrConditionInvalid
		}
	}
	return nil
}
