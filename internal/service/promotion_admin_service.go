package service

import (
	"strings"
	"time"

	"github.com/pos-next/internal/constants"
	"github.com/pos-next/internal/logger"
	"github.com/pos-next/internal/models"
	"github.com/pos-next/internal/queue"
	"github.com/pos-next/internal/repository"

	"github.com/shopspring/decimal"
)

// PromotionAdminService 促销活动管理服务
type PromotionAdminService struct {
	repo        repository.PromotionRepository
	queueClient *queue.Client
}

// NewPromotionAdminService 创建促销活动管理服务
func NewPromotionAdminService(repo repository.PromotionRepository, queueClient *queue.Client) *PromotionAdminService {
	return &PromotionAdminService{repo: repo, queueClient: queueClient}
}

// PromotionInput 创建/更新促销活动输入
type PromotionInput struct {
	Name               string
	Status             string
	Priority           int
	Stackable          bool
	Conditions         []models.PromotionCondition
	Actions            []models.PromotionAction
	ApplicableVariants []models.VariantTarget
	StartsAt           *time.Time
	EndsAt             *time.Time
}

func (s *PromotionAdminService) validate(input *PromotionInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return ErrPromotionInvalid
	}
	// 时间窗两端必填，解析器对缺失时间窗的活动一律不生效
	if input.StartsAt == nil || input.EndsAt == nil {
		return ErrPromotionInvalid
	}
	if input.EndsAt.Before(*input.StartsAt) {
		return ErrPromotionInvalid
	}
	if input.Status == "" {
		input.Status = constants.PromotionStatusInactive
	}
	switch input.Status {
	case constants.PromotionStatusActive, constants.PromotionStatusInactive, constants.PromotionStatusScheduled:
	default:
		return ErrPromotionInvalid
	}
	if len(input.Actions) == 0 {
		return ErrPromotionInvalid
	}
	for _, action := range input.Actions {
		switch action.Type {
		case constants.ActionTypePercentDiscount:
			if action.Value.Decimal.LessThanOrEqual(decimal.Zero) ||
				action.Value.Decimal.GreaterThan(decimal.NewFromInt(100)) {
				return ErrPromotionInvalid
			}
		case constants.ActionTypeFixedDiscount:
			if action.Value.Decimal.LessThanOrEqual(decimal.Zero) {
				return ErrPromotionInvalid
			}
		default:
			return ErrPromotionInvalid
		}
	}
	for _, cond := range input.Conditions {
		switch cond.Type {
		case constants.ConditionTypeMinAmount:
			if cond.Value.Decimal.LessThanOrEqual(decimal.Zero) {
				return ErrPromotionInvalid
			}
		case constants.ConditionTypeMinQuantity:
			if cond.Quantity <= 0 {
				return ErrPromotionInvalid
			}
		case constants.ConditionTypeSpecificProduct:
			if len(cond.ProductIDs) == 0 {
				return ErrPromotionInvalid
			}
		default:
			return ErrPromotionInvalid
		}
	}
	if err := validateVariantTargets(input.ApplicableVariants); err != nil {
		return ErrPromotionInvalid
	}
	return nil
}

// Create 创建促销活动
func (s *PromotionAdminService) Create(input PromotionInput) (*models.Promotion, error) {
	if err := s.validate(&input); err != nil {
		return nil, err
	}

	promotion := &models.Promotion{
		Name:               input.Name,
		Status:             input.Status,
		Priority:           input.Priority,
		Stackable:          input.Stackable,
		Conditions:         input.Conditions,
		Actions:            input.Actions,
		ApplicableVariants: input.ApplicableVariants,
		StartsAt:           input.StartsAt,
		EndsAt:             input.EndsAt,
	}

	if err := s.repo.Create(promotion); err != nil {
		return nil, err
	}
	s.scheduleRollover(promotion)
	return promotion, nil
}

// Update 更新促销活动
func (s *PromotionAdminService) Update(id uint, input PromotionInput) (*models.Promotion, error) {
	if id == 0 {
		return nil, ErrPromotionInvalid
	}
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrPromotionNotFound
	}

	if err := s.validate(&input); err != nil {
		return nil, err
	}

	existing.Name = input.Name
	existing.Status = input.Status
	existing.Priority = input.Priority
	existing.Stackable = input.Stackable
	existing.Conditions = input.Conditions
	existing.Actions = input.Actions
	existing.ApplicableVariants = input.ApplicableVariants
	existing.StartsAt = input.StartsAt
	existing.EndsAt = input.EndsAt

	if err := s.repo.Update(existing); err != nil {
		return nil, err
	}
	s.scheduleRollover(existing)
	return existing, nil
}

// Delete 删除促销活动
func (s *PromotionAdminService) Delete(id uint) error {
	if id == 0 {
		return ErrPromotionInvalid
	}
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrPromotionNotFound
	}
	return s.repo.Delete(id)
}

// Get 获取促销活动详情
func (s *PromotionAdminService) Get(id uint) (*models.Promotion, error) {
	promotion, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if promotion == nil {
		return nil, ErrPromotionNotFound
	}
	return promotion, nil
}

// List 获取促销活动列表
func (s *PromotionAdminService) List(filter repository.PromotionListFilter) ([]models.Promotion, int64, error) {
	return s.repo.List(filter)
}

// scheduleRollover 在活动起止时间点各投递一个轮转任务，队列未启用时静默跳过。
// 轮转任务是尽力而为的推进手段，worker 侧的周期巡检兜底。
func (s *PromotionAdminService) scheduleRollover(promotion *models.Promotion) {
	if !s.queueClient.Enabled() || promotion == nil {
		return
	}
	payload := queue.PromotionRolloverPayload{PromotionID: promotion.ID}
	now := time.Now()
	if promotion.StartsAt != nil && promotion.StartsAt.After(now) {
		if err := s.queueClient.EnqueuePromotionRolloverAt(payload, *promotion.StartsAt); err != nil {
			logger.Warnw("promotion_rollover_enqueue_failed", "promotion_id", promotion.ID, "error", err)
		}
	}
	if promotion.EndsAt != nil && promotion.EndsAt.After(now) {
		if err := s.queueClient.EnqueuePromotionRolloverAt(payload, *promotion.EndsAt); err != nil {
			logger.Warnw("promotion_rollover_enqueue_failed", "promotion_id", promotion.ID, "error", err)
		}
	}
}

// Rollover 推进单个活动的状态：到点上线 scheduled→active，到期下线 active→inactive。
func (s *PromotionAdminService) Rollover(id uint, now time.Time) error {
	promotion, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if promotion == nil {
		return nil
	}
	switch promotion.Status {
	case constants.PromotionStatusScheduled:
		if promotion.StartsAt != nil && !now.Before(*promotion.StartsAt) &&
			(promotion.EndsAt == nil || !now.After(*promotion.EndsAt)) {
			return s.repo.UpdateStatus(promotion.ID, constants.PromotionStatusActive)
		}
	case constants.PromotionStatusActive:
		if promotion.EndsAt != nil && now.After(*promotion.EndsAt) {
			return s.repo.UpdateStatus(promotion.ID, constants.PromotionStatusInactive)
		}
	}
	return nil
}

// RolloverDue 批量推进所有到点/到期的活动，返回状态变更数量。
func (s *PromotionAdminService) RolloverDue(now time.Time) (int, error) {
	changed := 0

	due, err := s.repo.ListScheduledDue(now)
	if err != nil {
		return changed, err
	}
	for _, promotion := range due {
		if promotion.EndsAt != nil && now.After(*promotion.EndsAt) {
			if err := s.repo.UpdateStatus(promotion.ID, constants.PromotionStatusInactive); err != nil {
				return changed, err
			}
			changed++
			continue
		}
		if err := s.repo.UpdateStatus(promotion.ID, constants.PromotionStatusActive); err != nil {
			return changed, err
		}
		changed++
	}

	expired, err := s.repo.ListExpired(now)
	if err != nil {
		return changed, err
	}
	for _, promotion := range expired {
		if err := s.repo.UpdateStatus(promotion.ID, constants.PromotionStatusInactive); err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}
