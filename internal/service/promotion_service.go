package service

import (
	"sort"
	"time"

	"github.com/pos-next/internal/constants"
	"github.com/pos-next/internal/models"
	"github.com/pos-next/internal/repository"

	"github.com/shopspring/decimal"
)

// PromotionService 促销活动服务
type PromotionService struct {
	promotionRepo repository.PromotionRepository
}

// NewPromotionService 创建促销活动服务
func NewPromotionService(promotionRepo repository.PromotionRepository) *PromotionService {
	return &PromotionService{
		promotionRepo: promotionRepo,
	}
}

// PromotionResult 购物车促销计算结果。
// Promotion/Discount 为首个生效活动的快照，供只展示单一活动的收银界面使用。
type PromotionResult struct {
	Promotions    []models.Promotion `json:"promotions"`          // 生效活动（按应用顺序）
	TotalDiscount models.Money       `json:"total_discount"`      // 优惠总额
	Promotion     *models.Promotion  `json:"promotion,omitempty"` // 首个生效活动
	Discount      models.Money       `json:"discount"`            // 首个生效活动的优惠额
}

type promotionCandidate struct {
	promotion models.Promotion
	discount  decimal.Decimal
}

// CalculateCartDiscount 两阶段解析购物车促销：
// 先筛出满足时间窗、规格目标与全部条件且折扣为正的候选，
// 再按优先级降序做叠加冲突裁决。
func (s *PromotionService) CalculateCartDiscount(items []SaleLine, cartTotal models.Money) (*PromotionResult, error) {
	result := &PromotionResult{Promotions: []models.Promotion{}}
	if len(items) == 0 || cartTotal.Decimal.LessThanOrEqual(decimal.Zero) {
		return result, nil
	}

	now := time.Now()
	promotions, err := s.promotionRepo.ListActive(now)
	if err != nil {
		return nil, err
	}

	candidates := make([]promotionCandidate, 0, len(promotions))
	for i := range promotions {
		discount, err := s.evaluate(&promotions[i], items, cartTotal.Decimal, now)
		if err != nil {
			return nil, err
		}
		if discount.GreaterThan(decimal.Zero) {
			candidates = append(candidates, promotionCandidate{promotion: promotions[i], discount: discount})
		}
	}

	// 同优先级保持存储顺序，稳定排序保证结果可复现
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].promotion.Priority > candidates[j].promotion.Priority
	})

	total := decimal.Zero
	stackOpen := true
	for _, c := range candidates {
		if len(result.Promotions) > 0 && (!stackOpen || !c.promotion.Stackable) {
			continue
		}
		result.Promotions = append(result.Promotions, c.promotion)
		total = total.Add(c.discount)
		if len(result.Promotions) == 1 {
			promo := c.promotion
			result.Promotion = &promo
			result.Discount = models.NewMoneyFromDecimal(c.discount)
			stackOpen = c.promotion.Stackable
			if !stackOpen {
				break
			}
		}
	}

	if total.GreaterThan(cartTotal.Decimal) {
		total = cartTotal.Decimal
	}
	result.TotalDiscount = models.NewMoneyFromDecimal(total)
	return result, nil
}

// evaluate 评估单个活动对购物车的折扣额；不生效返回 0。
// 时间窗两端必填且为闭区间；仅评估首个动作，多余动作忽略。
func (s *PromotionService) evaluate(promotion *models.Promotion, items []SaleLine, cartTotal decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	if promotion.Status != constants.PromotionStatusActive {
		return decimal.Zero, nil
	}
	if promotion.StartsAt == nil || promotion.EndsAt == nil {
		return decimal.Zero, nil
	}
	if now.Before(*promotion.StartsAt) || now.After(*promotion.EndsAt) {
		return decimal.Zero, nil
	}

	if !variantEligible(items, promotion.ApplicableVariants) {
		return decimal.Zero, nil
	}

	ok, err := conditionsHold(promotion.Conditions, items, cartTotal)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		return decimal.Zero, nil
	}

	if len(promotion.Actions) == 0 {
		return decimal.Zero, nil
	}
	action := promotion.Actions[0]
	switch action.Type {
	case constants.ActionTypePercentDiscount:
		base := linesTotal(selectVariantEligibleLines(items, promotion.ApplicableVariants))
		discount := base.Mul(action.Value.Decimal).Div(decimal.NewFromInt(100))
		if action.MaxDiscount.Decimal.GreaterThan(decimal.Zero) && discount.GreaterThan(action.MaxDiscount.Decimal) {
			discount = action.MaxDiscount.Decimal
		}
		return discount, nil
	case constants.ActionTypeFixedDiscount:
		return action.Value.Decimal, nil
	default:
		return decimal.Zero, nil
	}
}
