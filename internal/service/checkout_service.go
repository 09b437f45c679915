package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/pos-next/internal/constants"
	"github.com/pos-next/internal/logger"
	"github.com/pos-next/internal/models"
	"github.com/pos-next/internal/queue"
	"github.com/pos-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CheckoutService 收银结账服务
type CheckoutService struct {
	productRepo   repository.ProductRepository
	variantRepo   repository.ProductVariantRepository
	customerRepo  repository.CustomerRepository
	orderRepo     repository.OrderRepository
	movementRepo  repository.StockMovementRepository
	promotionRepo repository.PromotionRepository
	coupons       *CouponService
	promotions    *PromotionService
	queueClient   *queue.Client
}

// NewCheckoutService 创建收银结账服务
func NewCheckoutService(
	productRepo repository.ProductRepository,
	variantRepo repository.ProductVariantRepository,
	customerRepo repository.CustomerRepository,
	orderRepo repository.OrderRepository,
	movementRepo repository.StockMovementRepository,
	promotionRepo repository.PromotionRepository,
	coupons *CouponService,
	promotions *PromotionService,
	queueClient *queue.Client,
) *CheckoutService {
	return &CheckoutService{
		productRepo:   productRepo,
		variantRepo:   variantRepo,
		customerRepo:  customerRepo,
		orderRepo:     orderRepo,
		movementRepo:  movementRepo,
		promotionRepo: promotionRepo,
		coupons:       coupons,
		promotions:    promotions,
		queueClient:   queueClient,
	}
}

// CheckoutItem 结账输入行
type CheckoutItem struct {
	ProductID uint `json:"product_id"`
	VariantID uint `json:"variant_id"`
	Quantity  int  `json:"quantity"`
}

// CheckoutInput 结账输入
type CheckoutInput struct {
	StaffID       uint
	CustomerID    uint
	CouponCode    string
	PaymentMethod string
	Note          string
	Items         []CheckoutItem
}

// CheckoutQuote 结账报价（预览与落单共用的计算结果）
type CheckoutQuote struct {
	Subtotal       models.Money      `json:"subtotal"`
	Promotion      *PromotionResult  `json:"promotion"`
	Coupon         *CouponValidation `json:"coupon,omitempty"`
	CouponDiscount models.Money      `json:"coupon_discount"`
	Total          models.Money      `json:"total"`
	FreeShipping   bool              `json:"free_shipping"`

	lines      []SaleLine
	orderItems []models.OrderItem
}

// mergeCheckoutItems 合并重复的商品/规格行
func mergeCheckoutItems(items []CheckoutItem) ([]CheckoutItem, error) {
	if len(items) == 0 {
		return nil, ErrCartEmpty
	}
	type key struct {
		productID uint
		variantID uint
	}
	index := make(map[key]int, len(items))
	merged := make([]CheckoutItem, 0, len(items))
	for _, item := range items {
		if item.ProductID == 0 || item.Quantity <= 0 {
			return nil, ErrProductInvalid
		}
		k := key{productID: item.ProductID, variantID: item.VariantID}
		if pos, ok := index[k]; ok {
			merged[pos].Quantity += item.Quantity
			continue
		}
		index[k] = len(merged)
		merged = append(merged, item)
	}
	return merged, nil
}

// priceCart 从商品档案定价并构建购物车行与订单项快照
func (s *CheckoutService) priceCart(items []CheckoutItem) ([]SaleLine, []models.OrderItem, error) {
	lines := make([]SaleLine, 0, len(items))
	orderItems := make([]models.OrderItem, 0, len(items))

	for _, item := range items {
		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, nil, err
		}
		if product == nil || !product.IsActive {
			return nil, nil, ErrProductNotFound
		}

		unitPrice := product.Price.Decimal
		name := product.Name
		skuCode := product.SKU
		if item.VariantID > 0 {
			var variant *models.ProductVariant
			for i := range product.Variants {
				if product.Variants[i].ID == item.VariantID {
					variant = &product.Variants[i]
					break
				}
			}
			if variant == nil || !variant.IsActive {
				return nil, nil, ErrVariantNotFound
			}
			unitPrice = variant.Price.Decimal
			name = fmt.Sprintf("%s %s", product.Name, variant.Name)
			skuCode = variant.SKUCode
		}

		line := SaleLine{
			ProductID:  product.ID,
			VariantID:  item.VariantID,
			CategoryID: product.CategoryID,
			Quantity:   item.Quantity,
			UnitPrice:  unitPrice,
		}
		lines = append(lines, line)
		orderItems = append(orderItems, models.OrderItem{
			ProductID:  product.ID,
			VariantID:  item.VariantID,
			Name:       name,
			SKUCode:    skuCode,
			UnitPrice:  models.NewMoneyFromDecimal(unitPrice),
			Quantity:   item.Quantity,
			TotalPrice: models.NewMoneyFromDecimal(line.LineTotal()),
		})
	}
	return lines, orderItems, nil
}

// Preview 计算结账报价，不产生任何写入
func (s *CheckoutService) Preview(input CheckoutInput) (*CheckoutQuote, error) {
	merged, err := mergeCheckoutItems(input.Items)
	if err != nil {
		return nil, err
	}
	lines, orderItems, err := s.priceCart(merged)
	if err != nil {
		return nil, err
	}

	subtotal := models.NewMoneyFromDecimal(linesTotal(lines))
	promotion, err := s.promotions.CalculateCartDiscount(lines, subtotal)
	if err != nil {
		return nil, err
	}

	quote := &CheckoutQuote{
		Subtotal:   subtotal,
		Promotion:  promotion,
		lines:      lines,
		orderItems: orderItems,
	}

	if strings.TrimSpace(input.CouponCode) != "" {
		validation, err := s.coupons.Validate(input.CouponCode, input.CustomerID, subtotal, lines)
		if err != nil {
			return nil, err
		}
		quote.Coupon = validation
		if validation.Valid {
			quote.CouponDiscount = validation.Discount
			quote.FreeShipping = validation.FreeShipping
		}
	}

	total := subtotal.Decimal.
		Sub(promotion.TotalDiscount.Decimal).
		Sub(quote.CouponDiscount.Decimal)
	if total.LessThan(decimal.Zero) {
		total = decimal.Zero
	}
	quote.Total = models.NewMoneyFromDecimal(total)
	return quote, nil
}

// Checkout 完成结账：定价、促销、优惠券、扣库存与落单在一个事务内生效。
// 优惠码校验未通过时返回 CouponRejectedError，携带收银端可展示的原因。
func (s *CheckoutService) Checkout(input CheckoutInput) (*models.Order, error) {
	method := strings.ToLower(strings.TrimSpace(input.PaymentMethod))
	if method == "" {
		method = constants.PaymentMethodCash
	}
	if method != constants.PaymentMethodCash && method != constants.PaymentMethodCard {
		return nil, ErrPaymentMethodInvalid
	}

	if input.CustomerID > 0 {
		customer, err := s.customerRepo.GetByID(input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, ErrCustomerNotFound
		}
	}

	quote, err := s.Preview(input)
	if err != nil {
		return nil, err
	}
	if quote.Coupon != nil && !quote.Coupon.Valid {
		return nil, &CouponRejectedError{Message: quote.Coupon.Message}
	}

	now := time.Now()
	order := &models.Order{
		OrderNo:           generateOrderNo(),
		StaffID:           input.StaffID,
		CustomerID:        input.CustomerID,
		Status:            constants.OrderStatusCompleted,
		PaymentMethod:     method,
		Subtotal:          quote.Subtotal,
		PromotionDiscount: quote.Promotion.TotalDiscount,
		CouponDiscount:    quote.CouponDiscount,
		TotalAmount:       quote.Total,
		FreeShipping:      quote.FreeShipping,
		Note:              strings.TrimSpace(input.Note),
		PaidAt:            &now,
		Items:             quote.orderItems,
	}
	if quote.Coupon != nil && quote.Coupon.Valid && quote.Coupon.Coupon != nil {
		couponID := quote.Coupon.Coupon.ID
		order.CouponID = &couponID
	}
	for _, promotion := range quote.Promotion.Promotions {
		order.PromotionIDs = append(order.PromotionIDs, promotion.ID)
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.WithTx(tx).Create(order); err != nil {
			return err
		}

		for _, line := range quote.lines {
			if err := s.reserveStockTx(tx, line, order); err != nil {
				return err
			}
		}

		if order.CouponID != nil {
			if err := s.coupons.trackUsageTx(tx, *order.CouponID, input.CustomerID, order.ID, quote.CouponDiscount); err != nil {
				return err
			}
		}

		for _, promotionID := range order.PromotionIDs {
			if err := s.promotionRepo.WithTx(tx).IncrementUsedCount(promotionID, 1); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyLowStock(quote.lines)
	return order, nil
}

// reserveStockTx 扣减库存并写入销售流水，余量不足回滚整个结账事务
func (s *CheckoutService) reserveStockTx(tx *gorm.DB, line SaleLine, order *models.Order) error {
	var affected int64
	var err error
	if line.VariantID > 0 {
		affected, err = s.variantRepo.WithTx(tx).AdjustStock(line.VariantID, -line.Quantity)
	} else {
		affected, err = s.productRepo.WithTx(tx).AdjustStock(line.ProductID, -line.Quantity)
	}
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrStockInsufficient
	}

	orderID := order.ID
	return s.movementRepo.WithTx(tx).Create(&models.StockMovement{
		ProductID: line.ProductID,
		VariantID: line.VariantID,
		OrderID:   &orderID,
		StaffID:   order.StaffID,
		Type:      constants.StockMovementTypeSale,
		Quantity:  -line.Quantity,
	})
}

// Void 作废订单：回补库存、释放优惠券名额、回退促销计数
func (s *CheckoutService) Void(orderID, staffID uint, reason string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusCompleted {
		return nil, ErrOrderNotVoidable
	}

	now := time.Now()
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		order.Status = constants.OrderStatusVoided
		order.VoidedAt = &now
		if err := s.orderRepo.WithTx(tx).Update(order); err != nil {
			return err
		}

		for _, item := range order.Items {
			if item.VariantID > 0 {
				if _, err := s.variantRepo.WithTx(tx).AdjustStock(item.VariantID, item.Quantity); err != nil {
					return err
				}
			} else {
				if _, err := s.productRepo.WithTx(tx).AdjustStock(item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
			itemOrderID := order.ID
			if err := s.movementRepo.WithTx(tx).Create(&models.StockMovement{
				ProductID: item.ProductID,
				VariantID: item.VariantID,
				OrderID:   &itemOrderID,
				StaffID:   staffID,
				Type:      constants.StockMovementTypeVoid,
				Quantity:  item.Quantity,
				Reason:    strings.TrimSpace(reason),
			}); err != nil {
				return err
			}
		}

		if err := s.coupons.releaseUsageTx(tx, order.ID); err != nil {
			return err
		}

		for _, promotionID := range order.PromotionIDs {
			if err := s.promotionRepo.WithTx(tx).DecrementUsedCount(promotionID, 1); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// notifyLowStock 结账后检查余量，跌破阈值的商品投递告警任务（尽力而为）
func (s *CheckoutService) notifyLowStock(lines []SaleLine) {
	if !s.queueClient.Enabled() {
		return
	}
	seen := make(map[uint]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		product, err := s.productRepo.GetByID(line.ProductID)
		if err != nil || product == nil {
			continue
		}
		if product.LowStockThreshold > 0 && product.StockQuantity <= product.LowStockThreshold {
			payload := queue.InventoryLowStockPayload{ProductID: product.ID, VariantID: line.VariantID}
			if err := s.queueClient.EnqueueInventoryLowStock(payload); err != nil {
				logger.Warnw("low_stock_enqueue_failed", "product_id", product.ID, "error", err)
			}
		}
	}
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	randPart := randNumeric(6)
	return fmt.Sprintf("PN%s%s", now, randPart)
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
