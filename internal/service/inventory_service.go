package service

import (
	"strings"

	"github.com/pos-next/internal/constants"
	"github.com/pos-next/internal/logger"
	"github.com/pos-next/internal/models"
	"github.com/pos-next/internal/queue"
	"github.com/pos-next/internal/repository"

	"gorm.io/gorm"
)

// InventoryService 库存管理服务
type InventoryService struct {
	productRepo  repository.ProductRepository
	variantRepo  repository.ProductVariantRepository
	movementRepo repository.StockMovementRepository
	queueClient  *queue.Client
}

// NewInventoryService 创建库存管理服务
func NewInventoryService(
	productRepo repository.ProductRepository,
	variantRepo repository.ProductVariantRepository,
	movementRepo repository.StockMovementRepository,
	queueClient *queue.Client,
) *InventoryService {
	return &InventoryService{
		productRepo:  productRepo,
		variantRepo:  variantRepo,
		movementRepo: movementRepo,
		queueClient:  queueClient,
	}
}

// AdjustStockInput 手动调整库存输入
type AdjustStockInput struct {
	ProductID uint
	VariantID uint
	Delta     int
	Type      string
	Reason    string
	StaffID   uint
}

// Adjust 手动调整库存并记录流水，负向调整不允许把库存扣成负数
func (s *InventoryService) Adjust(input AdjustStockInput) (*models.StockMovement, error) {
	if input.ProductID == 0 || input.Delta == 0 {
		return nil, ErrProductInvalid
	}
	switch input.Type {
	case constants.StockMovementTypeAdjustment, constants.StockMovementTypeRestock:
	default:
		return nil, ErrProductInvalid
	}

	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if input.VariantID > 0 {
		variant, err := s.variantRepo.GetByID(input.VariantID)
		if err != nil {
			return nil, err
		}
		if variant == nil || variant.ProductID != input.ProductID {
			return nil, ErrVariantNotFound
		}
	}

	movement := &models.StockMovement{
		ProductID: input.ProductID,
		VariantID: input.VariantID,
		StaffID:   input.StaffID,
		Type:      input.Type,
		Quantity:  input.Delta,
		Reason:    strings.TrimSpace(input.Reason),
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		var rows int64
		var adjustErr error
		if input.VariantID > 0 {
			rows, adjustErr = s.variantRepo.WithTx(tx).AdjustStock(input.VariantID, input.Delta)
		} else {
			rows, adjustErr = s.productRepo.WithTx(tx).AdjustStock(input.ProductID, input.Delta)
		}
		if adjustErr != nil {
			return adjustErr
		}
		if rows == 0 {
			return ErrStockInsufficient
		}
		return s.movementRepo.WithTx(tx).Create(movement)
	})
	if err != nil {
		return nil, err
	}

	s.notifyLowStock(input.ProductID, input.VariantID)
	return movement, nil
}

// Movements 库存流水列表
func (s *InventoryService) Movements(filter repository.StockMovementListFilter) ([]models.StockMovement, int64, error) {
	return s.movementRepo.List(filter)
}

// LowStock 低库存商品列表
func (s *InventoryService) LowStock() ([]models.Product, error) {
	return s.productRepo.ListLowStock()
}

func (s *InventoryService) notifyLowStock(productID, variantID uint) {
	if s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil || product == nil {
		return
	}
	if product.LowStockThreshold <= 0 || product.StockQuantity > product.LowStockThreshold {
		return
	}
	if err := s.queueClient.EnqueueInventoryLowStock(queue.InventoryLowStockPayload{
		ProductID: productID,
		VariantID: variantID,
	}); err != nil {
		logger.Warnw("low_stock_enqueue_failed", "product_id", productID, "error", err.Error())
	}
}
