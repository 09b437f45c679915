package queue

import (
	"encoding/json"

	"github.com/pos-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskPromotionRollover 促销活动状态轮转任务
	TaskPromotionRollover = constants.TaskPromotionRollover
	// TaskInventoryLowStock 低库存告警任务
	TaskInventoryLowStock = constants.TaskInventoryLowStock
)

// PromotionRolloverPayload 促销状态轮转任务载荷
type PromotionRolloverPayload struct {
	PromotionID uint `json:"promotion_id"`
}

// InventoryLowStockPayload 低库存告警任务载荷
type InventoryLowStockPayload struct {
	ProductID uint `json:"product_id"`
	VariantID uint `json:"variant_id"`
}

// NewPromotionRolloverTask 创建促销状态轮转任务
func NewPromotionRolloverTask(payload PromotionRolloverPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPromotionRollover, body), nil
}

// NewInventoryLowStockTask 创建低库存告警任务
func NewInventoryLowStockTask(payload InventoryLowStockPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskInventoryLowStock, body), nil
}
