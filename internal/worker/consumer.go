package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/pos-next/internal/logger"
	"github.com/pos-next/internal/provider"
	"github.com/pos-next/internal/queue"
	"github.com/pos-next/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskPromotionRollover, c.handlePromotionRollover)
	mux.HandleFunc(queue.TaskInventoryLowStock, c.handleInventoryLowStock)
}

func (c *Consumer) handlePromotionRollover(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_promotion_rollover_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.PromotionRolloverPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_promotion_rollover_unmarshal_failed", "error", err)
		return err
	}
	if payload.PromotionID == 0 {
		logger.Debugw("worker_promotion_rollover_skip_invalid_payload", "promotion_id", payload.PromotionID)
		return nil
	}
	if c.PromotionAdminService == nil {
		logger.Warnw("worker_promotion_rollover_skip_service_nil", "promotion_id", payload.PromotionID)
		return nil
	}
	if err := c.PromotionAdminService.Rollover(payload.PromotionID, time.Now()); err != nil {
		if errors.Is(err, service.ErrPromotionNotFound) {
			logger.Debugw("worker_promotion_rollover_skip_not_found", "promotion_id", payload.PromotionID)
			return nil
		}
		logger.Warnw("worker_promotion_rollover_failed", "promotion_id", payload.PromotionID, "error", err)
		return err
	}
	return nil
}

func (c *Consumer) handleInventoryLowStock(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_inventory_low_stock_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.InventoryLowStockPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_inventory_low_stock_unmarshal_failed", "error", err)
		return err
	}
	if payload.ProductID == 0 {
		logger.Debugw("worker_inventory_low_stock_skip_invalid_payload", "product_id", payload.ProductID)
		return nil
	}
	product, err := c.ProductRepo.GetByID(payload.ProductID)
	if err != nil {
		logger.Warnw("worker_inventory_low_stock_fetch_failed", "product_id", payload.ProductID, "error", err)
		return err
	}
	if product == nil {
		logger.Debugw("worker_inventory_low_stock_skip_product_not_found", "product_id", payload.ProductID)
		return nil
	}
	if product.LowStockThreshold <= 0 || product.StockQuantity > product.LowStockThreshold {
		logger.Debugw("worker_inventory_low_stock_skip_recovered",
			"product_id", product.ID,
			"stock_quantity", product.StockQuantity,
			"threshold", product.LowStockThreshold,
		)
		return nil
	}
	logger.Warnw("inventory_low_stock_alert",
		"product_id", product.ID,
		"sku", product.SKU,
		"name", product.Name,
		"variant_id", payload.VariantID,
		"stock_quantity", product.StockQuantity,
		"threshold", product.LowStockThreshold,
	)
	return nil
}
