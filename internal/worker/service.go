package worker

import (
	"context"
	"errors"
	"time"

	"github.com/pos-next/internal/config"
	"github.com/pos-next/internal/logger"
	"github.com/pos-next/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	promotionSweepInterval = time.Minute
)

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.PromotionAdminService != nil {
		go s.runPromotionSweepLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runPromotionSweepLoop 周期兜底扫描，防止单条 rollover 任务丢失后活动状态卡住
func (s *Service) runPromotionSweepLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.consumer.PromotionAdminService == nil {
		return
	}
	runOnce := func() {
		changed, err := s.consumer.PromotionAdminService.RolloverDue(time.Now())
		if err != nil {
			logger.Warnw("worker_promotion_sweep_failed", "error", err)
			return
		}
		if changed > 0 {
			logger.Infow("worker_promotion_sweep_applied", "changed", changed)
		}
	}
	runOnce()

	ticker := time.NewTicker(promotionSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
