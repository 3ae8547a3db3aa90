package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/modeva-next/internal/logger"
	"github.com/modeva-next/internal/provider"
	"github.com/modeva-next/internal/queue"
	"github.com/modeva-next/internal/service"

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
	mux.HandleFunc(queue.TaskOrderNotification, c.handleOrderNotification)
	mux.HandleFunc(queue.TaskPromotionExpire, c.handlePromotionExpire)
}

func (c *Consumer) handleOrderNotification(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_notification_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderNotificationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_notification_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_notification_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if c.NotificationService == nil {
		logger.Warnw("worker_order_notification_skip_service_nil", "order_id", payload.OrderID)
		return nil
	}
	if err := c.NotificationService.NotifyOrderStatus(payload.OrderID, payload.Status); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			logger.Debugw("worker_order_notification_skip_order_not_found", "order_id", payload.OrderID)
			return nil
		}
		logger.Warnw("worker_order_notification_failed",
			"order_id", payload.OrderID,
			"status", payload.Status,
			"error", err,
		)
		return err
	}
	return nil
}

func (c *Consumer) handlePromotionExpire(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_promotion_expire_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	if c.PromotionService == nil {
		logger.Warnw("worker_promotion_expire_skip_service_nil")
		return nil
	}
	affected, err := c.PromotionService.DeactivateExpired(time.Now())
	if err != nil {
		logger.Warnw("worker_promotion_expire_failed", "error", err)
		return err
	}
	if affected > 0 {
		logger.Infow("worker_promotion_expire_done", "deactivated", affected)
	}
	return nil
}
