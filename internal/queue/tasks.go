package queue

import (
	"encoding/json"

	"github.com/modeva-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderNotification 订单状态通知任务
	TaskOrderNotification = constants.TaskOrderNotification
	// TaskPromotionExpire 过期活动停用任务
	TaskPromotionExpire = constants.TaskPromotionExpire
)

// OrderNotificationPayload 订单状态通知任务载荷
type OrderNotificationPayload struct {
	OrderID uint   `json:"order_id"`
	Status  string `json:"status"`
}

// PromotionExpirePayload 过期活动停用任务载荷
type PromotionExpirePayload struct{}

// NewOrderNotificationTask 创建订单状态通知任务
func NewOrderNotificationTask(payload OrderNotificationPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderNotification, body), nil
}

// NewPromotionExpireTask 创建过期活动停用任务
func NewPromotionExpireTask() (*asynq.Task, error) {
	body, err := json.Marshal(PromotionExpirePayload{})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPromotionExpire, body), nil
}
