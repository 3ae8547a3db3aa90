package service

import (
	"fmt"

	"github.com/modeva-next/internal/logger"
	"github.com/modeva-next/internal/models"
	"github.com/modeva-next/internal/repository"
)

// NotificationService 订单状态通知服务。
// 站内通知落库，邮件尽力发送；任何失败只记日志，不影响订单流程。
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	orderRepo        repository.OrderRepository
	userRepo         repository.UserRepository
	emailService     *EmailService
}

// NewNotificationService 创建通知服务
func NewNotificationService(notificationRepo repository.NotificationRepository, orderRepo repository.OrderRepository, userRepo repository.UserRepository, emailService *EmailService) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		orderRepo:        orderRepo,
		userRepo:         userRepo,
		emailService:     emailService,
	}
}

// NotifyOrderStatus 处理订单状态变更通知（worker 消费队列任务时调用）
func (s *NotificationService) NotifyOrderStatus(orderID uint, status string) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}

	notification := &models.Notification{
		UserID:  order.UserID,
		Type:    "order_status",
		Title:   fmt.Sprintf("订单 %s 状态更新", order.OrderNo),
		Content: fmt.Sprintf("您的订单 %s 已进入「%s」状态。", order.OrderNo, status),
		OrderID: &order.ID,
	}
	if err := s.notificationRepo.Create(notification); err != nil {
		return err
	}

	s.sendEmailBestEffort(order, status)
	return nil
}

// sendEmailBestEffort 邮件为尽力投递，失败只记日志。
func (s *NotificationService) sendEmailBestEffort(order *models.Order, status string) {
	if s.emailService == nil || !s.emailService.Enabled() {
		return
	}
	email := order.Email
	if email == "" {
		user, err := s.userRepo.GetByID(order.UserID)
		if err != nil || user == nil {
			return
		}
		email = user.Email
	}
	if err := s.emailService.SendOrderStatusEmail(email, order.OrderNo, status); err != nil {
		logger.Warnw("order_status_email_failed",
			"order_no", order.OrderNo,
			"status", status,
			"error", err,
		)
	}
}

// ListByUser 用户通知列表
func (s *NotificationService) ListByUser(userID uint, page, pageSize int) ([]models.Notification, int64, error) {
	return s.notificationRepo.ListByUser(userID, page, pageSize)
}

// MarkRead 标记已读
func (s *NotificationService) MarkRead(id, userID uint) error {
	affected, err := s.notificationRepo.MarkRead(id, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead 全部已读
func (s *NotificationService) MarkAllRead(userID uint) error {
	return s.notificationRepo.MarkAllRead(userID)
}

// CountUnread 未读数量
func (s *NotificationService) CountUnread(userID uint) (int64, error) {
	return s.notificationRepo.CountUnread(userID)
}
