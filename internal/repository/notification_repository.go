package repository

import (
	"errors"

	"github.com/modeva-next/internal/models"

	"gorm.io/gorm"
)

// NotificationRepository 站内通知数据访问接口
type NotificationRepository interface {
	ListByUser(userID uint, page, pageSize int) ([]models.Notification, int64, error)
	Create(item *models.Notification) error
	MarkRead(id, userID uint) (int64, error)
	MarkAllRead(userID uint) error
	CountUnread(userID uint) (int64, error)
	WithTx(tx *gorm.DB) NotificationRepository
}

// GormNotificationRepository GORM 实现
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository 创建通知仓库
func NewNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// WithTx 绑定事务
func (r *GormNotificationRepository) WithTx(tx *gorm.DB) NotificationRepository {
	if tx == nil {
		return r
	}
	return &GormNotificationRepository{db: tx}
}

// ListByUser 获取用户通知列表
func (r *GormNotificationRepository) ListByUser(userID uint, page, pageSize int) ([]models.Notification, int64, error) {
	if userID == 0 {
		return nil, 0, errors.New("invalid user id")
	}
	query := r.db.Model(&models.Notification{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, page, pageSize)

	var items []models.Notification
	if err := query.Order("id desc").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Create 创建通知
func (r *GormNotificationRepository) Create(item *models.Notification) error {
	if item == nil {
		return errors.New("notification is nil")
	}
	return r.db.Create(item).Error
}

// MarkRead 标记单条通知已读（校验归属）
func (r *GormNotificationRepository) MarkRead(id, userID uint) (int64, error) {
	if id == 0 || userID == 0 {
		return 0, errors.New("invalid notification params")
	}
	result := r.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// MarkAllRead 全部标记已读
func (r *GormNotificationRepository) MarkAllRead(userID uint) error {
	if userID == 0 {
		return errors.New("invalid user id")
	}
	return r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

// CountUnread 未读数量
func (r *GormNotificationRepository) CountUnread(userID uint) (int64, error) {
	if userID == 0 {
		return 0, errors.New("invalid user id")
	}
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
