package public

import (
	"errors"
	"strconv"

	handlershared "github.com/modeva-next/internal/http/handlers/shared"
	"github.com/modeva-next/internal/http/response"
	"github.com/modeva-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ListMyNotifications 我的通知列表
func (h *Handler) ListMyNotifications(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	notifications, total, err := h.NotificationService.ListByUser(uid, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "获取通知失败", err)
		return
	}

	unread, err := h.NotificationService.CountUnread(uid)
	if err != nil {
		requestLog(c).Warnw("notification_unread_count_failed", "user_id", uid, "error", err)
	}

	response.SuccessWithPage(c, gin.H{
		"notifications": notifications,
		"unread":        unread,
	}, handlershared.BuildPagination(page, pageSize, total))
}

// MarkNotificationRead 标记通知已读
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "通知标识无效", nil)
		return
	}

	if err := h.NotificationService.MarkRead(uint(id), uid); err != nil {
		switch {
		case errors.Is(err, service.ErrNotificationNotFound):
			respondError(c, response.CodeNotFound, "通知不存在", nil)
		default:
			respondError(c, response.CodeInternal, "标记已读失败", err)
		}
		return
	}
	response.Success(c, gin.H{"read": true})
}

// MarkAllNotificationsRead 全部标记已读
func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.NotificationService.MarkAllRead(uid); err != nil {
		respondError(c, response.CodeInternal, "标记已读失败", err)
		return
	}
	response.Success(c, gin.H{"read": true})
}
