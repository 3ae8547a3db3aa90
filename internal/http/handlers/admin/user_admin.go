package admin

import (
	"strconv"
	"strings"

	handlershared "github.com/modeva-next/internal/http/handlers/shared"
	"github.com/modeva-next/internal/http/response"
	"github.com/modeva-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListUsers 用户列表
func (h *Handler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	users, total, err := h.UserRepo.List(repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  strings.TrimSpace(c.Query("keyword")),
		Status:   strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "获取用户列表失败", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"users": users}, handlershared.BuildPagination(page, pageSize, total))
}

// UpdateUserStatusRequest 用户状态更新请求
type UpdateUserStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateUserStatus 启用/禁用用户
func (h *Handler) UpdateUserStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "用户标识无效")
	if !ok {
		return
	}
	var req UpdateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}
	status := strings.TrimSpace(req.Status)
	if status != "active" && status != "disabled" {
		respondError(c, response.CodeBadRequest, "用户状态无效", nil)
		return
	}

	user, err := h.UserRepo.GetByID(id)
	if err != nil {
		respondError(c, response.CodeInternal, "获取用户失败", err)
		return
	}
	if user == nil {
		respondError(c, response.CodeNotFound, "用户不存在", nil)
		return
	}

	user.Status = status
	if err := h.UserRepo.Update(user); err != nil {
		respondError(c, response.CodeInternal, "更新用户状态失败", err)
		return
	}
	response.Success(c, gin.H{"user": gin.H{
		"id":     user.ID,
		"email":  user.Email,
		"status": user.Status,
	}})
}
