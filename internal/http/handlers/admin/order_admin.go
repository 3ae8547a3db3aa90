package admin

import (
	"errors"
	"strconv"
	"strings"
	"time"

	handlershared "github.com/modeva-next/internal/http/handlers/shared"
	"github.com/modeva-next/internal/http/response"
	"github.com/modeva-next/internal/repository"
	"github.com/modeva-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ListOrders 订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	filter := repository.OrderListFilter{
		Page:           page,
		PageSize:       pageSize,
		Status:         strings.TrimSpace(c.Query("status")),
		ShippingStatus: strings.TrimSpace(c.Query("shipping_status")),
		OrderNo:        strings.TrimSpace(c.Query("order_no")),
	}
	if raw := c.Query("user_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.UserID = uint(id)
		}
	}
	if raw := c.Query("created_from"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.CreatedFrom = &t
		}
	}
	if raw := c.Query("created_to"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.CreatedTo = &t
		}
	}

	orders, total, err := h.OrderService.ListOrdersForAdmin(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "获取订单列表失败", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"orders": orders}, handlershared.BuildPagination(page, pageSize, total))
}

// GetOrder 订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id", "订单标识无效")
	if !ok {
		return
	}

	order, err := h.OrderService.GetOrderForAdmin(orderID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "订单不存在", nil)
		default:
			respondError(c, response.CodeInternal, "获取订单失败", err)
		}
		return
	}
	response.Success(c, gin.H{"order": order})
}

// UpdateOrderStatusRequest 订单状态更新请求
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus 更新订单状态（取消会回补库存与优惠券）
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id", "订单标识无效")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	order, err := h.OrderService.UpdateOrderStatus(orderID, strings.TrimSpace(req.Status))
	if err != nil {
		respondOrderStatusError(c, err)
		return
	}
	response.Success(c, gin.H{"order": order})
}

// UpdateShippingStatusRequest 物流状态更新请求
type UpdateShippingStatusRequest struct {
	ShippingStatus string `json:"shipping_status" binding:"required"`
}

// UpdateShippingStatus 更新物流状态（delivered+已支付 自动完成，returned 自动退款）
func (h *Handler) UpdateShippingStatus(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id", "订单标识无效")
	if !ok {
		return
	}
	var req UpdateShippingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	order, err := h.OrderService.UpdateShippingStatus(orderID, strings.TrimSpace(req.ShippingStatus))
	if err != nil {
		respondOrderStatusError(c, err)
		return
	}
	response.Success(c, gin.H{"order": order})
}

// MarkOrderPaid 标记订单已支付（银行转账对账后调用）
func (h *Handler) MarkOrderPaid(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id", "订单标识无效")
	if !ok {
		return
	}

	order, err := h.OrderService.MarkPaid(orderID)
	if err != nil {
		respondOrderStatusError(c, err)
		return
	}
	response.Success(c, gin.H{"order": order})
}

func respondOrderStatusError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		respondError(c, response.CodeNotFound, "订单不存在", nil)
	case errors.Is(err, service.ErrOrderStatusImmutable):
		respondError(c, response.CodeBadRequest, "订单已进入终态，不可变更", nil)
	case errors.Is(err, service.ErrOrderStatusInvalid):
		respondError(c, response.CodeBadRequest, "订单状态流转不合法", nil)
	default:
		respondError(c, response.CodeInternal, "更新订单失败", err)
	}
}

func parseIDParam(c *gin.Context, name, invalidMsg string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, invalidMsg, nil)
		return 0, false
	}
	return uint(id), true
}
