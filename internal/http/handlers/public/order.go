package public

import (
	"errors"
	"strconv"
	"strings"

	handlershared "github.com/modeva-next/internal/http/handlers/shared"
	"github.com/modeva-next/internal/http/response"
	"github.com/modeva-next/internal/repository"
	"github.com/modeva-next/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderItemRequest 下单商品项
type OrderItemRequest struct {
	SKUCode  string `json:"sku_code" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
}

// CreateOrderRequest 创建订单请求
type CreateOrderRequest struct {
	Fullname      string             `json:"fullname" binding:"required"`
	Phone         string             `json:"phone" binding:"required"`
	Email         string             `json:"email"`
	Address       string             `json:"address" binding:"required"`
	Note          string             `json:"note"`
	PaymentMethod string             `json:"payment_method" binding:"required"`
	Items         []OrderItemRequest `json:"items" binding:"required"`
	UserCouponID  *uint              `json:"user_coupon_id"`
}

func (req *CreateOrderRequest) toInput(userID uint) service.CreateOrderInput {
	items := make([]service.CreateOrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.CreateOrderItem{
			SKUCode:  item.SKUCode,
			Quantity: item.Quantity,
		})
	}
	return service.CreateOrderInput{
		UserID:        userID,
		Fullname:      req.Fullname,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		Note:          req.Note,
		PaymentMethod: req.PaymentMethod,
		Items:         items,
		UserCouponID:  req.UserCouponID,
	}
}

// CreateOrder 创建订单
func (h *Handler) CreateOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	order, err := h.OrderService.CreateOrder(req.toInput(uid))
	if err != nil {
		respondOrderCreateError(c, err)
		return
	}

	response.Success(c, gin.H{
		"order":   order,
		"payment": service.BuildPaymentInstruction(&h.Config.Order, order),
	})
}

// PreviewOrder 订单试算（不落库、不扣库存、不核销券）
func (h *Handler) PreviewOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	preview, err := h.OrderService.PreviewOrder(req.toInput(uid))
	if err != nil {
		respondOrderPreviewError(c, err)
		return
	}
	response.Success(c, gin.H{"preview": preview})
}

// ListMyOrders 我的订单列表
func (h *Handler) ListMyOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	orders, total, err := h.OrderService.ListOrdersByUser(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uid,
		Status:   strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "获取订单列表失败", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"orders": orders}, handlershared.BuildPagination(page, pageSize, total))
}

// GetMyOrder 我的订单详情（含支付指引）
func (h *Handler) GetMyOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	order, err := h.OrderService.GetOrderByUser(orderID, uid)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "订单不存在", nil)
		default:
			respondError(c, response.CodeInternal, "获取订单失败", err)
		}
		return
	}

	payload := gin.H{"order": order}
	if !order.IsPaid {
		payload["payment"] = service.BuildPaymentInstruction(&h.Config.Order, order)
	}
	response.Success(c, payload)
}

// CancelMyOrder 用户取消订单（仅 pending/confirmed 可取消）
func (h *Handler) CancelMyOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	order, err := h.OrderService.CancelOrder(orderID, uid)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "订单不存在", nil)
		case errors.Is(err, service.ErrOrderNotCancellable):
			respondError(c, response.CodeBadRequest, "当前状态的订单不可取消", nil)
		default:
			respondError(c, response.CodeInternal, "取消订单失败", err)
		}
		return
	}
	response.Success(c, gin.H{"order": order})
}

func parseOrderID(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "订单标识无效", nil)
		return 0, false
	}
	return uint(id), true
}
