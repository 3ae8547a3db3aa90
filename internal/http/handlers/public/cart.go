package public

import (
	"strconv"

	"github.com/modeva-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// CartItemRequest 购物车项请求
type CartItemRequest struct {
	SKUID    uint `json:"sku_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required"`
}

// GetCart 获取购物车（按当前活动价计价）
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	lines, total, err := h.CartService.List(uid)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, gin.H{
		"items": lines,
		"total": total,
	})
}

// AddCartItem 添加购物车项（已存在则累加数量）
func (h *Handler) AddCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	item, err := h.CartService.AddItem(uid, req.SKUID, req.Quantity)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, gin.H{"item": item})
}

// UpdateCartItem 修改购物车项数量
func (h *Handler) UpdateCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	if err := h.CartService.UpdateQuantity(uid, req.SKUID, req.Quantity); err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, gin.H{"updated": true})
}

// DeleteCartItem 删除购物车项
func (h *Handler) DeleteCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	rawID := c.Param("sku_id")
	skuID, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil || skuID == 0 {
		respondError(c, response.CodeBadRequest, "商品规格标识无效", nil)
		return
	}
	if err := h.CartService.RemoveItem(uid, uint(skuID)); err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.CartService.Clear(uid); err != nil {
		respondError(c, response.CodeInternal, "清空购物车失败", err)
		return
	}
	response.Success(c, gin.H{"cleared": true})
}
