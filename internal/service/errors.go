package service

import (
	"errors"
	"fmt"
)

// 服务层哨兵错误，HTTP 层通过 errors.Is 映射为响应码与提示文案。
var (
	// 目录
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrSKUNotFound      = errors.New("sku not found")
	ErrSKUInactive      = errors.New("sku inactive")
	ErrSlugTaken        = errors.New("slug already taken")

	// 库存
	ErrInsufficientStock = errors.New("insufficient stock")

	// 折扣活动
	ErrPromotionInvalid  = errors.New("promotion invalid")
	ErrPromotionNotFound = errors.New("promotion not found")

	// 优惠券（校验顺序与下单流程一致，逐项短路）
	ErrCouponInvalidOrExhausted   = errors.New("coupon invalid or exhausted")
	ErrCouponInactive             = errors.New("coupon inactive")
	ErrCouponOutOfWindow          = errors.New("coupon out of validity window")
	ErrCouponNoEligibleItems      = errors.New("no eligible items for coupon")
	ErrCouponBelowMinimumValue    = errors.New("order below coupon minimum value")
	ErrCouponBelowMinimumQuantity = errors.New("order below coupon minimum quantity")
	ErrCouponNotFound             = errors.New("coupon not found")
	ErrCouponCodeTaken            = errors.New("coupon code already taken")
	ErrCouponAlreadyGranted       = errors.New("coupon already granted to user")

	// 订单
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderItemsEmpty      = errors.New("order items empty")
	ErrOrderNotCancellable  = errors.New("order not cancellable")
	ErrOrderStatusImmutable = errors.New("order status immutable")
	ErrOrderStatusInvalid   = errors.New("order status transition invalid")
	ErrPaymentMethodInvalid = errors.New("payment method invalid")
	ErrPaymentPriceNegative = errors.New("payment price negative")

	// 购物车
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrQuantityInvalid  = errors.New("quantity invalid")

	// 评价
	ErrReviewNotAllowed = errors.New("review allowed for purchasers only")
	ErrReviewExists     = errors.New("review already exists")
	ErrRatingInvalid    = errors.New("rating invalid")

	// 认证
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserDisabled       = errors.New("user disabled")
	ErrWeakPassword       = errors.New("password too weak")

	// 导购助手
	ErrAssistantDisabled = errors.New("assistant disabled")

	// 通知
	ErrNotificationNotFound = errors.New("notification not found")
)

// InsufficientStockError 库存不足错误，携带商品名与剩余库存。
// errors.Is(err, ErrInsufficientStock) 仍然成立。
type InsufficientStockError struct {
	ProductName string
	SKUCode     string
	Available   int
}

// Error 实现 error 接口
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (%s): %d left", e.ProductName, e.SKUCode, e.Available)
}

// Is 支持与哨兵错误比较
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
