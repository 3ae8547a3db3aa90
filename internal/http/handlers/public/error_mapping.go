package public

import (
	"errors"
	"fmt"

	"github.com/modeva-next/internal/http/response"
	"github.com/modeva-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	var stockErr *service.InsufficientStockError
	if errors.As(err, &stockErr) {
		respondError(c, response.CodeBadRequest, insufficientStockMessage(stockErr), nil)
		return
	}
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

func insufficientStockMessage(err *service.InsufficientStockError) string {
	name := err.ProductName
	if name == "" {
		name = err.SKUCode
	}
	return fmt.Sprintf("库存不足：%s 仅剩 %d 件", name, err.Available)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var couponErrorRules = []mappedHandlerError{
	{target: service.ErrCouponInvalidOrExhausted, code: response.CodeBadRequest, msg: "优惠券不可用或已用尽"},
	{target: service.ErrCouponInactive, code: response.CodeBadRequest, msg: "优惠券已停用"},
	{target: service.ErrCouponOutOfWindow, code: response.CodeBadRequest, msg: "优惠券不在有效期内"},
	{target: service.ErrCouponNoEligibleItems, code: response.CodeBadRequest, msg: "订单中没有符合优惠券范围的商品"},
	{target: service.ErrCouponBelowMinimumValue, code: response.CodeBadRequest, msg: "未达到优惠券最低消费金额"},
	{target: service.ErrCouponBelowMinimumQuantity, code: response.CodeBadRequest, msg: "未达到优惠券最低商品数量"},
	{target: service.ErrCouponNotFound, code: response.CodeBadRequest, msg: "优惠券不存在"},
}

var orderItemErrorRules = []mappedHandlerError{
	{target: service.ErrOrderItemsEmpty, code: response.CodeBadRequest, msg: "订单商品不能为空"},
	{target: service.ErrQuantityInvalid, code: response.CodeBadRequest, msg: "商品数量无效"},
	{target: service.ErrSKUNotFound, code: response.CodeBadRequest, msg: "商品规格不存在"},
	{target: service.ErrSKUInactive, code: response.CodeBadRequest, msg: "商品规格已下架"},
	{target: service.ErrProductNotFound, code: response.CodeBadRequest, msg: "商品不存在或已下架"},
	{target: service.ErrPaymentMethodInvalid, code: response.CodeBadRequest, msg: "支付方式无效"},
	{target: service.ErrPaymentPriceNegative, code: response.CodeBadRequest, msg: "订单金额异常"},
	{target: service.ErrPromotionInvalid, code: response.CodeBadRequest, msg: "促销活动无效"},
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrSKUNotFound, code: response.CodeBadRequest, msg: "商品规格不存在"},
	{target: service.ErrSKUInactive, code: response.CodeBadRequest, msg: "商品规格已下架"},
	{target: service.ErrQuantityInvalid, code: response.CodeBadRequest, msg: "商品数量无效"},
	{target: service.ErrCartItemNotFound, code: response.CodeNotFound, msg: "购物车中没有该商品"},
}

func respondOrderCreateError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(orderItemErrorRules, couponErrorRules), response.CodeInternal, "下单失败")
}

func respondOrderPreviewError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(orderItemErrorRules, couponErrorRules), response.CodeInternal, "订单试算失败")
}

func respondCartError(c *gin.Context, err error) {
	respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "购物车操作失败")
}
