package admin

import (
	"errors"
	"strconv"
	"strings"
	"time"

	handlershared "github.com/modeva-next/internal/http/handlers/shared"
	"github.com/modeva-next/internal/http/response"
	"github.com/modeva-next/internal/models"
	"github.com/modeva-next/internal/repository"
	"github.com/modeva-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CouponRequest 优惠券创建/更新请求
type CouponRequest struct {
	Code               string           `json:"code" binding:"required"`
	DiscountType       string           `json:"discount_type" binding:"required"`
	DiscountValue      models.Money     `json:"discount_value"`
	MinOrderValue      models.Money     `json:"min_order_value"`
	MaxDiscountAmount  models.Money     `json:"max_discount_amount"`
	MinimumQuantity    int              `json:"minimum_quantity"`
	UsageLimit         int              `json:"usage_limit"`
	TotalUsageLimit    int              `json:"total_usage_limit"`
	AppliedCategoryIDs models.UintArray `json:"applied_category_ids"`
	StartsAt           *time.Time       `json:"starts_at"`
	EndsAt             *time.Time       `json:"ends_at"`
	IsActive           bool             `json:"is_active"`
}

func (req *CouponRequest) apply(coupon *models.Coupon) {
	coupon.Code = req.Code
	coupon.DiscountType = req.DiscountType
	coupon.DiscountValue = req.DiscountValue
	coupon.MinOrderValue = req.MinOrderValue
	coupon.MaxDiscountAmount = req.MaxDiscountAmount
	coupon.MinimumQuantity = req.MinimumQuantity
	coupon.UsageLimit = req.UsageLimit
	coupon.TotalUsageLimit = req.TotalUsageLimit
	coupon.AppliedCategoryIDs = req.AppliedCategoryIDs
	coupon.StartsAt = req.StartsAt
	coupon.EndsAt = req.EndsAt
	coupon.IsActive = req.IsActive
}

// ListCoupons 优惠券列表
func (h *Handler) ListCoupons(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	coupons, total, err := h.CouponAdminService.List(repository.CouponListFilter{
		Page:     page,
		PageSize: pageSize,
		Code:     strings.TrimSpace(c.Query("code")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "获取优惠券列表失败", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"coupons": coupons}, handlershared.BuildPagination(page, pageSize, total))
}

// GetCoupon 优惠券详情
func (h *Handler) GetCoupon(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "优惠券标识无效")
	if !ok {
		return
	}
	coupon, err := h.CouponAdminService.GetByID(id)
	if err != nil {
		respondCouponAdminError(c, err, "获取优惠券失败")
		return
	}
	response.Success(c, gin.H{"coupon": coupon})
}

// CreateCoupon 创建优惠券
func (h *Handler) CreateCoupon(c *gin.Context) {
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	coupon := &models.Coupon{}
	req.apply(coupon)
	if err := h.CouponAdminService.Create(coupon); err != nil {
		respondCouponAdminError(c, err, "创建优惠券失败")
		return
	}
	response.Success(c, gin.H{"coupon": coupon})
}

// UpdateCoupon 更新优惠券
func (h *Handler) UpdateCoupon(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "优惠券标识无效")
	if !ok {
		return
	}
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	coupon, err := h.CouponAdminService.GetByID(id)
	if err != nil {
		respondCouponAdminError(c, err, "更新优惠券失败")
		return
	}
	req.apply(coupon)
	if err := h.CouponAdminService.Update(coupon); err != nil {
		respondCouponAdminError(c, err, "更新优惠券失败")
		return
	}
	response.Success(c, gin.H{"coupon": coupon})
}

// DeleteCoupon 删除优惠券
func (h *Handler) DeleteCoupon(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "优惠券标识无效")
	if !ok {
		return
	}
	if err := h.CouponAdminService.Delete(id); err != nil {
		respondCouponAdminError(c, err, "删除优惠券失败")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// GrantCouponRequest 发券请求
type GrantCouponRequest struct {
	UserID   uint `json:"user_id" binding:"required"`
	CouponID uint `json:"coupon_id" binding:"required"`
}

// GrantCoupon 向用户发放优惠券
func (h *Handler) GrantCoupon(c *gin.Context) {
	var req GrantCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	userCoupon, err := h.CouponService.GrantToUser(req.UserID, req.CouponID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCouponNotFound):
			respondError(c, response.CodeNotFound, "优惠券不存在", nil)
		case errors.Is(err, service.ErrCouponAlreadyGranted):
			respondError(c, response.CodeBadRequest, "该用户已持有此优惠券", nil)
		default:
			respondError(c, response.CodeInternal, "发放优惠券失败", err)
		}
		return
	}
	response.Success(c, gin.H{"user_coupon": userCoupon})
}

// RevokeCouponGrant 撤回未使用的已发放优惠券
func (h *Handler) RevokeCouponGrant(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "发放记录标识无效")
	if !ok {
		return
	}
	if err := h.CouponService.CancelGrant(id); err != nil {
		switch {
		case errors.Is(err, service.ErrCouponNotFound):
			respondError(c, response.CodeNotFound, "发放记录不存在", nil)
		case errors.Is(err, service.ErrCouponInvalidOrExhausted):
			respondError(c, response.CodeBadRequest, "该优惠券已被使用，不可撤回", nil)
		default:
			respondError(c, response.CodeInternal, "撤回优惠券失败", err)
		}
		return
	}
	response.Success(c, gin.H{"revoked": true})
}

func respondCouponAdminError(c *gin.Context, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, service.ErrCouponNotFound):
		respondError(c, response.CodeNotFound, "优惠券不存在", nil)
	case errors.Is(err, service.ErrCouponCodeTaken):
		respondError(c, response.CodeBadRequest, "优惠码已存在", nil)
	case errors.Is(err, service.ErrCouponInactive):
		respondError(c, response.CodeBadRequest, "优惠券类型无效", nil)
	default:
		respondError(c, response.CodeInternal, fallbackMsg, err)
	}
}
