package public

import (
	"strconv"

	"github.com/modeva-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListMyCoupons 我的优惠券列表
// usable=1 时仅返回当前可用的券。
func (h *Handler) ListMyCoupons(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	onlyUsable := false
	if raw := c.Query("usable"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			onlyUsable = v
		}
	}

	coupons, err := h.CouponService.ListUserCoupons(uid, onlyUsable)
	if err != nil {
		respondError(c, response.CodeInternal, "获取优惠券失败", err)
		return
	}
	response.Success(c, gin.H{"coupons": coupons})
}
