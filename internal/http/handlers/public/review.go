package public

import (
	"errors"
	"strconv"

	handlershared "github.com/modeva-next/internal/http/handlers/shared"
	"github.com/modeva-next/internal/http/response"
	"github.com/modeva-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateReviewRequest 创建评价请求
type CreateReviewRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required"`
	Content   string `json:"content"`
}

// CreateReview 创建商品评价（仅限已完成订单的买家）
func (h *Handler) CreateReview(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	review, err := h.ReviewService.Create(uid, req.ProductID, req.Rating, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRatingInvalid):
			respondError(c, response.CodeBadRequest, "评分需在 1-5 之间", nil)
		case errors.Is(err, service.ErrProductNotFound):
			respondError(c, response.CodeNotFound, "商品不存在", nil)
		case errors.Is(err, service.ErrReviewNotAllowed):
			respondError(c, response.CodeForbidden, "仅购买过该商品的用户可以评价", nil)
		case errors.Is(err, service.ErrReviewExists):
			respondError(c, response.CodeBadRequest, "已评价过该商品", nil)
		default:
			respondError(c, response.CodeInternal, "创建评价失败", err)
		}
		return
	}
	response.Success(c, gin.H{"review": review})
}

// ListProductReviews 商品评价列表
func (h *Handler) ListProductReviews(c *gin.Context) {
	rawID := c.Param("product_id")
	productID, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "商品标识无效", nil)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	reviews, total, err := h.ReviewService.ListByProduct(uint(productID), page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "获取评价失败", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"reviews": reviews}, handlershared.BuildPagination(page, pageSize, total))
}
