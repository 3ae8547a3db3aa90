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

// PromotionRequest 折扣活动创建/更新请求
type PromotionRequest struct {
	Name            string             `json:"name" binding:"required"`
	DiscountPercent int                `json:"discount_percent" binding:"required"`
	ProductIDs      models.UintArray   `json:"product_ids"`
	CategoryIDs     models.UintArray   `json:"category_ids"`
	SKUCodes        models.StringArray `json:"sku_codes"`
	StartsAt        *time.Time         `json:"starts_at"`
	EndsAt          *time.Time         `json:"ends_at"`
	IsActive        bool               `json:"is_active"`
}

func (req *PromotionRequest) apply(promotion *models.Promotion) {
	promotion.Name = req.Name
	promotion.DiscountPercent = req.DiscountPercent
	promotion.ProductIDs = req.ProductIDs
	promotion.CategoryIDs = req.CategoryIDs
	promotion.SKUCodes = req.SKUCodes
	promotion.StartsAt = req.StartsAt
	promotion.EndsAt = req.EndsAt
	promotion.IsActive = req.IsActive
}

// ListPromotions 活动列表
func (h *Handler) ListPromotions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	promotions, total, err := h.PromotionService.List(repository.PromotionListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "获取活动列表失败", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"promotions": promotions}, handlershared.BuildPagination(page, pageSize, total))
}

// GetPromotion 活动详情
func (h *Handler) GetPromotion(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "活动标识无效")
	if !ok {
		return
	}
	promotion, err := h.PromotionService.GetByID(id)
	if err != nil {
		respondPromotionAdminError(c, err, "获取活动失败")
		return
	}
	response.Success(c, gin.H{"promotion": promotion})
}

// CreatePromotion 创建活动
func (h *Handler) CreatePromotion(c *gin.Context) {
	var req PromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	promotion := &models.Promotion{}
	req.apply(promotion)
	if err := h.PromotionService.Create(promotion); err != nil {
		respondPromotionAdminError(c, err, "创建活动失败")
		return
	}
	response.Success(c, gin.H{"promotion": promotion})
}

// UpdatePromotion 更新活动
func (h *Handler) UpdatePromotion(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "活动标识无效")
	if !ok {
		return
	}
	var req PromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	promotion, err := h.PromotionService.GetByID(id)
	if err != nil {
		respondPromotionAdminError(c, err, "更新活动失败")
		return
	}
	req.apply(promotion)
	if err := h.PromotionService.Update(promotion); err != nil {
		respondPromotionAdminError(c, err, "更新活动失败")
		return
	}
	response.Success(c, gin.H{"promotion": promotion})
}

// DeletePromotion 删除活动
func (h *Handler) DeletePromotion(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "活动标识无效")
	if !ok {
		return
	}
	if err := h.PromotionService.Delete(id); err != nil {
		respondPromotionAdminError(c, err, "删除活动失败")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

func respondPromotionAdminError(c *gin.Context, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, service.ErrPromotionNotFound):
		respondError(c, response.CodeNotFound, "活动不存在", nil)
	case errors.Is(err, service.ErrPromotionInvalid):
		respondError(c, response.CodeBadRequest, "折扣百分比需在 1-100 之间", nil)
	default:
		respondError(c, response.CodeInternal, fallbackMsg, err)
	}
}
