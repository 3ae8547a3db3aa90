package public

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/modeva-next/internal/cache"
	handlershared "github.com/modeva-next/internal/http/handlers/shared"
	"github.com/modeva-next/internal/http/response"
	"github.com/modeva-next/internal/models"
	"github.com/modeva-next/internal/repository"
	"github.com/modeva-next/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	categoriesCacheKey = "catalog:categories"
	colorsCacheKey     = "catalog:colors"
	catalogCacheTTL    = 5 * time.Minute
)

// ListCategories 分类列表
func (h *Handler) ListCategories(c *gin.Context) {
	var cached []models.Category
	if hit, err := cache.GetJSON(c.Request.Context(), categoriesCacheKey, &cached); err == nil && hit {
		response.Success(c, gin.H{"categories": cached})
		return
	}

	categories, err := h.CatalogService.ListCategories()
	if err != nil {
		respondError(c, response.CodeInternal, "获取分类失败", err)
		return
	}
	_ = cache.SetJSON(c.Request.Context(), categoriesCacheKey, categories, catalogCacheTTL)
	response.Success(c, gin.H{"categories": categories})
}

// ListColors 颜色列表
func (h *Handler) ListColors(c *gin.Context) {
	var cached []models.Color
	if hit, err := cache.GetJSON(c.Request.Context(), colorsCacheKey, &cached); err == nil && hit {
		response.Success(c, gin.H{"colors": cached})
		return
	}

	colors, err := h.CatalogService.ListColors()
	if err != nil {
		respondError(c, response.CodeInternal, "获取颜色失败", err)
		return
	}
	_ = cache.SetJSON(c.Request.Context(), colorsCacheKey, colors, catalogCacheTTL)
	response.Success(c, gin.H{"colors": colors})
}

// ListProducts 商品列表（带活动价）
func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	filter := repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		CategorySlug: strings.TrimSpace(c.Query("category")),
		Search:       strings.TrimSpace(c.Query("search")),
	}
	if raw := c.Query("category_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.CategoryID = uint(id)
		}
	}

	views, total, err := h.CatalogService.ListProducts(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "获取商品列表失败", err)
		return
	}

	response.SuccessWithPage(c, gin.H{"products": views}, handlershared.BuildPagination(page, pageSize, total))
}

// GetProduct 商品详情（含评分摘要）
func (h *Handler) GetProduct(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		respondError(c, response.CodeBadRequest, "商品标识无效", nil)
		return
	}

	view, err := h.CatalogService.GetProductBySlug(slug)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			respondError(c, response.CodeNotFound, "商品不存在或已下架", nil)
		default:
			respondError(c, response.CodeInternal, "获取商品失败", err)
		}
		return
	}

	avgRating, ratingCount, err := h.ReviewService.ProductRating(view.Product.ID)
	if err != nil {
		requestLog(c).Warnw("product_rating_fetch_failed", "product_id", view.Product.ID, "error", err)
	}

	response.Success(c, gin.H{
		"product":      view,
		"avg_rating":   avgRating,
		"rating_count": ratingCount,
	})
}
