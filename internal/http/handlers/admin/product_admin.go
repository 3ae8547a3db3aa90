package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/modeva-next/internal/cache"
	handlershared "github.com/modeva-next/internal/http/handlers/shared"
	"github.com/modeva-next/internal/http/response"
	"github.com/modeva-next/internal/models"
	"github.com/modeva-next/internal/repository"
	"github.com/modeva-next/internal/service"

	"github.com/gin-gonic/gin"
)

// 公共目录接口的缓存键，分类/颜色变更后失效
const (
	categoriesCacheKey = "catalog:categories"
	colorsCacheKey     = "catalog:colors"
)

// ProductSKURequest 商品 SKU 请求项
type ProductSKURequest struct {
	ColorID  uint   `json:"color_id" binding:"required"`
	Size     string `json:"size" binding:"required"`
	Stock    int    `json:"stock"`
	IsActive bool   `json:"is_active"`
}

// ProductRequest 商品创建/更新请求
type ProductRequest struct {
	CategoryID  uint                `json:"category_id" binding:"required"`
	Slug        string              `json:"slug" binding:"required"`
	Name        string              `json:"name" binding:"required"`
	Description string              `json:"description"`
	PriceAmount models.Money        `json:"price_amount"`
	Images      models.StringArray  `json:"images"`
	IsActive    bool                `json:"is_active"`
	SortOrder   int                 `json:"sort_order"`
	SKUs        []ProductSKURequest `json:"skus"`
}

func (req *ProductRequest) toInput() service.ProductInput {
	skus := make([]service.SKUInput, 0, len(req.SKUs))
	for _, item := range req.SKUs {
		skus = append(skus, service.SKUInput{
			ColorID:  item.ColorID,
			Size:     item.Size,
			Stock:    item.Stock,
			IsActive: item.IsActive,
		})
	}
	return service.ProductInput{
		CategoryID:  req.CategoryID,
		Slug:        req.Slug,
		Name:        req.Name,
		Description: req.Description,
		PriceAmount: req.PriceAmount,
		Images:      req.Images,
		IsActive:    req.IsActive,
		SortOrder:   req.SortOrder,
		SKUs:        skus,
	}
}

// ListAdminProducts 商品列表（含未上架）
func (h *Handler) ListAdminProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	filter := repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(c.Query("search")),
	}
	if raw := c.Query("category_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.CategoryID = uint(id)
		}
	}

	products, total, err := h.ProductAdminService.ListProducts(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "获取商品列表失败", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"products": products}, handlershared.BuildPagination(page, pageSize, total))
}

// CreateProduct 创建商品（同时生成 SKU 组合）
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	product, err := h.ProductAdminService.CreateProduct(req.toInput())
	if err != nil {
		respondProductAdminError(c, err, "创建商品失败")
		return
	}
	response.Success(c, gin.H{"product": product})
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "商品标识无效")
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	product, err := h.ProductAdminService.UpdateProduct(id, req.toInput())
	if err != nil {
		respondProductAdminError(c, err, "更新商品失败")
		return
	}
	response.Success(c, gin.H{"product": product})
}

// DeleteProduct 删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "商品标识无效")
	if !ok {
		return
	}
	if err := h.ProductAdminService.DeleteProduct(id); err != nil {
		respondProductAdminError(c, err, "删除商品失败")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// AdjustStockRequest 库存调整请求
type AdjustStockRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// AdjustSKUStock 调整 SKU 库存
func (h *Handler) AdjustSKUStock(c *gin.Context) {
	skuID, ok := parseIDParam(c, "sku_id", "SKU 标识无效")
	if !ok {
		return
	}
	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	sku, err := h.ProductAdminService.AdjustStock(skuID, req.Delta)
	if err != nil {
		var stockErr *service.InsufficientStockError
		switch {
		case errors.As(err, &stockErr):
			respondError(c, response.CodeBadRequest, "库存不足，无法扣减", nil)
		case errors.Is(err, service.ErrSKUNotFound):
			respondError(c, response.CodeNotFound, "SKU 不存在", nil)
		default:
			respondError(c, response.CodeInternal, "调整库存失败", err)
		}
		return
	}
	response.Success(c, gin.H{"sku": sku})
}

// CategoryRequest 分类创建/更新请求
type CategoryRequest struct {
	Slug      string `json:"slug" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Icon      string `json:"icon"`
	SortOrder int    `json:"sort_order"`
}

// CreateCategory 创建分类
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}
	category := &models.Category{
		Slug:      req.Slug,
		Name:      req.Name,
		Icon:      req.Icon,
		SortOrder: req.SortOrder,
	}
	if err := h.ProductAdminService.CreateCategory(category); err != nil {
		respondProductAdminError(c, err, "创建分类失败")
		return
	}
	_ = cache.Del(c.Request.Context(), categoriesCacheKey)
	response.Success(c, gin.H{"category": category})
}

// UpdateCategory 更新分类
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "分类标识无效")
	if !ok {
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}
	category := &models.Category{
		ID:        id,
		Slug:      req.Slug,
		Name:      req.Name,
		Icon:      req.Icon,
		SortOrder: req.SortOrder,
	}
	if err := h.ProductAdminService.UpdateCategory(category); err != nil {
		respondProductAdminError(c, err, "更新分类失败")
		return
	}
	_ = cache.Del(c.Request.Context(), categoriesCacheKey)
	response.Success(c, gin.H{"category": category})
}

// DeleteCategory 删除分类
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "分类标识无效")
	if !ok {
		return
	}
	if err := h.ProductAdminService.DeleteCategory(id); err != nil {
		respondProductAdminError(c, err, "删除分类失败")
		return
	}
	_ = cache.Del(c.Request.Context(), categoriesCacheKey)
	response.Success(c, gin.H{"deleted": true})
}

// ColorRequest 颜色创建/更新请求
type ColorRequest struct {
	Name    string `json:"name" binding:"required"`
	HexCode string `json:"hex_code"`
}

// CreateColor 创建颜色
func (h *Handler) CreateColor(c *gin.Context) {
	var req ColorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}
	color := &models.Color{
		Name:    req.Name,
		HexCode: req.HexCode,
	}
	if err := h.ProductAdminService.CreateColor(color); err != nil {
		respondError(c, response.CodeInternal, "创建颜色失败", err)
		return
	}
	_ = cache.Del(c.Request.Context(), colorsCacheKey)
	response.Success(c, gin.H{"color": color})
}

// UpdateColor 更新颜色
func (h *Handler) UpdateColor(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "颜色标识无效")
	if !ok {
		return
	}
	var req ColorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}
	color := &models.Color{
		ID:      id,
		Name:    req.Name,
		HexCode: req.HexCode,
	}
	if err := h.ProductAdminService.UpdateColor(color); err != nil {
		respondError(c, response.CodeInternal, "更新颜色失败", err)
		return
	}
	_ = cache.Del(c.Request.Context(), colorsCacheKey)
	response.Success(c, gin.H{"color": color})
}

// DeleteColor 删除颜色
func (h *Handler) DeleteColor(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "颜色标识无效")
	if !ok {
		return
	}
	if err := h.ProductAdminService.DeleteColor(id); err != nil {
		respondError(c, response.CodeInternal, "删除颜色失败", err)
		return
	}
	_ = cache.Del(c.Request.Context(), colorsCacheKey)
	response.Success(c, gin.H{"deleted": true})
}

func respondProductAdminError(c *gin.Context, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		respondError(c, response.CodeNotFound, "商品不存在", nil)
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, response.CodeNotFound, "分类不存在", nil)
	case errors.Is(err, service.ErrSlugTaken):
		respondError(c, response.CodeBadRequest, "slug 已被占用或无效", nil)
	case errors.Is(err, service.ErrSKUNotFound):
		respondError(c, response.CodeBadRequest, "SKU 参数无效", nil)
	default:
		respondError(c, response.CodeInternal, fallbackMsg, err)
	}
}
