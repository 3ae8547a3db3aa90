package service

import (
	"net/url"
	"strings"
	"time"

	"github.com/modeva-next/internal/config"
	"github.com/modeva-next/internal/models"
	"github.com/modeva-next/internal/repository"
)

// CatalogService 商品目录服务
type CatalogService struct {
	cfg              *config.Config
	productRepo      repository.ProductRepository
	categoryRepo     repository.CategoryRepository
	colorRepo        repository.ColorRepository
	productSKURepo   repository.ProductSKURepository
	promotionService *PromotionService
}

// NewCatalogService 创建商品目录服务
func NewCatalogService(cfg *config.Config, productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository, colorRepo repository.ColorRepository, productSKURepo repository.ProductSKURepository, promotionService *PromotionService) *CatalogService {
	return &CatalogService{
		cfg:              cfg,
		productRepo:      productRepo,
		categoryRepo:     categoryRepo,
		colorRepo:        colorRepo,
		productSKURepo:   productSKURepo,
		promotionService: promotionService,
	}
}

// ProductView 商品视图（带活动价与图片地址）
type ProductView struct {
	Product      models.Product `json:"product"`
	SalePrice    models.Money   `json:"sale_price"` // 当前活动折后价
	HasPromotion bool           `json:"has_promotion"`
	DiscountPct  int            `json:"discount_percent"`
	ImageURLs    []string       `json:"image_urls"`
}

// ListCategories 分类列表
func (s *CatalogService) ListCategories() ([]models.Category, error) {
	return s.categoryRepo.List()
}

// ListColors 颜色列表
func (s *CatalogService) ListColors() ([]models.Color, error) {
	return s.colorRepo.List()
}

// ListProducts 商品列表（带活动价）
func (s *CatalogService) ListProducts(filter repository.ProductListFilter) ([]ProductView, int64, error) {
	filter.OnlyActive = true
	filter.WithCategory = true
	filter.WithSKUs = true
	products, total, err := s.productRepo.List(filter)
	if err != nil {
		return nil, 0, err
	}

	now := time.Now()
	views := make([]ProductView, 0, len(products))
	for i := range products {
		view, err := s.buildProductView(&products[i], now)
		if err != nil {
			return nil, 0, err
		}
		views = append(views, *view)
	}
	return views, total, nil
}

// GetProductBySlug 商品详情
func (s *CatalogService) GetProductBySlug(slug string) (*ProductView, error) {
	product, err := s.productRepo.GetBySlug(slug, true)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return s.buildProductView(product, time.Now())
}

func (s *CatalogService) buildProductView(product *models.Product, now time.Time) (*ProductView, error) {
	promotion, salePrice, err := s.promotionService.PriceFor(product.PriceAmount, product.ID, product.CategoryID, "", now)
	if err != nil {
		return nil, err
	}
	view := &ProductView{
		Product:   *product,
		SalePrice: salePrice,
		ImageURLs: s.ResolveImageURLs(product.Images),
	}
	if promotion != nil {
		view.HasPromotion = true
		view.DiscountPct = promotion.DiscountPercent
	}
	return view, nil
}

// ResolveImageURLs 图片键批量转外链
func (s *CatalogService) ResolveImageURLs(keys []string) []string {
	urls := make([]string, 0, len(keys))
	for _, key := range keys {
		urls = append(urls, s.ResolveImageURL(key))
	}
	return urls
}

// ResolveImageURL 图片键转外链；已是完整 URL 的键原样返回。
func (s *CatalogService) ResolveImageURL(key string) string {
	cleaned := strings.TrimSpace(key)
	if cleaned == "" {
		return ""
	}
	if strings.HasPrefix(cleaned, "http://") || strings.HasPrefix(cleaned, "https://") {
		return cleaned
	}
	base := strings.TrimRight(strings.TrimSpace(s.cfg.Assets.ImageBaseURL), "/")
	if base == "" {
		return cleaned
	}
	return base + "/" + url.PathEscape(cleaned)
}

// GetSKUByCode SKU 查询（购物车/下单前端校验）
func (s *CatalogService) GetSKUByCode(skuCode string) (*models.ProductSKU, error) {
	sku, err := s.productSKURepo.GetByCode(skuCode)
	if err != nil {
		return nil, err
	}
	if sku == nil {
		return nil, ErrSKUNotFound
	}
	return sku, nil
}
