package service

import (
	"strings"

	"github.com/modeva-next/internal/models"
	"github.com/modeva-next/internal/repository"

	"gorm.io/gorm"
)

// ProductAdminService 商品管理服务（管理端 CRUD 与库存调整）
type ProductAdminService struct {
	productRepo    repository.ProductRepository
	productSKURepo repository.ProductSKURepository
	categoryRepo   repository.CategoryRepository
	colorRepo      repository.ColorRepository
}

// NewProductAdminService 创建商品管理服务
func NewProductAdminService(productRepo repository.ProductRepository, productSKURepo repository.ProductSKURepository, categoryRepo repository.CategoryRepository, colorRepo repository.ColorRepository) *ProductAdminService {
	return &ProductAdminService{
		productRepo:    productRepo,
		productSKURepo: productSKURepo,
		categoryRepo:   categoryRepo,
		colorRepo:      colorRepo,
	}
}

// SKUInput 商品 SKU 输入
type SKUInput struct {
	ColorID  uint
	Size     string
	Stock    int
	IsActive bool
}

// ProductInput 商品输入
type ProductInput struct {
	CategoryID  uint
	Slug        string
	Name        string
	Description string
	PriceAmount models.Money
	Images      models.StringArray
	IsActive    bool
	SortOrder   int
	SKUs        []SKUInput
}

// CreateProduct 创建商品与 SKU 组合
func (s *ProductAdminService) CreateProduct(input ProductInput) (*models.Product, error) {
	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		return nil, ErrSlugTaken
	}
	count, err := s.productRepo.CountBySlug(slug, nil)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugTaken
	}
	category, err := s.categoryRepo.GetByID(input.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	product := &models.Product{
		CategoryID:  input.CategoryID,
		Slug:        slug,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		PriceAmount: input.PriceAmount,
		Images:      input.Images,
		IsActive:    input.IsActive,
		SortOrder:   input.SortOrder,
	}

	err = s.productRepo.Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)
		skuRepo := s.productSKURepo.WithTx(tx)
		if err := productRepo.Create(product); err != nil {
			return err
		}
		skus := make([]models.ProductSKU, 0, len(input.SKUs))
		for _, item := range input.SKUs {
			size := strings.TrimSpace(item.Size)
			if item.ColorID == 0 || size == "" {
				return ErrSKUNotFound
			}
			skus = append(skus, models.ProductSKU{
				ProductID: product.ID,
				ColorID:   item.ColorID,
				Size:      size,
				SKUCode:   models.BuildSKUCode(product.ID, item.ColorID, size),
				Stock:     item.Stock,
				IsActive:  item.IsActive,
			})
		}
		return skuRepo.CreateBatch(skus)
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct 更新商品基础信息
func (s *ProductAdminService) UpdateProduct(id uint, input ProductInput) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	slug := strings.TrimSpace(input.Slug)
	if slug != "" && slug != product.Slug {
		count, err := s.productRepo.CountBySlug(slug, &id)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrSlugTaken
		}
		product.Slug = slug
	}
	if input.CategoryID > 0 && input.CategoryID != product.CategoryID {
		category, err := s.categoryRepo.GetByID(input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, ErrCategoryNotFound
		}
		product.CategoryID = input.CategoryID
	}
	product.Name = strings.TrimSpace(input.Name)
	product.Description = input.Description
	product.PriceAmount = input.PriceAmount
	product.Images = input.Images
	product.IsActive = input.IsActive
	product.SortOrder = input.SortOrder

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct 删除商品及其 SKU
func (s *ProductAdminService) DeleteProduct(id uint) error {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	return s.productRepo.Transaction(func(tx *gorm.DB) error {
		if err := s.productSKURepo.WithTx(tx).DeleteByProduct(id); err != nil {
			return err
		}
		return s.productRepo.WithTx(tx).Delete(id)
	})
}

// AdjustStock 直接调整 SKU 库存（盘点用，负数表示减少）
func (s *ProductAdminService) AdjustStock(skuID uint, delta int) (*models.ProductSKU, error) {
	sku, err := s.productSKURepo.GetByID(skuID)
	if err != nil {
		return nil, err
	}
	if sku == nil {
		return nil, ErrSKUNotFound
	}
	if delta > 0 {
		if _, err := s.productSKURepo.IncrementStock(skuID, delta); err != nil {
			return nil, err
		}
	} else if delta < 0 {
		affected, err := s.productSKURepo.DecrementStock(skuID, -delta)
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			return nil, &InsufficientStockError{SKUCode: sku.SKUCode, Available: sku.Stock}
		}
	}
	return s.productSKURepo.GetByID(skuID)
}

// ListProducts 管理端商品列表
func (s *ProductAdminService) ListProducts(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	filter.WithCategory = true
	filter.WithSKUs = true
	return s.productRepo.List(filter)
}

// CreateCategory 创建分类
func (s *ProductAdminService) CreateCategory(category *models.Category) error {
	existing, err := s.categoryRepo.GetBySlug(category.Slug)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrSlugTaken
	}
	return s.categoryRepo.Create(category)
}

// UpdateCategory 更新分类
func (s *ProductAdminService) UpdateCategory(category *models.Category) error {
	return s.categoryRepo.Update(category)
}

// DeleteCategory 删除分类
func (s *ProductAdminService) DeleteCategory(id uint) error {
	return s.categoryRepo.Delete(id)
}

// CreateColor 创建颜色
func (s *ProductAdminService) CreateColor(color *models.Color) error {
	return s.colorRepo.Create(color)
}

// UpdateColor 更新颜色
func (s *ProductAdminService) UpdateColor(color *models.Color) error {
	return s.colorRepo.Update(color)
}

// DeleteColor 删除颜色
func (s *ProductAdminService) DeleteColor(id uint) error {
	return s.colorRepo.Delete(id)
}
