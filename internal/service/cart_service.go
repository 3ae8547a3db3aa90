package service

import (
	"time"

	"github.com/modeva-next/internal/models"
	"github.com/modeva-next/internal/repository"

	"github.com/shopspring/decimal"
)

// CartService 购物车服务
type CartService struct {
	cartRepo         repository.CartRepository
	productSKURepo   repository.ProductSKURepository
	promotionService *PromotionService
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productSKURepo repository.ProductSKURepository, promotionService *PromotionService) *CartService {
	return &CartService{
		cartRepo:         cartRepo,
		productSKURepo:   productSKURepo,
		promotionService: promotionService,
	}
}

// CartLine 带定价的购物车条目
type CartLine struct {
	Item      models.CartItem `json:"item"`
	UnitPrice models.Money    `json:"unit_price"` // 活动折后单价
	LineTotal models.Money    `json:"line_total"`
	InStock   bool            `json:"in_stock"`
}

// List 购物车列表，按当前活动计算折后价。
func (s *CartService) List(userID uint) ([]CartLine, models.Money, error) {
	items, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, models.Money{}, err
	}

	now := time.Now()
	lines := make([]CartLine, 0, len(items))
	total := models.NewMoneyFromInt(0)
	for _, item := range items {
		sku := item.SKU
		if sku == nil || sku.Product == nil {
			continue
		}
		product := sku.Product
		_, unitPrice, err := s.promotionService.PriceFor(product.PriceAmount, product.ID, product.CategoryID, sku.SKUCode, now)
		if err != nil {
			return nil, models.Money{}, err
		}
		line := CartLine{
			Item:      item,
			UnitPrice: unitPrice,
			LineTotal: models.NewMoneyFromDecimal(unitPrice.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity)))),
			InStock:   sku.Stock >= item.Quantity,
		}
		lines = append(lines, line)
		total = models.NewMoneyFromDecimal(total.Decimal.Add(line.LineTotal.Decimal))
	}
	return lines, total, nil
}

// AddItem 添加或更新购物车项
func (s *CartService) AddItem(userID, skuID uint, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, ErrQuantityInvalid
	}
	sku, err := s.productSKURepo.GetByID(skuID)
	if err != nil {
		return nil, err
	}
	if sku == nil || !sku.IsActive {
		return nil, ErrSKUNotFound
	}
	if sku.Stock < quantity {
		name := ""
		if sku.Product != nil {
			name = sku.Product.Name
		}
		return nil, &InsufficientStockError{ProductName: name, SKUCode: sku.SKUCode, Available: sku.Stock}
	}

	item := &models.CartItem{
		UserID:    userID,
		SKUID:     skuID,
		Quantity:  quantity,
		UpdatedAt: time.Now(),
	}
	if err := s.cartRepo.Upsert(item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateQuantity 修改数量
func (s *CartService) UpdateQuantity(userID, skuID uint, quantity int) error {
	if quantity <= 0 {
		return ErrQuantityInvalid
	}
	existing, err := s.cartRepo.GetByUserAndSKU(userID, skuID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrCartItemNotFound
	}
	existing.Quantity = quantity
	existing.UpdatedAt = time.Now()
	return s.cartRepo.Upsert(existing)
}

// RemoveItem 删除购物车项
func (s *CartService) RemoveItem(userID, skuID uint) error {
	return s.cartRepo.DeleteByUserAndSKU(userID, skuID)
}

// Clear 清空购物车
func (s *CartService) Clear(userID uint) error {
	return s.cartRepo.ClearByUser(userID)
}
