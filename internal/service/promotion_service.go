package service

import (
	"time"

	"github.com/modeva-next/internal/logger"
	"github.com/modeva-next/internal/models"
	"github.com/modeva-next/internal/repository"
)

// PromotionService 折扣活动服务
type PromotionService struct {
	promotionRepo repository.PromotionRepository
}

// NewPromotionService 创建折扣活动服务
func NewPromotionService(promotionRepo repository.PromotionRepository) *PromotionService {
	return &PromotionService{
		promotionRepo: promotionRepo,
	}
}

// ResolveBest 解析商品行命中的最优活动：折扣比例最高者优先，
// 比例相同取创建更晚的活动（ID 更大）。无命中返回 nil，原价生效。
func (s *PromotionService) ResolveBest(productID, categoryID uint, skuCode string, now time.Time) (*models.Promotion, error) {
	candidates, err := s.promotionRepo.ListActiveAt(now)
	if err != nil {
		return nil, err
	}

	var best *models.Promotion
	for i := range candidates {
		p := &candidates[i]
		if !p.AppliesTo(productID, categoryID, skuCode) {
			continue
		}
		if best == nil ||
			p.DiscountPercent > best.DiscountPercent ||
			(p.DiscountPercent == best.DiscountPercent && p.ID > best.ID) {
			best = p
		}
	}
	if best == nil {
		return nil, nil
	}
	out := *best
	return &out, nil
}

// PriceFor 计算商品行的活动折后单价
func (s *PromotionService) PriceFor(base models.Money, productID, categoryID uint, skuCode string, now time.Time) (*models.Promotion, models.Money, error) {
	promotion, err := s.ResolveBest(productID, categoryID, skuCode, now)
	if err != nil {
		return nil, models.Money{}, err
	}
	if promotion == nil {
		return nil, base, nil
	}
	return promotion, DiscountedUnitPrice(base, promotion.DiscountPercent), nil
}

// DeactivateExpired 停用已过期活动（worker 定时调用）
func (s *PromotionService) DeactivateExpired(now time.Time) (int64, error) {
	affected, err := s.promotionRepo.DeactivateExpired(now)
	if err != nil {
		return 0, err
	}
	if affected > 0 {
		logger.Infow("promotions_deactivated", "count", affected)
	}
	return affected, nil
}

// GetByID 获取活动
func (s *PromotionService) GetByID(id uint) (*models.Promotion, error) {
	promotion, err := s.promotionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if promotion == nil {
		return nil, ErrPromotionNotFound
	}
	return promotion, nil
}

// List 活动列表
func (s *PromotionService) List(filter repository.PromotionListFilter) ([]models.Promotion, int64, error) {
	return s.promotionRepo.List(filter)
}

// Create 创建活动
func (s *PromotionService) Create(promotion *models.Promotion) error {
	if promotion == nil || promotion.DiscountPercent <= 0 || promotion.DiscountPercent > 100 {
		return ErrPromotionInvalid
	}
	return s.promotionRepo.Create(promotion)
}

// Update 更新活动
func (s *PromotionService) Update(promotion *models.Promotion) error {
	if promotion == nil || promotion.DiscountPercent <= 0 || promotion.DiscountPercent > 100 {
		return ErrPromotionInvalid
	}
	return s.promotionRepo.Update(promotion)
}

// Delete 删除活动
func (s *PromotionService) Delete(id uint) error {
	existing, err := s.promotionRepo.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrPromotionNotFound
	}
	return s.promotionRepo.Delete(id)
}
