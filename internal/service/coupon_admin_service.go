package service

import (
	"strings"

	"github.com/modeva-next/internal/constants"
	"github.com/modeva-next/internal/models"
	"github.com/modeva-next/internal/repository"
)

// CouponAdminService 优惠券管理服务
type CouponAdminService struct {
	couponRepo repository.CouponRepository
}

// NewCouponAdminService 创建优惠券管理服务
func NewCouponAdminService(couponRepo repository.CouponRepository) *CouponAdminService {
	return &CouponAdminService{
		couponRepo: couponRepo,
	}
}

// Create 创建优惠券（码统一大写存储）
func (s *CouponAdminService) Create(coupon *models.Coupon) error {
	if coupon == nil {
		return ErrCouponNotFound
	}
	code := strings.ToUpper(strings.TrimSpace(coupon.Code))
	if code == "" {
		return ErrCouponNotFound
	}
	if coupon.DiscountType != constants.CouponTypePercentage && coupon.DiscountType != constants.CouponTypeFixed {
		return ErrCouponInactive
	}
	existing, err := s.couponRepo.GetByCode(code)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrCouponCodeTaken
	}
	coupon.Code = code
	return s.couponRepo.Create(coupon)
}

// Update 更新优惠券
func (s *CouponAdminService) Update(coupon *models.Coupon) error {
	if coupon == nil || coupon.ID == 0 {
		return ErrCouponNotFound
	}
	existing, err := s.couponRepo.GetByID(coupon.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrCouponNotFound
	}
	coupon.Code = strings.ToUpper(strings.TrimSpace(coupon.Code))
	return s.couponRepo.Update(coupon)
}

// Delete 删除优惠券
func (s *CouponAdminService) Delete(id uint) error {
	existing, err := s.couponRepo.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrCouponNotFound
	}
	return s.couponRepo.Delete(id)
}

// List 优惠券列表
func (s *CouponAdminService) List(filter repository.CouponListFilter) ([]models.Coupon, int64, error) {
	return s.couponRepo.List(filter)
}

// GetByID 获取优惠券
func (s *CouponAdminService) GetByID(id uint) (*models.Coupon, error) {
	coupon, err := s.couponRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	return coupon, nil
}
