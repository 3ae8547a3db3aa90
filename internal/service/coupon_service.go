package service

import (
	"time"

	"github.com/modeva-next/internal/constants"
	"github.com/modeva-next/internal/models"
	"github.com/modeva-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CouponService 优惠券服务
type CouponService struct {
	couponRepo     repository.CouponRepository
	userCouponRepo repository.UserCouponRepository
}

// NewCouponService 创建优惠券服务
func NewCouponService(couponRepo repository.CouponRepository, userCouponRepo repository.UserCouponRepository) *CouponService {
	return &CouponService{
		couponRepo:     couponRepo,
		userCouponRepo: userCouponRepo,
	}
}

// CouponApplication 优惠券试算结果
type CouponApplication struct {
	UserCoupon     *models.UserCoupon
	Coupon         *models.Coupon
	DiscountAmount models.Money
	FinalPrice     models.Money
}

// ApplyCoupon 按固定顺序校验并试算优惠，短路返回首个失败原因。
// 只做计算，不落库；次数扣减由 Consume 在下单事务内完成。
func (s *CouponService) ApplyCoupon(userID, userCouponID uint, items []PricedItem, now time.Time) (*CouponApplication, error) {
	userCoupon, err := s.userCouponRepo.GetByIDAndUser(userCouponID, userID)
	if err != nil {
		return nil, err
	}
	if userCoupon == nil || userCoupon.Status != constants.UserCouponStatusActive || userCoupon.UsageLeft <= 0 {
		return nil, ErrCouponInvalidOrExhausted
	}
	if userCoupon.ExpiresAt != nil && now.After(*userCoupon.ExpiresAt) {
		return nil, ErrCouponInvalidOrExhausted
	}

	coupon := userCoupon.Coupon
	if coupon == nil {
		coupon, err = s.couponRepo.GetByID(userCoupon.CouponID)
		if err != nil {
			return nil, err
		}
	}
	if coupon == nil || !coupon.IsActive {
		return nil, ErrCouponInactive
	}
	if coupon.StartsAt != nil && now.Before(*coupon.StartsAt) {
		return nil, ErrCouponOutOfWindow
	}
	if coupon.EndsAt != nil && now.After(*coupon.EndsAt) {
		return nil, ErrCouponOutOfWindow
	}

	// 按分类划分适用/不适用行，只对适用部分让利
	applicableTotal := decimal.Zero
	nonApplicableTotal := decimal.Zero
	totalQuantity := 0
	for _, item := range items {
		if coupon.AppliedCategoryIDs.Contains(item.CategoryID) {
			applicableTotal = applicableTotal.Add(item.LineTotal().Decimal)
			totalQuantity += item.Quantity
		} else {
			nonApplicableTotal = nonApplicableTotal.Add(item.LineTotal().Decimal)
		}
	}

	if applicableTotal.IsZero() {
		return nil, ErrCouponNoEligibleItems
	}
	if applicableTotal.Cmp(coupon.MinOrderValue.Decimal) < 0 {
		return nil, ErrCouponBelowMinimumValue
	}
	if coupon.MinimumQuantity > 0 && totalQuantity < coupon.MinimumQuantity {
		return nil, ErrCouponBelowMinimumQuantity
	}

	discount := s.calculateDiscount(coupon, applicableTotal)
	finalPrice := nonApplicableTotal.Add(applicableTotal.Sub(discount.Decimal))

	return &CouponApplication{
		UserCoupon:     userCoupon,
		Coupon:         coupon,
		DiscountAmount: discount,
		FinalPrice:     models.NewMoneyFromDecimal(finalPrice),
	}, nil
}

func (s *CouponService) calculateDiscount(coupon *models.Coupon, applicableTotal decimal.Decimal) models.Money {
	var discount decimal.Decimal
	switch coupon.DiscountType {
	case constants.CouponTypePercentage:
		discount = applicableTotal.Mul(coupon.DiscountValue.Decimal).Div(decimal.NewFromInt(100))
		if coupon.MaxDiscountAmount.Decimal.GreaterThan(decimal.Zero) && discount.GreaterThan(coupon.MaxDiscountAmount.Decimal) {
			discount = coupon.MaxDiscountAmount.Decimal
		}
	case constants.CouponTypeFixed:
		discount = coupon.DiscountValue.Decimal
		if discount.GreaterThan(applicableTotal) {
			discount = applicableTotal
		}
	default:
		discount = decimal.Zero
	}
	if discount.LessThan(decimal.Zero) {
		discount = decimal.Zero
	}
	return models.NewMoneyFromDecimal(discount)
}

// Consume 在下单事务内扣减使用次数：UserCoupon 次数减一（归零置 used），
// Coupon 全局计数加一（达到上限置停用）。任一条件更新未命中则视为已被抢完。
func (s *CouponService) Consume(tx *gorm.DB, userCouponID, couponID uint) error {
	affected, err := s.userCouponRepo.WithTx(tx).ConsumeUsage(userCouponID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCouponInvalidOrExhausted
	}
	affected, err = s.couponRepo.WithTx(tx).ConsumeUsage(couponID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCouponInvalidOrExhausted
	}
	return nil
}

// Restore 在取消/退款事务内回补使用次数，与 Consume 严格对称。
func (s *CouponService) Restore(tx *gorm.DB, userCouponID, couponID uint) error {
	if _, err := s.userCouponRepo.WithTx(tx).RestoreUsage(userCouponID); err != nil {
		return err
	}
	if _, err := s.couponRepo.WithTx(tx).ReleaseUsage(couponID); err != nil {
		return err
	}
	return nil
}

// ListUserCoupons 用户优惠券列表
func (s *CouponService) ListUserCoupons(userID uint, onlyUsable bool) ([]models.UserCoupon, error) {
	return s.userCouponRepo.ListByUser(userID, onlyUsable, time.Now())
}

// GrantToUser 向用户发放优惠券（管理端），初始次数取券的每人上限。
func (s *CouponService) GrantToUser(userID, couponID uint) (*models.UserCoupon, error) {
	coupon, err := s.couponRepo.GetByID(couponID)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}

	existing, err := s.userCouponRepo.GetByUserAndCoupon(userID, couponID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCouponAlreadyGranted
	}

	usage := coupon.UsageLimit
	if usage <= 0 {
		usage = 1
	}
	userCoupon := &models.UserCoupon{
		UserID:    userID,
		CouponID:  couponID,
		UsageLeft: usage,
		ExpiresAt: coupon.EndsAt,
		Status:    constants.UserCouponStatusActive,
	}
	if err := s.userCouponRepo.Create(userCoupon); err != nil {
		return nil, err
	}
	return userCoupon, nil
}

// CancelGrant 作废未使用的用户优惠券
func (s *CouponService) CancelGrant(userCouponID uint) error {
	userCoupon, err := s.userCouponRepo.GetByID(userCouponID)
	if err != nil {
		return err
	}
	if userCoupon == nil {
		return ErrCouponNotFound
	}
	// 使用过的发放记录不允许作废
	if userCoupon.Status != constants.UserCouponStatusActive {
		return ErrCouponInvalidOrExhausted
	}
	coupon, err := s.couponRepo.GetByID(userCoupon.CouponID)
	if err != nil {
		return err
	}
	if coupon != nil && userCoupon.UsageLeft != coupon.UsageLimit {
		return ErrCouponInvalidOrExhausted
	}
	userCoupon.Status = constants.UserCouponStatusCancelled
	return s.userCouponRepo.Update(userCoupon)
}
