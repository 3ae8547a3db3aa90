package repository

import (
	"errors"
	"time"

	"github.com/modeva-next/internal/constants"
	"github.com/modeva-next/internal/models"

	"gorm.io/gorm"
)

// UserCouponRepository 用户优惠券数据访问接口
type UserCouponRepository interface {
	GetByID(id uint) (*models.UserCoupon, error)
	GetByIDAndUser(id, userID uint) (*models.UserCoupon, error)
	GetByUserAndCoupon(userID, couponID uint) (*models.UserCoupon, error)
	ListByUser(userID uint, onlyUsable bool, now time.Time) ([]models.UserCoupon, error)
	Create(item *models.UserCoupon) error
	Update(item *models.UserCoupon) error
	ConsumeUsage(id uint) (int64, error)
	RestoreUsage(id uint) (int64, error)
	WithTx(tx *gorm.DB) UserCouponRepository
}

// GormUserCouponRepository GORM 实现
type GormUserCouponRepository struct {
	db *gorm.DB
}

// NewUserCouponRepository 创建用户优惠券仓库
func NewUserCouponRepository(db *gorm.DB) *GormUserCouponRepository {
	return &GormUserCouponRepository{db: db}
}

// WithTx 绑定事务
func (r *GormUserCouponRepository) WithTx(tx *gorm.DB) UserCouponRepository {
	if tx == nil {
		return r
	}
	return &GormUserCouponRepository{db: tx}
}

// GetByID 根据 ID 获取用户优惠券
func (r *GormUserCouponRepository) GetByID(id uint) (*models.UserCoupon, error) {
	if id == 0 {
		return nil, errors.New("invalid user coupon id")
	}
	var item models.UserCoupon
	if err := r.db.Preload("Coupon").First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// GetByIDAndUser 根据 ID 和用户获取用户优惠券（校验归属）
func (r *GormUserCouponRepository) GetByIDAndUser(id, userID uint) (*models.UserCoupon, error) {
	if id == 0 || userID == 0 {
		return nil, errors.New("invalid user coupon query params")
	}
	var item models.UserCoupon
	if err := r.db.Preload("Coupon").Where("id = ? AND user_id = ?", id, userID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// GetByUserAndCoupon 获取指定用户对指定券的发放记录
func (r *GormUserCouponRepository) GetByUserAndCoupon(userID, couponID uint) (*models.UserCoupon, error) {
	if userID == 0 || couponID == 0 {
		return nil, errors.New("invalid user coupon query params")
	}
	var item models.UserCoupon
	if err := r.db.Where("user_id = ? AND coupon_id = ?", userID, couponID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// ListByUser 获取用户的优惠券列表
func (r *GormUserCouponRepository) ListByUser(userID uint, onlyUsable bool, now time.Time) ([]models.UserCoupon, error) {
	if userID == 0 {
		return nil, errors.New("invalid user id")
	}
	query := r.db.Preload("Coupon").Where("user_id = ?", userID)
	if onlyUsable {
		query = query.Where("status = ? AND usage_left > 0", constants.UserCouponStatusActive)
		query = query.Where("(expires_at IS NULL OR expires_at >= ?)", now)
	}
	var items []models.UserCoupon
	if err := query.Order("id desc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Create 创建用户优惠券
func (r *GormUserCouponRepository) Create(item *models.UserCoupon) error {
	if item == nil {
		return errors.New("user coupon is nil")
	}
	return r.db.Create(item).Error
}

// Update 更新用户优惠券
func (r *GormUserCouponRepository) Update(item *models.UserCoupon) error {
	if item == nil {
		return errors.New("user coupon is nil")
	}
	return r.db.Save(item).Error
}

// ConsumeUsage 消耗一次使用次数，次数归零时同步置为 used。
// 影响行数为 0 表示已无可用次数。
func (r *GormUserCouponRepository) ConsumeUsage(id uint) (int64, error) {
	if id == 0 {
		return 0, errors.New("invalid user coupon id")
	}
	result := r.db.Model(&models.UserCoupon{}).
		Where("id = ? AND status = ? AND usage_left > 0", id, constants.UserCouponStatusActive).
		Updates(map[string]interface{}{
			"usage_left": gorm.Expr("usage_left - 1"),
			"status":     gorm.Expr("CASE WHEN usage_left - 1 <= 0 THEN ? ELSE status END", constants.UserCouponStatusUsed),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// RestoreUsage 归还一次使用次数（订单取消/退款时回补），used 状态同步恢复为 active。
func (r *GormUserCouponRepository) RestoreUsage(id uint) (int64, error) {
	if id == 0 {
		return 0, errors.New("invalid user coupon id")
	}
	result := r.db.Model(&models.UserCoupon{}).
		Where("id = ? AND status IN ?", id, []string{constants.UserCouponStatusActive, constants.UserCouponStatusUsed}).
		Updates(map[string]interface{}{
			"usage_left": gorm.Expr("usage_left + 1"),
			"status":     constants.UserCouponStatusActive,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
