package repository

import (
	"errors"
	"strings"

	"github.com/modeva-next/internal/models"

	"gorm.io/gorm"
)

// CouponRepository 优惠券数据访问接口
type CouponRepository interface {
	GetByID(id uint) (*models.Coupon, error)
	GetByCode(code string) (*models.Coupon, error)
	Create(coupon *models.Coupon) error
	Update(coupon *models.Coupon) error
	Delete(id uint) error
	List(filter CouponListFilter) ([]models.Coupon, int64, error)
	ConsumeUsage(id uint) (int64, error)
	ReleaseUsage(id uint) (int64, error)
	WithTx(tx *gorm.DB) *GormCouponRepository
}

// GormCouponRepository GORM 实现
type GormCouponRepository struct {
	db *gorm.DB
}

// NewCouponRepository 创建优惠券仓库
func NewCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCouponRepository) WithTx(tx *gorm.DB) *GormCouponRepository {
	if tx == nil {
		return r
	}
	return &GormCouponRepository{db: tx}
}

// GetByID 根据ID获取优惠券
func (r *GormCouponRepository) GetByID(id uint) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.First(&coupon, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &coupon, nil
}

// GetByCode 根据优惠码获取优惠券（码统一大写）
func (r *GormCouponRepository) GetByCode(code string) (*models.Coupon, error) {
	cleaned := strings.ToUpper(strings.TrimSpace(code))
	if cleaned == "" {
		return nil, errors.New("invalid coupon code")
	}
	var coupon models.Coupon
	if err := r.db.Where("code = ?", cleaned).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &coupon, nil
}

// Create 创建优惠券
func (r *GormCouponRepository) Create(coupon *models.Coupon) error {
	return r.db.Create(coupon).Error
}

// Update 更新优惠券
func (r *GormCouponRepository) Update(coupon *models.Coupon) error {
	return r.db.Save(coupon).Error
}

// Delete 删除优惠券
func (r *GormCouponRepository) Delete(id uint) error {
	return r.db.Delete(&models.Coupon{}, id).Error
}

// List 获取优惠券列表
func (r *GormCouponRepository) List(filter CouponListFilter) ([]models.Coupon, int64, error) {
	var coupons []models.Coupon
	query := r.db.Model(&models.Coupon{})

	if code := strings.ToUpper(strings.TrimSpace(filter.Code)); code != "" {
		query = query.Where("code = ?", code)
	}
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("id desc").Find(&coupons).Error; err != nil {
		return nil, 0, err
	}
	return coupons, total, nil
}

// ConsumeUsage 占用一次全局使用额度。total_usage_limit 为 0 表示不限额；
// 用尽时同步置 is_active 为 false，影响行数为 0 表示已抢完。
func (r *GormCouponRepository) ConsumeUsage(id uint) (int64, error) {
	if id == 0 {
		return 0, errors.New("invalid coupon id")
	}
	result := r.db.Model(&models.Coupon{}).
		Where("id = ? AND (total_usage_limit = 0 OR used_count < total_usage_limit)", id).
		Updates(map[string]interface{}{
			"used_count": gorm.Expr("used_count + 1"),
			"is_active":  gorm.Expr("CASE WHEN total_usage_limit > 0 AND used_count + 1 >= total_usage_limit THEN ? ELSE is_active END", false),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ReleaseUsage 归还一次全局使用额度（订单取消/退款时回补），并恢复可用状态。
func (r *GormCouponRepository) ReleaseUsage(id uint) (int64, error) {
	if id == 0 {
		return 0, errors.New("invalid coupon id")
	}
	result := r.db.Model(&models.Coupon{}).
		Where("id = ? AND used_count > 0", id).
		Updates(map[string]interface{}{
			"used_count": gorm.Expr("used_count - 1"),
			"is_active":  gorm.Expr("CASE WHEN total_usage_limit > 0 AND used_count <= total_usage_limit THEN ? ELSE is_active END", true),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
