package repository

import (
	"errors"

	"github.com/modeva-next/internal/models"

	"gorm.io/gorm"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	ListByUser(userID uint) ([]models.CartItem, error)
	GetByUserAndSKU(userID, skuID uint) (*models.CartItem, error)
	Upsert(item *models.CartItem) error
	DeleteByUserAndSKU(userID, skuID uint) error
	DeleteByUserAndSKUs(userID uint, skuIDs []uint) error
	ClearByUser(userID uint) error
	WithTx(tx *gorm.DB) *GormCartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) *GormCartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// ListByUser 获取用户购物车项
func (r *GormCartRepository) ListByUser(userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.Preload("SKU").Preload("SKU.Product").Preload("SKU.Color").
		Where("user_id = ?", userID).Order("updated_at desc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetByUserAndSKU 获取购物车项
func (r *GormCartRepository) GetByUserAndSKU(userID, skuID uint) (*models.CartItem, error) {
	if userID == 0 || skuID == 0 {
		return nil, errors.New("invalid cart query params")
	}
	var item models.CartItem
	if err := r.db.Where("user_id = ? AND sku_id = ?", userID, skuID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// Upsert 添加或更新购物车项（同一用户同一 SKU 仅保留一条）
func (r *GormCartRepository) Upsert(item *models.CartItem) error {
	if item == nil {
		return nil
	}
	var existing models.CartItem
	err := r.db.Where("user_id = ? AND sku_id = ?", item.UserID, item.SKUID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(item).Error
	}
	if err != nil {
		return err
	}
	updates := map[string]interface{}{
		"quantity":   item.Quantity,
		"updated_at": item.UpdatedAt,
	}
	return r.db.Model(&existing).Updates(updates).Error
}

// DeleteByUserAndSKU 删除购物车项
func (r *GormCartRepository) DeleteByUserAndSKU(userID, skuID uint) error {
	return r.db.Where("user_id = ? AND sku_id = ?", userID, skuID).Delete(&models.CartItem{}).Error
}

// DeleteByUserAndSKUs 批量删除购物车项（下单成功后清理已购 SKU）
func (r *GormCartRepository) DeleteByUserAndSKUs(userID uint, skuIDs []uint) error {
	if len(skuIDs) == 0 {
		return nil
	}
	return r.db.Where("user_id = ? AND sku_id IN ?", userID, skuIDs).Delete(&models.CartItem{}).Error
}

// ClearByUser 清空购物车
func (r *GormCartRepository) ClearByUser(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}
