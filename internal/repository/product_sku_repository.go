package repository

import (
	"errors"
	"strings"

	"github.com/modeva-next/internal/models"

	"gorm.io/gorm"
)

// ProductSKURepository 商品 SKU 数据访问接口
type ProductSKURepository interface {
	ListByProduct(productID uint, onlyActive bool) ([]models.ProductSKU, error)
	GetByID(id uint) (*models.ProductSKU, error)
	GetByCode(skuCode string) (*models.ProductSKU, error)
	ListByIDs(ids []uint) ([]models.ProductSKU, error)
	Create(item *models.ProductSKU) error
	CreateBatch(items []models.ProductSKU) error
	Update(item *models.ProductSKU) error
	DeleteByProduct(productID uint) error
	DecrementStock(skuID uint, quantity int) (int64, error)
	IncrementStock(skuID uint, quantity int) (int64, error)
	WithTx(tx *gorm.DB) ProductSKURepository
}

// GormProductSKURepository GORM 实现
type GormProductSKURepository struct {
	db *gorm.DB
}

// NewProductSKURepository 创建 SKU 仓库
func NewProductSKURepository(db *gorm.DB) *GormProductSKURepository {
	return &GormProductSKURepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductSKURepository) WithTx(tx *gorm.DB) ProductSKURepository {
	if tx == nil {
		return r
	}
	return &GormProductSKURepository{db: tx}
}

// ListByProduct 根据商品获取 SKU 列表
func (r *GormProductSKURepository) ListByProduct(productID uint, onlyActive bool) ([]models.ProductSKU, error) {
	if productID == 0 {
		return nil, errors.New("invalid product id")
	}
	query := r.db.Model(&models.ProductSKU{}).Where("product_id = ?", productID).Preload("Color")
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	var items []models.ProductSKU
	if err := query.Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetByID 根据 ID 获取 SKU
func (r *GormProductSKURepository) GetByID(id uint) (*models.ProductSKU, error) {
	if id == 0 {
		return nil, errors.New("invalid sku id")
	}
	var item models.ProductSKU
	if err := r.db.Preload("Product").Preload("Color").First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// GetByCode 按编码获取 SKU
func (r *GormProductSKURepository) GetByCode(skuCode string) (*models.ProductSKU, error) {
	code := strings.TrimSpace(skuCode)
	if code == "" {
		return nil, errors.New("invalid sku code")
	}
	var item models.ProductSKU
	if err := r.db.Preload("Product").Preload("Color").Where("sku_code = ?", code).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// ListByIDs 批量获取 SKU
func (r *GormProductSKURepository) ListByIDs(ids []uint) ([]models.ProductSKU, error) {
	if len(ids) == 0 {
		return []models.ProductSKU{}, nil
	}
	var items []models.ProductSKU
	if err := r.db.Preload("Product").Preload("Color").Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Create 创建 SKU
func (r *GormProductSKURepository) Create(item *models.ProductSKU) error {
	if item == nil {
		return errors.New("sku is nil")
	}
	return r.db.Create(item).Error
}

// CreateBatch 批量创建 SKU
func (r *GormProductSKURepository) CreateBatch(items []models.ProductSKU) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.Create(&items).Error
}

// Update 更新 SKU
func (r *GormProductSKURepository) Update(item *models.ProductSKU) error {
	if item == nil {
		return errors.New("sku is nil")
	}
	return r.db.Save(item).Error
}

// DeleteByProduct 删除指定商品下的 SKU
func (r *GormProductSKURepository) DeleteByProduct(productID uint) error {
	if productID == 0 {
		return errors.New("invalid product id")
	}
	return r.db.Where("product_id = ?", productID).Delete(&models.ProductSKU{}).Error
}

// DecrementStock 条件扣减库存，库存不足时影响行数为 0。
func (r *GormProductSKURepository) DecrementStock(skuID uint, quantity int) (int64, error) {
	if skuID == 0 || quantity <= 0 {
		return 0, errors.New("invalid stock decrement params")
	}
	result := r.db.Model(&models.ProductSKU{}).
		Where("id = ? AND stock >= ?", skuID, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// IncrementStock 归还库存（取消/退款时回补）
func (r *GormProductSKURepository) IncrementStock(skuID uint, quantity int) (int64, error) {
	if skuID == 0 || quantity <= 0 {
		return 0, errors.New("invalid stock increment params")
	}
	result := r.db.Model(&models.ProductSKU{}).
		Where("id = ?", skuID).
		Update("stock", gorm.Expr("stock + ?", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
