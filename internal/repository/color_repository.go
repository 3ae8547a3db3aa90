package repository

import (
	"errors"

	"github.com/modeva-next/internal/models"

	"gorm.io/gorm"
)

// ColorRepository 颜色数据访问接口
type ColorRepository interface {
	List() ([]models.Color, error)
	GetByID(id uint) (*models.Color, error)
	ListByIDs(ids []uint) ([]models.Color, error)
	Create(color *models.Color) error
	Update(color *models.Color) error
	Delete(id uint) error
	WithTx(tx *gorm.DB) ColorRepository
}

// GormColorRepository GORM 实现
type GormColorRepository struct {
	db *gorm.DB
}

// NewColorRepository 创建颜色仓库
func NewColorRepository(db *gorm.DB) *GormColorRepository {
	return &GormColorRepository{db: db}
}

// WithTx 绑定事务
func (r *GormColorRepository) WithTx(tx *gorm.DB) ColorRepository {
	if tx == nil {
		return r
	}
	return &GormColorRepository{db: tx}
}

// List 获取全部颜色
func (r *GormColorRepository) List() ([]models.Color, error) {
	var items []models.Color
	if err := r.db.Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetByID 根据 ID 获取颜色
func (r *GormColorRepository) GetByID(id uint) (*models.Color, error) {
	if id == 0 {
		return nil, errors.New("invalid color id")
	}
	var item models.Color
	if err := r.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// ListByIDs 批量获取颜色
func (r *GormColorRepository) ListByIDs(ids []uint) ([]models.Color, error) {
	if len(ids) == 0 {
		return []models.Color{}, nil
	}
	var items []models.Color
	if err := r.db.Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Create 创建颜色
func (r *GormColorRepository) Create(color *models.Color) error {
	if color == nil {
		return errors.New("color is nil")
	}
	return r.db.Create(color).Error
}

// Update 更新颜色
func (r *GormColorRepository) Update(color *models.Color) error {
	if color == nil {
		return errors.New("color is nil")
	}
	return r.db.Save(color).Error
}

// Delete 删除颜色
func (r *GormColorRepository) Delete(id uint) error {
	if id == 0 {
		return errors.New("invalid color id")
	}
	return r.db.Delete(&models.Color{}, id).Error
}
