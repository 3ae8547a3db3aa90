package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/modeva-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupProductSKURepositoryTest(t *testing.T) (*GormProductSKURepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:sku_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.ProductSKU{}, &models.Color{}); err != nil {
		t.Fatalf("migrate product/sku failed: %v", err)
	}
	return NewProductSKURepository(db), db
}

func createStockSKU(t *testing.T, db *gorm.DB, stock int) *models.ProductSKU {
	t.Helper()
	product := &models.Product{
		CategoryID:  1,
		Slug:        fmt.Sprintf("stock-product-%d", time.Now().UnixNano()),
		Name:        "库存测试商品",
		PriceAmount: models.NewMoneyFromInt(199000),
		IsActive:    true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	sku := &models.ProductSKU{
		ProductID: product.ID,
		ColorID:   1,
		Size:      "M",
		SKUCode:   models.BuildSKUCode(product.ID, 1, "M"),
		Stock:     stock,
		IsActive:  true,
	}
	if err := db.Create(sku).Error; err != nil {
		t.Fatalf("create sku failed: %v", err)
	}
	return sku
}

func TestDecrementStockConditional(t *testing.T) {
	repo, db := setupProductSKURepositoryTest(t)
	sku := createStockSKU(t, db, 5)

	affected, err := repo.DecrementStock(sku.ID, 3)
	if err != nil {
		t.Fatalf("decrement stock failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("decrement affected want 1 got %d", affected)
	}

	// 剩余 2，扣 3 应失败且不改库存
	affected, err = repo.DecrementStock(sku.ID, 3)
	if err != nil {
		t.Fatalf("decrement over stock failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("decrement over stock affected want 0 got %d", affected)
	}

	var got models.ProductSKU
	if err := db.First(&got, sku.ID).Error; err != nil {
		t.Fatalf("reload sku failed: %v", err)
	}
	if got.Stock != 2 {
		t.Fatalf("stock want 2 got %d", got.Stock)
	}

	// 扣到 0 合法
	affected, err = repo.DecrementStock(sku.ID, 2)
	if err != nil {
		t.Fatalf("decrement exact stock failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("decrement exact affected want 1 got %d", affected)
	}
}

func TestDecrementStockRejectsBadParams(t *testing.T) {
	repo, _ := setupProductSKURepositoryTest(t)
	if _, err := repo.DecrementStock(0, 1); err == nil {
		t.Fatalf("decrement with zero sku id should fail")
	}
	if _, err := repo.DecrementStock(1, 0); err == nil {
		t.Fatalf("decrement with zero quantity should fail")
	}
	if _, err := repo.IncrementStock(1, -1); err == nil {
		t.Fatalf("increment with negative quantity should fail")
	}
}

func TestIncrementStockRestores(t *testing.T) {
	repo, db := setupProductSKURepositoryTest(t)
	sku := createStockSKU(t, db, 1)

	affected, err := repo.IncrementStock(sku.ID, 4)
	if err != nil {
		t.Fatalf("increment stock failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("increment affected want 1 got %d", affected)
	}

	var got models.ProductSKU
	if err := db.First(&got, sku.ID).Error; err != nil {
		t.Fatalf("reload sku failed: %v", err)
	}
	if got.Stock != 5 {
		t.Fatalf("stock want 5 got %d", got.Stock)
	}
}

func TestGetByCodePreloadsProduct(t *testing.T) {
	repo, db := setupProductSKURepositoryTest(t)
	sku := createStockSKU(t, db, 3)

	got, err := repo.GetByCode(sku.SKUCode)
	if err != nil {
		t.Fatalf("get by code failed: %v", err)
	}
	if got == nil {
		t.Fatalf("sku should be found")
	}
	if got.Product == nil || got.Product.ID != sku.ProductID {
		t.Fatalf("product should be preloaded, got %+v", got.Product)
	}

	missing, err := repo.GetByCode("no-such-code")
	if err != nil {
		t.Fatalf("get missing code failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("missing code should return nil, got %+v", missing)
	}
}
