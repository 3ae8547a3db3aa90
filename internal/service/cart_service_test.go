package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/modeva-next/internal/models"
	"github.com/modeva-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupCartServiceTest(t *testing.T) (*CartService, *orderServiceFixture) {
	t.Helper()
	dsn := fmt.Sprintf("file:cart_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Category{},
		&models.Color{},
		&models.Product{},
		&models.ProductSKU{},
		&models.CartItem{},
		&models.Promotion{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	skuRepo := repository.NewProductSKURepository(db)
	cartRepo := repository.NewCartRepository(db)
	promotionService := NewPromotionService(repository.NewPromotionRepository(db))
	svc := NewCartService(cartRepo, skuRepo, promotionService)
	return svc, &orderServiceFixture{cartRepo: cartRepo, skuRepo: skuRepo, db: db}
}

func TestCartAddItem(t *testing.T) {
	svc, f := setupCartServiceTest(t)
	sku := f.createTestCatalog(t, "cart-add", 199000, 5)

	item, err := svc.AddItem(1, sku.ID, 2)
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if item.Quantity != 2 {
		t.Fatalf("quantity want 2 got %d", item.Quantity)
	}

	// 同一 SKU 再次加入只保留一条，数量取最新值
	if _, err := svc.AddItem(1, sku.ID, 3); err != nil {
		t.Fatalf("add again failed: %v", err)
	}
	items, err := f.cartRepo.ListByUser(1)
	if err != nil {
		t.Fatalf("list cart failed: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != 3 {
		t.Fatalf("cart want single line qty 3 got %+v", items)
	}
}

func TestCartAddItemRejectsBadInput(t *testing.T) {
	svc, f := setupCartServiceTest(t)
	sku := f.createTestCatalog(t, "cart-bad", 199000, 2)

	if _, err := svc.AddItem(1, sku.ID, 0); !errors.Is(err, ErrQuantityInvalid) {
		t.Fatalf("zero quantity want ErrQuantityInvalid got %v", err)
	}
	if _, err := svc.AddItem(1, 9999, 1); !errors.Is(err, ErrSKUNotFound) {
		t.Fatalf("missing sku want ErrSKUNotFound got %v", err)
	}
	if _, err := svc.AddItem(1, sku.ID, 3); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("over stock want ErrInsufficientStock got %v", err)
	}
}

func TestCartUpdateQuantity(t *testing.T) {
	svc, f := setupCartServiceTest(t)
	sku := f.createTestCatalog(t, "cart-update", 199000, 10)

	if _, err := svc.AddItem(1, sku.ID, 1); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if err := svc.UpdateQuantity(1, sku.ID, 4); err != nil {
		t.Fatalf("update quantity failed: %v", err)
	}
	got, err := f.cartRepo.GetByUserAndSKU(1, sku.ID)
	if err != nil {
		t.Fatalf("get cart item failed: %v", err)
	}
	if got == nil || got.Quantity != 4 {
		t.Fatalf("quantity want 4 got %+v", got)
	}

	if err := svc.UpdateQuantity(1, sku.ID, 0); !errors.Is(err, ErrQuantityInvalid) {
		t.Fatalf("zero quantity want ErrQuantityInvalid got %v", err)
	}
	if err := svc.UpdateQuantity(2, sku.ID, 1); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("other user want ErrCartItemNotFound got %v", err)
	}
}

func TestCartRemoveAndClear(t *testing.T) {
	svc, f := setupCartServiceTest(t)
	first := f.createTestCatalog(t, "cart-rm-1", 199000, 10)
	second := f.createTestCatalog(t, "cart-rm-2", 299000, 10)

	if _, err := svc.AddItem(1, first.ID, 1); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if _, err := svc.AddItem(1, second.ID, 2); err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	if err := svc.RemoveItem(1, first.ID); err != nil {
		t.Fatalf("remove item failed: %v", err)
	}
	items, err := f.cartRepo.ListByUser(1)
	if err != nil {
		t.Fatalf("list cart failed: %v", err)
	}
	if len(items) != 1 || items[0].SKUID != second.ID {
		t.Fatalf("cart after remove unexpected: %+v", items)
	}

	if err := svc.Clear(1); err != nil {
		t.Fatalf("clear cart failed: %v", err)
	}
	items, err = f.cartRepo.ListByUser(1)
	if err != nil {
		t.Fatalf("list cart failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("cart should be empty got %d items", len(items))
	}
}

func TestCartListAppliesPromotionPricing(t *testing.T) {
	svc, f := setupCartServiceTest(t)
	sku := f.createTestCatalog(t, "cart-promo", 623000, 10)

	var product models.Product
	if err := f.db.First(&product, sku.ProductID).Error; err != nil {
		t.Fatalf("load product failed: %v", err)
	}
	promotion := models.Promotion{
		Name:            "cart-sale",
		DiscountPercent: 30,
		CategoryIDs:     models.UintArray{product.CategoryID},
		IsActive:        true,
	}
	if err := f.db.Create(&promotion).Error; err != nil {
		t.Fatalf("create promotion failed: %v", err)
	}

	if _, err := svc.AddItem(1, sku.ID, 2); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	lines, total, err := svc.List(1)
	if err != nil {
		t.Fatalf("list cart failed: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("lines want 1 got %d", len(lines))
	}
	if !lines[0].UnitPrice.Decimal.Equal(decimal.NewFromInt(436100)) {
		t.Fatalf("unit price want 436100 got %s", lines[0].UnitPrice.String())
	}
	if !lines[0].LineTotal.Decimal.Equal(decimal.NewFromInt(872200)) {
		t.Fatalf("line total want 872200 got %s", lines[0].LineTotal.String())
	}
	if !total.Decimal.Equal(decimal.NewFromInt(872200)) {
		t.Fatalf("total want 872200 got %s", total.String())
	}
	if !lines[0].InStock {
		t.Fatalf("line should be in stock")
	}
}

func TestCartListFlagsOutOfStock(t *testing.T) {
	svc, f := setupCartServiceTest(t)
	sku := f.createTestCatalog(t, "cart-oos", 199000, 3)

	if _, err := svc.AddItem(1, sku.ID, 3); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	// 加入后库存被他人买走
	if err := f.db.Model(&models.ProductSKU{}).Where("id = ?", sku.ID).Update("stock", 1).Error; err != nil {
		t.Fatalf("shrink stock failed: %v", err)
	}

	lines, _, err := svc.List(1)
	if err != nil {
		t.Fatalf("list cart failed: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("lines want 1 got %d", len(lines))
	}
	if lines[0].InStock {
		t.Fatalf("line should be flagged out of stock")
	}
}
