package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/modeva-next/internal/models"
	"github.com/modeva-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupPromotionServiceTest(t *testing.T) (*PromotionService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:promotion_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Promotion{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return NewPromotionService(repository.NewPromotionRepository(db)), db
}

func createTestPromotion(t *testing.T, db *gorm.DB, name string, percent int, productIDs models.UintArray, categoryIDs models.UintArray, active bool, endsAt *time.Time) *models.Promotion {
	t.Helper()
	promotion := &models.Promotion{
		Name:            name,
		DiscountPercent: percent,
		ProductIDs:      productIDs,
		CategoryIDs:     categoryIDs,
		IsActive:        active,
		EndsAt:          endsAt,
	}
	if err := db.Create(promotion).Error; err != nil {
		t.Fatalf("create promotion failed: %v", err)
	}
	if !active {
		// is_active 带 default:true，零值 false 会被 GORM 省略，需显式落库
		if err := db.Model(promotion).Update("is_active", false).Error; err != nil {
			t.Fatalf("deactivate promotion failed: %v", err)
		}
	}
	return promotion
}

func TestResolveBestPicksHighestDiscount(t *testing.T) {
	svc, db := setupPromotionServiceTest(t)
	now := time.Now()

	createTestPromotion(t, db, "weak", 10, models.UintArray{7}, nil, true, nil)
	strong := createTestPromotion(t, db, "strong", 30, nil, models.UintArray{3}, true, nil)

	best, err := svc.ResolveBest(7, 3, "7_1_M", now)
	if err != nil {
		t.Fatalf("resolve best failed: %v", err)
	}
	if best == nil || best.ID != strong.ID {
		t.Fatalf("resolve best want promotion %d got %+v", strong.ID, best)
	}
}

func TestResolveBestTieBreaksOnNewerPromotion(t *testing.T) {
	svc, db := setupPromotionServiceTest(t)
	now := time.Now()

	createTestPromotion(t, db, "older", 20, models.UintArray{7}, nil, true, nil)
	newer := createTestPromotion(t, db, "newer", 20, models.UintArray{7}, nil, true, nil)

	best, err := svc.ResolveBest(7, 3, "7_1_M", now)
	if err != nil {
		t.Fatalf("resolve best failed: %v", err)
	}
	if best == nil || best.ID != newer.ID {
		t.Fatalf("tie break want promotion %d got %+v", newer.ID, best)
	}
}

func TestResolveBestSkipsInactiveAndExpired(t *testing.T) {
	svc, db := setupPromotionServiceTest(t)
	now := time.Now()
	expired := now.Add(-time.Hour)

	createTestPromotion(t, db, "inactive", 50, models.UintArray{7}, nil, false, nil)
	createTestPromotion(t, db, "expired", 40, models.UintArray{7}, nil, true, &expired)

	best, err := svc.ResolveBest(7, 3, "7_1_M", now)
	if err != nil {
		t.Fatalf("resolve best failed: %v", err)
	}
	if best != nil {
		t.Fatalf("resolve best want nil got %+v", best)
	}
}

func TestResolveBestMatchesSKUCode(t *testing.T) {
	svc, db := setupPromotionServiceTest(t)
	now := time.Now()

	promo := &models.Promotion{
		Name:            "sku-only",
		DiscountPercent: 15,
		SKUCodes:        models.StringArray{"7_1_M"},
		IsActive:        true,
	}
	if err := db.Create(promo).Error; err != nil {
		t.Fatalf("create promotion failed: %v", err)
	}

	best, err := svc.ResolveBest(99, 99, "7_1_M", now)
	if err != nil {
		t.Fatalf("resolve best failed: %v", err)
	}
	if best == nil || best.ID != promo.ID {
		t.Fatalf("sku match want promotion %d got %+v", promo.ID, best)
	}
}

func TestPriceForAppliesDiscount(t *testing.T) {
	svc, db := setupPromotionServiceTest(t)
	now := time.Now()
	createTestPromotion(t, db, "dress-sale", 30, nil, models.UintArray{4}, true, nil)

	promotion, price, err := svc.PriceFor(models.NewMoneyFromInt(623000), 10, 4, "10_2_S", now)
	if err != nil {
		t.Fatalf("price for failed: %v", err)
	}
	if promotion == nil {
		t.Fatalf("price for want promotion got nil")
	}
	if !price.Decimal.Equal(decimal.NewFromInt(436100)) {
		t.Fatalf("discounted price want 436100 got %s", price.String())
	}

	promotion, price, err = svc.PriceFor(models.NewMoneyFromInt(623000), 10, 9, "10_2_S", now)
	if err != nil {
		t.Fatalf("price for failed: %v", err)
	}
	if promotion != nil {
		t.Fatalf("price for want no promotion got %+v", promotion)
	}
	if !price.Decimal.Equal(decimal.NewFromInt(623000)) {
		t.Fatalf("base price want 623000 got %s", price.String())
	}
}

func TestDeactivateExpired(t *testing.T) {
	svc, db := setupPromotionServiceTest(t)
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	expired := createTestPromotion(t, db, "expired", 20, models.UintArray{1}, nil, true, &past)
	alive := createTestPromotion(t, db, "alive", 20, models.UintArray{1}, nil, true, &future)

	affected, err := svc.DeactivateExpired(now)
	if err != nil {
		t.Fatalf("deactivate expired failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("deactivate affected want 1 got %d", affected)
	}

	var got models.Promotion
	if err := db.First(&got, expired.ID).Error; err != nil {
		t.Fatalf("reload expired failed: %v", err)
	}
	if got.IsActive {
		t.Fatalf("expired promotion should be inactive")
	}
	got = models.Promotion{}
	if err := db.First(&got, alive.ID).Error; err != nil {
		t.Fatalf("reload alive failed: %v", err)
	}
	if !got.IsActive {
		t.Fatalf("alive promotion should stay active")
	}
}

func TestCreatePromotionValidatesPercent(t *testing.T) {
	svc, _ := setupPromotionServiceTest(t)

	if err := svc.Create(&models.Promotion{Name: "bad", DiscountPercent: 0}); err != ErrPromotionInvalid {
		t.Fatalf("create percent 0 want ErrPromotionInvalid got %v", err)
	}
	if err := svc.Create(&models.Promotion{Name: "bad", DiscountPercent: 101}); err != ErrPromotionInvalid {
		t.Fatalf("create percent 101 want ErrPromotionInvalid got %v", err)
	}
	if err := svc.Create(&models.Promotion{Name: "ok", DiscountPercent: 100}); err != nil {
		t.Fatalf("create percent 100 failed: %v", err)
	}
}
