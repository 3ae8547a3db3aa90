package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/modeva-next/internal/constants"
	"github.com/modeva-next/internal/models"
	"github.com/modeva-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupReviewServiceTest(t *testing.T) (*ReviewService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:review_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderDetail{},
		&models.Review{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	svc := NewReviewService(
		repository.NewReviewRepository(db),
		repository.NewOrderRepository(db),
		repository.NewProductRepository(db),
	)
	return svc, db
}

func createReviewProduct(t *testing.T, db *gorm.DB, slug string) *models.Product {
	t.Helper()
	product := &models.Product{
		CategoryID:  1,
		Slug:        slug,
		Name:        "商品-" + slug,
		PriceAmount: models.NewMoneyFromInt(199000),
		IsActive:    true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func createPurchase(t *testing.T, db *gorm.DB, userID, productID uint, status string) {
	t.Helper()
	order := &models.Order{
		OrderNo:        fmt.Sprintf("MV-test-%d", time.Now().UnixNano()),
		UserID:         userID,
		Status:         status,
		ShippingStatus: constants.ShippingStatusDelivered,
		PaymentMethod:  constants.PaymentMethodCOD,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	detail := &models.OrderDetail{
		OrderID:   order.ID,
		ProductID: productID,
		Quantity:  1,
		UnitPrice: models.NewMoneyFromInt(199000),
	}
	if err := db.Create(detail).Error; err != nil {
		t.Fatalf("create order detail failed: %v", err)
	}
}

func TestCreateReviewPurchaserOnly(t *testing.T) {
	svc, db := setupReviewServiceTest(t)
	product := createReviewProduct(t, db, "review-target")

	// 未购买不可评价
	if _, err := svc.Create(1, product.ID, 5, "đẹp lắm"); !errors.Is(err, ErrReviewNotAllowed) {
		t.Fatalf("non purchaser want ErrReviewNotAllowed got %v", err)
	}

	// 未完成的订单不算购买
	createPurchase(t, db, 1, product.ID, constants.OrderStatusPending)
	if _, err := svc.Create(1, product.ID, 5, "đẹp lắm"); !errors.Is(err, ErrReviewNotAllowed) {
		t.Fatalf("pending order want ErrReviewNotAllowed got %v", err)
	}

	createPurchase(t, db, 1, product.ID, constants.OrderStatusCompleted)
	review, err := svc.Create(1, product.ID, 5, "  đẹp lắm  ")
	if err != nil {
		t.Fatalf("create review failed: %v", err)
	}
	if review.Content != "đẹp lắm" {
		t.Fatalf("content should be trimmed, got %q", review.Content)
	}

	// 每人每商品仅一条
	if _, err := svc.Create(1, product.ID, 4, "lại nữa"); !errors.Is(err, ErrReviewExists) {
		t.Fatalf("duplicate review want ErrReviewExists got %v", err)
	}
}

func TestCreateReviewValidatesInput(t *testing.T) {
	svc, db := setupReviewServiceTest(t)
	product := createReviewProduct(t, db, "review-input")
	createPurchase(t, db, 1, product.ID, constants.OrderStatusCompleted)

	if _, err := svc.Create(1, product.ID, 0, "x"); !errors.Is(err, ErrRatingInvalid) {
		t.Fatalf("rating 0 want ErrRatingInvalid got %v", err)
	}
	if _, err := svc.Create(1, product.ID, 6, "x"); !errors.Is(err, ErrRatingInvalid) {
		t.Fatalf("rating 6 want ErrRatingInvalid got %v", err)
	}
	if _, err := svc.Create(1, 9999, 5, "x"); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("missing product want ErrProductNotFound got %v", err)
	}
}

func TestProductRating(t *testing.T) {
	svc, db := setupReviewServiceTest(t)
	product := createReviewProduct(t, db, "review-rating")
	createPurchase(t, db, 1, product.ID, constants.OrderStatusCompleted)
	createPurchase(t, db, 2, product.ID, constants.OrderStatusCompleted)

	if _, err := svc.Create(1, product.ID, 5, "tuyệt"); err != nil {
		t.Fatalf("create review failed: %v", err)
	}
	if _, err := svc.Create(2, product.ID, 4, "ổn"); err != nil {
		t.Fatalf("create review failed: %v", err)
	}

	avg, count, err := svc.ProductRating(product.ID)
	if err != nil {
		t.Fatalf("product rating failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("rating count want 2 got %d", count)
	}
	if avg < 4.49 || avg > 4.51 {
		t.Fatalf("average want 4.5 got %f", avg)
	}

	reviews, total, err := svc.ListByProduct(product.ID, 1, 10)
	if err != nil {
		t.Fatalf("list reviews failed: %v", err)
	}
	if total != 2 || len(reviews) != 2 {
		t.Fatalf("list want 2 reviews got total=%d len=%d", total, len(reviews))
	}
}
