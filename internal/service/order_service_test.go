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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type orderServiceFixture struct {
	orderService  *OrderService
	couponService *CouponService
	cartRepo      repository.CartRepository
	skuRepo       repository.ProductSKURepository
	db            *gorm.DB
}

func setupOrderServiceTest(t *testing.T) *orderServiceFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:order_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
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
		&models.Order{},
		&models.OrderDetail{},
		&models.Promotion{},
		&models.Coupon{},
		&models.UserCoupon{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	orderRepo := repository.NewOrderRepository(db)
	skuRepo := repository.NewProductSKURepository(db)
	cartRepo := repository.NewCartRepository(db)
	couponService := NewCouponService(repository.NewCouponRepository(db), repository.NewUserCouponRepository(db))
	promotionService := NewPromotionService(repository.NewPromotionRepository(db))
	orderService := NewOrderService(orderRepo, skuRepo, cartRepo, couponService, promotionService, nil)

	return &orderServiceFixture{
		orderService:  orderService,
		couponService: couponService,
		cartRepo:      cartRepo,
		skuRepo:       skuRepo,
		db:            db,
	}
}

// createTestCatalog 建立一个分类 + 颜色 + 商品 + SKU 的最小目录
func (f *orderServiceFixture) createTestCatalog(t *testing.T, slug string, price int64, stock int) *models.ProductSKU {
	t.Helper()
	category := models.Category{Slug: slug + "-cat", Name: "分类-" + slug}
	if err := f.db.Create(&category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	color := models.Color{Name: "黑-" + slug, HexCode: "#000000"}
	if err := f.db.Create(&color).Error; err != nil {
		t.Fatalf("create color failed: %v", err)
	}
	product := models.Product{
		CategoryID:  category.ID,
		Slug:        slug,
		Name:        "商品-" + slug,
		PriceAmount: models.NewMoneyFromInt(price),
		IsActive:    true,
	}
	if err := f.db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	sku := models.ProductSKU{
		ProductID: product.ID,
		ColorID:   color.ID,
		Size:      "M",
		SKUCode:   models.BuildSKUCode(product.ID, color.ID, "M"),
		Stock:     stock,
		IsActive:  true,
	}
	if err := f.db.Create(&sku).Error; err != nil {
		t.Fatalf("create sku failed: %v", err)
	}
	return &sku
}

func baseOrderInput(userID uint, method string, items ...CreateOrderItem) CreateOrderInput {
	return CreateOrderInput{
		UserID:        userID,
		Fullname:      "Nguyễn Văn A",
		Phone:         "0901234567",
		Email:         "a@example.com",
		Address:       "123 Lê Lợi, Q1, TP.HCM",
		PaymentMethod: method,
		Items:         items,
	}
}

func (f *orderServiceFixture) reloadSKU(t *testing.T, id uint) *models.ProductSKU {
	t.Helper()
	var sku models.ProductSKU
	if err := f.db.First(&sku, id).Error; err != nil {
		t.Fatalf("reload sku failed: %v", err)
	}
	return &sku
}

func TestCreateOrderCOD(t *testing.T) {
	f := setupOrderServiceTest(t)
	sku := f.createTestCatalog(t, "ao-thun", 199000, 10)

	// 预置购物车：下单后应被清理
	if err := f.cartRepo.Upsert(&models.CartItem{UserID: 1, SKUID: sku.ID, Quantity: 2}); err != nil {
		t.Fatalf("seed cart failed: %v", err)
	}

	order, err := f.orderService.CreateOrder(baseOrderInput(1, constants.PaymentMethodCOD, CreateOrderItem{SKUCode: sku.SKUCode, Quantity: 2}))
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if order.Status != constants.OrderStatusPending {
		t.Fatalf("cod status want pending got %s", order.Status)
	}
	if order.IsPaid {
		t.Fatalf("cod order should be unpaid")
	}
	if order.ShippingStatus != constants.ShippingStatusPreparing {
		t.Fatalf("shipping status want preparing got %s", order.ShippingStatus)
	}
	if !order.TotalPrice.Decimal.Equal(decimal.NewFromInt(398000)) {
		t.Fatalf("total want 398000 got %s", order.TotalPrice.String())
	}
	if !order.PaymentPrice.Decimal.Equal(order.TotalPrice.Decimal) {
		t.Fatalf("payment price should equal total without coupon")
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 2 {
		t.Fatalf("order items unexpected: %+v", order.Items)
	}

	if got := f.reloadSKU(t, sku.ID); got.Stock != 8 {
		t.Fatalf("stock after order want 8 got %d", got.Stock)
	}
	items, err := f.cartRepo.ListByUser(1)
	if err != nil {
		t.Fatalf("list cart failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("cart should be cleaned, got %d items", len(items))
	}
}

func TestCreateOrderBankingMarksPaid(t *testing.T) {
	f := setupOrderServiceTest(t)
	sku := f.createTestCatalog(t, "so-mi", 389000, 5)

	order, err := f.orderService.CreateOrder(baseOrderInput(1, constants.PaymentMethodBanking, CreateOrderItem{SKUCode: sku.SKUCode, Quantity: 1}))
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if order.Status != constants.OrderStatusProcessing {
		t.Fatalf("banking status want processing got %s", order.Status)
	}
	if !order.IsPaid {
		t.Fatalf("banking order should be paid")
	}
}

func TestCreateOrderMergesDuplicateItems(t *testing.T) {
	f := setupOrderServiceTest(t)
	sku := f.createTestCatalog(t, "jean", 459000, 10)

	order, err := f.orderService.CreateOrder(baseOrderInput(1, constants.PaymentMethodCOD,
		CreateOrderItem{SKUCode: sku.SKUCode, Quantity: 1},
		CreateOrderItem{SKUCode: sku.SKUCode, Quantity: 2},
	))
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 3 {
		t.Fatalf("merged items want single line qty 3 got %+v", order.Items)
	}
	if got := f.reloadSKU(t, sku.ID); got.Stock != 7 {
		t.Fatalf("stock want 7 got %d", got.Stock)
	}
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	f := setupOrderServiceTest(t)
	sku := f.createTestCatalog(t, "tote", 149000, 1)

	_, err := f.orderService.CreateOrder(baseOrderInput(1, constants.PaymentMethodCOD, CreateOrderItem{SKUCode: sku.SKUCode, Quantity: 2}))
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("want insufficient stock got %v", err)
	}
	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("want InsufficientStockError got %T", err)
	}
	if stockErr.Available != 1 {
		t.Fatalf("available want 1 got %d", stockErr.Available)
	}
	// 校验失败不应扣库存、不落单
	if got := f.reloadSKU(t, sku.ID); got.Stock != 1 {
		t.Fatalf("stock should stay 1 got %d", got.Stock)
	}
	var count int64
	f.db.Model(&models.Order{}).Count(&count)
	if count != 0 {
		t.Fatalf("no order should exist, got %d", count)
	}
}

func TestCreateOrderValidatesInput(t *testing.T) {
	f := setupOrderServiceTest(t)
	sku := f.createTestCatalog(t, "valid", 199000, 10)

	if _, err := f.orderService.CreateOrder(baseOrderInput(1, constants.PaymentMethodCOD)); !errors.Is(err, ErrOrderItemsEmpty) {
		t.Fatalf("empty items want ErrOrderItemsEmpty got %v", err)
	}
	if _, err := f.orderService.CreateOrder(baseOrderInput(1, "paypal", CreateOrderItem{SKUCode: sku.SKUCode, Quantity: 1})); !errors.Is(err, ErrPaymentMethodInvalid) {
		t.Fatalf("bad method want ErrPaymentMethodInvalid got %v", err)
	}
	if _, err := f.orderService.CreateOrder(baseOrderInput(1, constants.PaymentMethodCOD, CreateOrderItem{SKUCode: sku.SKUCode, Quantity: 0})); !errors.Is(err, ErrQuantityInvalid) {
		t.Fatalf("zero quantity want ErrQuantityInvalid got %v", err)
	}
	if _, err := f.orderService.CreateOrder(baseOrderInput(1, constants.PaymentMethodCOD, CreateOrderItem{SKUCode: "missing", Quantity: 1})); !errors.Is(err, ErrSKUNotFound) {
		t.Fatalf("missing sku want ErrSKUNotFound got %v", err)
	}
}

func TestCreateOrderAppliesPromotionAndCoupon(t *testing.T) {
	f := setupOrderServiceTest(t)
	sku := f.createTestCatalog(t, "dam-hoa", 623000, 10)

	var product models.Product
	if err := f.db.First(&product, sku.ProductID).Error; err != nil {
		t.Fatalf("load product failed: %v", err)
	}
	promotion := models.Promotion{
		Name:            "dress-sale",
		DiscountPercent: 30,
		CategoryIDs:     models.UintArray{product.CategoryID},
		IsActive:        true,
	}
	if err := f.db.Create(&promotion).Error; err != nil {
		t.Fatalf("create promotion failed: %v", err)
	}
	coupon := models.Coupon{
		Code:               "WELCOME50",
		DiscountType:       constants.CouponTypeFixed,
		DiscountValue:      models.NewMoneyFromInt(50000),
		AppliedCategoryIDs: models.UintArray{product.CategoryID},
		UsageLimit:         1,
		IsActive:           true,
	}
	if err := f.db.Create(&coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}
	userCoupon, err := f.couponService.GrantToUser(1, coupon.ID)
	if err != nil {
		t.Fatalf("grant coupon failed: %v", err)
	}

	input := baseOrderInput(1, constants.PaymentMethodCOD, CreateOrderItem{SKUCode: sku.SKUCode, Quantity: 2})
	input.UserCouponID = &userCoupon.ID
	order, err := f.orderService.CreateOrder(input)
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	// 623000*0.7=436100/件，小计 872200，再减券 50000
	if !order.TotalPrice.Decimal.Equal(decimal.NewFromInt(872200)) {
		t.Fatalf("total want 872200 got %s", order.TotalPrice.String())
	}
	if !order.PaymentPrice.Decimal.Equal(decimal.NewFromInt(822200)) {
		t.Fatalf("payment want 822200 got %s", order.PaymentPrice.String())
	}
	if !order.Items[0].UnitPrice.Decimal.Equal(decimal.NewFromInt(436100)) {
		t.Fatalf("unit price want 436100 got %s", order.Items[0].UnitPrice.String())
	}

	var gotUserCoupon models.UserCoupon
	if err := f.db.First(&gotUserCoupon, userCoupon.ID).Error; err != nil {
		t.Fatalf("reload user coupon failed: %v", err)
	}
	if gotUserCoupon.UsageLeft != 0 || gotUserCoupon.Status != constants.UserCouponStatusUsed {
		t.Fatalf("user coupon should be consumed, got %s/%d", gotUserCoupon.Status, gotUserCoupon.UsageLeft)
	}
}

func TestCancelOrderRestoresStockAndCoupon(t *testing.T) {
	f := setupOrderServiceTest(t)
	sku := f.createTestCatalog(t, "cancel-me", 199000, 10)

	var product models.Product
	if err := f.db.First(&product, sku.ProductID).Error; err != nil {
		t.Fatalf("load product failed: %v", err)
	}
	coupon := models.Coupon{
		Code:               "CANCEL",
		DiscountType:       constants.CouponTypeFixed,
		DiscountValue:      models.NewMoneyFromInt(10000),
		AppliedCategoryIDs: models.UintArray{product.CategoryID},
		UsageLimit:         1,
		IsActive:           true,
	}
	if err := f.db.Create(&coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}
	userCoupon, err := f.couponService.GrantToUser(1, coupon.ID)
	if err != nil {
		t.Fatalf("grant coupon failed: %v", err)
	}

	input := baseOrderInput(1, constants.PaymentMethodCOD, CreateOrderItem{SKUCode: sku.SKUCode, Quantity: 3})
	input.UserCouponID = &userCoupon.ID
	order, err := f.orderService.CreateOrder(input)
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if got := f.reloadSKU(t, sku.ID); got.Stock != 7 {
		t.Fatalf("stock after order want 7 got %d", got.Stock)
	}

	cancelled, err := f.orderService.CancelOrder(order.ID, 1)
	if err != nil {
		t.Fatalf("cancel order failed: %v", err)
	}
	if cancelled.Status != constants.OrderStatusCancelled {
		t.Fatalf("status want cancelled got %s", cancelled.Status)
	}
	if cancelled.ShippingStatus != constants.ShippingStatusCancelled {
		t.Fatalf("shipping status want cancelled got %s", cancelled.ShippingStatus)
	}
	if cancelled.CanceledAt == nil {
		t.Fatalf("canceled_at should be set")
	}

	if got := f.reloadSKU(t, sku.ID); got.Stock != 10 {
		t.Fatalf("stock after cancel want 10 got %d", got.Stock)
	}
	var gotUserCoupon models.UserCoupon
	if err := f.db.First(&gotUserCoupon, userCoupon.ID).Error; err != nil {
		t.Fatalf("reload user coupon failed: %v", err)
	}
	if gotUserCoupon.UsageLeft != 1 || gotUserCoupon.Status != constants.UserCouponStatusActive {
		t.Fatalf("coupon should be restored, got %s/%d", gotUserCoupon.Status, gotUserCoupon.UsageLeft)
	}

	// 再取消进入终态报错
	if _, err := f.orderService.CancelOrder(order.ID, 1); !errors.Is(err, ErrOrderNotCancellable) {
		t.Fatalf("second cancel want ErrOrderNotCancellable got %v", err)
	}
}

func TestCancelOrderRejectsShippedOrder(t *testing.T) {
	f := setupOrderServiceTest(t)
	sku := f.createTestCatalog(t, "shipped", 199000, 5)

	order, err := f.orderService.CreateOrder(baseOrderInput(1, constants.PaymentMethodBanking, CreateOrderItem{SKUCode: sku.SKUCode, Quantity: 1}))
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	// banking 订单直接 processing，不可用户取消
	if _, err := f.orderService.CancelOrder(order.ID, 1); !errors.Is(err, ErrOrderNotCancellable) {
		t.Fatalf("cancel processing order want ErrOrderNotCancellable got %v", err)
	}
	if _, err := f.orderService.CancelOrder(order.ID, 2); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("cancel other user's order want ErrOrderNotFound got %v", err)
	}
}

func TestUpdateOrderStatusTransitions(t *testing.T) {
	f := setupOrderServiceTest(t)
	sku := f.createTestCatalog(t, "flow", 199000, 5)

	order, err := f.orderService.CreateOrder(baseOrderInput(1, constants.PaymentMethodCOD, CreateOrderItem{SKUCode: sku.SKUCode, Quantity: 1}))
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	// pending -> completed 不允许
	if _, err := f.orderService.UpdateOrderStatus(order.ID, constants.OrderStatusCompleted); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("pending->completed want ErrOrderStatusInvalid got %v", err)
	}

	updated, err := f.orderService.UpdateOrderStatus(order.ID, constants.OrderStatusConfirmed)
	if err != nil {
		t.Fatalf("pending->confirmed failed: %v", err)
	}
	if updated.Status != constants.OrderStatusConfirmed {
		t.Fatalf("status want confirmed got %s", updated.Status)
	}

	if _, err := f.orderService.UpdateOrderStatus(order.ID, constants.OrderStatusCompleted); err != nil {
		t.Fatalf("confirmed->completed failed: %v", err)
	}

	// 终态不可再变更
	if _, err := f.orderService.UpdateOrderStatus(order.ID, constants.OrderStatusCancelled); !errors.Is(err, ErrOrderStatusImmutable) {
		t.Fatalf("terminal transition want ErrOrderStatusImmutable got %v", err)
	}
}

func TestAdminCancelRestoresStock(t *testing.T) {
	f := setupOrderServiceTest(t)
	sku := f.createTestCatalog(t, "admin-cancel", 199000, 5)

	order, err := f.orderService.CreateOrder(baseOrderInput(1, constants.PaymentMethodCOD, CreateOrderItem{SKUCode: sku.SKUCode, Quantity: 2}))
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	cancelled, err := f.orderService.UpdateOrderStatus(order.ID, constants.OrderStatusCancelled)
	if err != nil {
		t.Fatalf("admin cancel failed: %v", err)
	}
	if cancelled.Status != constants.OrderStatusCancelled {
		t.Fatalf("status want cancelled got %s", cancelled.Status)
	}
	if got := f.reloadSKU(t, sku.ID); got.Stock != 5 {
		t.Fatalf("stock after admin cancel want 5 got %d", got.Stock)
	}
}

func TestUpdateShippingStatusLinkage(t *testing.T) {
	f := setupOrderServiceTest(t)
	sku := f.createTestCatalog(t, "linkage", 199000, 10)

	// 已支付订单：delivered 自动完成
	paid, err := f.orderService.CreateOrder(baseOrderInput(1, constants.PaymentMethodBanking, CreateOrderItem{SKUCode: sku.SKUCode, Quantity: 1}))
	if err != nil {
		t.Fatalf("create paid order failed: %v", err)
	}
	updated, err := f.orderService.UpdateShippingStatus(paid.ID, constants.ShippingStatusDelivered)
	if err != nil {
		t.Fatalf("delivered failed: %v", err)
	}
	if updated.Status != constants.OrderStatusCompleted {
		t.Fatalf("delivered paid order want completed got %s", updated.Status)
	}

	// 未支付订单：delivered 不自动完成
	unpaid, err := f.orderService.CreateOrder(baseOrderInput(2, constants.PaymentMethodCOD, CreateOrderItem{SKUCode: sku.SKUCode, Quantity: 1}))
	if err != nil {
		t.Fatalf("create unpaid order failed: %v", err)
	}
	updated, err = f.orderService.UpdateShippingStatus(unpaid.ID, constants.ShippingStatusDelivered)
	if err != nil {
		t.Fatalf("delivered unpaid failed: %v", err)
	}
	if updated.Status != constants.OrderStatusPending {
		t.Fatalf("delivered unpaid order want pending got %s", updated.Status)
	}

	// 退货触发 refunded
	updated, err = f.orderService.UpdateShippingStatus(unpaid.ID, constants.ShippingStatusReturned)
	if err != nil {
		t.Fatalf("returned failed: %v", err)
	}
	if updated.Status != constants.OrderStatusRefunded {
		t.Fatalf("returned order want refunded got %s", updated.Status)
	}

	if _, err := f.orderService.UpdateShippingStatus(paid.ID, "flying"); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("bad shipping status want ErrOrderStatusInvalid got %v", err)
	}
}

func TestMarkPaidCompletesDeliveredOrder(t *testing.T) {
	f := setupOrderServiceTest(t)
	sku := f.createTestCatalog(t, "mark-paid", 199000, 10)

	order, err := f.orderService.CreateOrder(baseOrderInput(1, constants.PaymentMethodCOD, CreateOrderItem{SKUCode: sku.SKUCode, Quantity: 1}))
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	// 送达但未支付
	if _, err := f.orderService.UpdateShippingStatus(order.ID, constants.ShippingStatusDelivered); err != nil {
		t.Fatalf("delivered failed: %v", err)
	}

	updated, err := f.orderService.MarkPaid(order.ID)
	if err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	if !updated.IsPaid {
		t.Fatalf("order should be paid")
	}
	if updated.Status != constants.OrderStatusCompleted {
		t.Fatalf("delivered+paid want completed got %s", updated.Status)
	}

	// 终态后再确认收款报错
	if _, err := f.orderService.MarkPaid(order.ID); !errors.Is(err, ErrOrderStatusImmutable) {
		t.Fatalf("mark paid on terminal want ErrOrderStatusImmutable got %v", err)
	}
}

func TestPreviewOrderDoesNotPersist(t *testing.T) {
	f := setupOrderServiceTest(t)
	sku := f.createTestCatalog(t, "preview", 623000, 10)

	preview, err := f.orderService.PreviewOrder(baseOrderInput(1, constants.PaymentMethodCOD, CreateOrderItem{SKUCode: sku.SKUCode, Quantity: 2}))
	if err != nil {
		t.Fatalf("preview failed: %v", err)
	}
	if !preview.TotalPrice.Decimal.Equal(decimal.NewFromInt(1246000)) {
		t.Fatalf("preview total want 1246000 got %s", preview.TotalPrice.String())
	}
	if !preview.PaymentPrice.Decimal.Equal(preview.TotalPrice.Decimal) {
		t.Fatalf("preview without coupon: payment should equal total")
	}

	var count int64
	f.db.Model(&models.Order{}).Count(&count)
	if count != 0 {
		t.Fatalf("preview must not create order, got %d", count)
	}
	if got := f.reloadSKU(t, sku.ID); got.Stock != 10 {
		t.Fatalf("preview must not touch stock, got %d", got.Stock)
	}
}
