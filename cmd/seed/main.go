package main

import (
	"fmt"
	"time"

	"github.com/modeva-next/internal/config"
	"github.com/modeva-next/internal/constants"
	"github.com/modeva-next/internal/logger"
	"github.com/modeva-next/internal/models"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加分类
	categories := []models.Category{
		{Slug: "ao-thun", Name: "Áo thun", Icon: "shirt", SortOrder: 100},
		{Slug: "ao-so-mi", Name: "Áo sơ mi", Icon: "shirt-outline", SortOrder: 90},
		{Slug: "quan-jean", Name: "Quần jean", Icon: "jeans", SortOrder: 80},
		{Slug: "vay-dam", Name: "Váy đầm", Icon: "dress", SortOrder: 70},
		{Slug: "phu-kien", Name: "Phụ kiện", Icon: "bag", SortOrder: 60},
	}
	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("slug = ?", cat.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Slug, err)
			} else {
				stdLog.Printf("Created category: %s", cat.Slug)
			}
		} else {
			stdLog.Printf("Category already exists: %s", cat.Slug)
		}
	}

	categoryIDs := map[string]uint{}
	var categoryList []models.Category
	if err := models.DB.Find(&categoryList).Error; err != nil {
		stdLog.Printf("Failed to load categories: %v", err)
	}
	for _, cat := range categoryList {
		categoryIDs[cat.Slug] = cat.ID
	}

	// 添加颜色
	colors := []models.Color{
		{Name: "Trắng", HexCode: "#FFFFFF"},
		{Name: "Đen", HexCode: "#000000"},
		{Name: "Xanh navy", HexCode: "#1F3A5F"},
		{Name: "Be", HexCode: "#D9C7A7"},
		{Name: "Đỏ đô", HexCode: "#7B1E26"},
	}
	colorIDs := map[string]uint{}
	for _, color := range colors {
		var existing models.Color
		if err := models.DB.Where("name = ?", color.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&color).Error; err != nil {
				stdLog.Printf("Failed to create color %s: %v", color.Name, err)
				continue
			}
			stdLog.Printf("Created color: %s", color.Name)
			colorIDs[color.Name] = color.ID
		} else {
			colorIDs[color.Name] = existing.ID
		}
	}

	// 添加商品与 SKU
	type skuPlan struct {
		Color string
		Size  string
		Stock int
	}
	type productPlan struct {
		Category    string
		Slug        string
		Name        string
		Description string
		Price       string
		Images      []string
		SortOrder   int
		SKUs        []skuPlan
	}
	products := []productPlan{
		{
			Category:    "ao-thun",
			Slug:        "ao-thun-basic-cotton",
			Name:        "Áo thun basic cotton",
			Description: "Chất liệu cotton 100%, form regular, dễ phối đồ.",
			Price:       "199.000",
			Images:      []string{"https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=800"},
			SortOrder:   100,
			SKUs: []skuPlan{
				{Color: "Trắng", Size: "S", Stock: 30},
				{Color: "Trắng", Size: "M", Stock: 40},
				{Color: "Trắng", Size: "L", Stock: 25},
				{Color: "Đen", Size: "M", Stock: 35},
				{Color: "Đen", Size: "L", Stock: 20},
			},
		},
		{
			Category:    "ao-so-mi",
			Slug:        "ao-so-mi-oxford",
			Name:        "Áo sơ mi Oxford dài tay",
			Description: "Vải Oxford đứng form, phù hợp đi làm và dạo phố.",
			Price:       "389.000",
			Images:      []string{"https://images.unsplash.com/photo-1596755094514-f87e34085b2c?w=800"},
			SortOrder:   90,
			SKUs: []skuPlan{
				{Color: "Trắng", Size: "M", Stock: 18},
				{Color: "Xanh navy", Size: "M", Stock: 15},
				{Color: "Xanh navy", Size: "L", Stock: 12},
			},
		},
		{
			Category:    "quan-jean",
			Slug:        "quan-jean-slim-fit",
			Name:        "Quần jean slim fit",
			Description: "Jean co giãn nhẹ, ôm vừa phải, bền màu.",
			Price:       "459.000",
			Images:      []string{"https://images.unsplash.com/photo-1542272604-787c3835535d?w=800"},
			SortOrder:   80,
			SKUs: []skuPlan{
				{Color: "Xanh navy", Size: "29", Stock: 20},
				{Color: "Xanh navy", Size: "30", Stock: 22},
				{Color: "Đen", Size: "30", Stock: 16},
				{Color: "Đen", Size: "31", Stock: 10},
			},
		},
		{
			Category:    "vay-dam",
			Slug:        "dam-hoa-nhi-vintage",
			Name:        "Đầm hoa nhí vintage",
			Description: "Đầm voan hoa nhí, tay phồng nhẹ, phong cách vintage.",
			Price:       "623.000",
			Images:      []string{"https://images.unsplash.com/photo-1572804013309-59a88b7e92f1?w=800"},
			SortOrder:   70,
			SKUs: []skuPlan{
				{Color: "Be", Size: "S", Stock: 8},
				{Color: "Be", Size: "M", Stock: 6},
				{Color: "Đỏ đô", Size: "M", Stock: 4},
			},
		},
		{
			Category:    "phu-kien",
			Slug:        "tui-tote-canvas",
			Name:        "Túi tote canvas",
			Description: "Túi canvas dày dặn, in logo Modeva, đựng vừa laptop 13 inch.",
			Price:       "149.000",
			Images:      []string{"https://images.unsplash.com/photo-1544816155-12df9643f363?w=800"},
			SortOrder:   60,
			SKUs: []skuPlan{
				{Color: "Be", Size: "F", Stock: 50},
				{Color: "Đen", Size: "F", Stock: 2},
			},
		},
	}

	for _, plan := range products {
		categoryID := categoryIDs[plan.Category]
		if categoryID == 0 {
			stdLog.Printf("Skip product %s: category %s missing", plan.Slug, plan.Category)
			continue
		}
		price, err := models.ParseLocalizedAmount(plan.Price)
		if err != nil {
			stdLog.Printf("Skip product %s: bad price %s", plan.Slug, plan.Price)
			continue
		}

		var product models.Product
		if err := models.DB.Where("slug = ?", plan.Slug).First(&product).Error; err != nil {
			product = models.Product{
				CategoryID:  categoryID,
				Slug:        plan.Slug,
				Name:        plan.Name,
				Description: plan.Description,
				PriceAmount: price,
				Images:      models.StringArray(plan.Images),
				IsActive:    true,
				SortOrder:   plan.SortOrder,
			}
			if err := models.DB.Create(&product).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", plan.Slug, err)
				continue
			}
			stdLog.Printf("Created product: %s", plan.Slug)
		} else {
			product.CategoryID = categoryID
			product.Name = plan.Name
			product.Description = plan.Description
			product.PriceAmount = price
			product.Images = models.StringArray(plan.Images)
			product.IsActive = true
			product.SortOrder = plan.SortOrder
			if err := models.DB.Save(&product).Error; err != nil {
				stdLog.Printf("Failed to update product %s: %v", plan.Slug, err)
				continue
			}
			stdLog.Printf("Updated product: %s", plan.Slug)
		}

		for _, item := range plan.SKUs {
			colorID := colorIDs[item.Color]
			if colorID == 0 {
				stdLog.Printf("Skip SKU for %s: color %s missing", plan.Slug, item.Color)
				continue
			}
			skuCode := models.BuildSKUCode(product.ID, colorID, item.Size)
			var existing models.ProductSKU
			if err := models.DB.Where("sku_code = ?", skuCode).First(&existing).Error; err != nil {
				sku := models.ProductSKU{
					ProductID: product.ID,
					ColorID:   colorID,
					Size:      item.Size,
					SKUCode:   skuCode,
					Stock:     item.Stock,
					IsActive:  true,
				}
				if err := models.DB.Create(&sku).Error; err != nil {
					stdLog.Printf("Failed to create SKU %s: %v", skuCode, err)
				}
				continue
			}
			existing.Stock = item.Stock
			existing.IsActive = true
			if err := models.DB.Save(&existing).Error; err != nil {
				stdLog.Printf("Failed to update SKU %s: %v", skuCode, err)
			}
		}
	}

	// 添加折扣活动：váy đầm 全场 7 折
	now := time.Now()
	promoStart := now.Add(-24 * time.Hour)
	promoEnd := now.AddDate(0, 1, 0)
	promotion := models.Promotion{
		Name:            "Sale váy đầm tháng này",
		DiscountPercent: 30,
		CategoryIDs:     models.UintArray{categoryIDs["vay-dam"]},
		StartsAt:        &promoStart,
		EndsAt:          &promoEnd,
		IsActive:        true,
	}
	var existingPromo models.Promotion
	if err := models.DB.Where("name = ?", promotion.Name).First(&existingPromo).Error; err != nil {
		if err := models.DB.Create(&promotion).Error; err != nil {
			stdLog.Printf("Failed to create promotion: %v", err)
		} else {
			stdLog.Printf("Created promotion: %s", promotion.Name)
		}
	} else {
		stdLog.Printf("Promotion already exists: %s", promotion.Name)
	}

	// 添加优惠券
	fixedValue, _ := models.ParseLocalizedAmount("50.000")
	fixedMin, _ := models.ParseLocalizedAmount("500.000")
	percentCap, _ := models.ParseLocalizedAmount("100.000")
	couponEnd := now.AddDate(0, 3, 0)
	coupons := []models.Coupon{
		{
			Code:          "WELCOME50",
			DiscountType:  constants.CouponTypeFixed,
			DiscountValue: fixedValue,
			MinOrderValue: fixedMin,
			UsageLimit:    1,
			EndsAt:        &couponEnd,
			IsActive:      true,
		},
		{
			Code:              "MODEVA10",
			DiscountType:      constants.CouponTypePercentage,
			DiscountValue:     models.NewMoneyFromInt(10),
			MaxDiscountAmount: percentCap,
			MinimumQuantity:   2,
			UsageLimit:        3,
			TotalUsageLimit:   200,
			EndsAt:            &couponEnd,
			IsActive:          true,
		},
	}
	for _, coupon := range coupons {
		var existing models.Coupon
		if err := models.DB.Where("code = ?", coupon.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&coupon).Error; err != nil {
				stdLog.Printf("Failed to create coupon %s: %v", coupon.Code, err)
			} else {
				stdLog.Printf("Created coupon: %s", coupon.Code)
			}
		} else {
			stdLog.Printf("Coupon already exists: %s", coupon.Code)
		}
	}

	fmt.Println("\n✅ Seed data created successfully!")
	fmt.Println("Summary:")
	fmt.Println("- 5 Categories")
	fmt.Println("- 5 Colors")
	fmt.Println("- 5 Products with SKU matrix")
	fmt.Println("- 1 Promotion (váy đầm -30%)")
	fmt.Println("- 2 Coupons (WELCOME50 / MODEVA10)")
}
