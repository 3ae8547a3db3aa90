package router

import (
	"fmt"
	"net/http"

	"github.com/modeva-next/internal/cache"
	"github.com/modeva-next/internal/config"
	adminhandlers "github.com/modeva-next/internal/http/handlers/admin"
	publichandlers "github.com/modeva-next/internal/http/handlers/public"
	"github.com/modeva-next/internal/provider"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRouter 组装全部路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(zap.L()))
	r.Use(CORSMiddleware(cfg.CORS))

	r.Static("/uploads", "./uploads")

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	public := publichandlers.New(c)
	admin := adminhandlers.New(c)

	loginRateLimit := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", cfg.Redis.Prefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
	}

	api := r.Group("/api/v1")
	{
		// 商品目录无需登录
		api.GET("/categories", public.ListCategories)
		api.GET("/colors", public.ListColors)
		api.GET("/products", public.ListProducts)
		api.GET("/products/:slug", public.GetProduct)
		api.GET("/reviews/:product_id", public.ListProductReviews)

		auth := api.Group("/auth")
		{
			auth.POST("/register", public.UserRegister)
			auth.POST("/login",
				RateLimitMiddleware(cache.Client(), loginRateLimit, KeyByIPAndJSONField("email")),
				public.UserLogin,
			)
		}

		authed := api.Group("")
		authed.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		{
			authed.GET("/me", public.GetCurrentUser)
			authed.PUT("/me", public.UpdateUserProfile)

			authed.GET("/cart", public.GetCart)
			authed.POST("/cart/items", public.AddCartItem)
			authed.PUT("/cart/items", public.UpdateCartItem)
			authed.DELETE("/cart/items/:sku_id", public.DeleteCartItem)
			authed.DELETE("/cart", public.ClearCart)

			authed.POST("/orders", public.CreateOrder)
			authed.POST("/orders/preview", public.PreviewOrder)
			authed.GET("/orders", public.ListMyOrders)
			authed.GET("/orders/:id", public.GetMyOrder)
			authed.POST("/orders/:id/cancel", public.CancelMyOrder)

			authed.GET("/coupons", public.ListMyCoupons)

			authed.POST("/reviews", public.CreateReview)

			authed.GET("/notifications", public.ListMyNotifications)
			authed.POST("/notifications/:id/read", public.MarkNotificationRead)
			authed.POST("/notifications/read-all", public.MarkAllNotificationsRead)

			authed.POST("/assistant/chat", public.AssistantChat)
		}
	}

	adminGroup := r.Group("/api/v1/admin")
	{
		adminGroup.POST("/login",
			RateLimitMiddleware(cache.Client(), loginRateLimit, KeyByIP),
			admin.AdminLogin,
		)

		authed := adminGroup.Group("")
		authed.Use(AdminJWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo))
		{
			authed.POST("/change-password", admin.ChangeAdminPassword)

			authed.GET("/orders", admin.ListOrders)
			authed.GET("/orders/:id", admin.GetOrder)
			authed.PUT("/orders/:id/status", admin.UpdateOrderStatus)
			authed.PUT("/orders/:id/shipping-status", admin.UpdateShippingStatus)
			authed.POST("/orders/:id/mark-paid", admin.MarkOrderPaid)

			authed.GET("/products", admin.ListAdminProducts)
			authed.POST("/products", admin.CreateProduct)
			authed.PUT("/products/:id", admin.UpdateProduct)
			authed.DELETE("/products/:id", admin.DeleteProduct)
			authed.POST("/skus/:sku_id/stock", admin.AdjustSKUStock)

			authed.POST("/categories", admin.CreateCategory)
			authed.PUT("/categories/:id", admin.UpdateCategory)
			authed.DELETE("/categories/:id", admin.DeleteCategory)

			authed.POST("/colors", admin.CreateColor)
			authed.PUT("/colors/:id", admin.UpdateColor)
			authed.DELETE("/colors/:id", admin.DeleteColor)

			authed.GET("/coupons", admin.ListCoupons)
			authed.GET("/coupons/:id", admin.GetCoupon)
			authed.POST("/coupons", admin.CreateCoupon)
			authed.PUT("/coupons/:id", admin.UpdateCoupon)
			authed.DELETE("/coupons/:id", admin.DeleteCoupon)
			authed.POST("/coupons/grant", admin.GrantCoupon)
			authed.DELETE("/coupon-grants/:id", admin.RevokeCouponGrant)

			authed.GET("/promotions", admin.ListPromotions)
			authed.GET("/promotions/:id", admin.GetPromotion)
			authed.POST("/promotions", admin.CreatePromotion)
			authed.PUT("/promotions/:id", admin.UpdatePromotion)
			authed.DELETE("/promotions/:id", admin.DeletePromotion)

			authed.GET("/users", admin.ListUsers)
			authed.PUT("/users/:id/status", admin.UpdateUserStatus)
		}
	}

	return r
}
