package provider

import (
	"github.com/modeva-next/internal/cache"
	"github.com/modeva-next/internal/config"
	"github.com/modeva-next/internal/logger"
	"github.com/modeva-next/internal/models"
	"github.com/modeva-next/internal/queue"
	"github.com/modeva-next/internal/repository"
	"github.com/modeva-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo        repository.AdminRepository
	UserRepo         repository.UserRepository
	CategoryRepo     repository.CategoryRepository
	ColorRepo        repository.ColorRepository
	ProductRepo      repository.ProductRepository
	ProductSKURepo   repository.ProductSKURepository
	PromotionRepo    repository.PromotionRepository
	CouponRepo       repository.CouponRepository
	UserCouponRepo   repository.UserCouponRepository
	CartRepo         repository.CartRepository
	OrderRepo        repository.OrderRepository
	ReviewRepo       repository.ReviewRepository
	NotificationRepo repository.NotificationRepository

	// Services
	AuthService         *service.AuthService
	UserAuthService     *service.UserAuthService
	EmailService        *service.EmailService
	CatalogService      *service.CatalogService
	ProductAdminService *service.ProductAdminService
	PromotionService    *service.PromotionService
	CouponService       *service.CouponService
	CouponAdminService  *service.CouponAdminService
	CartService         *service.CartService
	OrderService        *service.OrderService
	ReviewService       *service.ReviewService
	NotificationService *service.NotificationService
	AssistantService    *service.AssistantService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ColorRepo = repository.NewColorRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.ProductSKURepo = repository.NewProductSKURepository(db)
	c.PromotionRepo = repository.NewPromotionRepository(db)
	c.CouponRepo = repository.NewCouponRepository(db)
	c.UserCouponRepo = repository.NewUserCouponRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.ReviewRepo = repository.NewReviewRepository(db)
	c.NotificationRepo = repository.NewNotificationRepository(db)
}

func (c *Container) initServices() {
	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo)
	c.PromotionService = service.NewPromotionService(c.PromotionRepo)
	c.CatalogService = service.NewCatalogService(c.Config, c.ProductRepo, c.CategoryRepo, c.ColorRepo, c.ProductSKURepo, c.PromotionService)
	c.ProductAdminService = service.NewProductAdminService(c.ProductRepo, c.ProductSKURepo, c.CategoryRepo, c.ColorRepo)
	c.CouponService = service.NewCouponService(c.CouponRepo, c.UserCouponRepo)
	c.CouponAdminService = service.NewCouponAdminService(c.CouponRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductSKURepo, c.PromotionService)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.ProductSKURepo, c.CartRepo, c.CouponService, c.PromotionService, c.QueueClient)
	c.ReviewService = service.NewReviewService(c.ReviewRepo, c.OrderRepo, c.ProductRepo)
	c.NotificationService = service.NewNotificationService(c.NotificationRepo, c.OrderRepo, c.UserRepo, c.EmailService)
	c.AssistantService = service.NewAssistantService(&c.Config.Assistant, c.ProductRepo)
}
