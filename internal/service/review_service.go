package service

import (
	"strings"

	"github.com/modeva-next/internal/models"
	"github.com/modeva-next/internal/repository"
)

// ReviewService 商品评价服务
type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
}

// NewReviewService 创建评价服务
func NewReviewService(reviewRepo repository.ReviewRepository, orderRepo repository.OrderRepository, productRepo repository.ProductRepository) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

// Create 创建评价：仅限买过该商品的用户，且每人每商品一条。
func (s *ReviewService) Create(userID, productID uint, rating int, content string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrRatingInvalid
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	purchased, err := s.orderRepo.HasPurchasedProduct(userID, productID)
	if err != nil {
		return nil, err
	}
	if !purchased {
		return nil, ErrReviewNotAllowed
	}

	existing, err := s.reviewRepo.GetByUserAndProduct(userID, productID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrReviewExists
	}

	review := &models.Review{
		UserID:    userID,
		ProductID: productID,
		Rating:    rating,
		Content:   strings.TrimSpace(content),
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}
	return review, nil
}

// ListByProduct 商品评价列表
func (s *ReviewService) ListByProduct(productID uint, page, pageSize int) ([]models.Review, int64, error) {
	return s.reviewRepo.List(repository.ReviewListFilter{
		Page:      page,
		PageSize:  pageSize,
		ProductID: productID,
	})
}

// ProductRating 商品评分摘要
func (s *ReviewService) ProductRating(productID uint) (float64, int64, error) {
	return s.reviewRepo.AverageRating(productID)
}
