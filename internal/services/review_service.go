package services

import (
	"fmt"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// ReviewService handles business logic related to product reviews.
type ReviewService struct {
	reviewRepo  repositories.ReviewRepository
	productRepo repositories.ProductRepository
}

// NewReviewService creates a new ReviewService.
func NewReviewService(reviewRepo repositories.ReviewRepository, productRepo repositories.ProductRepository) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
	}
}

// CreateReview records a user's rating of a product and recomputes the
// product's average rating. Ratings outside [1,5] are rejected.
func (s *ReviewService) CreateReview(review *models.Review) error {
	if review.Rating < 1 || review.Rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5, got %d", review.Rating)
	}
	if _, err := s.productRepo.GetByID(review.ProductID); err != nil {
		return fmt.Errorf("product %s not found: %w", review.ProductID, err)
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return err
	}
	return s.refreshRating(review.ProductID)
}

// GetReviewByID retrieves a single review.
func (s *ReviewService) GetReviewByID(id string) (*models.Review, error) {
	return s.reviewRepo.GetByID(id)
}

// ListReviewsByProduct retrieves all reviews of a product.
func (s *ReviewService) ListReviewsByProduct(productID string) ([]models.Review, error) {
	return s.reviewRepo.ListByProduct(productID)
}

// DeleteReview removes a review and recomputes the product's average rating.
// Only the review's author or an admin may delete it.
func (s *ReviewService) DeleteReview(id, requesterID string, requesterRole models.Role) error {
	review, err := s.reviewRepo.GetByID(id)
	if err != nil {
		return err
	}
	if review.UserID != requesterID && requesterRole != models.RoleAdmin {
		return fmt.Errorf("review %s does not belong to user %s", id, requesterID)
	}
	if err := s.reviewRepo.Delete(id); err != nil {
		return err
	}
	return s.refreshRating(review.ProductID)
}

func (s *ReviewService) refreshRating(productID string) error {
	avg, err := s.reviewRepo.AverageRating(productID)
	if err != nil {
		return err
	}
	return s.productRepo.SetRating(productID, avg)
}
