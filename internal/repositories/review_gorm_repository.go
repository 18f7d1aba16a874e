package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"storefront/internal/models"
)

// GORMReviewRepository is a GORM implementation of ReviewRepository.
type GORMReviewRepository struct {
	db *gorm.DB
}

// NewGORMReviewRepository creates a new instance of GORMReviewRepository.
func NewGORMReviewRepository(db *gorm.DB) *GORMReviewRepository {
	return &GORMReviewRepository{
		db: db,
	}
}

// Create inserts a review, with any nested images. A user can review a
// product at most once.
func (r *GORMReviewRepository) Create(review *models.Review) error {
	var count int64
	if err := r.db.Model(&models.Review{}).
		Where("user_id = ? AND product_id = ?", review.UserID, review.ProductID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check existing review: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("user %s has already reviewed product %s", review.UserID, review.ProductID)
	}
	if err := r.db.Create(review).Error; err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// GetByID retrieves a review with its images.
func (r *GORMReviewRepository) GetByID(id string) (*models.Review, error) {
	var review models.Review
	err := r.db.
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&review, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("review with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get review by ID %s: %w", id, err)
	}
	return &review, nil
}

// ListByProduct retrieves all reviews of a product, newest first.
func (r *GORMReviewRepository) ListByProduct(productID string) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Where("product_id = ?", productID).Order("created_at desc").Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews for product %s: %w", productID, err)
	}
	return reviews, nil
}

// Delete removes a review and its images.
func (r *GORMReviewRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", id).Delete(&models.ReviewImage{}).Error; err != nil {
			return fmt.Errorf("failed to delete review images: %w", err)
		}
		res := tx.Delete(&models.Review{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete review: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("review with ID %s not found for deletion", id)
		}
		return nil
	})
}

// AverageRating computes the mean rating over a product's reviews.
func (r *GORMReviewRepository) AverageRating(productID string) (float64, error) {
	var avg *float64
	err := r.db.Model(&models.Review{}).Where("product_id = ?", productID).
		Select("AVG(rating)").Scan(&avg).Error
	if err != nil {
		return 0, fmt.Errorf("failed to compute average rating for product %s: %w", productID, err)
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}
