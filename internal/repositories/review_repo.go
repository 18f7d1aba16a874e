package repositories

import "storefront/internal/models"

// ReviewRepository defines the interface for review data access.
type ReviewRepository interface {
	Create(review *models.Review) error
	GetByID(id string) (*models.Review, error)
	ListByProduct(productID string) ([]models.Review, error)
	Delete(id string) error
	// AverageRating computes the mean rating over a product's reviews.
	// Returns 0 when the product has none.
	AverageRating(productID string) (float64, error)
}
