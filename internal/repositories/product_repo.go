package repositories

import "storefront/internal/models"

// ProductFilter narrows product listings.
type ProductFilter struct {
	CategoryID string
	Status     models.ProductStatus
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	List(filter ProductFilter) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	UpdateStatus(id string, status models.ProductStatus) error
	SetRating(id string, rating float64) error
	// Delete removes a product together with its images, variants and
	// specifications. Rejected while order items, reviews, cart items or
	// wishlist items still reference the product; flip its status to
	// discontinued instead.
	Delete(id string) error
	AddImage(image *models.ProductImage) error
	AddVariant(variant *models.ProductVariant) error
	AddSpecification(spec *models.ProductSpecification) error
}
