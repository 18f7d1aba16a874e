package services

import (
	"fmt"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// ListProducts retrieves products, optionally filtered by category and status.
func (s *ProductService) ListProducts(filter repositories.ProductFilter) ([]models.Product, error) {
	return s.repo.List(filter)
}

// GetProductByID retrieves a product with its images, variants and specifications.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct creates a new product.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if product.DiscountCents != nil && *product.DiscountCents >= product.PriceCents {
		return fmt.Errorf("discount price must be lower than the regular price")
	}
	return s.repo.Create(product)
}

// UpdateProduct updates an existing product.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	if product.DiscountCents != nil && *product.DiscountCents >= product.PriceCents {
		return fmt.Errorf("discount price must be lower than the regular price")
	}
	return s.repo.Update(product)
}

// DiscontinueProduct soft-deletes a product by flipping its status. This is
// the supported removal path for products already referenced by orders,
// reviews, carts or wishlists.
func (s *ProductService) DiscontinueProduct(id string) error {
	return s.repo.UpdateStatus(id, models.ProductDiscontinued)
}

// DeleteProduct hard-deletes a product and its owned images, variants and
// specifications. The repository rejects the delete while anything else
// still references the product.
func (s *ProductService) DeleteProduct(id string) error {
	return s.repo.Delete(id)
}

// AddImage attaches an image to a product.
func (s *ProductService) AddImage(image *models.ProductImage) error {
	return s.repo.AddImage(image)
}

// AddVariant attaches a variant to a product.
func (s *ProductService) AddVariant(variant *models.ProductVariant) error {
	return s.repo.AddVariant(variant)
}

// AddSpecification attaches a key/value specification to a product.
func (s *ProductService) AddSpecification(spec *models.ProductSpecification) error {
	return s.repo.AddSpecification(spec)
}
