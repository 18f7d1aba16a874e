package repositories

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"storefront/internal/models"
)

// MockProductRepository is an in-memory implementation of ProductRepository,
// used by service-level tests that don't need a database.
type MockProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

// List returns products matching the filter.
func (r *MockProductRepository) List(filter ProductFilter) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if filter.CategoryID != "" && p.CategoryID != filter.CategoryID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		productList = append(productList, p)
	}
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s not found", id)
	}
	return &product, nil
}

// Create adds a new product.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if product.Status == "" {
		product.Status = models.ProductActive
	}
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[product.ID]
	if !ok {
		return fmt.Errorf("product with ID %s not found for update", product.ID)
	}
	r.products[product.ID] = *product
	return nil
}

// UpdateStatus flips the product lifecycle status.
func (r *MockProductRepository) UpdateStatus(id string, status models.ProductStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product with ID %s not found for status update", id)
	}
	product.Status = status
	r.products[id] = product
	return nil
}

// SetRating stores a recomputed average rating.
func (r *MockProductRepository) SetRating(id string, rating float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product with ID %s not found for rating update", id)
	}
	product.Rating = rating
	r.products[id] = product
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product with ID %s not found for deletion", id)
	}
	delete(r.products, id)
	return nil
}

// AddImage attaches an image to a stored product.
func (r *MockProductRepository) AddImage(image *models.ProductImage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[image.ProductID]
	if !ok {
		return fmt.Errorf("product with ID %s not found", image.ProductID)
	}
	if image.ID == "" {
		image.ID = uuid.New().String()
	}
	product.Images = append(product.Images, *image)
	r.products[image.ProductID] = product
	return nil
}

// AddVariant attaches a variant to a stored product.
func (r *MockProductRepository) AddVariant(variant *models.ProductVariant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[variant.ProductID]
	if !ok {
		return fmt.Errorf("product with ID %s not found", variant.ProductID)
	}
	if variant.ID == "" {
		variant.ID = uuid.New().String()
	}
	product.Variants = append(product.Variants, *variant)
	r.products[variant.ProductID] = product
	return nil
}

// AddSpecification attaches a specification, rejecting duplicate keys.
func (r *MockProductRepository) AddSpecification(spec *models.ProductSpecification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[spec.ProductID]
	if !ok {
		return fmt.Errorf("product with ID %s not found", spec.ProductID)
	}
	for _, existing := range product.Specifications {
		if existing.Key == spec.Key {
			return fmt.Errorf("specification key %q already exists for product %s", spec.Key, spec.ProductID)
		}
	}
	if spec.ID == "" {
		spec.ID = uuid.New().String()
	}
	product.Specifications = append(product.Specifications, *spec)
	r.products[spec.ProductID] = product
	return nil
}
