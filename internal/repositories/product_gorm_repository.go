package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"storefront/internal/models"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// List retrieves products matching the filter.
func (r *GORMProductRepository) List(filter ProductFilter) ([]models.Product, error) {
	q := r.db.Model(&models.Product{})
	if filter.CategoryID != "" {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	var products []models.Product
	if err := q.Order("created_at desc").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a product with its images, variants and specifications.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	err := r.db.
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Variants").
		Preload("Specifications").
		First(&product, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("product with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Create inserts a new product, including any nested images, variants and
// specifications, in one transaction. The category must exist.
func (r *GORMProductRepository) Create(product *models.Product) error {
	var count int64
	if err := r.db.Model(&models.Category{}).Where("id = ?", product.CategoryID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check category: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("category with ID %s not found", product.CategoryID)
	}
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update saves changes to the product's own columns. Images, variants and
// specifications are managed through their own Add methods.
func (r *GORMProductRepository) Update(product *models.Product) error {
	res := r.db.Model(&models.Product{}).Where("id = ?", product.ID).Updates(map[string]interface{}{
		"name":           product.Name,
		"description":    product.Description,
		"price_cents":    product.PriceCents,
		"discount_cents": product.DiscountCents,
		"category_id":    product.CategoryID,
		"stock":          product.Stock,
		"status":         product.Status,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s not found for update", product.ID)
	}
	return nil
}

// UpdateStatus flips the product lifecycle status. This is the soft-delete
// path for products that are referenced by orders or reviews.
func (r *GORMProductRepository) UpdateStatus(id string, status models.ProductStatus) error {
	res := r.db.Model(&models.Product{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update product status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s not found for status update", id)
	}
	return nil
}

// SetRating stores a recomputed average rating.
func (r *GORMProductRepository) SetRating(id string, rating float64) error {
	res := r.db.Model(&models.Product{}).Where("id = ?", id).Update("rating", rating)
	if res.Error != nil {
		return fmt.Errorf("failed to set product rating: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s not found for rating update", id)
	}
	return nil
}

// Delete hard-deletes a product and its owned rows. Rejected while anything
// else still references the product.
func (r *GORMProductRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		refs := []struct {
			model interface{}
			name  string
		}{
			{&models.OrderItem{}, "order items"},
			{&models.Review{}, "reviews"},
			{&models.CartItem{}, "cart items"},
			{&models.WishlistItem{}, "wishlist items"},
		}
		for _, ref := range refs {
			var count int64
			if err := tx.Model(ref.model).Where("product_id = ?", id).Count(&count).Error; err != nil {
				return fmt.Errorf("failed to check product references: %w", err)
			}
			if count > 0 {
				return fmt.Errorf("product %s is referenced by %d %s and cannot be deleted", id, count, ref.name)
			}
		}

		if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductVariant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductSpecification{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.Product{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete product: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("product with ID %s not found for deletion", id)
		}
		return nil
	})
}

// AddImage attaches an image to a product.
func (r *GORMProductRepository) AddImage(image *models.ProductImage) error {
	if err := r.db.Create(image).Error; err != nil {
		return fmt.Errorf("failed to add product image: %w", err)
	}
	return nil
}

// AddVariant attaches a variant to a product.
func (r *GORMProductRepository) AddVariant(variant *models.ProductVariant) error {
	if err := r.db.Create(variant).Error; err != nil {
		return fmt.Errorf("failed to add product variant: %w", err)
	}
	return nil
}

// AddSpecification attaches a key/value specification to a product.
// Keys are unique per product; a duplicate key is a constraint violation.
func (r *GORMProductRepository) AddSpecification(spec *models.ProductSpecification) error {
	var count int64
	if err := r.db.Model(&models.ProductSpecification{}).
		Where("product_id = ? AND key = ?", spec.ProductID, spec.Key).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check specification key: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("specification key %q already exists for product %s", spec.Key, spec.ProductID)
	}
	if err := r.db.Create(spec).Error; err != nil {
		return fmt.Errorf("failed to add product specification: %w", err)
	}
	return nil
}
