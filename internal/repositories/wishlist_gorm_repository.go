package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"storefront/internal/models"
)

// GORMWishlistRepository is a GORM implementation of WishlistRepository.
type GORMWishlistRepository struct {
	db *gorm.DB
}

// NewGORMWishlistRepository creates a new instance of GORMWishlistRepository.
func NewGORMWishlistRepository(db *gorm.DB) *GORMWishlistRepository {
	return &GORMWishlistRepository{
		db: db,
	}
}

// Create inserts a new wishlist.
func (r *GORMWishlistRepository) Create(wishlist *models.Wishlist) error {
	if err := r.db.Create(wishlist).Error; err != nil {
		return fmt.Errorf("failed to create wishlist: %w", err)
	}
	return nil
}

// GetByID retrieves a wishlist with its items.
func (r *GORMWishlistRepository) GetByID(id string) (*models.Wishlist, error) {
	var wishlist models.Wishlist
	if err := r.db.Preload("Items").First(&wishlist, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("wishlist with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get wishlist by ID %s: %w", id, err)
	}
	return &wishlist, nil
}

// ListByUser retrieves all wishlists owned by a user.
func (r *GORMWishlistRepository) ListByUser(userID string) ([]models.Wishlist, error) {
	var wishlists []models.Wishlist
	err := r.db.Preload("Items").Where("user_id = ?", userID).
		Order("created_at").Find(&wishlists).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlists for user %s: %w", userID, err)
	}
	return wishlists, nil
}

// Update saves the wishlist's name and visibility.
func (r *GORMWishlistRepository) Update(wishlist *models.Wishlist) error {
	res := r.db.Model(&models.Wishlist{}).Where("id = ?", wishlist.ID).Updates(map[string]interface{}{
		"name":      wishlist.Name,
		"is_public": wishlist.IsPublic,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update wishlist: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("wishlist with ID %s not found for update", wishlist.ID)
	}
	return nil
}

// Delete removes a wishlist and its items.
func (r *GORMWishlistRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("wishlist_id = ?", id).Delete(&models.WishlistItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete wishlist items: %w", err)
		}
		res := tx.Delete(&models.Wishlist{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete wishlist: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("wishlist with ID %s not found for deletion", id)
		}
		return nil
	})
}

// AddItem links a product to a wishlist, rejecting duplicates.
func (r *GORMWishlistRepository) AddItem(wishlistID, productID string) error {
	var count int64
	if err := r.db.Model(&models.WishlistItem{}).
		Where("wishlist_id = ? AND product_id = ?", wishlistID, productID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check wishlist item: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("product %s is already in wishlist %s", productID, wishlistID)
	}
	item := models.WishlistItem{WishlistID: wishlistID, ProductID: productID}
	if err := r.db.Create(&item).Error; err != nil {
		return fmt.Errorf("failed to add wishlist item: %w", err)
	}
	return nil
}

// RemoveItem unlinks a product from a wishlist.
func (r *GORMWishlistRepository) RemoveItem(wishlistID, productID string) error {
	res := r.db.Where("wishlist_id = ? AND product_id = ?", wishlistID, productID).
		Delete(&models.WishlistItem{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove wishlist item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %s not found in wishlist %s", productID, wishlistID)
	}
	return nil
}
