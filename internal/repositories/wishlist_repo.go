package repositories

import "storefront/internal/models"

// WishlistRepository defines the interface for wishlist data access.
type WishlistRepository interface {
	Create(wishlist *models.Wishlist) error
	GetByID(id string) (*models.Wishlist, error)
	ListByUser(userID string) ([]models.Wishlist, error)
	Update(wishlist *models.Wishlist) error
	Delete(id string) error
	// AddItem links a product to a wishlist. Each product appears at most
	// once per wishlist; a duplicate add is a conflict.
	AddItem(wishlistID, productID string) error
	RemoveItem(wishlistID, productID string) error
}
