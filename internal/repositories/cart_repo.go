package repositories

import "storefront/internal/models"

// CartRepository defines the interface for cart data access.
//
// All mutations lock the cart row for the duration of the transaction so
// concurrent updates to the same cart cannot lose quantity changes.
type CartRepository interface {
	GetByUserID(userID string) (*models.Cart, error)
	// AddItem inserts an item, incrementing the quantity of an existing
	// (cart, product, variant) row instead of duplicating it.
	AddItem(cartID string, item *models.CartItem) error
	UpdateItemQuantity(cartID, itemID string, quantity int) error
	RemoveItem(cartID, itemID string) error
	Clear(cartID string) error
}
