package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"storefront/internal/models"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// GetByUserID retrieves a user's cart with its items.
func (r *GORMCartRepository) GetByUserID(userID string) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.Preload("Items").First(&cart, "user_id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("cart for user %s not found", userID)
		}
		return nil, fmt.Errorf("failed to get cart for user %s: %w", userID, err)
	}
	return &cart, nil
}

// lockCart loads the cart row under a write lock, serializing concurrent
// mutations of the same cart for the rest of the transaction.
func lockCart(tx *gorm.DB, cartID string) error {
	var cart models.Cart
	if err := lockForUpdate(tx).First(&cart, "id = ?", cartID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("cart with ID %s not found", cartID)
		}
		return fmt.Errorf("failed to lock cart %s: %w", cartID, err)
	}
	return nil
}

// AddItem adds a product (optionally a variant) to the cart. If the same
// (product, variant) pair is already present, its quantity is incremented.
func (r *GORMCartRepository) AddItem(cartID string, item *models.CartItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := lockCart(tx, cartID); err != nil {
			return err
		}

		q := tx.Where("cart_id = ? AND product_id = ?", cartID, item.ProductID)
		if item.VariantID != nil {
			q = q.Where("variant_id = ?", *item.VariantID)
		} else {
			q = q.Where("variant_id IS NULL")
		}

		var existing models.CartItem
		err := q.First(&existing).Error
		switch {
		case err == nil:
			res := tx.Model(&models.CartItem{}).Where("id = ?", existing.ID).
				Update("quantity", gorm.Expr("quantity + ?", item.Quantity))
			if res.Error != nil {
				return fmt.Errorf("failed to increment cart item quantity: %w", res.Error)
			}
			item.ID = existing.ID
			item.Quantity += existing.Quantity
			return nil
		case err == gorm.ErrRecordNotFound:
			item.CartID = cartID
			if err := tx.Create(item).Error; err != nil {
				return fmt.Errorf("failed to add cart item: %w", err)
			}
			return nil
		default:
			return fmt.Errorf("failed to look up cart item: %w", err)
		}
	})
}

// UpdateItemQuantity sets the quantity of an existing cart item.
// Quantities below one are rejected; use RemoveItem instead.
func (r *GORMCartRepository) UpdateItemQuantity(cartID, itemID string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1, got %d", quantity)
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := lockCart(tx, cartID); err != nil {
			return err
		}
		res := tx.Model(&models.CartItem{}).Where("id = ? AND cart_id = ?", itemID, cartID).
			Update("quantity", quantity)
		if res.Error != nil {
			return fmt.Errorf("failed to update cart item quantity: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("cart item with ID %s not found", itemID)
		}
		return nil
	})
}

// RemoveItem deletes a single item from the cart.
func (r *GORMCartRepository) RemoveItem(cartID, itemID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := lockCart(tx, cartID); err != nil {
			return err
		}
		res := tx.Where("id = ? AND cart_id = ?", itemID, cartID).Delete(&models.CartItem{})
		if res.Error != nil {
			return fmt.Errorf("failed to remove cart item: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("cart item with ID %s not found", itemID)
		}
		return nil
	})
}

// Clear removes every item from the cart.
func (r *GORMCartRepository) Clear(cartID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := lockCart(tx, cartID); err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear cart %s: %w", cartID, err)
		}
		return nil
	})
}
