package services

import (
	"fmt"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// CartService handles business logic related to shopping carts.
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetCart retrieves the user's cart with its items.
func (s *CartService) GetCart(userID string) (*models.Cart, error) {
	return s.cartRepo.GetByUserID(userID)
}

// AddItem puts a product (optionally a specific variant) into the user's
// cart. Adding a (product, variant) pair already present increments the
// quantity of the existing row.
func (s *CartService) AddItem(userID string, item *models.CartItem) (*models.Cart, error) {
	if item.Quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1, got %d", item.Quantity)
	}

	product, err := s.productRepo.GetByID(item.ProductID)
	if err != nil {
		return nil, fmt.Errorf("product %s not found: %w", item.ProductID, err)
	}
	if product.Status != models.ProductActive {
		return nil, fmt.Errorf("product %s is not available for purchase", product.Name)
	}

	if item.VariantID != nil {
		found := false
		for _, v := range product.Variants {
			if v.ID == *item.VariantID {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("variant %s does not belong to product %s", *item.VariantID, item.ProductID)
		}
	}

	cart, err := s.cartRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.AddItem(cart.ID, item); err != nil {
		return nil, err
	}
	return s.cartRepo.GetByUserID(userID)
}

// UpdateItemQuantity sets the quantity of an item in the user's cart.
func (s *CartService) UpdateItemQuantity(userID, itemID string, quantity int) (*models.Cart, error) {
	cart, err := s.cartRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.UpdateItemQuantity(cart.ID, itemID, quantity); err != nil {
		return nil, err
	}
	return s.cartRepo.GetByUserID(userID)
}

// RemoveItem removes an item from the user's cart.
func (s *CartService) RemoveItem(userID, itemID string) (*models.Cart, error) {
	cart, err := s.cartRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.RemoveItem(cart.ID, itemID); err != nil {
		return nil, err
	}
	return s.cartRepo.GetByUserID(userID)
}

// ClearCart removes every item from the user's cart.
func (s *CartService) ClearCart(userID string) error {
	cart, err := s.cartRepo.GetByUserID(userID)
	if err != nil {
		return err
	}
	return s.cartRepo.Clear(cart.ID)
}
