package services

import (
	"fmt"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// WishlistService handles business logic related to wishlists.
type WishlistService struct {
	wishlistRepo repositories.WishlistRepository
	productRepo  repositories.ProductRepository
}

// NewWishlistService creates a new WishlistService.
func NewWishlistService(wishlistRepo repositories.WishlistRepository, productRepo repositories.ProductRepository) *WishlistService {
	return &WishlistService{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
	}
}

// CreateWishlist creates a new wishlist for a user.
func (s *WishlistService) CreateWishlist(wishlist *models.Wishlist) error {
	return s.wishlistRepo.Create(wishlist)
}

// GetWishlist retrieves a wishlist. Private wishlists are only visible to
// their owner and admins.
func (s *WishlistService) GetWishlist(id, requesterID string, requesterRole models.Role) (*models.Wishlist, error) {
	wishlist, err := s.wishlistRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !wishlist.IsPublic && wishlist.UserID != requesterID && requesterRole != models.RoleAdmin {
		return nil, fmt.Errorf("wishlist with ID %s not found", id)
	}
	return wishlist, nil
}

// ListWishlists retrieves all wishlists owned by a user.
func (s *WishlistService) ListWishlists(userID string) ([]models.Wishlist, error) {
	return s.wishlistRepo.ListByUser(userID)
}

// UpdateWishlist renames a wishlist or changes its visibility.
func (s *WishlistService) UpdateWishlist(wishlist *models.Wishlist, requesterID string) error {
	existing, err := s.wishlistRepo.GetByID(wishlist.ID)
	if err != nil {
		return err
	}
	if existing.UserID != requesterID {
		return fmt.Errorf("wishlist %s does not belong to user %s", wishlist.ID, requesterID)
	}
	return s.wishlistRepo.Update(wishlist)
}

// DeleteWishlist removes a wishlist and its items.
func (s *WishlistService) DeleteWishlist(id, requesterID string) error {
	existing, err := s.wishlistRepo.GetByID(id)
	if err != nil {
		return err
	}
	if existing.UserID != requesterID {
		return fmt.Errorf("wishlist %s does not belong to user %s", id, requesterID)
	}
	return s.wishlistRepo.Delete(id)
}

// AddItem links a product to a wishlist. Each product appears at most once.
func (s *WishlistService) AddItem(wishlistID, productID, requesterID string) error {
	wishlist, err := s.wishlistRepo.GetByID(wishlistID)
	if err != nil {
		return err
	}
	if wishlist.UserID != requesterID {
		return fmt.Errorf("wishlist %s does not belong to user %s", wishlistID, requesterID)
	}
	if _, err := s.productRepo.GetByID(productID); err != nil {
		return fmt.Errorf("product %s not found: %w", productID, err)
	}
	return s.wishlistRepo.AddItem(wishlistID, productID)
}

// RemoveItem unlinks a product from a wishlist.
func (s *WishlistService) RemoveItem(wishlistID, productID, requesterID string) error {
	wishlist, err := s.wishlistRepo.GetByID(wishlistID)
	if err != nil {
		return err
	}
	if wishlist.UserID != requesterID {
		return fmt.Errorf("wishlist %s does not belong to user %s", wishlistID, requesterID)
	}
	return s.wishlistRepo.RemoveItem(wishlistID, productID)
}
