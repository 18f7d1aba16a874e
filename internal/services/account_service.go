package services

import (
	"fmt"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// AccountService handles profile, address and preference management.
type AccountService struct {
	userRepo    repositories.UserRepository
	addressRepo repositories.AddressRepository
}

// NewAccountService creates a new AccountService.
func NewAccountService(userRepo repositories.UserRepository, addressRepo repositories.AddressRepository) *AccountService {
	return &AccountService{
		userRepo:    userRepo,
		addressRepo: addressRepo,
	}
}

// GetProfile retrieves a user with their addresses and preferences.
func (s *AccountService) GetProfile(userID string) (*models.User, error) {
	return s.userRepo.GetByID(userID)
}

// UpdateProfile saves a user's name and phone.
func (s *AccountService) UpdateProfile(user *models.User) error {
	existing, err := s.userRepo.GetByID(user.ID)
	if err != nil {
		return err
	}
	// Role changes don't go through profile updates.
	user.Role = existing.Role
	return s.userRepo.Update(user)
}

// DeleteAccount removes a user together with their personal data (addresses,
// preferences, cart, wishlists). Orders and reviews are kept for the record.
func (s *AccountService) DeleteAccount(userID string) error {
	return s.userRepo.Delete(userID)
}

// GetPreferences retrieves a user's preferences.
func (s *AccountService) GetPreferences(userID string) (*models.UserPreferences, error) {
	return s.userRepo.GetPreferences(userID)
}

// UpdatePreferences saves changes to a user's preferences.
func (s *AccountService) UpdatePreferences(prefs *models.UserPreferences) error {
	return s.userRepo.UpdatePreferences(prefs)
}

// CreateAddress adds an address for a user. When it is flagged as the
// default, any previous default of the same type loses the flag: at most one
// default exists per (user, type) and the service layer owns that rule.
func (s *AccountService) CreateAddress(address *models.Address) error {
	if err := s.addressRepo.Create(address); err != nil {
		return err
	}
	if address.IsDefault {
		return s.addressRepo.ClearDefault(address.UserID, address.Type, address.ID)
	}
	return nil
}

// ListAddresses retrieves all addresses owned by a user.
func (s *AccountService) ListAddresses(userID string) ([]models.Address, error) {
	return s.addressRepo.ListByUser(userID)
}

// UpdateAddress saves changes to an address, keeping the single-default rule.
func (s *AccountService) UpdateAddress(address *models.Address, requesterID string) error {
	existing, err := s.addressRepo.GetByID(address.ID)
	if err != nil {
		return err
	}
	if existing.UserID != requesterID {
		return fmt.Errorf("address %s does not belong to user %s", address.ID, requesterID)
	}
	address.UserID = existing.UserID
	if err := s.addressRepo.Update(address); err != nil {
		return err
	}
	if address.IsDefault {
		return s.addressRepo.ClearDefault(address.UserID, address.Type, address.ID)
	}
	return nil
}

// DeleteAddress removes an address.
func (s *AccountService) DeleteAddress(id, requesterID string) error {
	existing, err := s.addressRepo.GetByID(id)
	if err != nil {
		return err
	}
	if existing.UserID != requesterID {
		return fmt.Errorf("address %s does not belong to user %s", id, requesterID)
	}
	return s.addressRepo.Delete(id)
}
