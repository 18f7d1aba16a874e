package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"storefront/internal/models"
)

// GORMAddressRepository is a GORM implementation of AddressRepository.
type GORMAddressRepository struct {
	db *gorm.DB
}

// NewGORMAddressRepository creates a new instance of GORMAddressRepository.
func NewGORMAddressRepository(db *gorm.DB) *GORMAddressRepository {
	return &GORMAddressRepository{
		db: db,
	}
}

// Create inserts a new address for a user.
func (r *GORMAddressRepository) Create(address *models.Address) error {
	if err := r.db.Create(address).Error; err != nil {
		return fmt.Errorf("failed to create address: %w", err)
	}
	return nil
}

// GetByID retrieves a single address by its ID.
func (r *GORMAddressRepository) GetByID(id string) (*models.Address, error) {
	var address models.Address
	if err := r.db.First(&address, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("address with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get address by ID %s: %w", id, err)
	}
	return &address, nil
}

// ListByUser retrieves all addresses owned by a user.
func (r *GORMAddressRepository) ListByUser(userID string) ([]models.Address, error) {
	var addresses []models.Address
	if err := r.db.Where("user_id = ?", userID).Order("created_at").Find(&addresses).Error; err != nil {
		return nil, fmt.Errorf("failed to list addresses for user %s: %w", userID, err)
	}
	return addresses, nil
}

// Update saves changes to an existing address.
func (r *GORMAddressRepository) Update(address *models.Address) error {
	res := r.db.Model(&models.Address{}).Where("id = ?", address.ID).Updates(map[string]interface{}{
		"type":        address.Type,
		"street":      address.Street,
		"city":        address.City,
		"state":       address.State,
		"country":     address.Country,
		"postal_code": address.PostalCode,
		"is_default":  address.IsDefault,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update address: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("address with ID %s not found for update", address.ID)
	}
	return nil
}

// Delete removes an address by its ID.
func (r *GORMAddressRepository) Delete(id string) error {
	res := r.db.Delete(&models.Address{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete address: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("address with ID %s not found for deletion", id)
	}
	return nil
}

// ClearDefault unsets is_default on all other addresses of the same (user, type).
func (r *GORMAddressRepository) ClearDefault(userID string, addrType models.AddressType, exceptID string) error {
	err := r.db.Model(&models.Address{}).
		Where("user_id = ? AND type = ? AND id <> ?", userID, addrType, exceptID).
		Update("is_default", false).Error
	if err != nil {
		return fmt.Errorf("failed to clear default addresses for user %s: %w", userID, err)
	}
	return nil
}
