package repositories

import "storefront/internal/models"

// AddressRepository defines the interface for address data access.
type AddressRepository interface {
	Create(address *models.Address) error
	GetByID(id string) (*models.Address, error)
	ListByUser(userID string) ([]models.Address, error)
	Update(address *models.Address) error
	Delete(id string) error
	// ClearDefault unsets the default flag on every address of the given
	// (user, type) pair except the one identified by exceptID. Used by the
	// service layer to keep at most one default per pair.
	ClearDefault(userID string, addrType models.AddressType, exceptID string) error
}
