package repositories

import "storefront/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	Update(user *models.User) error
	Delete(id string) error
	GetPreferences(userID string) (*models.UserPreferences, error)
	UpdatePreferences(prefs *models.UserPreferences) error
}
