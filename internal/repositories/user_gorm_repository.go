package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"storefront/internal/models"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create inserts a new user together with its default preferences and its
// cart, in a single transaction. Every user owns exactly one of each.
func (r *GORMUserRepository) Create(user *models.User) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if user.Preferences == nil {
			user.Preferences = &models.UserPreferences{
				Theme:              "light",
				Language:           "en",
				Currency:           "USD",
				EmailNotifications: true,
				PushNotifications:  true,
			}
		}
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return tx.Create(&models.Cart{UserID: user.ID}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user with email %s not found", email)
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.Preload("Preferences").Preload("Addresses").First(&user, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// Update updates an existing user in the database.
func (r *GORMUserRepository) Update(user *models.User) error {
	res := r.db.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"name":  user.Name,
		"phone": user.Phone,
		"role":  user.Role,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %s not found for update", user.ID)
	}
	return nil
}

// Delete removes a user and cascades to their personal data: addresses,
// preferences, cart (with items) and wishlists (with items). Orders and
// reviews are deliberately left in place as historical records.
func (r *GORMUserRepository) Delete(id string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("user with ID %s not found for deletion", id)
			}
			return err
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.Address{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.UserPreferences{}).Error; err != nil {
			return err
		}

		var cart models.Cart
		if err := tx.First(&cart, "user_id = ?", id).Error; err == nil {
			if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&cart).Error; err != nil {
				return err
			}
		} else if err != gorm.ErrRecordNotFound {
			return err
		}

		var wishlists []models.Wishlist
		if err := tx.Find(&wishlists, "user_id = ?", id).Error; err != nil {
			return err
		}
		for _, w := range wishlists {
			if err := tx.Where("wishlist_id = ?", w.ID).Delete(&models.WishlistItem{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Wishlist{}).Error; err != nil {
			return err
		}

		return tx.Delete(&user).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, err)
	}
	return nil
}

// GetPreferences retrieves the preferences row owned by a user.
func (r *GORMUserRepository) GetPreferences(userID string) (*models.UserPreferences, error) {
	var prefs models.UserPreferences
	if err := r.db.First(&prefs, "user_id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("preferences for user %s not found", userID)
		}
		return nil, fmt.Errorf("failed to get preferences for user %s: %w", userID, err)
	}
	return &prefs, nil
}

// UpdatePreferences saves changes to a user's preferences.
func (r *GORMUserRepository) UpdatePreferences(prefs *models.UserPreferences) error {
	res := r.db.Model(&models.UserPreferences{}).Where("user_id = ?", prefs.UserID).Updates(map[string]interface{}{
		"theme":               prefs.Theme,
		"language":            prefs.Language,
		"currency":            prefs.Currency,
		"email_notifications": prefs.EmailNotifications,
		"sms_notifications":   prefs.SMSNotifications,
		"push_notifications":  prefs.PushNotifications,
		"stock_alerts":        prefs.StockAlerts,
		"price_alerts":        prefs.PriceAlerts,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update preferences: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("preferences for user %s not found for update", prefs.UserID)
	}
	return nil
}
