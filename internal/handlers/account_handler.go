package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"
)

// AccountHandler handles HTTP requests for the authenticated user's own
// profile, preferences and addresses.
type AccountHandler struct {
	service  *services.AccountService
	validate *validator.Validate
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(service *services.AccountService) *AccountHandler {
	return &AccountHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the account routes with the Fiber app.
func (h *AccountHandler) RegisterRoutes(router fiber.Router) {
	accountRoutes := router.Group("/account")
	accountRoutes.Get("/", h.HandleGetProfile)
	accountRoutes.Patch("/", h.HandleUpdateProfile)
	accountRoutes.Delete("/", h.HandleDeleteAccount)
	accountRoutes.Get("/preferences", h.HandleGetPreferences)
	accountRoutes.Put("/preferences", h.HandleUpdatePreferences)
	accountRoutes.Get("/addresses", h.HandleListAddresses)
	accountRoutes.Post("/addresses", h.HandleCreateAddress)
	accountRoutes.Put("/addresses/:id", h.HandleUpdateAddress)
	accountRoutes.Delete("/addresses/:id", h.HandleDeleteAddress)
}

// HandleGetProfile returns the authenticated user with addresses and preferences.
func (h *AccountHandler) HandleGetProfile(c *fiber.Ctx) error {
	user, err := h.service.GetProfile(middleware.UserID(c))
	if err != nil {
		log.Printf("Error getting profile: %v", err)
		return respondError(c, "Could not retrieve profile", err)
	}
	user.Password = ""
	return c.JSON(user)
}

// ProfileUpdateRequest carries the editable profile fields.
type ProfileUpdateRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Phone string `json:"phone" validate:"omitempty,max=32"`
}

// HandleUpdateProfile updates the authenticated user's name and phone.
func (h *AccountHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var req ProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	user := &models.User{ID: middleware.UserID(c), Name: req.Name, Phone: req.Phone}
	if err := h.service.UpdateProfile(user); err != nil {
		log.Printf("Error updating profile: %v", err)
		return respondError(c, "Could not update profile", err)
	}
	return c.JSON(fiber.Map{"message": "Profile updated successfully"})
}

// HandleDeleteAccount deletes the authenticated user and their personal data.
// Orders and reviews are retained.
func (h *AccountHandler) HandleDeleteAccount(c *fiber.Ctx) error {
	if err := h.service.DeleteAccount(middleware.UserID(c)); err != nil {
		log.Printf("Error deleting account: %v", err)
		return respondError(c, "Could not delete account", err)
	}
	return c.JSON(fiber.Map{"message": "Account deleted successfully"})
}

// HandleGetPreferences returns the authenticated user's preferences.
func (h *AccountHandler) HandleGetPreferences(c *fiber.Ctx) error {
	prefs, err := h.service.GetPreferences(middleware.UserID(c))
	if err != nil {
		log.Printf("Error getting preferences: %v", err)
		return respondError(c, "Could not retrieve preferences", err)
	}
	return c.JSON(prefs)
}

// HandleUpdatePreferences replaces the authenticated user's preferences.
func (h *AccountHandler) HandleUpdatePreferences(c *fiber.Ctx) error {
	var prefs models.UserPreferences
	if err := c.BodyParser(&prefs); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(prefs); err != nil {
		return respondValidationError(c, err)
	}

	prefs.UserID = middleware.UserID(c)
	if err := h.service.UpdatePreferences(&prefs); err != nil {
		log.Printf("Error updating preferences: %v", err)
		return respondError(c, "Could not update preferences", err)
	}
	return c.JSON(fiber.Map{"message": "Preferences updated successfully"})
}

// HandleListAddresses returns all of the authenticated user's addresses.
func (h *AccountHandler) HandleListAddresses(c *fiber.Ctx) error {
	addresses, err := h.service.ListAddresses(middleware.UserID(c))
	if err != nil {
		log.Printf("Error listing addresses: %v", err)
		return respondError(c, "Could not retrieve addresses", err)
	}
	return c.JSON(addresses)
}

// HandleCreateAddress adds an address for the authenticated user.
func (h *AccountHandler) HandleCreateAddress(c *fiber.Ctx) error {
	var address models.Address
	if err := c.BodyParser(&address); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	address.UserID = middleware.UserID(c)
	if err := h.validate.Struct(address); err != nil {
		return respondValidationError(c, err)
	}

	if err := h.service.CreateAddress(&address); err != nil {
		log.Printf("Error creating address: %v", err)
		return respondError(c, "Could not create address", err)
	}
	return c.Status(fiber.StatusCreated).JSON(address)
}

// HandleUpdateAddress updates one of the authenticated user's addresses.
func (h *AccountHandler) HandleUpdateAddress(c *fiber.Ctx) error {
	var address models.Address
	if err := c.BodyParser(&address); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	address.ID = c.Params("id")
	address.UserID = middleware.UserID(c)
	if err := h.validate.Struct(address); err != nil {
		return respondValidationError(c, err)
	}

	if err := h.service.UpdateAddress(&address, middleware.UserID(c)); err != nil {
		log.Printf("Error updating address %s: %v", address.ID, err)
		return respondError(c, "Could not update address", err)
	}
	return c.JSON(fiber.Map{"message": "Address updated successfully"})
}

// HandleDeleteAddress removes one of the authenticated user's addresses.
func (h *AccountHandler) HandleDeleteAddress(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteAddress(id, middleware.UserID(c)); err != nil {
		log.Printf("Error deleting address %s: %v", id, err)
		return respondError(c, "Could not delete address", err)
	}
	return c.JSON(fiber.Map{"message": "Address deleted successfully"})
}
