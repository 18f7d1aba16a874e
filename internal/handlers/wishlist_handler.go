package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"
)

// WishlistHandler handles HTTP requests for wishlists.
type WishlistHandler struct {
	service  *services.WishlistService
	validate *validator.Validate
}

// NewWishlistHandler creates a new WishlistHandler.
func NewWishlistHandler(service *services.WishlistService) *WishlistHandler {
	return &WishlistHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the wishlist routes with the Fiber app.
func (h *WishlistHandler) RegisterRoutes(router fiber.Router) {
	wishlistRoutes := router.Group("/wishlists")
	wishlistRoutes.Get("/", h.HandleListWishlists)
	wishlistRoutes.Post("/", h.HandleCreateWishlist)
	wishlistRoutes.Get("/:id", h.HandleGetWishlist)
	wishlistRoutes.Put("/:id", h.HandleUpdateWishlist)
	wishlistRoutes.Delete("/:id", h.HandleDeleteWishlist)
	wishlistRoutes.Post("/:id/items", h.HandleAddItem)
	wishlistRoutes.Delete("/:id/items/:productID", h.HandleRemoveItem)
}

// HandleListWishlists returns all of the user's wishlists.
func (h *WishlistHandler) HandleListWishlists(c *fiber.Ctx) error {
	wishlists, err := h.service.ListWishlists(middleware.UserID(c))
	if err != nil {
		log.Printf("Error listing wishlists: %v", err)
		return respondError(c, "Could not retrieve wishlists", err)
	}
	return c.JSON(wishlists)
}

// HandleCreateWishlist creates a new wishlist for the user.
func (h *WishlistHandler) HandleCreateWishlist(c *fiber.Ctx) error {
	var wishlist models.Wishlist
	if err := c.BodyParser(&wishlist); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	wishlist.UserID = middleware.UserID(c)
	if err := h.validate.Struct(wishlist); err != nil {
		return respondValidationError(c, err)
	}

	if err := h.service.CreateWishlist(&wishlist); err != nil {
		log.Printf("Error creating wishlist: %v", err)
		return respondError(c, "Could not create wishlist", err)
	}
	return c.Status(fiber.StatusCreated).JSON(wishlist)
}

// HandleGetWishlist retrieves a wishlist with its items. Private lists are
// only visible to their owner and admins.
func (h *WishlistHandler) HandleGetWishlist(c *fiber.Ctx) error {
	id := c.Params("id")
	wishlist, err := h.service.GetWishlist(id, middleware.UserID(c), middleware.UserRole(c))
	if err != nil {
		log.Printf("Error getting wishlist %s: %v", id, err)
		return respondError(c, "Could not retrieve wishlist", err)
	}
	return c.JSON(wishlist)
}

// HandleUpdateWishlist renames a wishlist or changes its visibility.
func (h *WishlistHandler) HandleUpdateWishlist(c *fiber.Ctx) error {
	var wishlist models.Wishlist
	if err := c.BodyParser(&wishlist); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	wishlist.ID = c.Params("id")
	wishlist.UserID = middleware.UserID(c)
	if err := h.validate.Struct(wishlist); err != nil {
		return respondValidationError(c, err)
	}

	if err := h.service.UpdateWishlist(&wishlist, middleware.UserID(c)); err != nil {
		log.Printf("Error updating wishlist %s: %v", wishlist.ID, err)
		return respondError(c, "Could not update wishlist", err)
	}
	return c.JSON(fiber.Map{"message": "Wishlist updated successfully"})
}

// HandleDeleteWishlist removes a wishlist and its items.
func (h *WishlistHandler) HandleDeleteWishlist(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteWishlist(id, middleware.UserID(c)); err != nil {
		log.Printf("Error deleting wishlist %s: %v", id, err)
		return respondError(c, "Could not delete wishlist", err)
	}
	return c.JSON(fiber.Map{"message": "Wishlist deleted successfully"})
}

// WishlistItemRequest identifies the product to add.
type WishlistItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
}

// HandleAddItem links a product to a wishlist.
func (h *WishlistHandler) HandleAddItem(c *fiber.Ctx) error {
	var req WishlistItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	id := c.Params("id")
	if err := h.service.AddItem(id, req.ProductID, middleware.UserID(c)); err != nil {
		log.Printf("Error adding item to wishlist %s: %v", id, err)
		return respondError(c, "Could not add wishlist item", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Item added to wishlist"})
}

// HandleRemoveItem unlinks a product from a wishlist.
func (h *WishlistHandler) HandleRemoveItem(c *fiber.Ctx) error {
	id := c.Params("id")
	productID := c.Params("productID")
	if err := h.service.RemoveItem(id, productID, middleware.UserID(c)); err != nil {
		log.Printf("Error removing item from wishlist %s: %v", id, err)
		return respondError(c, "Could not remove wishlist item", err)
	}
	return c.JSON(fiber.Map{"message": "Item removed from wishlist"})
}
