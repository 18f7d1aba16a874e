package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"
)

// CartHandler handles HTTP requests for the authenticated user's cart.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Patch("/items/:itemID", h.HandleUpdateItemQuantity)
	cartRoutes.Delete("/items/:itemID", h.HandleRemoveItem)
	cartRoutes.Delete("/", h.HandleClearCart)
}

// HandleGetCart returns the user's cart with its items.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	cart, err := h.service.GetCart(middleware.UserID(c))
	if err != nil {
		log.Printf("Error getting cart: %v", err)
		return respondError(c, "Could not retrieve cart", err)
	}
	return c.JSON(cart)
}

// HandleAddItem adds a product to the user's cart. Adding a (product,
// variant) pair that is already in the cart increments its quantity.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var item models.CartItem
	if err := c.BodyParser(&item); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(item); err != nil {
		return respondValidationError(c, err)
	}

	cart, err := h.service.AddItem(middleware.UserID(c), &item)
	if err != nil {
		log.Printf("Error adding cart item: %v", err)
		return respondError(c, "Could not add item to cart", err)
	}
	return c.Status(fiber.StatusCreated).JSON(cart)
}

// QuantityUpdateRequest carries a cart item's new quantity.
type QuantityUpdateRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

// HandleUpdateItemQuantity sets the quantity of a cart item.
func (h *CartHandler) HandleUpdateItemQuantity(c *fiber.Ctx) error {
	var req QuantityUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	cart, err := h.service.UpdateItemQuantity(middleware.UserID(c), c.Params("itemID"), req.Quantity)
	if err != nil {
		log.Printf("Error updating cart item quantity: %v", err)
		return respondError(c, "Could not update cart item", err)
	}
	return c.JSON(cart)
}

// HandleRemoveItem removes an item from the user's cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	cart, err := h.service.RemoveItem(middleware.UserID(c), c.Params("itemID"))
	if err != nil {
		log.Printf("Error removing cart item: %v", err)
		return respondError(c, "Could not remove cart item", err)
	}
	return c.JSON(cart)
}

// HandleClearCart removes every item from the user's cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	if err := h.service.ClearCart(middleware.UserID(c)); err != nil {
		log.Printf("Error clearing cart: %v", err)
		return respondError(c, "Could not clear cart", err)
	}
	return c.JSON(fiber.Map{"message": "Cart cleared successfully"})
}
