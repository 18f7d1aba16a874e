package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"
)

// OrderHandler handles HTTP requests for orders, payments and shipments.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes with the Fiber app. Customers
// place, view and cancel their own orders; lifecycle updates are admin only.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/", h.HandleCheckout)
	orderRoutes.Get("/", h.HandleListOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/:id/cancel", h.HandleCancelOrder)

	admin := middleware.AdminRequired()
	orderRoutes.Patch("/:id/status", admin, h.HandleUpdateOrderStatus)
	orderRoutes.Patch("/:id/payment", admin, h.HandleUpdatePayment)
	orderRoutes.Patch("/:id/shipping", admin, h.HandleUpdateShipping)
}

// HandleCheckout places an order from the user's cart.
func (h *OrderHandler) HandleCheckout(c *fiber.Ctx) error {
	var req services.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	order, err := h.service.Checkout(middleware.UserID(c), req)
	if err != nil {
		log.Printf("Error placing order: %v", err)
		return respondError(c, "Could not place order", err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleListOrders returns the user's own orders, or every order for admins.
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	var (
		orders []models.Order
		err    error
	)
	if middleware.UserRole(c) == models.RoleAdmin {
		orders, err = h.service.GetAllOrders()
	} else {
		orders, err = h.service.ListOrdersByUser(middleware.UserID(c))
	}
	if err != nil {
		log.Printf("Error listing orders: %v", err)
		return respondError(c, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order with items, payment and shipping.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	id := c.Params("id")
	order, err := h.service.GetOrderByID(id)
	if err != nil {
		log.Printf("Error getting order %s: %v", id, err)
		return respondError(c, "Could not retrieve order", err)
	}
	if order.UserID != middleware.UserID(c) && middleware.UserRole(c) != models.RoleAdmin {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Order not found",
		})
	}
	return c.JSON(order)
}

// HandleCancelOrder cancels an unshipped order and restores its stock.
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	id := c.Params("id")
	order, err := h.service.GetOrderByID(id)
	if err != nil {
		return respondError(c, "Could not retrieve order", err)
	}
	if order.UserID != middleware.UserID(c) && middleware.UserRole(c) != models.RoleAdmin {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Order not found",
		})
	}

	if err := h.service.CancelOrder(id); err != nil {
		log.Printf("Error cancelling order %s: %v", id, err)
		return respondError(c, "Could not cancel order", err)
	}
	return c.JSON(fiber.Map{"message": "Order cancelled successfully"})
}

// StatusUpdateRequest carries an order's new lifecycle status.
type StatusUpdateRequest struct {
	Status models.OrderStatus `json:"status" validate:"required,oneof=pending processing shipped delivered"`
}

// HandleUpdateOrderStatus moves an order along its lifecycle.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var req StatusUpdateRequest
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
	if err := h.service.UpdateOrderStatus(id, req.Status); err != nil {
		log.Printf("Error updating order %s status: %v", id, err)
		return respondError(c, "Could not update order status", err)
	}
	return c.JSON(fiber.Map{"message": "Order status updated successfully"})
}

// PaymentUpdateRequest carries a payment's new status and transaction id.
type PaymentUpdateRequest struct {
	Status        models.PaymentStatus `json:"status" validate:"required,oneof=pending completed failed refunded"`
	TransactionID *string              `json:"transaction_id,omitempty"`
}

// HandleUpdatePayment moves an order's payment along its lifecycle.
func (h *OrderHandler) HandleUpdatePayment(c *fiber.Ctx) error {
	var req PaymentUpdateRequest
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
	payment, err := h.service.UpdatePaymentStatus(id, req.Status, req.TransactionID)
	if err != nil {
		log.Printf("Error updating payment for order %s: %v", id, err)
		return respondError(c, "Could not update payment", err)
	}
	return c.JSON(payment)
}

// HandleUpdateShipping moves an order's shipment along its lifecycle and
// records tracking details.
func (h *OrderHandler) HandleUpdateShipping(c *fiber.Ctx) error {
	var update services.ShippingUpdate
	if err := c.BodyParser(&update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(update); err != nil {
		return respondValidationError(c, err)
	}

	id := c.Params("id")
	shipping, err := h.service.UpdateShippingStatus(id, update)
	if err != nil {
		log.Printf("Error updating shipping for order %s: %v", id, err)
		return respondError(c, "Could not update shipping", err)
	}
	return c.JSON(shipping)
}
