package repositories

import "storefront/internal/models"

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// Place persists a fully-built order (items, payment, shipping) and
	// decrements product/variant stock in the same transaction. When cartID
	// is non-empty the cart's items are cleared as part of the transaction.
	Place(order *models.Order, cartID string) error
	GetAll() ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	ListByUser(userID string) ([]models.Order, error)
	UpdateStatus(id string, status models.OrderStatus) error
	// Cancel marks the order cancelled and restores the stock its items
	// had claimed.
	Cancel(id string) error
	GetPaymentByOrderID(orderID string) (*models.Payment, error)
	UpdatePayment(payment *models.Payment) error
	GetShippingByOrderID(orderID string) (*models.Shipping, error)
	UpdateShipping(shipping *models.Shipping) error
}
