package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// shippingRates maps each shipping method to its cost in minor currency units.
var shippingRates = map[models.ShippingMethod]int64{
	models.ShippingStandard:  500,
	models.ShippingExpress:   1500,
	models.ShippingOvernight: 3000,
}

// shippingLeadDays maps each shipping method to its estimated delivery lead time.
var shippingLeadDays = map[models.ShippingMethod]int{
	models.ShippingStandard:  7,
	models.ShippingExpress:   3,
	models.ShippingOvernight: 1,
}

// orderTransitions enumerates the allowed order status moves. Cancellation
// goes through CancelOrder so stock gets restored.
var orderTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderPending:    {models.OrderProcessing},
	models.OrderProcessing: {models.OrderShipped},
	models.OrderShipped:    {models.OrderDelivered},
}

// paymentTransitions enumerates the allowed payment status moves.
var paymentTransitions = map[models.PaymentStatus][]models.PaymentStatus{
	models.PaymentPending:   {models.PaymentCompleted, models.PaymentFailed},
	models.PaymentCompleted: {models.PaymentRefunded},
}

// shippingTransitions enumerates the allowed shipment status moves.
var shippingTransitions = map[models.ShippingStatus][]models.ShippingStatus{
	models.ShipmentPending:    {models.ShipmentProcessing},
	models.ShipmentProcessing: {models.ShipmentShipped},
	models.ShipmentShipped:    {models.ShipmentInTransit, models.ShipmentDelivered},
	models.ShipmentInTransit:  {models.ShipmentDelivered},
}

func allowed[S ~string](transitions map[S][]S, from, to S) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckoutRequest describes an order to be placed from the user's cart.
type CheckoutRequest struct {
	ShippingAddressID string                `json:"shipping_address_id" validate:"required,uuid"`
	BillingAddressID  string                `json:"billing_address_id" validate:"required,uuid"`
	PaymentMethod     models.PaymentMethod  `json:"payment_method" validate:"required,oneof=card bank_transfer cod wallet"`
	ShippingMethod    models.ShippingMethod `json:"shipping_method" validate:"required,oneof=standard express overnight"`
}

// OrderService handles business logic related to orders, payments and shipments.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
	addressRepo repositories.AddressRepository
	publisher   EventPublisher
	taxRate     float64 // e.g. 0.08 for 8% sales tax
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	cartRepo repositories.CartRepository,
	productRepo repositories.ProductRepository,
	addressRepo repositories.AddressRepository,
	publisher EventPublisher,
	taxRate float64,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		addressRepo: addressRepo,
		publisher:   publisher,
		taxRate:     taxRate,
	}
}

// Checkout places an order from the user's cart. Product names and prices are
// snapshotted into the order items; stock is decremented and the cart cleared
// in the same transaction as the order insert. Totals satisfy
// total = subtotal + tax + shipping cost.
func (s *OrderService) Checkout(userID string, req CheckoutRequest) (*models.Order, error) {
	cart, err := s.cartRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, fmt.Errorf("cart is empty")
	}

	if err := s.checkAddress(userID, req.ShippingAddressID, models.AddressShipping); err != nil {
		return nil, err
	}
	if err := s.checkAddress(userID, req.BillingAddressID, models.AddressBilling); err != nil {
		return nil, err
	}

	var subtotal int64
	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, ci := range cart.Items {
		product, err := s.productRepo.GetByID(ci.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product %s not found: %w", ci.ProductID, err)
		}
		if product.Status != models.ProductActive {
			return nil, fmt.Errorf("product %s is no longer available", product.Name)
		}

		name := product.Name
		price := product.EffectivePriceCents()
		if ci.VariantID != nil {
			variant, ok := findVariant(product, *ci.VariantID)
			if !ok {
				return nil, fmt.Errorf("variant %s does not belong to product %s", *ci.VariantID, product.ID)
			}
			name = fmt.Sprintf("%s (%s)", product.Name, variant.Name)
			price = variant.PriceCents
		}

		items = append(items, models.OrderItem{
			ProductID:   ci.ProductID,
			VariantID:   ci.VariantID,
			ProductName: name,
			PriceCents:  price,
			Quantity:    ci.Quantity,
		})
		subtotal += price * int64(ci.Quantity)
	}

	tax := int64(float64(subtotal) * s.taxRate)
	shippingCost := shippingRates[req.ShippingMethod]
	estimated := time.Now().UTC().AddDate(0, 0, shippingLeadDays[req.ShippingMethod])

	order := &models.Order{
		UserID:            userID,
		Status:            models.OrderPending,
		ShippingAddressID: req.ShippingAddressID,
		BillingAddressID:  req.BillingAddressID,
		SubtotalCents:     subtotal,
		TaxCents:          tax,
		ShippingCents:     shippingCost,
		TotalCents:        subtotal + tax + shippingCost,
		Items:             items,
		Payment: &models.Payment{
			AmountCents: subtotal + tax + shippingCost,
			Status:      models.PaymentPending,
			Method:      req.PaymentMethod,
		},
		Shipping: &models.Shipping{
			Method:            req.ShippingMethod,
			Status:            models.ShipmentPending,
			EstimatedDelivery: &estimated,
			CostCents:         shippingCost,
		},
	}

	if err := s.orderRepo.Place(order, cart.ID); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	s.publishEvent("order.created", map[string]interface{}{
		"order_id": order.ID,
		"user_id":  order.UserID,
		"status":   order.Status,
		"total":    order.TotalCents,
	})

	return order, nil
}

func (s *OrderService) checkAddress(userID, addressID string, want models.AddressType) error {
	address, err := s.addressRepo.GetByID(addressID)
	if err != nil {
		return err
	}
	if address.UserID != userID {
		return fmt.Errorf("address %s does not belong to user %s", addressID, userID)
	}
	if address.Type != want {
		return fmt.Errorf("address %s is not a %s address", addressID, want)
	}
	return nil
}

func findVariant(product *models.Product, variantID string) (*models.ProductVariant, bool) {
	for i := range product.Variants {
		if product.Variants[i].ID == variantID {
			return &product.Variants[i], true
		}
	}
	return nil, false
}

// GetAllOrders retrieves all orders.
func (s *OrderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// ListOrdersByUser retrieves all orders placed by a user.
func (s *OrderService) ListOrdersByUser(userID string) ([]models.Order, error) {
	return s.orderRepo.ListByUser(userID)
}

// UpdateOrderStatus moves an order along its lifecycle
// (pending → processing → shipped → delivered). Cancellation goes through
// CancelOrder instead so stock is restored.
func (s *OrderService) UpdateOrderStatus(id string, status models.OrderStatus) error {
	if status == models.OrderCancelled {
		return fmt.Errorf("use the cancellation endpoint to cancel an order")
	}
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return err
	}
	if !allowed(orderTransitions, order.Status, status) {
		return fmt.Errorf("invalid order status transition from %s to %s", order.Status, status)
	}
	if err := s.orderRepo.UpdateStatus(id, status); err != nil {
		return err
	}

	s.publishEvent("order.status_changed", map[string]interface{}{
		"order_id": id,
		"status":   status,
	})
	return nil
}

// CancelOrder cancels an order that has not shipped yet, restoring the stock
// its items had claimed.
func (s *OrderService) CancelOrder(id string) error {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return err
	}
	if order.Status != models.OrderPending && order.Status != models.OrderProcessing {
		return fmt.Errorf("order %s cannot be cancelled in status %s", id, order.Status)
	}
	if err := s.orderRepo.Cancel(id); err != nil {
		return err
	}

	s.publishEvent("order.cancelled", map[string]interface{}{
		"order_id": id,
	})
	return nil
}

// UpdatePaymentStatus moves an order's payment along its lifecycle
// (pending → completed|failed, completed → refunded). An external transaction
// id may be recorded alongside.
func (s *OrderService) UpdatePaymentStatus(orderID string, status models.PaymentStatus, transactionID *string) (*models.Payment, error) {
	payment, err := s.orderRepo.GetPaymentByOrderID(orderID)
	if err != nil {
		return nil, err
	}
	if !allowed(paymentTransitions, payment.Status, status) {
		return nil, fmt.Errorf("invalid payment status transition from %s to %s", payment.Status, status)
	}
	payment.Status = status
	if transactionID != nil {
		payment.TransactionID = transactionID
	}
	if err := s.orderRepo.UpdatePayment(payment); err != nil {
		return nil, err
	}

	s.publishEvent("payment.status_changed", map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})
	return payment, nil
}

// ShippingUpdate carries the mutable fields of a shipment.
type ShippingUpdate struct {
	Status            models.ShippingStatus `json:"status" validate:"required,oneof=pending processing shipped in_transit delivered"`
	TrackingNumber    *string               `json:"tracking_number,omitempty"`
	EstimatedDelivery *time.Time            `json:"estimated_delivery,omitempty"`
}

// UpdateShippingStatus moves an order's shipment along its lifecycle and
// records tracking details. Reaching delivered stamps the actual delivery time.
func (s *OrderService) UpdateShippingStatus(orderID string, update ShippingUpdate) (*models.Shipping, error) {
	shipping, err := s.orderRepo.GetShippingByOrderID(orderID)
	if err != nil {
		return nil, err
	}
	if !allowed(shippingTransitions, shipping.Status, update.Status) {
		return nil, fmt.Errorf("invalid shipping status transition from %s to %s", shipping.Status, update.Status)
	}
	shipping.Status = update.Status
	if update.TrackingNumber != nil {
		shipping.TrackingNumber = update.TrackingNumber
	}
	if update.EstimatedDelivery != nil {
		shipping.EstimatedDelivery = update.EstimatedDelivery
	}
	if update.Status == models.ShipmentDelivered {
		now := time.Now().UTC()
		shipping.ActualDelivery = &now
	}
	if err := s.orderRepo.UpdateShipping(shipping); err != nil {
		return nil, err
	}

	s.publishEvent("shipping.status_changed", map[string]interface{}{
		"order_id": orderID,
		"status":   update.Status,
	})
	return shipping, nil
}

// publishEvent marshals and publishes an order lifecycle event. Publishing is
// best effort: a broker failure is logged, never surfaced to the caller.
func (s *OrderService) publishEvent(routingKey string, payload map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", routingKey, err)
		return
	}
	if err := s.publisher.Publish("order", routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", routingKey, err)
	}
}
