package services_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
)

// MockOrderRepository is a mock implementation of repositories.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Place(order *models.Order, cartID string) error {
	args := m.Called(order, cartID)
	return args.Error(0)
}

func (m *MockOrderRepository) GetAll() ([]models.Order, error) {
	args := m.Called()
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByUser(userID string) ([]models.Order, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(id string, status models.OrderStatus) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockOrderRepository) Cancel(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockOrderRepository) GetPaymentByOrderID(orderID string) (*models.Payment, error) {
	args := m.Called(orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockOrderRepository) UpdatePayment(payment *models.Payment) error {
	args := m.Called(payment)
	return args.Error(0)
}

func (m *MockOrderRepository) GetShippingByOrderID(orderID string) (*models.Shipping, error) {
	args := m.Called(orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Shipping), args.Error(1)
}

func (m *MockOrderRepository) UpdateShipping(shipping *models.Shipping) error {
	args := m.Called(shipping)
	return args.Error(0)
}

// MockCartRepository is a mock implementation of repositories.CartRepository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) GetByUserID(userID string) (*models.Cart, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *MockCartRepository) AddItem(cartID string, item *models.CartItem) error {
	args := m.Called(cartID, item)
	return args.Error(0)
}

func (m *MockCartRepository) UpdateItemQuantity(cartID, itemID string, quantity int) error {
	args := m.Called(cartID, itemID, quantity)
	return args.Error(0)
}

func (m *MockCartRepository) RemoveItem(cartID, itemID string) error {
	args := m.Called(cartID, itemID)
	return args.Error(0)
}

func (m *MockCartRepository) Clear(cartID string) error {
	args := m.Called(cartID)
	return args.Error(0)
}

// MockAddressRepository is a mock implementation of repositories.AddressRepository
type MockAddressRepository struct {
	mock.Mock
}

func (m *MockAddressRepository) Create(address *models.Address) error {
	args := m.Called(address)
	return args.Error(0)
}

func (m *MockAddressRepository) GetByID(id string) (*models.Address, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Address), args.Error(1)
}

func (m *MockAddressRepository) ListByUser(userID string) ([]models.Address, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.Address), args.Error(1)
}

func (m *MockAddressRepository) Update(address *models.Address) error {
	args := m.Called(address)
	return args.Error(0)
}

func (m *MockAddressRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockAddressRepository) ClearDefault(userID string, addrType models.AddressType, exceptID string) error {
	args := m.Called(userID, addrType, exceptID)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of services.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(exchange, routingKey string, body []byte) error {
	args := m.Called(exchange, routingKey, body)
	return args.Error(0)
}

const (
	testUserID     = "11111111-1111-1111-1111-111111111111"
	testShipAddrID = "22222222-2222-2222-2222-222222222222"
	testBillAddrID = "33333333-3333-3333-3333-333333333333"
	testCartID     = "44444444-4444-4444-4444-444444444444"
)

func checkoutFixtures(t *testing.T) (*MockOrderRepository, *MockCartRepository, *repositories.MockProductRepository, *MockAddressRepository, *MockEventPublisher, *services.OrderService, *models.Product) {
	t.Helper()

	orderRepo := new(MockOrderRepository)
	cartRepo := new(MockCartRepository)
	productRepo := repositories.NewMockProductRepository()
	addressRepo := new(MockAddressRepository)
	publisher := new(MockEventPublisher)

	product := &models.Product{
		Name:       "Walnut Desk",
		PriceCents: 25000,
		CategoryID: "cat-1",
		Stock:      10,
		Status:     models.ProductActive,
	}
	assert.NoError(t, productRepo.Create(product))

	addressRepo.On("GetByID", testShipAddrID).Return(&models.Address{
		ID: testShipAddrID, UserID: testUserID, Type: models.AddressShipping,
	}, nil).Maybe()
	addressRepo.On("GetByID", testBillAddrID).Return(&models.Address{
		ID: testBillAddrID, UserID: testUserID, Type: models.AddressBilling,
	}, nil).Maybe()

	svc := services.NewOrderService(orderRepo, cartRepo, productRepo, addressRepo, publisher, 0.10)
	return orderRepo, cartRepo, productRepo, addressRepo, publisher, svc, product
}

func TestOrderService_Checkout_Totals(t *testing.T) {
	orderRepo, cartRepo, _, _, publisher, svc, product := checkoutFixtures(t)

	cartRepo.On("GetByUserID", testUserID).Return(&models.Cart{
		ID:     testCartID,
		UserID: testUserID,
		Items:  []models.CartItem{{ProductID: product.ID, Quantity: 3}},
	}, nil).Once()
	orderRepo.On("Place", mock.AnythingOfType("*models.Order"), testCartID).Return(nil).Once()
	publisher.On("Publish", "order", "order.created", mock.Anything).Return(nil).Once()

	order, err := svc.Checkout(testUserID, services.CheckoutRequest{
		ShippingAddressID: testShipAddrID,
		BillingAddressID:  testBillAddrID,
		PaymentMethod:     models.PaymentCard,
		ShippingMethod:    models.ShippingExpress,
	})
	assert.NoError(t, err)

	// Snapshot fields are copied from the product at order time.
	assert.Len(t, order.Items, 1)
	assert.Equal(t, "Walnut Desk", order.Items[0].ProductName)
	assert.Equal(t, int64(25000), order.Items[0].PriceCents)
	assert.Equal(t, 3, order.Items[0].Quantity)

	// total = subtotal + tax + shipping_cost, always.
	assert.Equal(t, int64(75000), order.SubtotalCents)
	assert.Equal(t, int64(7500), order.TaxCents)
	assert.Equal(t, int64(1500), order.ShippingCents)
	assert.Equal(t, order.SubtotalCents+order.TaxCents+order.ShippingCents, order.TotalCents)

	// Payment and shipping records are created alongside the order.
	assert.NotNil(t, order.Payment)
	assert.Equal(t, order.TotalCents, order.Payment.AmountCents)
	assert.Equal(t, models.PaymentPending, order.Payment.Status)
	assert.NotNil(t, order.Shipping)
	assert.Equal(t, models.ShipmentPending, order.Shipping.Status)
	assert.Equal(t, order.ShippingCents, order.Shipping.CostCents)
	assert.NotNil(t, order.Shipping.EstimatedDelivery)

	orderRepo.AssertExpectations(t)
	cartRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestOrderService_Checkout_DiscountAndVariantPricing(t *testing.T) {
	orderRepo, cartRepo, productRepo, _, publisher, svc, product := checkoutFixtures(t)

	discount := int64(20000)
	product.DiscountCents = &discount
	assert.NoError(t, productRepo.Update(product))
	variant := &models.ProductVariant{
		ProductID:  product.ID,
		Name:       "Oak",
		PriceCents: 30000,
		Stock:      5,
	}
	assert.NoError(t, productRepo.AddVariant(variant))

	cartRepo.On("GetByUserID", testUserID).Return(&models.Cart{
		ID:     testCartID,
		UserID: testUserID,
		Items: []models.CartItem{
			{ProductID: product.ID, Quantity: 1},
			{ProductID: product.ID, VariantID: &variant.ID, Quantity: 2},
		},
	}, nil).Once()
	orderRepo.On("Place", mock.AnythingOfType("*models.Order"), testCartID).Return(nil).Once()
	publisher.On("Publish", "order", "order.created", mock.Anything).Return(nil).Once()

	order, err := svc.Checkout(testUserID, services.CheckoutRequest{
		ShippingAddressID: testShipAddrID,
		BillingAddressID:  testBillAddrID,
		PaymentMethod:     models.PaymentWallet,
		ShippingMethod:    models.ShippingStandard,
	})
	assert.NoError(t, err)

	// Plain item uses the discount price, variant item uses the variant price.
	assert.Equal(t, int64(20000), order.Items[0].PriceCents)
	assert.Equal(t, int64(30000), order.Items[1].PriceCents)
	assert.Equal(t, "Walnut Desk (Oak)", order.Items[1].ProductName)
	assert.Equal(t, int64(80000), order.SubtotalCents)
	assert.Equal(t, order.SubtotalCents+order.TaxCents+order.ShippingCents, order.TotalCents)
}

func TestOrderService_Checkout_Rejections(t *testing.T) {
	orderRepo, cartRepo, productRepo, addressRepo, _, svc, product := checkoutFixtures(t)

	// Empty cart
	cartRepo.On("GetByUserID", testUserID).Return(&models.Cart{ID: testCartID, UserID: testUserID}, nil).Once()
	_, err := svc.Checkout(testUserID, services.CheckoutRequest{
		ShippingAddressID: testShipAddrID,
		BillingAddressID:  testBillAddrID,
		PaymentMethod:     models.PaymentCard,
		ShippingMethod:    models.ShippingStandard,
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cart is empty")

	// Billing address of the wrong type
	cart := &models.Cart{
		ID:     testCartID,
		UserID: testUserID,
		Items:  []models.CartItem{{ProductID: product.ID, Quantity: 1}},
	}
	cartRepo.On("GetByUserID", testUserID).Return(cart, nil)
	addressRepo.On("GetByID", "addr-wrong").Return(&models.Address{
		ID: "addr-wrong", UserID: testUserID, Type: models.AddressShipping,
	}, nil).Once()
	_, err = svc.Checkout(testUserID, services.CheckoutRequest{
		ShippingAddressID: testShipAddrID,
		BillingAddressID:  "addr-wrong",
		PaymentMethod:     models.PaymentCard,
		ShippingMethod:    models.ShippingStandard,
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "is not a billing address")

	// Discontinued product
	assert.NoError(t, productRepo.UpdateStatus(product.ID, models.ProductDiscontinued))
	_, err = svc.Checkout(testUserID, services.CheckoutRequest{
		ShippingAddressID: testShipAddrID,
		BillingAddressID:  testBillAddrID,
		PaymentMethod:     models.PaymentCard,
		ShippingMethod:    models.ShippingStandard,
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no longer available")

	orderRepo.AssertNotCalled(t, "Place", mock.Anything, mock.Anything)
}

func TestOrderService_UpdateOrderStatus_Transitions(t *testing.T) {
	orderRepo, _, _, _, publisher, svc, _ := checkoutFixtures(t)

	// Valid transition: pending -> processing
	orderRepo.On("GetByID", "order-1").Return(&models.Order{ID: "order-1", Status: models.OrderPending}, nil).Once()
	orderRepo.On("UpdateStatus", "order-1", models.OrderProcessing).Return(nil).Once()
	publisher.On("Publish", "order", "order.status_changed", mock.Anything).Return(nil).Once()
	assert.NoError(t, svc.UpdateOrderStatus("order-1", models.OrderProcessing))

	// Invalid skip: pending -> delivered
	orderRepo.On("GetByID", "order-1").Return(&models.Order{ID: "order-1", Status: models.OrderPending}, nil).Once()
	err := svc.UpdateOrderStatus("order-1", models.OrderDelivered)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid order status transition")

	// Cancellation must go through CancelOrder
	err = svc.UpdateOrderStatus("order-1", models.OrderCancelled)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cancellation endpoint")

	orderRepo.AssertExpectations(t)
}

func TestOrderService_CancelOrder(t *testing.T) {
	orderRepo, _, _, _, publisher, svc, _ := checkoutFixtures(t)

	// Cancellable while pending
	orderRepo.On("GetByID", "order-1").Return(&models.Order{ID: "order-1", Status: models.OrderPending}, nil).Once()
	orderRepo.On("Cancel", "order-1").Return(nil).Once()
	publisher.On("Publish", "order", "order.cancelled", mock.Anything).Return(nil).Once()
	assert.NoError(t, svc.CancelOrder("order-1"))

	// Not cancellable once shipped
	orderRepo.On("GetByID", "order-2").Return(&models.Order{ID: "order-2", Status: models.OrderShipped}, nil).Once()
	err := svc.CancelOrder("order-2")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be cancelled")

	orderRepo.AssertExpectations(t)
}

func TestOrderService_PaymentTransitions(t *testing.T) {
	orderRepo, _, _, _, publisher, svc, _ := checkoutFixtures(t)
	publisher.On("Publish", "order", "payment.status_changed", mock.Anything).Return(nil)

	// pending -> completed records the transaction id
	txID := "txn-abc"
	orderRepo.On("GetPaymentByOrderID", "order-1").Return(&models.Payment{ID: "pay-1", Status: models.PaymentPending}, nil).Once()
	orderRepo.On("UpdatePayment", mock.AnythingOfType("*models.Payment")).Return(nil).Once()
	payment, err := svc.UpdatePaymentStatus("order-1", models.PaymentCompleted, &txID)
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, payment.Status)
	assert.Equal(t, &txID, payment.TransactionID)

	// pending -> refunded is not a legal move
	orderRepo.On("GetPaymentByOrderID", "order-2").Return(&models.Payment{ID: "pay-2", Status: models.PaymentPending}, nil).Once()
	_, err = svc.UpdatePaymentStatus("order-2", models.PaymentRefunded, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid payment status transition")

	// completed -> refunded is
	orderRepo.On("GetPaymentByOrderID", "order-3").Return(&models.Payment{ID: "pay-3", Status: models.PaymentCompleted}, nil).Once()
	orderRepo.On("UpdatePayment", mock.AnythingOfType("*models.Payment")).Return(nil).Once()
	payment, err = svc.UpdatePaymentStatus("order-3", models.PaymentRefunded, nil)
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentRefunded, payment.Status)

	orderRepo.AssertExpectations(t)
}

func TestOrderService_ShippingTransitions(t *testing.T) {
	orderRepo, _, _, _, publisher, svc, _ := checkoutFixtures(t)
	publisher.On("Publish", "order", "shipping.status_changed", mock.Anything).Return(nil)

	// shipped -> delivered stamps the actual delivery time
	orderRepo.On("GetShippingByOrderID", "order-1").Return(&models.Shipping{ID: "ship-1", Status: models.ShipmentShipped}, nil).Once()
	orderRepo.On("UpdateShipping", mock.AnythingOfType("*models.Shipping")).Return(nil).Once()
	shipping, err := svc.UpdateShippingStatus("order-1", services.ShippingUpdate{Status: models.ShipmentDelivered})
	assert.NoError(t, err)
	assert.Equal(t, models.ShipmentDelivered, shipping.Status)
	assert.NotNil(t, shipping.ActualDelivery)

	// pending -> delivered is not a legal move
	orderRepo.On("GetShippingByOrderID", "order-2").Return(&models.Shipping{ID: "ship-2", Status: models.ShipmentPending}, nil).Once()
	_, err = svc.UpdateShippingStatus("order-2", services.ShippingUpdate{Status: models.ShipmentDelivered})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid shipping status transition")

	// Tracking number is recorded on the shipped transition
	tracking := "TRK-123"
	orderRepo.On("GetShippingByOrderID", "order-3").Return(&models.Shipping{ID: "ship-3", Status: models.ShipmentProcessing}, nil).Once()
	orderRepo.On("UpdateShipping", mock.AnythingOfType("*models.Shipping")).Return(nil).Once()
	shipping, err = svc.UpdateShippingStatus("order-3", services.ShippingUpdate{
		Status:         models.ShipmentShipped,
		TrackingNumber: &tracking,
	})
	assert.NoError(t, err)
	assert.Equal(t, &tracking, shipping.TrackingNumber)

	orderRepo.AssertExpectations(t)
}

func TestOrderService_PlaceFailurePropagates(t *testing.T) {
	orderRepo, cartRepo, _, _, _, svc, product := checkoutFixtures(t)

	cartRepo.On("GetByUserID", testUserID).Return(&models.Cart{
		ID:     testCartID,
		UserID: testUserID,
		Items:  []models.CartItem{{ProductID: product.ID, Quantity: 100}},
	}, nil).Once()
	orderRepo.On("Place", mock.AnythingOfType("*models.Order"), testCartID).
		Return(fmt.Errorf("insufficient stock for product Walnut Desk (requested: 100, available: 10)")).Once()

	_, err := svc.Checkout(testUserID, services.CheckoutRequest{
		ShippingAddressID: testShipAddrID,
		BillingAddressID:  testBillAddrID,
		PaymentMethod:     models.PaymentCard,
		ShippingMethod:    models.ShippingStandard,
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient stock")
	orderRepo.AssertExpectations(t)
}
