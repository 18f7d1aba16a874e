package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
)

func cartFixtures(t *testing.T) (*MockCartRepository, *repositories.MockProductRepository, *services.CartService, *models.Product) {
	t.Helper()

	cartRepo := new(MockCartRepository)
	productRepo := repositories.NewMockProductRepository()

	product := &models.Product{
		Name:       "Ceramic Mug",
		PriceCents: 1200,
		CategoryID: "cat-1",
		Stock:      50,
		Status:     models.ProductActive,
	}
	assert.NoError(t, productRepo.Create(product))

	return cartRepo, productRepo, services.NewCartService(cartRepo, productRepo), product
}

func TestCartService_AddItem(t *testing.T) {
	cartRepo, _, svc, product := cartFixtures(t)

	item := &models.CartItem{ProductID: product.ID, Quantity: 2}
	cartRepo.On("GetByUserID", testUserID).Return(&models.Cart{
		ID:     testCartID,
		UserID: testUserID,
		Items:  []models.CartItem{*item},
	}, nil)
	cartRepo.On("AddItem", testCartID, item).Return(nil).Once()

	cart, err := svc.AddItem(testUserID, item)
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	cartRepo.AssertExpectations(t)
}

func TestCartService_AddItem_Rejections(t *testing.T) {
	cartRepo, productRepo, svc, product := cartFixtures(t)

	// Quantity below one
	_, err := svc.AddItem(testUserID, &models.CartItem{ProductID: product.ID, Quantity: 0})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "quantity must be at least 1")

	// Unknown product
	_, err = svc.AddItem(testUserID, &models.CartItem{ProductID: "missing", Quantity: 1})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	// Variant belonging to a different product
	other := &models.Product{Name: "Spoon", PriceCents: 300, CategoryID: "cat-1", Status: models.ProductActive}
	assert.NoError(t, productRepo.Create(other))
	variant := &models.ProductVariant{ProductID: other.ID, Name: "Large", PriceCents: 400, Stock: 5}
	assert.NoError(t, productRepo.AddVariant(variant))
	_, err = svc.AddItem(testUserID, &models.CartItem{ProductID: product.ID, VariantID: &variant.ID, Quantity: 1})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "does not belong to product")

	// Inactive product
	assert.NoError(t, productRepo.UpdateStatus(product.ID, models.ProductInactive))
	_, err = svc.AddItem(testUserID, &models.CartItem{ProductID: product.ID, Quantity: 1})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not available for purchase")

	cartRepo.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything)
}

func TestCartService_ClearCart(t *testing.T) {
	cartRepo, _, svc, _ := cartFixtures(t)

	cartRepo.On("GetByUserID", testUserID).Return(&models.Cart{ID: testCartID, UserID: testUserID}, nil).Once()
	cartRepo.On("Clear", testCartID).Return(nil).Once()

	assert.NoError(t, svc.ClearCart(testUserID))
	cartRepo.AssertExpectations(t)
}
