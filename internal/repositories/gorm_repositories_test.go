package repositories_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// newTestDB opens a fresh in-memory sqlite database, namespaced by test name
// so parallel tests never share state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		Email:    email,
		Password: "hashed-password",
		Name:     "Test User",
		Role:     models.RoleCustomer,
	}
	require.NoError(t, repositories.NewGORMUserRepository(db).Create(user))
	return user
}

func seedCatalog(t *testing.T, db *gorm.DB) (*models.Category, *models.Product) {
	t.Helper()
	category := &models.Category{Name: "Furniture", IsActive: true}
	require.NoError(t, repositories.NewGORMCategoryRepository(db).Create(category))
	product := &models.Product{
		Name:       "Walnut Desk",
		PriceCents: 25000,
		CategoryID: category.ID,
		Stock:      10,
		Status:     models.ProductActive,
	}
	require.NoError(t, repositories.NewGORMProductRepository(db).Create(product))
	return category, product
}

func seedAddress(t *testing.T, db *gorm.DB, userID string, addrType models.AddressType) *models.Address {
	t.Helper()
	address := &models.Address{
		UserID:     userID,
		Type:       addrType,
		Street:     "1 Main St",
		City:       "Springfield",
		Country:    "US",
		PostalCode: "12345",
	}
	require.NoError(t, repositories.NewGORMAddressRepository(db).Create(address))
	return address
}

func TestGORMUserRepository_CreateProvisionsDefaults(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMUserRepository(db)
	user := seedUser(t, db, "alice@example.com")

	prefs, err := repo.GetPreferences(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, "light", prefs.Theme)
	assert.Equal(t, "en", prefs.Language)
	assert.Equal(t, "USD", prefs.Currency)
	assert.True(t, prefs.EmailNotifications)
	assert.True(t, prefs.PushNotifications)
	assert.False(t, prefs.SMSNotifications)

	cart, err := repositories.NewGORMCartRepository(db).GetByUserID(user.ID)
	assert.NoError(t, err)
	assert.Empty(t, cart.Items)

	// Email is unique
	err = repo.Create(&models.User{Email: "alice@example.com", Password: "x", Name: "Other"})
	assert.Error(t, err)
}

func TestGORMUserRepository_DeleteRetainsOrdersAndReviews(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMUserRepository(db)
	user := seedUser(t, db, "bob@example.com")
	_, product := seedCatalog(t, db)
	shipAddr := seedAddress(t, db, user.ID, models.AddressShipping)
	billAddr := seedAddress(t, db, user.ID, models.AddressBilling)

	cartRepo := repositories.NewGORMCartRepository(db)
	cart, err := cartRepo.GetByUserID(user.ID)
	require.NoError(t, err)
	require.NoError(t, cartRepo.AddItem(cart.ID, &models.CartItem{ProductID: product.ID, Quantity: 1}))

	wishlistRepo := repositories.NewGORMWishlistRepository(db)
	wishlist := &models.Wishlist{UserID: user.ID, Name: "Favorites"}
	require.NoError(t, wishlistRepo.Create(wishlist))
	require.NoError(t, wishlistRepo.AddItem(wishlist.ID, product.ID))

	require.NoError(t, db.Create(&models.Order{
		UserID:            user.ID,
		Status:            models.OrderPending,
		ShippingAddressID: shipAddr.ID,
		BillingAddressID:  billAddr.ID,
		SubtotalCents:     25000,
		TaxCents:          2000,
		ShippingCents:     500,
		TotalCents:        27500,
		Items: []models.OrderItem{
			{ProductID: product.ID, ProductName: product.Name, PriceCents: 25000, Quantity: 1},
		},
	}).Error)
	require.NoError(t, repositories.NewGORMReviewRepository(db).Create(&models.Review{
		UserID:    user.ID,
		ProductID: product.ID,
		Rating:    4,
	}))

	require.NoError(t, repo.Delete(user.ID))

	// Personal data is gone.
	counts := map[string]interface{}{
		"addresses":      &models.Address{},
		"preferences":    &models.UserPreferences{},
		"carts":          &models.Cart{},
		"cart items":     &models.CartItem{},
		"wishlists":      &models.Wishlist{},
		"wishlist items": &models.WishlistItem{},
	}
	for name, model := range counts {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		assert.Zero(t, n, "expected no %s after user deletion", name)
	}

	// Orders and reviews survive as historical records.
	var orders, reviews int64
	require.NoError(t, db.Model(&models.Order{}).Where("user_id = ?", user.ID).Count(&orders).Error)
	require.NoError(t, db.Model(&models.Review{}).Where("user_id = ?", user.ID).Count(&reviews).Error)
	assert.EqualValues(t, 1, orders)
	assert.EqualValues(t, 1, reviews)
}

func TestGORMCartRepository_AddItemMergesDuplicates(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMCartRepository(db)
	user := seedUser(t, db, "carol@example.com")
	_, product := seedCatalog(t, db)
	variant := &models.ProductVariant{ProductID: product.ID, Name: "Oak", PriceCents: 30000, Stock: 5}
	require.NoError(t, repositories.NewGORMProductRepository(db).AddVariant(variant))

	cart, err := repo.GetByUserID(user.ID)
	require.NoError(t, err)

	require.NoError(t, repo.AddItem(cart.ID, &models.CartItem{ProductID: product.ID, Quantity: 2}))
	require.NoError(t, repo.AddItem(cart.ID, &models.CartItem{ProductID: product.ID, Quantity: 3}))

	cart, err = repo.GetByUserID(user.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)

	// Same product with a variant is a distinct row.
	require.NoError(t, repo.AddItem(cart.ID, &models.CartItem{ProductID: product.ID, VariantID: &variant.ID, Quantity: 1}))
	cart, err = repo.GetByUserID(user.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
}

func TestGORMCartRepository_ItemMutations(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMCartRepository(db)
	user := seedUser(t, db, "dave@example.com")
	_, product := seedCatalog(t, db)

	cart, err := repo.GetByUserID(user.ID)
	require.NoError(t, err)
	item := &models.CartItem{ProductID: product.ID, Quantity: 2}
	require.NoError(t, repo.AddItem(cart.ID, item))

	err = repo.UpdateItemQuantity(cart.ID, item.ID, 0)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "quantity must be at least 1")

	assert.NoError(t, repo.UpdateItemQuantity(cart.ID, item.ID, 7))
	cart, err = repo.GetByUserID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, cart.Items[0].Quantity)

	assert.NoError(t, repo.RemoveItem(cart.ID, item.ID))
	err = repo.RemoveItem(cart.ID, item.ID)
	assert.Error(t, err)

	require.NoError(t, repo.AddItem(cart.ID, &models.CartItem{ProductID: product.ID, Quantity: 1}))
	assert.NoError(t, repo.Clear(cart.ID))
	cart, err = repo.GetByUserID(user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestOneCartPerUser(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "erin@example.com")

	err := db.Create(&models.Cart{UserID: user.ID}).Error
	assert.Error(t, err, "second cart for the same user must violate the unique index")
}

func TestGORMProductRepository_DeleteCascadesOwnedRows(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMProductRepository(db)
	_, product := seedCatalog(t, db)

	require.NoError(t, repo.AddImage(&models.ProductImage{ProductID: product.ID, URL: "https://img.example.com/1.jpg"}))
	require.NoError(t, repo.AddVariant(&models.ProductVariant{ProductID: product.ID, Name: "Oak", PriceCents: 30000}))
	require.NoError(t, repo.AddSpecification(&models.ProductSpecification{ProductID: product.ID, Key: "material", Value: "walnut"}))

	require.NoError(t, repo.Delete(product.ID))

	for _, model := range []interface{}{&models.ProductImage{}, &models.ProductVariant{}, &models.ProductSpecification{}} {
		var n int64
		require.NoError(t, db.Model(model).Where("product_id = ?", product.ID).Count(&n).Error)
		assert.Zero(t, n)
	}
	_, err := repo.GetByID(product.ID)
	assert.Error(t, err)
}

func TestGORMProductRepository_DeleteRejectedWhileReferenced(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMProductRepository(db)
	user := seedUser(t, db, "frank@example.com")
	_, product := seedCatalog(t, db)
	shipAddr := seedAddress(t, db, user.ID, models.AddressShipping)
	billAddr := seedAddress(t, db, user.ID, models.AddressBilling)

	require.NoError(t, db.Create(&models.Order{
		UserID:            user.ID,
		Status:            models.OrderDelivered,
		ShippingAddressID: shipAddr.ID,
		BillingAddressID:  billAddr.ID,
		SubtotalCents:     25000,
		TotalCents:        25000,
		Items: []models.OrderItem{
			{ProductID: product.ID, ProductName: product.Name, PriceCents: 25000, Quantity: 1},
		},
	}).Error)

	err := repo.Delete(product.ID)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be deleted")

	// The product is untouched; discontinuing remains available.
	assert.NoError(t, repo.UpdateStatus(product.ID, models.ProductDiscontinued))
	got, err := repo.GetByID(product.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.ProductDiscontinued, got.Status)
}

func TestGORMProductRepository_SpecificationKeysUniquePerProduct(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMProductRepository(db)
	_, product := seedCatalog(t, db)

	require.NoError(t, repo.AddSpecification(&models.ProductSpecification{ProductID: product.ID, Key: "material", Value: "walnut"}))
	err := repo.AddSpecification(&models.ProductSpecification{ProductID: product.ID, Key: "material", Value: "oak"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	// Same key on a different product is fine.
	other := &models.Product{Name: "Oak Shelf", PriceCents: 9000, CategoryID: product.CategoryID, Status: models.ProductActive}
	require.NoError(t, repo.Create(other))
	assert.NoError(t, repo.AddSpecification(&models.ProductSpecification{ProductID: other.ID, Key: "material", Value: "oak"}))
}

func TestGORMOrderRepository_PlaceDecrementsStockAndClearsCart(t *testing.T) {
	db := newTestDB(t)
	orderRepo := repositories.NewGORMOrderRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)
	user := seedUser(t, db, "grace@example.com")
	_, product := seedCatalog(t, db)
	shipAddr := seedAddress(t, db, user.ID, models.AddressShipping)
	billAddr := seedAddress(t, db, user.ID, models.AddressBilling)

	cart, err := cartRepo.GetByUserID(user.ID)
	require.NoError(t, err)
	require.NoError(t, cartRepo.AddItem(cart.ID, &models.CartItem{ProductID: product.ID, Quantity: 4}))

	order := &models.Order{
		UserID:            user.ID,
		Status:            models.OrderPending,
		ShippingAddressID: shipAddr.ID,
		BillingAddressID:  billAddr.ID,
		SubtotalCents:     100000,
		TaxCents:          8000,
		ShippingCents:     500,
		TotalCents:        108500,
		Items: []models.OrderItem{
			{ProductID: product.ID, ProductName: product.Name, PriceCents: 25000, Quantity: 4},
		},
		Payment:  &models.Payment{AmountCents: 108500, Status: models.PaymentPending, Method: models.PaymentCard},
		Shipping: &models.Shipping{Method: models.ShippingStandard, Status: models.ShipmentPending, CostCents: 500},
	}
	require.NoError(t, orderRepo.Place(order, cart.ID))

	got, err := repositories.NewGORMProductRepository(db).GetByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Stock)

	cart, err = cartRepo.GetByUserID(user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	loaded, err := orderRepo.GetByID(order.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Items, 1)
	require.NotNil(t, loaded.Payment)
	assert.Equal(t, models.PaymentPending, loaded.Payment.Status)
	require.NotNil(t, loaded.Shipping)
	assert.Equal(t, models.ShipmentPending, loaded.Shipping.Status)
}

func TestGORMOrderRepository_PlaceRejectsInsufficientStock(t *testing.T) {
	db := newTestDB(t)
	orderRepo := repositories.NewGORMOrderRepository(db)
	user := seedUser(t, db, "henry@example.com")
	_, product := seedCatalog(t, db)
	shipAddr := seedAddress(t, db, user.ID, models.AddressShipping)
	billAddr := seedAddress(t, db, user.ID, models.AddressBilling)

	order := &models.Order{
		UserID:            user.ID,
		Status:            models.OrderPending,
		ShippingAddressID: shipAddr.ID,
		BillingAddressID:  billAddr.ID,
		SubtotalCents:     275000,
		TotalCents:        275000,
		Items: []models.OrderItem{
			{ProductID: product.ID, ProductName: product.Name, PriceCents: 25000, Quantity: 11},
		},
	}
	err := orderRepo.Place(order, "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient stock")

	// Nothing was persisted and stock is untouched.
	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)
	got, err := repositories.NewGORMProductRepository(db).GetByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Stock)
}

func TestGORMOrderRepository_PlaceDecrementsVariantStock(t *testing.T) {
	db := newTestDB(t)
	orderRepo := repositories.NewGORMOrderRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	user := seedUser(t, db, "nora@example.com")
	_, product := seedCatalog(t, db)
	variant := &models.ProductVariant{ProductID: product.ID, Name: "Oak", PriceCents: 30000, Stock: 5}
	require.NoError(t, productRepo.AddVariant(variant))
	shipAddr := seedAddress(t, db, user.ID, models.AddressShipping)
	billAddr := seedAddress(t, db, user.ID, models.AddressBilling)

	order := &models.Order{
		UserID:            user.ID,
		Status:            models.OrderPending,
		ShippingAddressID: shipAddr.ID,
		BillingAddressID:  billAddr.ID,
		SubtotalCents:     90000,
		TotalCents:        90000,
		Items: []models.OrderItem{
			{ProductID: product.ID, VariantID: &variant.ID, ProductName: "Walnut Desk (Oak)", PriceCents: 30000, Quantity: 3},
		},
	}
	require.NoError(t, orderRepo.Place(order, ""))

	// The variant's stock is decremented; the base product's is untouched.
	got, err := productRepo.GetByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Stock)
	require.Len(t, got.Variants, 1)
	assert.Equal(t, 2, got.Variants[0].Stock)

	// A second order exceeding the remaining variant stock rolls back whole.
	over := &models.Order{
		UserID:            user.ID,
		Status:            models.OrderPending,
		ShippingAddressID: shipAddr.ID,
		BillingAddressID:  billAddr.ID,
		SubtotalCents:     90000,
		TotalCents:        90000,
		Items: []models.OrderItem{
			{ProductID: product.ID, VariantID: &variant.ID, ProductName: "Walnut Desk (Oak)", PriceCents: 30000, Quantity: 3},
		},
	}
	err = orderRepo.Place(over, "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient stock for variant")

	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	assert.EqualValues(t, 1, orders)
	got, err = productRepo.GetByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Variants[0].Stock)
}

func TestGORMOrderRepository_CancelRestocks(t *testing.T) {
	db := newTestDB(t)
	orderRepo := repositories.NewGORMOrderRepository(db)
	user := seedUser(t, db, "iris@example.com")
	_, product := seedCatalog(t, db)
	shipAddr := seedAddress(t, db, user.ID, models.AddressShipping)
	billAddr := seedAddress(t, db, user.ID, models.AddressBilling)

	order := &models.Order{
		UserID:            user.ID,
		Status:            models.OrderPending,
		ShippingAddressID: shipAddr.ID,
		BillingAddressID:  billAddr.ID,
		SubtotalCents:     75000,
		TotalCents:        75000,
		Items: []models.OrderItem{
			{ProductID: product.ID, ProductName: product.Name, PriceCents: 25000, Quantity: 3},
		},
	}
	require.NoError(t, orderRepo.Place(order, ""))

	productRepo := repositories.NewGORMProductRepository(db)
	got, err := productRepo.GetByID(product.ID)
	require.NoError(t, err)
	require.Equal(t, 7, got.Stock)

	require.NoError(t, orderRepo.Cancel(order.ID))

	got, err = productRepo.GetByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Stock)
	loaded, err := orderRepo.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, loaded.Status)
}

func TestGORMReviewRepository_Constraints(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMReviewRepository(db)
	user := seedUser(t, db, "judy@example.com")
	_, product := seedCatalog(t, db)

	require.NoError(t, repo.Create(&models.Review{UserID: user.ID, ProductID: product.ID, Rating: 4}))

	// One review per (user, product)
	err := repo.Create(&models.Review{UserID: user.ID, ProductID: product.ID, Rating: 5})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already reviewed")

	// Ratings outside 1..5 violate the check constraint
	err = db.Create(&models.Review{UserID: user.ID, ProductID: "other-product", Rating: 6}).Error
	assert.Error(t, err)
	err = db.Create(&models.Review{UserID: user.ID, ProductID: "other-product", Rating: 0}).Error
	assert.Error(t, err)
}

func TestGORMReviewRepository_AverageRating(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMReviewRepository(db)
	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")
	_, product := seedCatalog(t, db)

	avg, err := repo.AverageRating(product.ID)
	assert.NoError(t, err)
	assert.Zero(t, avg)

	require.NoError(t, repo.Create(&models.Review{UserID: alice.ID, ProductID: product.ID, Rating: 5}))
	require.NoError(t, repo.Create(&models.Review{UserID: bob.ID, ProductID: product.ID, Rating: 2}))

	avg, err = repo.AverageRating(product.ID)
	assert.NoError(t, err)
	assert.InDelta(t, 3.5, avg, 0.001)
}

func TestGORMCategoryRepository_DeleteRejectedWhileReferenced(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMCategoryRepository(db)
	category, _ := seedCatalog(t, db)

	err := repo.Delete(category.ID)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be deleted")

	parent := &models.Category{Name: "Home", IsActive: true}
	require.NoError(t, repo.Create(parent))
	child := &models.Category{Name: "Office", ParentID: &parent.ID, IsActive: true}
	require.NoError(t, repo.Create(child))

	err = repo.Delete(parent.ID)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "child categories")

	assert.NoError(t, repo.Delete(child.ID))
	assert.NoError(t, repo.Delete(parent.ID))
}

func TestGORMWishlistRepository_ItemUniquePerList(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMWishlistRepository(db)
	user := seedUser(t, db, "kate@example.com")
	_, product := seedCatalog(t, db)

	wishlist := &models.Wishlist{UserID: user.ID, Name: "Gifts"}
	require.NoError(t, repo.Create(wishlist))
	require.NoError(t, repo.AddItem(wishlist.ID, product.ID))

	err := repo.AddItem(wishlist.ID, product.ID)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already in wishlist")

	// The same product in a second list is fine.
	other := &models.Wishlist{UserID: user.ID, Name: "Later"}
	require.NoError(t, repo.Create(other))
	assert.NoError(t, repo.AddItem(other.ID, product.ID))
}

func TestGORMAddressRepository_ClearDefault(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMAddressRepository(db)
	user := seedUser(t, db, "liam@example.com")

	first := seedAddress(t, db, user.ID, models.AddressShipping)
	first.IsDefault = true
	require.NoError(t, repo.Update(first))
	billing := seedAddress(t, db, user.ID, models.AddressBilling)
	billing.IsDefault = true
	require.NoError(t, repo.Update(billing))

	second := seedAddress(t, db, user.ID, models.AddressShipping)
	second.IsDefault = true
	require.NoError(t, repo.Update(second))
	require.NoError(t, repo.ClearDefault(user.ID, models.AddressShipping, second.ID))

	addresses, err := repo.ListByUser(user.ID)
	require.NoError(t, err)
	defaults := map[models.AddressType][]string{}
	for _, a := range addresses {
		if a.IsDefault {
			defaults[a.Type] = append(defaults[a.Type], a.ID)
		}
	}
	// At most one default per type; the billing default was untouched.
	assert.Equal(t, []string{second.ID}, defaults[models.AddressShipping])
	assert.Equal(t, []string{billing.ID}, defaults[models.AddressBilling])
}

func TestUpdatedAtAdvancesOnMutation(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMProductRepository(db)
	_, product := seedCatalog(t, db)

	before, err := repo.GetByID(product.ID)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	product.Stock = 42
	require.NoError(t, repo.Update(product))

	after, err := repo.GetByID(product.ID)
	require.NoError(t, err)
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt),
		"updated_at %v should advance past %v", after.UpdatedAt, before.UpdatedAt)
}
