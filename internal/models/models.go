package models

// All returns every model in migration order, for gorm.DB.AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&UserPreferences{},
		&Address{},
		&Category{},
		&Product{},
		&ProductImage{},
		&ProductVariant{},
		&ProductSpecification{},
		&Cart{},
		&CartItem{},
		&Order{},
		&OrderItem{},
		&Payment{},
		&Shipping{},
		&Review{},
		&ReviewImage{},
		&Wishlist{},
		&WishlistItem{},
	}
}
