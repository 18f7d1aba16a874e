package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"storefront/internal/models"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Place writes the order graph and decrements stock atomically. Each product
// (and variant, when one is set) is locked, re-checked and decremented inside
// the transaction, so two concurrent orders cannot oversell the same stock.
func (r *GORMOrderRepository) Place(order *models.Order, cartID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range order.Items {
			if item.VariantID != nil {
				var variant models.ProductVariant
				if err := lockForUpdate(tx).First(&variant, "id = ?", *item.VariantID).Error; err != nil {
					return fmt.Errorf("variant %s not found: %w", *item.VariantID, err)
				}
				if variant.Stock < item.Quantity {
					return fmt.Errorf("insufficient stock for variant %s (requested: %d, available: %d)",
						variant.Name, item.Quantity, variant.Stock)
				}
				res := tx.Model(&models.ProductVariant{}).Where("id = ?", variant.ID).
					Update("stock", gorm.Expr("stock - ?", item.Quantity))
				if res.Error != nil {
					return fmt.Errorf("failed to decrement variant stock: %w", res.Error)
				}
				continue
			}

			var product models.Product
			if err := lockForUpdate(tx).First(&product, "id = ?", item.ProductID).Error; err != nil {
				return fmt.Errorf("product %s not found: %w", item.ProductID, err)
			}
			if product.Stock < item.Quantity {
				return fmt.Errorf("insufficient stock for product %s (requested: %d, available: %d)",
					product.Name, item.Quantity, product.Stock)
			}
			res := tx.Model(&models.Product{}).Where("id = ?", product.ID).
				Update("stock", gorm.Expr("stock - ?", item.Quantity))
			if res.Error != nil {
				return fmt.Errorf("failed to decrement product stock: %w", res.Error)
			}
		}

		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		if cartID != "" {
			if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
				return fmt.Errorf("failed to clear cart after order: %w", err)
			}
		}
		return nil
	})
}

// GetAll retrieves all orders.
func (r *GORMOrderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Items").Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}
	return orders, nil
}

// GetByID retrieves an order with its items, payment and shipping records.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").Preload("Payment").Preload("Shipping").
		First(&order, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// ListByUser retrieves all orders placed by a user, newest first.
func (r *GORMOrderRepository) ListByUser(userID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").Where("user_id = ?", userID).
		Order("created_at desc").Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for user %s: %w", userID, err)
	}
	return orders, nil
}

// UpdateStatus sets the order lifecycle status. Transition validity is the
// service layer's responsibility.
func (r *GORMOrderRepository) UpdateStatus(id string, status models.OrderStatus) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update order status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s not found for status update", id)
	}
	return nil
}

// Cancel marks the order cancelled and returns claimed stock to each product
// or variant, in one transaction.
func (r *GORMOrderRepository) Cancel(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := lockForUpdate(tx).Preload("Items").First(&order, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("order with ID %s not found for cancellation", id)
			}
			return err
		}

		for _, item := range order.Items {
			if item.VariantID != nil {
				res := tx.Model(&models.ProductVariant{}).Where("id = ?", *item.VariantID).
					Update("stock", gorm.Expr("stock + ?", item.Quantity))
				if res.Error != nil {
					return fmt.Errorf("failed to restock variant: %w", res.Error)
				}
				continue
			}
			res := tx.Model(&models.Product{}).Where("id = ?", item.ProductID).
				Update("stock", gorm.Expr("stock + ?", item.Quantity))
			if res.Error != nil {
				return fmt.Errorf("failed to restock product: %w", res.Error)
			}
		}

		return tx.Model(&models.Order{}).Where("id = ?", id).
			Update("status", models.OrderCancelled).Error
	})
}

// GetPaymentByOrderID retrieves the payment record of an order.
func (r *GORMOrderRepository) GetPaymentByOrderID(orderID string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.First(&payment, "order_id = ?", orderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("payment for order %s not found", orderID)
		}
		return nil, fmt.Errorf("failed to get payment for order %s: %w", orderID, err)
	}
	return &payment, nil
}

// UpdatePayment saves the payment's status and transaction id.
func (r *GORMOrderRepository) UpdatePayment(payment *models.Payment) error {
	res := r.db.Model(&models.Payment{}).Where("id = ?", payment.ID).Updates(map[string]interface{}{
		"status":         payment.Status,
		"transaction_id": payment.TransactionID,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update payment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("payment with ID %s not found for update", payment.ID)
	}
	return nil
}

// GetShippingByOrderID retrieves the shipping record of an order.
func (r *GORMOrderRepository) GetShippingByOrderID(orderID string) (*models.Shipping, error) {
	var shipping models.Shipping
	if err := r.db.First(&shipping, "order_id = ?", orderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("shipping for order %s not found", orderID)
		}
		return nil, fmt.Errorf("failed to get shipping for order %s: %w", orderID, err)
	}
	return &shipping, nil
}

// UpdateShipping saves the shipment's status, tracking and delivery stamps.
func (r *GORMOrderRepository) UpdateShipping(shipping *models.Shipping) error {
	res := r.db.Model(&models.Shipping{}).Where("id = ?", shipping.ID).Updates(map[string]interface{}{
		"status":             shipping.Status,
		"tracking_number":    shipping.TrackingNumber,
		"estimated_delivery": shipping.EstimatedDelivery,
		"actual_delivery":    shipping.ActualDelivery,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update shipping: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("shipping with ID %s not found for update", shipping.ID)
	}
	return nil
}
