package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// PaymentStatus is the lifecycle state of a payment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// PaymentMethod identifies how an order is paid.
type PaymentMethod string

const (
	PaymentCard         PaymentMethod = "card"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentCOD          PaymentMethod = "cod"
	PaymentWallet       PaymentMethod = "wallet"
)

// ShippingMethod identifies the delivery service level.
type ShippingMethod string

const (
	ShippingStandard  ShippingMethod = "standard"
	ShippingExpress   ShippingMethod = "express"
	ShippingOvernight ShippingMethod = "overnight"
)

// ShippingStatus is the lifecycle state of a shipment.
type ShippingStatus string

const (
	ShipmentPending    ShippingStatus = "pending"
	ShipmentProcessing ShippingStatus = "processing"
	ShipmentShipped    ShippingStatus = "shipped"
	ShipmentInTransit  ShippingStatus = "in_transit"
	ShipmentDelivered  ShippingStatus = "delivered"
)

// Order is a placed order. Orders are retained when the owning user is
// deleted; UserID is deliberately not a cascading foreign key.
//
// Subtotal, tax, shipping cost and total are all stored independently;
// total = subtotal + tax + shipping_cost is enforced by the writer, never
// recomputed by the store. Address ids are snapshots: the referenced rows
// may change or disappear after the order is placed.
type Order struct {
	ID                string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID            string      `json:"user_id" gorm:"index;type:varchar(36);not null"`
	Status            OrderStatus `json:"status" gorm:"type:varchar(16);not null;default:'pending'"`
	ShippingAddressID string      `json:"shipping_address_id" gorm:"type:varchar(36);not null"`
	BillingAddressID  string      `json:"billing_address_id" gorm:"type:varchar(36);not null"`
	SubtotalCents     int64       `json:"subtotal_cents" gorm:"not null"`
	TaxCents          int64       `json:"tax_cents" gorm:"not null"`
	ShippingCents     int64       `json:"shipping_cents" gorm:"not null"`
	TotalCents        int64       `json:"total_cents" gorm:"not null"`
	CreatedAt         time.Time   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time   `json:"updated_at" gorm:"autoUpdateTime"`

	Items    []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payment  *Payment    `json:"payment,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Shipping *Shipping   `json:"shipping,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}

// OrderItem is a line of an order. Product name and price are snapshots
// taken at order time and never track later changes to the source product.
type OrderItem struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID     string    `json:"order_id" gorm:"index;type:varchar(36);not null"`
	ProductID   string    `json:"product_id" gorm:"index;type:varchar(36);not null"`
	VariantID   *string   `json:"variant_id,omitempty" gorm:"type:varchar(36)"`
	ProductName string    `json:"product_name" gorm:"type:varchar(200);not null"`
	PriceCents  int64     `json:"price_cents" gorm:"not null"`
	Quantity    int       `json:"quantity" gorm:"not null" validate:"required,gte=1"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

// Payment is the single payment record of an order.
type Payment struct {
	ID            string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID       string        `json:"order_id" gorm:"uniqueIndex;type:varchar(36);not null"`
	AmountCents   int64         `json:"amount_cents" gorm:"not null"`
	Status        PaymentStatus `json:"status" gorm:"type:varchar(16);not null;default:'pending'"`
	Method        PaymentMethod `json:"method" gorm:"type:varchar(16);not null" validate:"required,oneof=card bank_transfer cod wallet"`
	TransactionID *string       `json:"transaction_id,omitempty" gorm:"type:varchar(100)"`
	CreatedAt     time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// Shipping is the single shipment record of an order.
type Shipping struct {
	ID                string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID           string         `json:"order_id" gorm:"uniqueIndex;type:varchar(36);not null"`
	Method            ShippingMethod `json:"method" gorm:"type:varchar(16);not null" validate:"required,oneof=standard express overnight"`
	Status            ShippingStatus `json:"status" gorm:"type:varchar(16);not null;default:'pending'"`
	TrackingNumber    *string        `json:"tracking_number,omitempty" gorm:"type:varchar(100)"`
	EstimatedDelivery *time.Time     `json:"estimated_delivery,omitempty"`
	ActualDelivery    *time.Time     `json:"actual_delivery,omitempty"`
	CostCents         int64          `json:"cost_cents" gorm:"not null"`
	CreatedAt         time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

func (s *Shipping) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}
