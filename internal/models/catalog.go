package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductStatus is the lifecycle state of a product listing.
// Products referenced by orders or reviews cannot be hard-deleted; flipping
// the status to "discontinued" is the supported removal path for them.
type ProductStatus string

const (
	ProductActive       ProductStatus = "active"
	ProductInactive     ProductStatus = "inactive"
	ProductDiscontinued ProductStatus = "discontinued"
)

// Category groups products into an arbitrarily deep tree.
type Category struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name         string    `json:"name" gorm:"type:varchar(100);not null" validate:"required,min=2,max=100"`
	Description  string    `json:"description,omitempty" gorm:"type:varchar(500)" validate:"omitempty,max=500"`
	ParentID     *string   `json:"parent_id,omitempty" gorm:"type:varchar(36);index"`
	DisplayOrder int       `json:"display_order" gorm:"not null;default:0"`
	IsActive     bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Children []Category `json:"children,omitempty" gorm:"foreignKey:ParentID"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// Product is a catalog listing. Monetary values are minor currency units (cents).
type Product struct {
	ID            string        `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name          string        `json:"name" gorm:"type:varchar(200);not null" validate:"required,min=3,max=200"`
	Description   string        `json:"description" gorm:"type:text" validate:"omitempty,max=5000"`
	PriceCents    int64         `json:"price_cents" gorm:"not null" validate:"required,gt=0"`
	DiscountCents *int64        `json:"discount_cents,omitempty" validate:"omitempty,gt=0"`
	CategoryID    string        `json:"category_id" gorm:"index;type:varchar(36);not null" validate:"required,uuid"`
	Stock         int           `json:"stock" gorm:"not null;default:0" validate:"gte=0"`
	Rating        float64       `json:"rating" gorm:"not null;default:0"`
	Status        ProductStatus `json:"status" gorm:"type:varchar(16);not null;default:'active'" validate:"omitempty,oneof=active inactive discontinued"`
	CreatedAt     time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time     `json:"updated_at" gorm:"autoUpdateTime"`

	Images         []ProductImage         `json:"images,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Variants       []ProductVariant       `json:"variants,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Specifications []ProductSpecification `json:"specifications,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// EffectivePriceCents returns the discount price when one is set.
func (p *Product) EffectivePriceCents() int64 {
	if p.DiscountCents != nil {
		return *p.DiscountCents
	}
	return p.PriceCents
}

// ProductImage is an ordered image attached to a product.
type ProductImage struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProductID string    `json:"product_id" gorm:"index;type:varchar(36);not null"`
	URL       string    `json:"url" gorm:"type:varchar(500);not null" validate:"required,url"`
	AltText   string    `json:"alt_text,omitempty" gorm:"type:varchar(200)"`
	Position  int       `json:"position" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (i *ProductImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

// ProductVariant is a purchasable variation of a product (e.g. color/size),
// with its own price and stock. Attributes is a free-form map stored as JSON.
type ProductVariant struct {
	ID         string            `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProductID  string            `json:"product_id" gorm:"index;type:varchar(36);not null"`
	Name       string            `json:"name" gorm:"type:varchar(100);not null" validate:"required,max=100"`
	PriceCents int64             `json:"price_cents" gorm:"not null" validate:"required,gt=0"`
	Stock      int               `json:"stock" gorm:"not null;default:0" validate:"gte=0"`
	Attributes map[string]string `json:"attributes,omitempty" gorm:"serializer:json"`
	CreatedAt  time.Time         `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time         `json:"updated_at" gorm:"autoUpdateTime"`
}

func (v *ProductVariant) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return nil
}

// ProductSpecification is a key/value attribute of a product.
// Keys are unique per product.
type ProductSpecification struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProductID string    `json:"product_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_product_spec_key"`
	Key       string    `json:"key" gorm:"type:varchar(100);not null;uniqueIndex:idx_product_spec_key" validate:"required,max=100"`
	Value     string    `json:"value" gorm:"type:varchar(500);not null" validate:"required,max=500"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (s *ProductSpecification) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}
