package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role restricts what a user is allowed to do.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// AddressType distinguishes shipping from billing addresses.
type AddressType string

const (
	AddressShipping AddressType = "shipping"
	AddressBilling  AddressType = "billing"
)

// User represents a registered account of the store.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null" validate:"required,email"`
	Password  string    `gorm:"type:varchar(255);not null" validate:"required,min=6"` // No json tag for security
	Name      string    `json:"name" gorm:"type:varchar(100);not null" validate:"required,min=2,max=100"`
	Phone     string    `json:"phone,omitempty" gorm:"type:varchar(32)" validate:"omitempty,max=32"`
	Role      Role      `json:"role" gorm:"type:varchar(16);not null;default:'customer'" validate:"omitempty,oneof=customer admin"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Preferences *UserPreferences `json:"preferences,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Addresses   []Address        `json:"addresses,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate assigns a UUID primary key when none was provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// UserPreferences holds per-user display and notification settings.
// Every user owns exactly one row, created with defaults at registration.
type UserPreferences struct {
	ID                 string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID             string    `json:"user_id" gorm:"uniqueIndex;type:varchar(36);not null"`
	Theme              string    `json:"theme" gorm:"type:varchar(16);not null;default:'light'" validate:"omitempty,oneof=light dark system"`
	Language           string    `json:"language" gorm:"type:varchar(8);not null;default:'en'"`
	Currency           string    `json:"currency" gorm:"type:varchar(8);not null;default:'USD'"`
	EmailNotifications bool      `json:"email_notifications" gorm:"not null;default:true"`
	SMSNotifications   bool      `json:"sms_notifications" gorm:"not null;default:false"`
	PushNotifications  bool      `json:"push_notifications" gorm:"not null;default:true"`
	StockAlerts        bool      `json:"stock_alerts" gorm:"not null;default:false"`
	PriceAlerts        bool      `json:"price_alerts" gorm:"not null;default:false"`
	CreatedAt          time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt          time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (p *UserPreferences) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// Address is a shipping or billing address owned by a user.
// At most one default per (user, type) is enforced by the service layer,
// not by a database constraint.
type Address struct {
	ID         string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID     string      `json:"user_id" gorm:"index;type:varchar(36);not null"`
	Type       AddressType `json:"type" gorm:"type:varchar(16);not null" validate:"required,oneof=shipping billing"`
	Street     string      `json:"street" gorm:"type:varchar(255);not null" validate:"required,max=255"`
	City       string      `json:"city" gorm:"type:varchar(100);not null" validate:"required,max=100"`
	State      string      `json:"state" gorm:"type:varchar(100)" validate:"omitempty,max=100"`
	Country    string      `json:"country" gorm:"type:varchar(100);not null" validate:"required,max=100"`
	PostalCode string      `json:"postal_code" gorm:"type:varchar(20);not null" validate:"required,max=20"`
	IsDefault  bool        `json:"is_default" gorm:"not null;default:false"`
	CreatedAt  time.Time   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time   `json:"updated_at" gorm:"autoUpdateTime"`
}

func (a *Address) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}
