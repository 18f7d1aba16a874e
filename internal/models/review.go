package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is a user's rating of a product. Reviews are retained when the
// owning user is deleted. One review per (user, product).
type Review struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_review_user_product"`
	ProductID string    `json:"product_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_review_user_product" validate:"required,uuid"`
	Rating    int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5" validate:"required,gte=1,lte=5"`
	Comment   string    `json:"comment,omitempty" gorm:"type:text" validate:"omitempty,max=2000"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Images []ReviewImage `json:"images,omitempty" gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// ReviewImage is an ordered image attached to a review.
type ReviewImage struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ReviewID  string    `json:"review_id" gorm:"index;type:varchar(36);not null"`
	URL       string    `json:"url" gorm:"type:varchar(500);not null" validate:"required,url"`
	Position  int       `json:"position" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (i *ReviewImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}
