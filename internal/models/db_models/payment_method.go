package db_models

import "github.com/google/uuid"

// PaymentMethod stores only what is safe to keep: brand, last four digits and expiry.
type PaymentMethod struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"`
	Label     string    `gorm:"size:50;not null"`
	Brand     string    `gorm:"size:20"`
	Last4     string    `gorm:"size:4;not null"`
	Expiry    string    `gorm:"size:5;not null"` // MM/YY
	IsDefault bool      `gorm:"not null;default:false"`
}
