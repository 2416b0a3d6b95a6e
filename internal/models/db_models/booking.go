package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is the record left by a (mock) checkout.
type Booking struct {
	BaseModel
	UserID           uuid.UUID     `gorm:"type:uuid;index;not null"`
	TripID           uuid.UUID     `gorm:"type:uuid;index;not null"`
	PaymentMethodID  *uuid.UUID    `gorm:"type:uuid"`
	AmountMinor      int64         // 150000 = $1,500.00
	Currency         string        `gorm:"size:3"` // ISO 4217
	Status           BookingStatus `gorm:"size:16;index"`
	ConfirmationCode string        `gorm:"size:16;uniqueIndex"`
	PaymentMethodRef string        // brand + last4

	// Trip and amount as charged, kept even if the trip is edited later.
	Receipt datatypes.JSON `gorm:"type:jsonb"`

	Trip Trip `gorm:"foreignKey:TripID"`
}
