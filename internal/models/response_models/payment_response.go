package response_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type PaymentMethodResponse struct {
	ID        uuid.UUID `json:"id"`
	Label     string    `json:"label"`
	Brand     string    `json:"brand"`
	Last4     string    `json:"last4"`
	Expiry    string    `json:"expiry"`
	IsDefault bool      `json:"is_default"`
	CreatedAt string    `json:"created_at"`
}

type BookingResponse struct {
	ID               uuid.UUID      `json:"id"`
	TripID           uuid.UUID      `json:"trip_id"`
	TripTitle        string         `json:"trip_title,omitempty"`
	Amount           float64        `json:"amount"`
	Currency         string         `json:"currency"`
	Status           string         `json:"status"`
	ConfirmationCode string         `json:"confirmation_code"`
	PaymentMethodRef string         `json:"payment_method_ref"`
	Receipt          datatypes.JSON `json:"receipt,omitempty"`
	CreatedAt        string         `json:"created_at"`
}

type CheckoutResponse struct {
	Booking       BookingResponse        `json:"booking"`
	PaymentMethod *PaymentMethodResponse `json:"payment_method,omitempty"`
	EmailSent     bool                   `json:"email_sent"`
}
