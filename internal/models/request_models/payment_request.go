package request_models

type AddPaymentMethodRequest struct {
	Label      string `json:"label" binding:"required,max=50"`
	CardNumber string `json:"card_number" binding:"required"`
	Expiry     string `json:"expiry" binding:"required"` // MM/YY
	IsDefault  bool   `json:"is_default"`
}

type CardInput struct {
	Label  string `json:"label" binding:"max=50"`
	Number string `json:"number" binding:"required"`
	Expiry string `json:"expiry" binding:"required"`
}

// CheckoutRequest pays either with a saved method or with a new card.
type CheckoutRequest struct {
	TripID            string     `json:"trip_id" binding:"required,uuid"`
	PaymentMethodID   string     `json:"payment_method_id" binding:"omitempty,uuid"`
	Card              *CardInput `json:"card"`
	SavePaymentMethod bool       `json:"save_payment_method"`
}
