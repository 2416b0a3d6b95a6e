package utils

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrDatabaseError         = errors.New("database error")
	ErrNotAuthenticated      = errors.New("not authenticated")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrEmailAlreadyExists    = errors.New("email already registered")
	ErrAccountNotFound       = errors.New("account not found")
	ErrWeakPassword          = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong       = errors.New("password must be at most 72 bytes")
	ErrTripNotFound          = errors.New("trip not found")
	ErrDayNotFound           = errors.New("day not found")
	ErrActivityNotFound      = errors.New("activity not found")
	ErrInvalidDateRange      = errors.New("end date is before start date")
	ErrPaymentMethodNotFound = errors.New("payment method not found")
	ErrInvalidCard           = errors.New("invalid card number")
	ErrInvalidExpiry         = errors.New("invalid card expiry")
	ErrCardExpired           = errors.New("card has expired")
	ErrNothingToCharge       = errors.New("trip has no budget to charge")
	ErrProviderAuth          = errors.New("AI provider rejected the API key")
	ErrProviderRateLimit     = errors.New("AI provider rate limit reached")
	ErrProviderTimeout       = errors.New("AI provider timed out")
	ErrProviderUnavailable   = errors.New("AI provider unavailable")
	ErrEmptyAIResponse       = errors.New("AI provider returned no content")
)
