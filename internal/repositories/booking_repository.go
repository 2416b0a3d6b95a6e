package repositories

import (
	"context"

	dbm "aitravel/internal/models/db_models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository interface {
	// Checkout stores the booking and marks its trip upcoming. When newMethod
	// is set it is saved first and referenced by the booking.
	Checkout(ctx context.Context, booking *dbm.Booking, newMethod *dbm.PaymentMethod) error
	ListByUser(ctx context.Context, userID string) ([]dbm.Booking, error)
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Checkout(ctx context.Context, booking *dbm.Booking, newMethod *dbm.PaymentMethod) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if newMethod != nil {
			if err := createPaymentMethodTx(tx, newMethod); err != nil {
				return err
			}
			booking.PaymentMethodID = &newMethod.ID
		}

		if err := tx.Omit(clause.Associations).Create(booking).Error; err != nil {
			return err
		}

		return tx.Model(&dbm.Trip{}).
			Where("id = ? AND user_id = ?", booking.TripID, booking.UserID).
			Update("status", dbm.TripStatusUpcoming).Error
	})
}

func (r *bookingRepository) ListByUser(ctx context.Context, userID string) ([]dbm.Booking, error) {
	var bookings []dbm.Booking
	err := r.db.WithContext(ctx).
		Preload("Trip").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}
