package payment_service_fx

import (
	"aitravel/internal/config"
	"aitravel/internal/repositories"
	"aitravel/internal/services"

	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Provide(
	providePaymentMethodRepo, provideBookingRepo, providePaymentService,
)

func providePaymentMethodRepo(db *gorm.DB) repositories.PaymentMethodRepository {
	return repositories.NewPaymentMethodRepository(db)
}

func provideBookingRepo(db *gorm.DB) repositories.BookingRepository {
	return repositories.NewBookingRepository(db)
}

func providePaymentService(
	methodRepo repositories.PaymentMethodRepository,
	bookingRepo repositories.BookingRepository,
	tripRepo repositories.TripRepository,
	userRepo repositories.UserRepository,
	mailService services.IMailService,
	cfg *config.Config,
) services.PaymentServiceInterface {
	return services.NewPaymentService(methodRepo, bookingRepo, tripRepo, userRepo, mailService, cfg.AppBaseURL)
}
