package trip_fx

import (
	"aitravel/internal/config"
	"aitravel/internal/repositories"
	"aitravel/internal/services"

	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Provide(provideTripRepo, provideTripService, providePDFService)

func provideTripRepo(db *gorm.DB) repositories.TripRepository {
	return repositories.NewTripRepository(db)
}

func provideTripService(tripRepo repositories.TripRepository) services.TripServiceInterface {
	return services.NewTripService(tripRepo)
}

func providePDFService(tripRepo repositories.TripRepository, cfg *config.Config) services.PDFServiceInterface {
	return services.NewPDFService(tripRepo, cfg.AppName)
}
