package distance_matrix_fx

import (
	"aitravel/internal/config"
	"aitravel/internal/repositories"
	"aitravel/internal/services"
	"aitravel/pkg/logger"

	"go.uber.org/fx"
)

var Module = fx.Provide(provideMatrixClient, provideMapService)

// provideMatrixClient returns a nil interface without a token so the map
// service skips legs.
func provideMatrixClient(cfg *config.Config) services.DistanceMatrixService {
	client := services.NewMapboxMatrixClient(cfg.MapboxToken, services.NewInMemoryPairCache())
	if client == nil {
		logger.Log.Infow("MAPBOX_ACCESS_TOKEN not set, map legs are disabled")
		return nil
	}
	return client
}

func provideMapService(tripRepo repositories.TripRepository, matrix services.DistanceMatrixService) services.MapServiceInterface {
	return services.NewMapService(tripRepo, matrix)
}
