package controllers_fx

import (
	"aitravel/internal/api/controllers"
	"aitravel/pkg/memcache"

	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Options(
	fx.Provide(controllers.NewAccountController),
	fx.Provide(controllers.NewTripController),
	fx.Provide(controllers.NewPromptController),
	fx.Provide(controllers.NewPaymentController),
	fx.Provide(controllers.NewMapController),
	fx.Provide(provideHealthController))

func provideHealthController(db *gorm.DB, plans memcache.PlanStore) *controllers.HealthController {
	extras := map[string]controllers.Pinger{}
	if p, ok := plans.(controllers.Pinger); ok {
		extras["redis"] = p
	}
	return controllers.NewHealthController(db, extras)
}
