package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"aitravel/cmd/fx/account_fx"
	"aitravel/cmd/fx/config_fx"
	"aitravel/cmd/fx/controllers_fx"
	"aitravel/cmd/fx/db_fx"
	"aitravel/cmd/fx/distance_matrix_fx"
	"aitravel/cmd/fx/mail_fx"
	"aitravel/cmd/fx/memcache_fx"
	"aitravel/cmd/fx/payment_service_fx"
	"aitravel/cmd/fx/prompt_fx"
	"aitravel/cmd/fx/trip_fx"
	"aitravel/internal/api/controllers"
	"aitravel/internal/config"
	"aitravel/pkg/logger"
	"aitravel/pkg/middleware"
	"aitravel/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		config_fx.Module,
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		db_fx.Module,
		memcache_fx.Module,
		mail_fx.Module,
		account_fx.Module,
		trip_fx.Module,
		prompt_fx.Module,
		payment_service_fx.Module,
		distance_matrix_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
	logger.Sync()
}

func StartServer(lc fx.Lifecycle, cfg *config.Config, engine *gin.Engine) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			logger.Log.Infow("starting HTTP server", "addr", srv.Addr)
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Log.Errorw("HTTP server stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Log.Infow("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

type routeControllers struct {
	fx.In

	Account *controllers.AccountController
	Trips   *controllers.TripController
	Prompt  *controllers.PromptController
	Payment *controllers.PaymentController
	Map     *controllers.MapController
	Health  *controllers.HealthController
}

func ProvideRouter(cfg *config.Config, sealer *utils.SessionSealer, ctrls routeControllers) *gin.Engine {
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.LoggingMiddleware(logger.Log))
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	r.Use(middleware.RouteGateMiddleware())

	RegisterRoutes(r, sealer, ctrls)

	return r
}

func RegisterRoutes(r *gin.Engine, sealer *utils.SessionSealer, ctrls routeControllers) {
	api := r.Group("/api")
	api.GET("/health", ctrls.Health.Health)

	auth := api.Group("/auth")
	auth.POST("/register", ctrls.Account.Register)
	auth.POST("/login", ctrls.Account.Login)
	auth.POST("/logout", ctrls.Account.Logout)

	chat := api.Group("/chat", middleware.OptionalSessionMiddleware(sealer))
	chat.POST("", ctrls.Prompt.Chat)
	chat.GET("/last", ctrls.Prompt.LastPlan)
	chat.DELETE("/last", ctrls.Prompt.ForgetLastPlan)

	protected := api.Group("", middleware.SessionAuthMiddleware(sealer))

	profile := protected.Group("/profile")
	profile.GET("", ctrls.Account.GetProfile)
	profile.PUT("", ctrls.Account.UpdateProfile)
	profile.PUT("/preferences", ctrls.Account.UpdatePreferences)
	profile.PUT("/password", ctrls.Account.ChangePassword)

	trips := protected.Group("/trips")
	trips.GET("", ctrls.Trips.ListTrips)
	trips.POST("", ctrls.Trips.CreateTrip)
	trips.POST("/from-plan", ctrls.Trips.CreateTripFromPlan)
	trips.GET("/:id", ctrls.Trips.GetTrip)
	trips.PUT("/:id", ctrls.Trips.UpdateTrip)
	trips.DELETE("/:id", ctrls.Trips.DeleteTrip)
	trips.GET("/:id/pdf", ctrls.Trips.ExportPDF)
	trips.PUT("/:id/itinerary", ctrls.Trips.SaveItinerary)
	trips.POST("/:id/itinerary/move", ctrls.Trips.MoveActivity)
	trips.POST("/:id/days", ctrls.Trips.AddDay)
	trips.DELETE("/:id/days/:day", ctrls.Trips.RemoveDay)
	trips.POST("/:id/days/:day/activities", ctrls.Trips.AddActivity)
	trips.PATCH("/:id/days/:day/activities/:activityId", ctrls.Trips.UpdateActivity)
	trips.DELETE("/:id/days/:day/activities/:activityId", ctrls.Trips.RemoveActivity)

	itinerary := protected.Group("/itinerary")
	itinerary.GET("/current", ctrls.Trips.GetCurrentItinerary)
	itinerary.PUT("/current", ctrls.Trips.SetCurrentItinerary)

	payments := protected.Group("/payment-methods")
	payments.GET("", ctrls.Payment.ListPaymentMethods)
	payments.POST("", ctrls.Payment.AddPaymentMethod)
	payments.PUT("/:id/default", ctrls.Payment.SetDefaultPaymentMethod)
	payments.DELETE("/:id", ctrls.Payment.DeletePaymentMethod)

	protected.POST("/checkout", ctrls.Payment.Checkout)
	protected.GET("/bookings", ctrls.Payment.ListBookings)

	mapGroup := protected.Group("/map")
	mapGroup.GET("/trips/:id", ctrls.Map.TripMap)
	mapGroup.GET("/destinations", ctrls.Map.Destinations)
}
