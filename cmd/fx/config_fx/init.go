package config_fx

import (
	"aitravel/internal/api/controllers"
	"aitravel/internal/config"
	"aitravel/pkg/logger"
	"aitravel/pkg/utils"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Options(
	fx.Provide(provideConfig, provideLogger, provideSessionSealer, provideCookieSettings),
)

func provideConfig() (*config.Config, error) {
	return config.Load()
}

// provideLogger installs the global logger before anything else logs.
func provideLogger(cfg *config.Config) (*zap.Logger, error) {
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		return nil, err
	}
	return logger.Log.Desugar(), nil
}

func provideSessionSealer(cfg *config.Config) (*utils.SessionSealer, error) {
	return utils.NewSessionSealer(cfg.SessionSecret)
}

func provideCookieSettings(cfg *config.Config, sealer *utils.SessionSealer) controllers.CookieSettings {
	return controllers.CookieSettings{
		Sealer: sealer,
		Secure: cfg.CookieSecure,
	}
}
