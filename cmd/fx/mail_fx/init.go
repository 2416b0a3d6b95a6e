package mail_fx

import (
	"aitravel/internal/config"
	"aitravel/internal/services"
	"aitravel/pkg/logger"

	"go.uber.org/fx"
)

var Module = fx.Provide(provideMailService)

func provideMailService(cfg *config.Config) services.IMailService {
	mailService := services.NewSMTPMailService(cfg.SMTP, cfg.AppName, cfg.AppBaseURL)
	if !mailService.Enabled() {
		logger.Log.Infow("SMTP not configured, booking emails are disabled")
	}
	return mailService
}
