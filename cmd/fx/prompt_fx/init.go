package prompt_fx

import (
	"context"
	"io"

	"aitravel/internal/config"
	"aitravel/internal/repositories"
	"aitravel/internal/services"
	"aitravel/pkg/logger"
	"aitravel/pkg/memcache"
	"aitravel/pkg/utils"

	"go.uber.org/fx"
)

var Module = fx.Provide(
	ProvideChatModel,
	ProvideChatService)

// ProvideChatModel creates the chat client for the configured AI_PROVIDER.
func ProvideChatModel(lc fx.Lifecycle, cfg *config.Config) (utils.ChatModelInterface, error) {
	apiKey, model := cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel
	if cfg.AI.Provider == "openai" {
		apiKey, model = cfg.AI.OpenAIAPIKey, cfg.AI.OpenAIModel
	}

	logger.Log.Infow("initializing chat model", "provider", cfg.AI.Provider, "model", model)

	if cfg.AI.Provider == "openai" && cfg.AI.OpenAIBaseURL != "" && apiKey != "" {
		return utils.NewOpenAIChatClientWithBaseURL(apiKey, cfg.AI.OpenAIBaseURL, model), nil
	}

	client, err := utils.NewChatModel(context.Background(), cfg.AI.Provider, apiKey, model)
	if err != nil {
		return nil, err
	}
	if closer, ok := client.(io.Closer); ok {
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				return closer.Close()
			},
		})
	}
	return client, nil
}

func ProvideChatService(
	model utils.ChatModelInterface,
	userRepo repositories.UserRepository,
	plans memcache.PlanStore,
	cfg *config.Config,
) services.ChatServiceInterface {
	return services.NewChatService(model, userRepo, plans, cfg.AI.Timeout, cfg.PlanTTL)
}
