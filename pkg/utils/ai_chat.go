package utils

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of a conversation with the travel assistant.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatModelInterface is implemented by every generative-text provider.
// The last message in turns is the one being answered.
type ChatModelInterface interface {
	Generate(ctx context.Context, system string, turns []ChatMessage) (string, error)
	Provider() string
}

// NewChatModel creates either a Gemini or an OpenAI chat client.
func NewChatModel(ctx context.Context, provider, apiKey, model string) (ChatModelInterface, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%s API key is required", provider)
	}
	switch strings.ToLower(provider) {
	case "openai":
		return NewOpenAIChatClient(apiKey, model), nil
	case "gemini":
		return NewGeminiChatClient(ctx, apiKey, model)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

// ClassifyProviderError wraps a provider failure in one of ErrProviderAuth,
// ErrProviderRateLimit, ErrProviderTimeout or ErrProviderUnavailable.
func ClassifyProviderError(err error) error {
	if err == nil {
		return nil
	}
	if ProviderSentinel(err) != nil {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrProviderTimeout, err)
	}

	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	var gErr *googleapi.Error
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	case errors.As(err, &gErr):
		status = gErr.Code
	}

	if st, ok := grpcstatus.FromError(err); ok && status == 0 {
		switch st.Code() {
		case codes.Unauthenticated, codes.PermissionDenied:
			status = http.StatusUnauthorized
		case codes.ResourceExhausted:
			status = http.StatusTooManyRequests
		case codes.DeadlineExceeded:
			return fmt.Errorf("%w: %w", ErrProviderTimeout, err)
		}
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "api key not valid") || strings.Contains(msg, "api_key_invalid") || strings.Contains(msg, "incorrect api key") {
		status = http.StatusUnauthorized
	}
	if status == 0 && (strings.Contains(msg, "quota") || strings.Contains(msg, "rate limit")) {
		status = http.StatusTooManyRequests
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %w", ErrProviderAuth, err)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", ErrProviderRateLimit, err)
	default:
		return fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}
}

var providerSentinels = []error{ErrProviderAuth, ErrProviderRateLimit, ErrProviderTimeout, ErrProviderUnavailable}

// ProviderSentinel returns the provider sentinel err was classified as, or nil.
func ProviderSentinel(err error) error {
	for _, s := range providerSentinels {
		if errors.Is(err, s) {
			return s
		}
	}
	return nil
}
