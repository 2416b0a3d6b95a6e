package utils

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiChatClient implements ChatModelInterface using Google's Gemini models
type GeminiChatClient struct {
	client *genai.Client
	model  string
}

func NewGeminiChatClient(ctx context.Context, apiKey, model string) (*GeminiChatClient, error) {
	if model == "" {
		model = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiChatClient{client: client, model: model}, nil
}

func (c *GeminiChatClient) Provider() string { return "gemini" }

func (c *GeminiChatClient) Generate(ctx context.Context, system string, turns []ChatMessage) (string, error) {
	if len(turns) == 0 {
		return "", fmt.Errorf("%w: no message to answer", ErrInvalidInput)
	}

	m := c.client.GenerativeModel(c.model)
	// Force JSON-only so replies parse without brace-matching in the common case.
	m.ResponseMIMEType = "application/json"
	m.SetTemperature(0.4)
	m.SetTopP(0.9)
	m.SetMaxOutputTokens(8192)
	m.SystemInstruction = genai.NewUserContent(genai.Text(system))

	cs := m.StartChat()
	cs.History = geminiHistory(turns[:len(turns)-1])

	resp, err := cs.SendMessage(ctx, genai.Text(turns[len(turns)-1].Content))
	if err != nil {
		return "", ClassifyProviderError(err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyAIResponse
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", ErrEmptyAIResponse
	}
	return b.String(), nil
}

// geminiHistory converts turns to Gemini contents. Gemini requires the
// history to open with a user turn, so leading assistant turns are dropped.
func geminiHistory(turns []ChatMessage) []*genai.Content {
	history := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		role := "user"
		if t.Role == RoleAssistant {
			role = "model"
		}
		if len(history) == 0 && role != "user" {
			continue
		}
		history = append(history, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(t.Content)}})
	}
	return history
}

func (c *GeminiChatClient) Close() error {
	return c.client.Close()
}
