package request_models

import (
	"encoding/json"

	"aitravel/pkg/utils"
)

// ChatRequest is the body of POST /api/chat. The plan is kept raw so a
// client-edited plan with loose types still decodes.
type ChatRequest struct {
	UserMessage         string              `json:"userMessage"`
	ExistingTripPlan    json.RawMessage     `json:"existingTripPlan"`
	ConversationHistory []utils.ChatMessage `json:"conversationHistory"`
}
