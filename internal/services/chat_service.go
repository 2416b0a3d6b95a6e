package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"aitravel/internal/itinerary"
	"aitravel/internal/models/request_models"
	"aitravel/internal/models/response_models"
	"aitravel/internal/repositories"
	"aitravel/pkg/logger"
	"aitravel/pkg/memcache"
	"aitravel/pkg/utils"
)

// FallbackResponseText is shown to the traveller whenever the model call fails.
const FallbackResponseText = "Sorry, I couldn't put your trip together right now. Please try again in a moment."

const (
	maxHistoryTurns   = 20
	maxMessageLength  = 4000
	defaultPlanAnswer = "Here's a trip plan based on what you told me."
)

type ChatServiceInterface interface {
	// Chat answers one user message. userID is empty for anonymous callers.
	// On provider failure the response is still filled with the fallback text
	// and the returned error carries the classified provider sentinel.
	Chat(ctx context.Context, userID string, request request_models.ChatRequest) (*response_models.ChatResponse, error)
	LastPlan(ctx context.Context, userID string) (*itinerary.Plan, error)
	ForgetLastPlan(ctx context.Context, userID string) error
}

type ChatService struct {
	model    utils.ChatModelInterface
	userRepo repositories.UserRepository
	plans    memcache.PlanStore
	timeout  time.Duration
	planTTL  time.Duration
}

func NewChatService(
	model utils.ChatModelInterface,
	userRepo repositories.UserRepository,
	plans memcache.PlanStore,
	timeout time.Duration,
	planTTL time.Duration,
) ChatServiceInterface {
	return &ChatService{
		model:    model,
		userRepo: userRepo,
		plans:    plans,
		timeout:  timeout,
		planTTL:  planTTL,
	}
}

// chatEnvelope is the JSON shape the model is asked to answer with.
type chatEnvelope struct {
	ResponseText string          `json:"responseText"`
	TripPlan     json.RawMessage `json:"tripPlan"`
}

func (s *ChatService) Chat(ctx context.Context, userID string, request request_models.ChatRequest) (*response_models.ChatResponse, error) {
	message := strings.TrimSpace(request.UserMessage)
	if message == "" {
		return &response_models.ChatResponse{
			Success: false,
			Error:   "userMessage is required",
		}, fmt.Errorf("%w: userMessage is required", utils.ErrInvalidInput)
	}
	if len(message) > maxMessageLength {
		message = message[:maxMessageLength]
	}

	system := s.systemPrompt(ctx, userID)
	turns := buildTurns(request.ConversationHistory, message, request.ExistingTripPlan)

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	reply, err := s.model.Generate(callCtx, system, turns)
	if err != nil {
		classified := utils.ClassifyProviderError(err)
		logger.Log.Warnw("chat generation failed",
			"provider", s.model.Provider(),
			"duration", time.Since(started),
			"error", classified,
		)
		return &response_models.ChatResponse{
			Success:      false,
			ResponseText: FallbackResponseText,
			Error:        providerErrorMessage(classified),
		}, classified
	}

	response := parseChatReply(reply)
	logger.Log.Debugw("chat generation finished",
		"provider", s.model.Provider(),
		"duration", time.Since(started),
		"has_plan", response.TripPlan != nil,
	)

	if response.TripPlan != nil && userID != "" {
		s.rememberPlan(ctx, userID, *response.TripPlan)
	}
	return response, nil
}

func (s *ChatService) LastPlan(ctx context.Context, userID string) (*itinerary.Plan, error) {
	if userID == "" {
		return nil, utils.ErrNotAuthenticated
	}
	data, ok, err := s.plans.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if !ok {
		return nil, nil
	}

	var plan itinerary.Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		// unreadable entries are dropped rather than served
		_ = s.plans.Delete(ctx, userID)
		return nil, nil
	}
	return &plan, nil
}

func (s *ChatService) ForgetLastPlan(ctx context.Context, userID string) error {
	if userID == "" {
		return utils.ErrNotAuthenticated
	}
	if err := s.plans.Delete(ctx, userID); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return nil
}

// providerErrorMessage keeps provider details (URLs, raw messages) in the logs only.
func providerErrorMessage(err error) string {
	if sentinel := utils.ProviderSentinel(err); sentinel != nil {
		return sentinel.Error()
	}
	return utils.ErrProviderUnavailable.Error()
}

func (s *ChatService) rememberPlan(ctx context.Context, userID string, plan itinerary.Plan) {
	data, err := json.Marshal(plan)
	if err != nil {
		return
	}
	if err := s.plans.Set(ctx, userID, data, s.planTTL); err != nil {
		logger.Log.Warnw("failed to store last plan", "user_id", userID, "error", err)
	}
}

func (s *ChatService) systemPrompt(ctx context.Context, userID string) string {
	var prefs []string
	if userID != "" && s.userRepo != nil {
		user, err := s.userRepo.FindByID(ctx, userID)
		if err != nil {
			logger.Log.Warnw("failed to load travel preferences", "user_id", userID, "error", err)
		} else if user != nil {
			prefs = user.TravelPreferences
		}
	}
	return buildSystemPrompt(prefs)
}

func buildSystemPrompt(preferences []string) string {
	var prompt strings.Builder

	prompt.WriteString("You are a friendly travel planning assistant. Help the user plan a trip and keep refining it as the conversation goes on.\n\n")
	prompt.WriteString("RULES:\n")
	prompt.WriteString("1. Always answer with a single JSON object and nothing else\n")
	prompt.WriteString("2. Put your conversational answer in \"responseText\"\n")
	prompt.WriteString("3. When you propose or change an itinerary, return the COMPLETE plan in \"tripPlan\", otherwise set it to null\n")
	prompt.WriteString("4. When an existing plan is provided, edit it instead of starting over and keep activity ids unchanged\n")
	prompt.WriteString("5. Use 24-hour times (e.g. 09:00, 14:30) and ISO dates (YYYY-MM-DD)\n")
	prompt.WriteString("6. category must be one of: sightseeing, food, activity, transport, accommodation, shopping, entertainment, other\n")
	prompt.WriteString("7. Include latitude and longitude for real places when you know them\n\n")

	if len(preferences) > 0 {
		prompt.WriteString(fmt.Sprintf("The traveller's saved preferences: %s. Favour them when choosing activities.\n\n", strings.Join(preferences, ", ")))
	}

	prompt.WriteString("Return JSON in this EXACT format:\n")
	prompt.WriteString(`{
  "responseText": "Short friendly answer",
  "tripPlan": {
    "title": "Trip title",
    "destination": "City, Country",
    "startDate": "2025-06-01",
    "endDate": "2025-06-03",
    "budget": 1500,
    "travelers": 2,
    "days": [
      {
        "day": 1,
        "date": "2025-06-01",
        "title": "Arrival and old town",
        "activities": [
          {
            "id": "a1",
            "time": "09:00",
            "title": "Walking tour",
            "description": "What to do there",
            "location": "Place name",
            "latitude": 0.0,
            "longitude": 0.0,
            "category": "sightseeing"
          }
        ]
      }
    ]
  }
}`)
	return prompt.String()
}

// buildTurns keeps the last well-formed history turns and appends the new
// message, with the current plan attached when the client sent one.
func buildTurns(history []utils.ChatMessage, message string, existingPlan json.RawMessage) []utils.ChatMessage {
	turns := make([]utils.ChatMessage, 0, len(history)+1)
	for _, m := range history {
		role := strings.ToLower(strings.TrimSpace(m.Role))
		content := strings.TrimSpace(m.Content)
		if content == "" || (role != utils.RoleUser && role != utils.RoleAssistant) {
			continue
		}
		turns = append(turns, utils.ChatMessage{Role: role, Content: content})
	}
	if len(turns) > maxHistoryTurns {
		turns = turns[len(turns)-maxHistoryTurns:]
	}

	content := message
	if plan := existingPlanJSON(existingPlan); plan != "" {
		content = fmt.Sprintf("%s\n\nCurrent trip plan:\n%s", message, plan)
	}
	return append(turns, utils.ChatMessage{Role: utils.RoleUser, Content: content})
}

// existingPlanJSON re-encodes the client's plan through the reconciler so the
// model only ever sees the canonical shape.
func existingPlanJSON(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	parsed, err := itinerary.ParseRawPlan(trimmed)
	if err != nil {
		return ""
	}
	plan := itinerary.Reconcile(parsed)
	if len(plan.Days) == 0 && plan.Destination == "" {
		return ""
	}
	out, err := json.Marshal(plan)
	if err != nil {
		return ""
	}
	return string(out)
}

// parseChatReply turns the model's text into a response. Replies that are not
// JSON become plain text; a bare plan object is accepted as the plan itself.
func parseChatReply(reply string) *response_models.ChatResponse {
	text := strings.TrimSpace(reply)
	obj, ok := utils.ExtractJSONObject(text)
	if !ok {
		if text == "" {
			text = FallbackResponseText
		}
		return &response_models.ChatResponse{Success: true, ResponseText: text}
	}

	var envelope chatEnvelope
	if err := json.Unmarshal([]byte(obj), &envelope); err != nil {
		return &response_models.ChatResponse{Success: true, ResponseText: text}
	}

	planJSON := bytes.TrimSpace(envelope.TripPlan)
	if len(planJSON) == 0 && envelope.ResponseText == "" {
		planJSON = []byte(obj)
	}

	response := &response_models.ChatResponse{
		Success:      true,
		ResponseText: strings.TrimSpace(envelope.ResponseText),
	}
	if plan := reconcilePlanJSON(planJSON); plan != nil {
		response.TripPlan = plan
		if response.ResponseText == "" {
			response.ResponseText = defaultPlanAnswer
		}
	}
	if response.ResponseText == "" {
		response.ResponseText = text
	}
	return response
}

func reconcilePlanJSON(data []byte) *itinerary.Plan {
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	raw, err := itinerary.ParseRawPlan(data)
	if err != nil {
		return nil
	}
	plan := itinerary.Reconcile(raw)
	if len(plan.Days) == 0 {
		return nil
	}
	return &plan
}
