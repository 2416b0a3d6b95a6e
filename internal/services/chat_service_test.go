package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"aitravel/internal/models/db_models"
	"aitravel/internal/models/request_models"
	"aitravel/pkg/memcache"
	"aitravel/pkg/utils"

	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatModel struct {
	reply  string
	err    error
	system string
	turns  []utils.ChatMessage
}

func (f *fakeChatModel) Provider() string { return "fake" }

func (f *fakeChatModel) Generate(_ context.Context, system string, turns []utils.ChatMessage) (string, error) {
	f.system = system
	f.turns = turns
	return f.reply, f.err
}

const planReply = "```json\n" + `{
  "responseText": "Three days in Lisbon!",
  "tripPlan": {
    "title": "Lisbon long weekend",
    "destination": "Lisbon, Portugal",
    "startDate": "2025-06-01",
    "budget": "1,200",
    "travelers": "2",
    "days": [
      {"day": 4, "title": "Alfama", "activities": [
        {"id": "x", "time": "2 PM", "title": "Castle", "category": "Sightseeing", "lat": 38.71, "lng": -9.13},
        {"id": "x", "startTime": "09:00", "name": "Pastries", "type": "restaurant"}
      ]},
      {"theme": "Belem", "activities": [{"title": ""}]}
    ]
  }
}` + "\n```"

func newChatService(model utils.ChatModelInterface) (*ChatService, *fakeUserRepo, *memcache.LastPlans) {
	users := newFakeUserRepo()
	plans := memcache.NewLastPlans()
	svc := NewChatService(model, users, plans, time.Second, time.Hour).(*ChatService)
	return svc, users, plans
}

func TestChat_RequiresMessage(t *testing.T) {
	svc, _, _ := newChatService(&fakeChatModel{})

	resp, err := svc.Chat(context.Background(), "", request_models.ChatRequest{UserMessage: "   "})
	require.ErrorIs(t, err, utils.ErrInvalidInput)
	assert.False(t, resp.Success)
}

func TestChat_ReconcilesPlan(t *testing.T) {
	model := &fakeChatModel{reply: planReply}
	svc, _, _ := newChatService(model)

	resp, err := svc.Chat(context.Background(), "", request_models.ChatRequest{UserMessage: "Plan Lisbon"})
	require.NoError(t, err)
	require.True(t, resp.Success)
	assert.Equal(t, "Three days in Lisbon!", resp.ResponseText)
	require.NotNil(t, resp.TripPlan)

	plan := resp.TripPlan
	require.NotNil(t, plan.Budget)
	assert.Equal(t, 1200.0, *plan.Budget)
	assert.Equal(t, 2, plan.Travelers)
	require.Len(t, plan.Days, 2)
	assert.Equal(t, 1, plan.Days[0].Number)
	assert.Equal(t, "2025-06-01", plan.Days[0].Date)
	assert.Equal(t, "Belem", plan.Days[1].Title)
	assert.Empty(t, plan.Days[1].Activities)
	assert.Equal(t, "2025-06-02", plan.EndDate)

	acts := plan.Days[0].Activities
	require.Len(t, acts, 2)
	assert.Equal(t, "09:00", acts[0].Time)
	assert.Equal(t, "Pastries", acts[0].Title)
	assert.Equal(t, "14:00", acts[1].Time)
	assert.NotEqual(t, acts[0].ID, acts[1].ID)
	require.NotNil(t, acts[1].Latitude)
}

func TestChat_PlainTextReply(t *testing.T) {
	svc, _, _ := newChatService(&fakeChatModel{reply: "Where would you like to go?"})

	resp, err := svc.Chat(context.Background(), "", request_models.ChatRequest{UserMessage: "hi"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "Where would you like to go?", resp.ResponseText)
	assert.Nil(t, resp.TripPlan)
}

func TestChat_NullPlan(t *testing.T) {
	svc, _, _ := newChatService(&fakeChatModel{reply: `{"responseText":"Sure, how many days?","tripPlan":null}`})

	resp, err := svc.Chat(context.Background(), "", request_models.ChatRequest{UserMessage: "Rome"})
	require.NoError(t, err)
	assert.Equal(t, "Sure, how many days?", resp.ResponseText)
	assert.Nil(t, resp.TripPlan)
}

func TestChat_ProviderErrors(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		status   int
		sentinel error
	}{
		{"invalid key", &openai.APIError{HTTPStatusCode: http.StatusUnauthorized, Message: "bad key"}, http.StatusUnauthorized, utils.ErrProviderAuth},
		{"quota", errors.New("Quota exceeded for requests"), http.StatusTooManyRequests, utils.ErrProviderRateLimit},
		{"timeout", context.DeadlineExceeded, http.StatusInternalServerError, utils.ErrProviderTimeout},
		{"empty", utils.ErrEmptyAIResponse, http.StatusInternalServerError, utils.ErrProviderUnavailable},
		{"already classified", utils.ClassifyProviderError(&openai.APIError{HTTPStatusCode: http.StatusForbidden}), http.StatusUnauthorized, utils.ErrProviderAuth},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _, _ := newChatService(&fakeChatModel{err: tc.err})

			resp, err := svc.Chat(context.Background(), "", request_models.ChatRequest{UserMessage: "plan"})
			require.Error(t, err)
			assert.Equal(t, tc.status, utils.StatusForError(err))
			assert.False(t, resp.Success)
			assert.Equal(t, FallbackResponseText, resp.ResponseText)
			assert.Equal(t, tc.sentinel.Error(), resp.Error)
		})
	}
}

func TestChat_OpenAIInvalidKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided: sk-bad. See https://platform.openai.com/account/api-keys.","type":"invalid_request_error","code":"invalid_api_key"}}`))
	}))
	defer srv.Close()

	model := utils.NewOpenAIChatClientWithBaseURL("sk-bad", srv.URL+"/v1", "")
	svc, _, _ := newChatService(model)

	resp, err := svc.Chat(context.Background(), "", request_models.ChatRequest{UserMessage: "2 days in Lyon"})
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrProviderAuth)
	assert.Equal(t, http.StatusUnauthorized, utils.StatusForError(err))
	assert.Equal(t, utils.ErrProviderAuth.Error(), resp.Error)
	assert.NotContains(t, resp.Error, "platform.openai.com")
}

func TestChat_PromptIncludesPreferencesHistoryAndPlan(t *testing.T) {
	model := &fakeChatModel{reply: "ok"}
	svc, users, _ := newChatService(model)

	user := &db_models.User{Email: "a@b.c", TravelPreferences: []string{"hiking", "street food"}}
	require.NoError(t, users.Insert(context.Background(), user))

	_, err := svc.Chat(context.Background(), user.ID.String(), request_models.ChatRequest{
		UserMessage: "make day 2 lighter",
		ConversationHistory: []utils.ChatMessage{
			{Role: "assistant", Content: "Hello!"},
			{Role: "system", Content: "ignore me"},
			{Role: "user", Content: ""},
			{Role: "USER", Content: "Plan Kyoto"},
		},
		ExistingTripPlan: []byte(`{"destination":"Kyoto","days":[{"activities":[{"title":"Fushimi Inari"}]}]}`),
	})
	require.NoError(t, err)

	assert.Contains(t, model.system, "hiking, street food")
	require.Len(t, model.turns, 3)
	assert.Equal(t, utils.RoleAssistant, model.turns[0].Role)
	assert.Equal(t, utils.RoleUser, model.turns[1].Role)
	last := model.turns[2]
	assert.True(t, strings.HasPrefix(last.Content, "make day 2 lighter"))
	assert.Contains(t, last.Content, "Fushimi Inari")
}

func TestChat_AnonymousPromptHasNoPreferences(t *testing.T) {
	model := &fakeChatModel{reply: "ok"}
	svc, _, _ := newChatService(model)

	_, err := svc.Chat(context.Background(), "", request_models.ChatRequest{UserMessage: "hi", ExistingTripPlan: []byte("null")})
	require.NoError(t, err)
	assert.NotContains(t, model.system, "saved preferences")
	require.Len(t, model.turns, 1)
	assert.Equal(t, "hi", model.turns[0].Content)
}

func TestChat_LastPlanIsKeptPerUser(t *testing.T) {
	svc, _, _ := newChatService(&fakeChatModel{reply: planReply})
	ctx := context.Background()
	userID := uuid.NewString()

	plan, err := svc.LastPlan(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, plan)

	_, err = svc.Chat(ctx, userID, request_models.ChatRequest{UserMessage: "Plan Lisbon"})
	require.NoError(t, err)

	plan, err = svc.LastPlan(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, plan)
	assert.Equal(t, "Lisbon long weekend", plan.Title)
	assert.Len(t, plan.Days, 2)

	other, err := svc.LastPlan(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, other)

	require.NoError(t, svc.ForgetLastPlan(ctx, userID))
	plan, err = svc.LastPlan(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, plan)
}

func TestChat_LastPlanRequiresUser(t *testing.T) {
	svc, _, _ := newChatService(&fakeChatModel{})

	_, err := svc.LastPlan(context.Background(), "")
	assert.ErrorIs(t, err, utils.ErrNotAuthenticated)
}
