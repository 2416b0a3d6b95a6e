package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"aitravel/internal/models/request_models"
	"aitravel/internal/models/response_models"
	"aitravel/internal/services"
	"aitravel/pkg/middleware"
	"aitravel/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func init() {
	gin.SetMode(gin.TestMode)
}

func testCookies(t *testing.T) CookieSettings {
	t.Helper()
	sealer, err := utils.NewSessionSealer(testSecret)
	require.NoError(t, err)
	return CookieSettings{Sealer: sealer}
}

func sessionCookie(t *testing.T, cookies CookieSettings, userID string) *http.Cookie {
	t.Helper()
	value, err := cookies.Sealer.Seal(&utils.SessionClaims{User: &utils.SessionUser{ID: userID, Email: "a@b.co"}}, utils.SessionTTL)
	require.NoError(t, err)
	return &http.Cookie{Name: utils.SessionCookieName, Value: value}
}

func doJSON(r http.Handler, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// --- chat ---

type fakeChatService struct {
	services.ChatServiceInterface
	resp   *response_models.ChatResponse
	err    error
	userID string
}

func (f *fakeChatService) Chat(_ context.Context, userID string, _ request_models.ChatRequest) (*response_models.ChatResponse, error) {
	f.userID = userID
	return f.resp, f.err
}

func chatRouter(t *testing.T, svc services.ChatServiceInterface) (*gin.Engine, CookieSettings) {
	cookies := testCookies(t)
	r := gin.New()
	ctrl := NewPromptController(svc)
	r.POST("/api/chat", middleware.OptionalSessionMiddleware(cookies.Sealer), ctrl.Chat)
	return r, cookies
}

func TestChat_Success(t *testing.T) {
	svc := &fakeChatService{resp: &response_models.ChatResponse{Success: true, ResponseText: "Here you go"}}
	r, cookies := chatRouter(t, svc)
	userID := uuid.NewString()

	w := doJSON(r, http.MethodPost, "/api/chat", map[string]any{"userMessage": "3 days in Rome"}, sessionCookie(t, cookies, userID))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Here you go", body["responseText"])
	assert.NotContains(t, body, "data", "chat replies are not wrapped")
	assert.Equal(t, userID, svc.userID)
}

func TestChat_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"empty message", utils.ErrInvalidInput, http.StatusBadRequest},
		{"bad key", utils.ErrProviderAuth, http.StatusUnauthorized},
		{"quota", utils.ErrProviderRateLimit, http.StatusTooManyRequests},
		{"timeout", utils.ErrProviderUnavailable, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeChatService{
				resp: &response_models.ChatResponse{ResponseText: services.FallbackResponseText, Error: tt.err.Error()},
				err:  tt.err,
			}
			r, _ := chatRouter(t, svc)

			w := doJSON(r, http.MethodPost, "/api/chat", map[string]any{"userMessage": "hi"})

			assert.Equal(t, tt.want, w.Code)
			var body response_models.ChatResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, services.FallbackResponseText, body.ResponseText)
			assert.Empty(t, svc.userID, "anonymous caller")
		})
	}
}

func TestChat_MalformedBody(t *testing.T) {
	r, _ := chatRouter(t, &fakeChatService{})
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader("{"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- trips and the current itinerary cookie ---

type fakeTripService struct {
	services.TripServiceInterface
	trips map[string]*response_models.TripResponse
}

func (f *fakeTripService) GetTrip(_ context.Context, _ string, tripID string) (*response_models.TripResponse, error) {
	trip, ok := f.trips[tripID]
	if !ok {
		return nil, utils.ErrTripNotFound
	}
	return trip, nil
}

type fakePDFService struct{}

func (fakePDFService) TripPDF(_ context.Context, _, tripID string) (string, []byte, error) {
	return "rome.pdf", []byte("%PDF-1.3 fake"), nil
}

func tripRouter(t *testing.T, svc *fakeTripService) (*gin.Engine, CookieSettings) {
	cookies := testCookies(t)
	ctrl := NewTripController(svc, fakePDFService{}, cookies)
	r := gin.New()
	api := r.Group("/api", middleware.SessionAuthMiddleware(cookies.Sealer))
	api.GET("/trips/:id/pdf", ctrl.ExportPDF)
	api.DELETE("/trips/:id/days/:day", ctrl.RemoveDay)
	api.GET("/itinerary/current", ctrl.GetCurrentItinerary)
	api.PUT("/itinerary/current", ctrl.SetCurrentItinerary)
	return r, cookies
}

func TestTripRoutes_RequireSession(t *testing.T) {
	r, _ := tripRouter(t, &fakeTripService{})

	w := doJSON(r, http.MethodGet, "/api/itinerary/current", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Not authenticated"}`, w.Body.String())
}

func TestCurrentItinerary_RoundTrip(t *testing.T) {
	tripID := uuid.New()
	svc := &fakeTripService{trips: map[string]*response_models.TripResponse{
		tripID.String(): {ID: tripID, Destination: "Rome"},
	}}
	r, cookies := tripRouter(t, svc)
	session := sessionCookie(t, cookies, uuid.NewString())

	w := doJSON(r, http.MethodGet, "/api/itinerary/current", nil, session)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `"data"`)

	w = doJSON(r, http.MethodPut, "/api/itinerary/current", map[string]string{"trip_id": tripID.String()}, session)
	require.Equal(t, http.StatusOK, w.Code)
	current := findCookie(w, utils.ItineraryCookieName)
	require.NotNil(t, current)
	assert.Equal(t, int(utils.ItineraryTTL.Seconds()), current.MaxAge)
	assert.True(t, current.HttpOnly)

	w = doJSON(r, http.MethodGet, "/api/itinerary/current", nil, session, current)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data response_models.TripResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, tripID, body.Data.ID)
}

func TestCurrentItinerary_StaleTripClearsCookie(t *testing.T) {
	r, cookies := tripRouter(t, &fakeTripService{trips: map[string]*response_models.TripResponse{}})
	session := sessionCookie(t, cookies, uuid.NewString())
	value, err := cookies.Sealer.Seal(&utils.SessionClaims{TripID: uuid.NewString()}, utils.ItineraryTTL)
	require.NoError(t, err)

	w := doJSON(r, http.MethodGet, "/api/itinerary/current", nil, session, &http.Cookie{Name: utils.ItineraryCookieName, Value: value})

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `"data"`)
	cleared := findCookie(w, utils.ItineraryCookieName)
	require.NotNil(t, cleared)
	assert.Less(t, cleared.MaxAge, 0)
}

func TestSetCurrentItinerary_UnknownTrip(t *testing.T) {
	r, cookies := tripRouter(t, &fakeTripService{trips: map[string]*response_models.TripResponse{}})

	w := doJSON(r, http.MethodPut, "/api/itinerary/current", map[string]string{"trip_id": uuid.NewString()}, sessionCookie(t, cookies, uuid.NewString()))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Nil(t, findCookie(w, utils.ItineraryCookieName))
}

func TestExportPDF(t *testing.T) {
	r, cookies := tripRouter(t, &fakeTripService{})

	w := doJSON(r, http.MethodGet, "/api/trips/"+uuid.NewString()+"/pdf", nil, sessionCookie(t, cookies, uuid.NewString()))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="rome.pdf"`, w.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF-"))
}

func TestRemoveDay_BadDayNumber(t *testing.T) {
	r, cookies := tripRouter(t, &fakeTripService{})

	for _, day := range []string{"zero", "0", "-1"} {
		w := doJSON(r, http.MethodDelete, "/api/trips/"+uuid.NewString()+"/days/"+day, nil, sessionCookie(t, cookies, uuid.NewString()))
		assert.Equal(t, http.StatusBadRequest, w.Code, day)
	}
}

// --- account ---

type fakeAccountService struct {
	services.AccountServiceInterface
	user *response_models.UserResponse
	err  error
}

func (f *fakeAccountService) Register(context.Context, request_models.RegisterRequest) (*response_models.UserResponse, error) {
	return f.user, f.err
}

func (f *fakeAccountService) GetProfile(context.Context, string) (*response_models.UserResponse, error) {
	return f.user, f.err
}

func TestRegister_SetsSessionCookie(t *testing.T) {
	userID := uuid.NewString()
	cookies := testCookies(t)
	ctrl := NewAccountController(&fakeAccountService{user: &response_models.UserResponse{ID: userID, Email: "ana@example.com", FirstName: "Ana"}}, cookies)
	r := gin.New()
	r.POST("/api/auth/register", ctrl.Register)

	w := doJSON(r, http.MethodPost, "/api/auth/register", map[string]string{
		"first_name": "Ana", "last_name": "Lima", "email": "ana@example.com", "password": "Sup3rSecret!",
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	session := findCookie(w, utils.SessionCookieName)
	require.NotNil(t, session)
	claims, err := cookies.Sealer.Open(session.Value)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.User.ID)
	assert.Equal(t, "Ana", claims.User.FirstName)
}

func TestRegister_Conflict(t *testing.T) {
	ctrl := NewAccountController(&fakeAccountService{err: utils.ErrEmailAlreadyExists}, testCookies(t))
	r := gin.New()
	r.POST("/api/auth/register", ctrl.Register)

	w := doJSON(r, http.MethodPost, "/api/auth/register", map[string]string{
		"first_name": "Ana", "last_name": "Lima", "email": "ana@example.com", "password": "Sup3rSecret!",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Nil(t, findCookie(w, utils.SessionCookieName))
}

func TestGetProfile_DeletedUserClearsSession(t *testing.T) {
	cookies := testCookies(t)
	ctrl := NewAccountController(&fakeAccountService{err: utils.ErrNotAuthenticated}, cookies)
	r := gin.New()
	r.GET("/api/profile", middleware.SessionAuthMiddleware(cookies.Sealer), ctrl.GetProfile)

	w := doJSON(r, http.MethodGet, "/api/profile", nil, sessionCookie(t, cookies, uuid.NewString()))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	cleared := findCookie(w, utils.SessionCookieName)
	require.NotNil(t, cleared)
	assert.Less(t, cleared.MaxAge, 0)
}

func TestLogout_ClearsBothCookies(t *testing.T) {
	ctrl := NewAccountController(&fakeAccountService{}, testCookies(t))
	r := gin.New()
	r.POST("/api/auth/logout", ctrl.Logout)

	w := doJSON(r, http.MethodPost, "/api/auth/logout", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, findCookie(w, utils.SessionCookieName))
	assert.NotNil(t, findCookie(w, utils.ItineraryCookieName))
}

// --- payments ---

type fakePaymentService struct {
	services.PaymentServiceInterface
	err error
}

func (f *fakePaymentService) Checkout(_ context.Context, _ string, req request_models.CheckoutRequest) (*response_models.CheckoutResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &response_models.CheckoutResponse{}, nil
}

func TestCheckout(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
		err  error
		want int
	}{
		{"confirmed", map[string]any{"trip_id": uuid.NewString(), "payment_method_id": uuid.NewString()}, nil, http.StatusCreated},
		{"trip id not a uuid", map[string]any{"trip_id": "rome"}, nil, http.StatusBadRequest},
		{"nothing to charge", map[string]any{"trip_id": uuid.NewString()}, utils.ErrNothingToCharge, http.StatusBadRequest},
		{"foreign trip", map[string]any{"trip_id": uuid.NewString()}, utils.ErrTripNotFound, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cookies := testCookies(t)
			ctrl := NewPaymentController(&fakePaymentService{err: tt.err})
			r := gin.New()
			r.POST("/api/checkout", middleware.SessionAuthMiddleware(cookies.Sealer), ctrl.Checkout)

			w := doJSON(r, http.MethodPost, "/api/checkout", tt.body, sessionCookie(t, cookies, uuid.NewString()))
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}
