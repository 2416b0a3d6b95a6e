package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"aitravel/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func init() {
	gin.SetMode(gin.TestMode)
}

func newSealer(t *testing.T) *utils.SessionSealer {
	t.Helper()
	s, err := utils.NewSessionSealer(testSecret)
	require.NoError(t, err)
	return s
}

func sessionCookie(t *testing.T, s *utils.SessionSealer, user *utils.SessionUser) *http.Cookie {
	t.Helper()
	value, err := s.Seal(&utils.SessionClaims{User: user}, utils.SessionTTL)
	require.NoError(t, err)
	return &http.Cookie{Name: utils.SessionCookieName, Value: value}
}

func TestTraceIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(TraceIDMiddleware())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("trace_id"))
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rr.Header().Get(TraceIDHeader))
	assert.Equal(t, rr.Header().Get(TraceIDHeader), rr.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(TraceIDHeader, "abc-123")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, "abc-123", rr.Body.String())
}

func TestLoggingMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"ok", http.StatusOK},
		{"server error", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(TraceIDMiddleware(), LoggingMiddleware(zap.NewNop().Sugar()))
			r.GET("/", func(c *gin.Context) { c.String(tt.status, "body") })

			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, "body", rr.Body.String())
		})
	}
}

func TestSessionAuthMiddleware(t *testing.T) {
	sealer := newSealer(t)
	other, err := utils.NewSessionSealer("ffffffffffffffffffffffffffffffff")
	require.NoError(t, err)
	user := &utils.SessionUser{ID: "u-1", Email: "ana@example.com"}

	tests := []struct {
		name       string
		cookie     *http.Cookie
		wantStatus int
		wantNext   bool
	}{
		{"no cookie", nil, http.StatusUnauthorized, false},
		{"garbage cookie", &http.Cookie{Name: utils.SessionCookieName, Value: "nope"}, http.StatusUnauthorized, false},
		{"foreign secret", sessionCookie(t, other, user), http.StatusUnauthorized, false},
		{"itinerary only claims", sessionCookie(t, sealer, nil), http.StatusUnauthorized, false},
		{"valid", sessionCookie(t, sealer, user), http.StatusOK, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			r := gin.New()
			r.GET("/api/profile", SessionAuthMiddleware(sealer), func(c *gin.Context) {
				nextCalled = true
				u, ok := CurrentUser(c)
				assert.True(t, ok)
				assert.Equal(t, "u-1", u.ID)
				assert.Equal(t, "u-1", c.GetString(ContextUserID))
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantNext, nextCalled)
			if !tt.wantNext {
				assert.JSONEq(t, `{"success":false,"error":"Not authenticated"}`, rr.Body.String())
			}
		})
	}
}

func TestOptionalSessionMiddleware(t *testing.T) {
	sealer := newSealer(t)
	r := gin.New()
	r.POST("/api/chat", OptionalSessionMiddleware(sealer), func(c *gin.Context) {
		if u, ok := CurrentUser(c); ok {
			c.String(http.StatusOK, u.ID)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/chat", nil))
	assert.Equal(t, "anonymous", rr.Body.String())

	req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	req.AddCookie(sessionCookie(t, sealer, &utils.SessionUser{ID: "u-9"}))
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, "u-9", rr.Body.String())
}

func TestRouteGateMiddleware(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		withCookie   bool
		wantStatus   int
		wantLocation string
	}{
		{"protected without session", "/trips", false, http.StatusFound, "/login?from=%2Ftrips"},
		{"nested protected without session", "/trips/42/edit", false, http.StatusFound, "/login?from=%2Ftrips%2F42%2Fedit"},
		{"protected with session", "/profile", true, http.StatusOK, ""},
		{"similar prefix is public", "/tripsearch", false, http.StatusOK, ""},
		{"login with session", "/login", true, http.StatusFound, "/"},
		{"register with session", "/register", true, http.StatusFound, "/"},
		{"login without session", "/login", false, http.StatusOK, ""},
		{"api is not gated", "/api/trips", false, http.StatusOK, ""},
		{"home is public", "/", false, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(RouteGateMiddleware())
			r.NoRoute(func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.withCookie {
				req.AddCookie(&http.Cookie{Name: utils.SessionCookieName, Value: "x"})
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantLocation, rr.Header().Get("Location"))
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"http://localhost:3000"}))
	r.GET("/api/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
}
