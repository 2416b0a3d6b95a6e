package middleware

import (
	"net/http"

	"aitravel/pkg/utils"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserID      = "user_id"
	ContextSessionUser = "session_user"
)

// SessionAuthMiddleware rejects requests that do not carry a valid session cookie.
func SessionAuthMiddleware(sealer *utils.SessionSealer) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := readSession(c, sealer)
		if !ok {
			utils.RespondError(c, http.StatusUnauthorized, "Not authenticated")
			c.Abort()
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextSessionUser, user)
		c.Next()
	}
}

// OptionalSessionMiddleware attaches the session user when there is one and
// lets anonymous requests through.
func OptionalSessionMiddleware(sealer *utils.SessionSealer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, ok := readSession(c, sealer); ok {
			c.Set(ContextUserID, user.ID)
			c.Set(ContextSessionUser, user)
		}
		c.Next()
	}
}

// CurrentUser returns the session user set by one of the session middlewares.
func CurrentUser(c *gin.Context) (*utils.SessionUser, bool) {
	v, ok := c.Get(ContextSessionUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*utils.SessionUser)
	return user, ok && user != nil
}

func readSession(c *gin.Context, sealer *utils.SessionSealer) (*utils.SessionUser, bool) {
	value, err := c.Cookie(utils.SessionCookieName)
	if err != nil || value == "" {
		return nil, false
	}
	claims, err := sealer.Open(value)
	if err != nil || claims.User == nil || claims.User.ID == "" {
		return nil, false
	}
	return claims.User, true
}
