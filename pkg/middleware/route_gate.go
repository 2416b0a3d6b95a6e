package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"aitravel/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ProtectedPrefixes are page paths that need a session cookie.
var ProtectedPrefixes = []string{"/profile", "/trips", "/itinerary", "/checkout", "/map"}

// AuthPages redirect home when a session cookie is already present.
var AuthPages = []string{"/login", "/register"}

// RouteGateMiddleware only checks that the session cookie is present.
// Handlers behind it still validate the cookie contents.
func RouteGateMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		_, err := c.Cookie(utils.SessionCookieName)
		hasSession := err == nil

		if !hasSession && matchesAny(path, ProtectedPrefixes) {
			c.Redirect(http.StatusFound, "/login?from="+url.QueryEscape(path))
			c.Abort()
			return
		}
		if hasSession && matchesAny(path, AuthPages) {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

func matchesAny(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}
