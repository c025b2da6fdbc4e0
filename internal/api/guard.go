package api

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/UnknownOlympus/vetscout/internal/models"
	"github.com/UnknownOlympus/vetscout/internal/session"
	"github.com/gin-gonic/gin"
)

// FromParam is the query parameter holding the path the user originally asked for.
const FromParam = "from"

// CookieName is the cookie Login sets so browsers present their token on later requests.
const CookieName = "vetscout_token"

const (
	sessionKey   = "session"
	bearerPrefix = "Bearer "
)

// Credential returns the token the request presents, from the Authorization header
// or the session cookie. An empty result means the request is anonymous.
func Credential(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	}

	token, err := c.Cookie(CookieName)
	if err != nil {
		return ""
	}

	return token
}

// RequireSession lets requests holding a known token through and redirects the rest to
// authPath, remembering the requested URI in the "from" parameter.
func RequireSession(manager *session.Manager, authPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		current, ok, err := manager.Current(c.Request.Context(), Credential(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "session store unavailable"})
			return
		}
		if !ok {
			target := authPath + "?" + url.Values{FromParam: {c.Request.URL.RequestURI()}}.Encode()
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}

		c.Set(sessionKey, current)
		c.Next()
	}
}

// CurrentSession returns the session RequireSession attached to the request.
func CurrentSession(c *gin.Context) (models.Session, bool) {
	value, ok := c.Get(sessionKey)
	if !ok {
		return models.Session{}, false
	}
	current, ok := value.(models.Session)

	return current, ok
}

// RequestedPath returns the path the guard redirected from, or "/" when there is none.
// Only same-origin paths are accepted.
func RequestedPath(c *gin.Context) string {
	from := c.Query(FromParam)
	if !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") || strings.HasPrefix(from, "/\\") {
		return "/"
	}

	return from
}
