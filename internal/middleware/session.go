package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bytecore/internal/session"
)

const SessionCookie = "bc_session"

// CartSession binds the request to its shopper session, creating one (and
// setting the cookie) on first contact.
func CartSession(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(SessionCookie)
		s := manager.GetOrCreate(id)
		if s.ID != id {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, s.ID, 0, "/", "", false, true)
		}
		c.Set("session", s)
		c.Next()
	}
}

// SessionFrom pulls the shopper session injected by CartSession.
func SessionFrom(c *gin.Context) *session.Session {
	value, ok := c.Get("session")
	if !ok {
		return nil
	}
	s, _ := value.(*session.Session)
	return s
}
