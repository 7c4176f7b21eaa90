// internal/interfaces/http/middleware/session.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/session"
)

// GuestSessionCookie is the cookie carrying the guest session token
const GuestSessionCookie = "guest_session"

// GuestSession resolves the guest session cookie, issuing a fresh session
// when the cookie is missing, unknown, or expired. The session ID is
// stored in the request context so cart and checkout handlers can scope
// their queries to it.
func GuestSession(cfg *config.Config, sessionService *session.Service) gin.HandlerFunc {
	maxAge := int(cfg.Store.GuestSessionTTL.Seconds())

	return func(c *gin.Context) {
		token, _ := c.Cookie(GuestSessionCookie)

		sess, isNew, err := sessionService.ResolveOrCreate(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to establish session",
			})
			c.Abort()
			return
		}

		if isNew {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(GuestSessionCookie, sess.Token, maxAge, "/", "", cfg.IsProduction(), true)
		}

		c.Set("guest_session_id", sess.ID)
		c.Set("guest_session_token", sess.Token)

		c.Next()
	}
}

// GetGuestSessionIDFromContext extracts the guest session ID from gin context
func GetGuestSessionIDFromContext(c *gin.Context) (uint, bool) {
	id, exists := c.Get("guest_session_id")
	if !exists {
		return 0, false
	}
	return id.(uint), true
}
