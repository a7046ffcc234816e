package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pitchmate-backend/internal/shared/auth"
	"pitchmate-backend/internal/shared/server/respond"
)

const userIDKey = "userId"

// Session gates a route group on the signed session cookie and stores the
// authenticated user ID in the request context.
func Session(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(auth.CookieName)
		if err != nil || token == "" {
			respond.Error(c, http.StatusUnauthorized, "Not authorized")
			return
		}

		userID, err := tokens.Verify(token)
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "Not authorized")
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserIDFromContext fetches the user ID set by the session middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
