// Package middleware holds the gin middleware for the helpdesk facade.
package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"deskhub/internal/domain/helpdesk"
)

const identityKey = "deskhub.identity"

// Identity extracts the end user's identity from the headers injected by the
// upstream identity provider. Authentication itself happens upstream; this
// service only forwards the credentials to the backends, which authenticate
// the user themselves on every call.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.ParseUint(c.GetHeader("X-User-ID"), 10, 32)
		login := c.GetHeader("X-User-Login")
		secret := c.GetHeader("X-User-Secret")
		if err != nil || login == "" || secret == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing identity headers",
			})
			return
		}

		c.Set(identityKey, helpdesk.Identity{
			UserID:   uint(userID),
			Username: login,
			Secret:   secret,
		})
		c.Next()
	}
}

// IdentityFrom returns the identity stored by the Identity middleware.
func IdentityFrom(c *gin.Context) helpdesk.Identity {
	id, _ := c.Get(identityKey)
	identity, _ := id.(helpdesk.Identity)
	return identity
}

// RequestID tags every request with an id for log correlation, honoring one
// supplied by the caller.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-ID", requestID)
		c.Set("request_id", requestID)
		c.Next()
	}
}
