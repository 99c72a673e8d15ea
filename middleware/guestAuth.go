package middleware

import (
	"net/http"
	"strings"

	"voyago/utils"

	"github.com/gin-gonic/gin"
)

// GuestAuthMiddleware extracts the verified guest id from the bearer token
// and sets it on the context. Who the guest actually is belongs to the
// identity collaborator; the engine only cares that the caller is
// authorized and which opaque id they act as.
func GuestAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		guestID, err := utils.ExtractGuestIDFromToken(tokenString)
		if err != nil || guestID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}

		c.Set("guestID", guestID)
		c.Next()
	}
}
