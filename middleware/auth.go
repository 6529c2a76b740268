package middleware

import (
	"net/http"
	"strings"

	"policyangel/services/dispatch"
	"policyangel/utils"

	"github.com/gin-gonic/gin"
)

// DeviceAuthMiddleware authenticates requests with a device session token.
// The token must validate and its hash must resolve to a registered device.
func DeviceAuthMiddleware(registry dispatch.DeviceRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		// Validate the token signature and expiration.
		token, err := utils.ValidateToken(tokenString)
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		// Compute the token hash and resolve it to a registered device.
		computedHash := utils.HashToken(tokenString)
		deviceID, err := registry.FindByTokenHash(c.Request.Context(), computedHash)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token mismatch or device not registered"})
			return
		}

		c.Set("deviceID", deviceID)
		c.Next()
	}
}
