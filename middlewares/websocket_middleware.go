package middlewares

import (
	"github.com/gin-gonic/gin"

	"github.com/spicehut/food-order-app/utils"
)

// WebSocketAuthMiddleware authenticates websocket upgrades. Browsers can't
// set an Authorization header on a WebSocket handshake, so the token rides
// in the query string.
func WebSocketAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.AbortWithStatus(401)
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			c.AbortWithStatus(401)
			return
		}

		c.Set("uid", claims.UID)
		c.Set("role", claims.Role)
		c.Next()
	}
}
